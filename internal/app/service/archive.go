package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bosscape/lfg-bot/internal/app/present"
	"github.com/bosscape/lfg-bot/internal/domain"
	"github.com/bosscape/lfg-bot/internal/infra/logging"
	"github.com/bosscape/lfg-bot/internal/infra/metrics"
)

const (
	ReasonExpired   = "Expired"
	ReasonDisbanded = "Disbanded by Host"
)

// Archiver retira una cola: borra el embed vivo, publica el archivo y borra la fila.
type Archiver struct {
	queues QueueRepo
	chat   Chat
	now    Clock
	log    zerolog.Logger
}

func NewArchiver(queues QueueRepo, chat Chat, now Clock) *Archiver {
	if now == nil {
		now = SystemClock
	}
	return &Archiver{queues: queues, chat: chat, now: now, log: logging.WithComponent("archive")}
}

// Archive es best-effort con Discord: sólo falla si no se pudo borrar la fila.
func (a *Archiver) Archive(ctx context.Context, q domain.Queue, reason string) error {
	summary := present.BuildArchive(q, reason, a.now())
	l := a.log.With().Int64("queue_id", q.ID).Str("reason", reason).Logger()

	if q.Message != nil {
		err := a.chat.DeleteMessage(ctx, *q.Message)
		if err != nil && !errors.Is(err, domain.ErrRemoteNotFound) {
			l.Warn().Err(err).Msg("delete live message")
		}
	}
	if err := a.chat.PostArchive(ctx, summary); err != nil {
		l.Warn().Err(err).Msg("post archive")
	}
	if _, err := a.queues.Delete(ctx, q.ID); err != nil {
		return fmt.Errorf("delete queue %d: %w", q.ID, err)
	}
	metrics.QueuesArchived.WithLabelValues(reason).Inc()
	l.Info().Int("members", len(q.Members)).Msg("queue archived")
	return nil
}
