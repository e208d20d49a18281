package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bosscape/lfg-bot/internal/app/present"
	"github.com/bosscape/lfg-bot/internal/domain"
	"github.com/bosscape/lfg-bot/internal/infra/logging"
	"github.com/bosscape/lfg-bot/internal/infra/metrics"
)

// Un claim más viejo que esto se considera abandonado (crash a mitad de creación).
const VoiceClaimTTL = 2 * time.Minute

var ErrAlreadyProvisioned = errors.New("voice already provisioned or claimed")

// Intentos para persistir la ref del canal antes de borrarlo y soltar el claim.
const saveVoiceAttempts = 3

const cleanupTimeout = 10 * time.Second

type VoiceService struct {
	queues     QueueRepo
	notes      NotificationRepo
	chat       Chat
	categoryID string
	now        Clock
	log        zerolog.Logger
	// pausa entre reintentos de SetVoiceChannel
	saveRetryWait time.Duration
}

func NewVoiceService(queues QueueRepo, notes NotificationRepo, chat Chat, categoryID string, now Clock) *VoiceService {
	if now == nil {
		now = SystemClock
	}
	return &VoiceService{
		queues:     queues,
		notes:      notes,
		chat:       chat,
		categoryID: categoryID,
		now:        now,
		log:        logging.WithComponent("voice"),

		saveRetryWait: 200 * time.Millisecond,
	}
}

func ChannelName(q domain.Queue) string {
	return fmt.Sprintf("%s - Team %d", q.Activity, q.ID)
}

// Provision crea el canal de voz de una cola llena, a lo sumo una vez.
func (v *VoiceService) Provision(ctx context.Context, q domain.Queue) (domain.ChannelRef, error) {
	if q.VoiceChannelID != "" {
		return domain.ChannelRef{}, ErrAlreadyProvisioned
	}
	ok, err := v.queues.ClaimVoice(ctx, q.ID, VoiceClaimTTL)
	if err != nil {
		return domain.ChannelRef{}, fmt.Errorf("claim voice: %w", err)
	}
	if !ok {
		return domain.ChannelRef{}, ErrAlreadyProvisioned
	}
	l := v.log.With().Int64("queue_id", q.ID).Logger()

	ch, err := v.chat.CreateVoiceChannel(ctx, ChannelName(q))
	if err != nil {
		if rerr := v.queues.ReleaseVoiceClaim(ctx, q.ID); rerr != nil {
			l.Warn().Err(rerr).Msg("release voice claim")
		}
		return domain.ChannelRef{}, fmt.Errorf("create voice channel: %w", err)
	}
	metrics.VoiceChannelsCreated.Inc()

	if err := v.saveChannel(ctx, q.ID, ch.ID); err != nil {
		// un canal sin ref persistida nunca se limpia: se borra ya
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		switch derr := v.chat.DeleteVoiceChannel(cctx, ch.ID); {
		case derr == nil:
			metrics.VoiceChannelsDeleted.Inc()
		case !errors.Is(derr, domain.ErrRemoteNotFound):
			l.Error().Err(derr).Str("channel_id", ch.ID).Msg("delete unsaved voice channel")
		}
		if !errors.Is(err, domain.ErrNotFound) {
			if rerr := v.queues.ReleaseVoiceClaim(cctx, q.ID); rerr != nil {
				l.Warn().Err(rerr).Msg("release voice claim")
			}
		}
		return domain.ChannelRef{}, fmt.Errorf("persist voice channel: %w", err)
	}
	l.Info().Str("channel_id", ch.ID).Str("name", ch.Name).Msg("voice channel created")

	s := present.Build(q, v.now())
	if err := v.chat.AnnounceFull(ctx, s, ch, q.Mentions()); err != nil {
		l.Warn().Err(err).Msg("announce full")
	}
	msg := fmt.Sprintf("Your %s group is full! Join voice: %s", q.Activity, ch.JumpURL)
	for _, m := range q.Members {
		if err := v.notes.Add(ctx, m.DiscordID, msg); err != nil {
			l.Warn().Err(err).Str("member", m.DiscordID).Msg("add notification")
		}
	}
	return ch, nil
}

// saveChannel reintenta errores transitorios; ErrNotFound (cola archivada) corta.
func (v *VoiceService) saveChannel(ctx context.Context, queueID int64, channelID string) error {
	var err error
	for attempt := 1; attempt <= saveVoiceAttempts; attempt++ {
		err = v.queues.SetVoiceChannel(ctx, queueID, channelID)
		if err == nil || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		v.log.Warn().Err(err).Int64("queue_id", queueID).Int("attempt", attempt).Msg("set voice channel")
		if attempt == saveVoiceAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(v.saveRetryWait):
		}
	}
	return err
}

// OccupancyChange describe un canal de voz tras un cambio de estado.
type OccupancyChange struct {
	ChannelID string
	ParentID  string
	Members   int
}

// HandleOccupancy borra el canal gestionado cuando queda vacío.
// No toca la cola: su ref de voz se mantiene para no re-provisionar.
func (v *VoiceService) HandleOccupancy(ctx context.Context, c OccupancyChange) (bool, error) {
	if c.ChannelID == "" || c.Members > 0 || c.ParentID != v.categoryID {
		return false, nil
	}
	err := v.chat.DeleteVoiceChannel(ctx, c.ChannelID)
	if errors.Is(err, domain.ErrRemoteNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete voice channel %s: %w", c.ChannelID, err)
	}
	metrics.VoiceChannelsDeleted.Inc()
	v.log.Info().Str("channel_id", c.ChannelID).Msg("empty voice channel deleted")
	return true, nil
}
