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

const DefaultSyncInterval = 5 * time.Second

// Reconciler mantiene Discord alineado con el store. Un solo goroutine
// corre los ticks, así que nunca se solapan dentro del proceso.
type Reconciler struct {
	queues   QueueRepo
	chat     Chat
	voice    *VoiceService
	archiver *Archiver
	interval time.Duration
	now      Clock
	log      zerolog.Logger

	nudge chan struct{}
	force chan chan TickReport
}

type TickReport struct {
	Active      int
	Sent        int
	Edited      int
	Provisioned int
	Archived    int
	Errors      int
}

func NewReconciler(queues QueueRepo, chat Chat, voice *VoiceService, archiver *Archiver, interval time.Duration, now Clock) *Reconciler {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if now == nil {
		now = SystemClock
	}
	return &Reconciler{
		queues:   queues,
		chat:     chat,
		voice:    voice,
		archiver: archiver,
		interval: interval,
		now:      now,
		log:      logging.WithComponent("reconciler"),
		nudge:    make(chan struct{}, 1),
		force:    make(chan chan TickReport),
	}
}

// Nudge pide un tick pronto. Varios nudges seguidos se colapsan en uno.
func (r *Reconciler) Nudge() {
	select {
	case r.nudge <- struct{}{}:
	default:
	}
}

// Run bloquea hasta que ctx se cancele.
func (r *Reconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	r.log.Info().Dur("interval", r.interval).Msg("loop started")

	r.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("loop stopped")
			return
		case <-t.C:
			r.Tick(ctx)
		case <-r.nudge:
			r.Tick(ctx)
		case reply := <-r.force:
			reply <- r.Tick(ctx)
		}
	}
}

// Sync corre un tick dentro del loop y espera el resultado (para /lfgsync).
func (r *Reconciler) Sync(ctx context.Context) (TickReport, error) {
	reply := make(chan TickReport, 1)
	select {
	case r.force <- reply:
	case <-ctx.Done():
		return TickReport{}, ctx.Err()
	}
	select {
	case rep := <-reply:
		return rep, nil
	case <-ctx.Done():
		return TickReport{}, ctx.Err()
	}
}

// Tick es una pasada completa e idempotente.
func (r *Reconciler) Tick(ctx context.Context) TickReport {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.TickDuration)
	metrics.TicksTotal.Inc()

	var rep TickReport
	now := r.now()

	active, err := r.queues.ListActive(ctx, now)
	if err != nil {
		r.log.Error().Err(err).Msg("list active")
		metrics.ItemErrorsTotal.WithLabelValues("list").Inc()
		rep.Errors++
	}
	rep.Active = len(active)
	metrics.ActiveQueues.Set(float64(len(active)))

	for _, q := range active {
		r.guard(q.ID, func(step *string) error { return r.syncActive(ctx, q, now, &rep, step) }, &rep)
	}

	// expiración después del pase activo: gana sobre cualquier otra cosa
	expired, err := r.queues.ListExpired(ctx, now)
	if err != nil {
		r.log.Error().Err(err).Msg("list expired")
		metrics.ItemErrorsTotal.WithLabelValues("list").Inc()
		rep.Errors++
	}
	for _, q := range expired {
		r.guard(q.ID, func(step *string) error {
			*step = "expire"
			if err := r.archiver.Archive(ctx, q, ReasonExpired); err != nil {
				return err
			}
			rep.Archived++
			return nil
		}, &rep)
	}

	r.log.Debug().
		Int("active", rep.Active).
		Int("sent", rep.Sent).
		Int("edited", rep.Edited).
		Int("provisioned", rep.Provisioned).
		Int("archived", rep.Archived).
		Int("errors", rep.Errors).
		Dur("took", timer.Duration()).
		Msg("tick")
	return rep
}

// syncActive: embed primero, voz después. Si falla el embed no se sigue con esta cola.
func (r *Reconciler) syncActive(ctx context.Context, q domain.Queue, now time.Time, rep *TickReport, step *string) error {
	*step = "sync"
	if err := r.syncMessage(ctx, q, now, rep); err != nil {
		return err
	}
	if !q.IsFull() || q.VoiceChannelID != "" {
		return nil
	}
	*step = "voice"
	_, err := r.voice.Provision(ctx, q)
	if errors.Is(err, ErrAlreadyProvisioned) {
		return nil
	}
	if err != nil {
		return err
	}
	rep.Provisioned++
	return nil
}

func (r *Reconciler) syncMessage(ctx context.Context, q domain.Queue, now time.Time, rep *TickReport) error {
	s := present.Build(q, now)
	if q.Message != nil {
		err := r.chat.EditQueue(ctx, *q.Message, s)
		if err == nil {
			rep.Edited++
			return nil
		}
		if !errors.Is(err, domain.ErrRemoteNotFound) {
			return fmt.Errorf("edit message: %w", err)
		}
		r.log.Info().Int64("queue_id", q.ID).Msg("live message missing, re-sending")
	}

	ref, err := r.chat.SendQueue(ctx, s)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if err := r.queues.SetMessage(ctx, q.ID, ref); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// la cola desapareció entre el listado y ahora
			if derr := r.chat.DeleteMessage(ctx, ref); derr != nil && !errors.Is(derr, domain.ErrRemoteNotFound) {
				r.log.Warn().Err(derr).Int64("queue_id", q.ID).Msg("delete orphan message")
			}
			return nil
		}
		return fmt.Errorf("persist message ref: %w", err)
	}
	rep.Sent++
	return nil
}

// guard aísla un ítem: errores y panics se registran y el resto del tick sigue.
func (r *Reconciler) guard(queueID int64, fn func(step *string) error, rep *TickReport) {
	step := "start"
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Int64("queue_id", queueID).Str("step", step).Interface("panic", rec).Msg("recovered")
			metrics.ItemErrorsTotal.WithLabelValues(step).Inc()
			rep.Errors++
		}
	}()
	if err := fn(&step); err != nil {
		r.log.Error().Err(err).Int64("queue_id", queueID).Str("step", step).Msg("step failed")
		metrics.ItemErrorsTotal.WithLabelValues(step).Inc()
		rep.Errors++
	}
}
