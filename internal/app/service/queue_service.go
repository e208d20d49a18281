package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bosscape/lfg-bot/internal/domain"
	"github.com/bosscape/lfg-bot/internal/infra/logging"
	"github.com/bosscape/lfg-bot/internal/infra/metrics"
)

type QueueService struct {
	users    UserRepo
	queues   QueueRepo
	archiver *Archiver
	refresh  Refresher
	now      Clock
	log      zerolog.Logger
}

func NewQueueService(users UserRepo, queues QueueRepo, archiver *Archiver, refresh Refresher, now Clock) *QueueService {
	if now == nil {
		now = SystemClock
	}
	return &QueueService{
		users:    users,
		queues:   queues,
		archiver: archiver,
		refresh:  refresh,
		now:      now,
		log:      logging.WithComponent("queue"),
	}
}

// SetRefresher conecta el loop después de construir ambos.
func (s *QueueService) SetRefresher(r Refresher) { s.refresh = r }

type CreateParams struct {
	CreatorID     string
	Activity      string
	Role          string
	Size          int
	ExpiryMinutes int
	Note          string
}

// Create valida, persiste la cola y agrega al creador como primer miembro.
func (s *QueueService) Create(ctx context.Context, p CreateParams) (int64, error) {
	creator, err := s.linked(ctx, p.CreatorID)
	if err != nil {
		return 0, err
	}
	p.Activity = strings.TrimSpace(p.Activity)
	p.Role = strings.TrimSpace(p.Role)
	p.Note = strings.TrimSpace(p.Note)
	if p.Activity == "" || p.Role == "" {
		return 0, domain.ErrInvalidInput
	}
	if err := domain.ValidateQueueParams(p.Size, p.ExpiryMinutes); err != nil {
		return 0, err
	}
	if err := domain.ValidateNote(p.Note); err != nil {
		return 0, err
	}

	now := s.now()
	q := domain.Queue{
		Activity:  p.Activity,
		Role:      p.Role,
		GroupSize: p.Size,
		CreatedBy: p.CreatorID,
		Note:      p.Note,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(p.ExpiryMinutes) * time.Minute),
	}
	id, err := s.queues.CreateWithHost(ctx, q, domain.QueueMember{
		DiscordID: p.CreatorID,
		RSN:       creator.RSN,
		JoinedAt:  now,
	})
	s.count("create", err)
	if err != nil {
		return 0, fmt.Errorf("create queue: %w", err)
	}
	s.log.Info().Int64("queue_id", id).Str("activity", q.Activity).Str("by", p.CreatorID).Msg("queue created")
	s.nudge()
	return id, nil
}

func (s *QueueService) Join(ctx context.Context, queueID int64, userID string) error {
	u, err := s.linked(ctx, userID)
	if err != nil {
		return err
	}
	now := s.now()
	err = s.queues.AddMember(ctx, domain.QueueMember{
		QueueID:   queueID,
		DiscordID: userID,
		RSN:       u.RSN,
		JoinedAt:  now,
	}, now)
	s.count("join", err)
	if err != nil {
		return err
	}
	s.nudge()
	return nil
}

type LeaveResult int

const (
	LeftQueue LeaveResult = iota
	LeftDisbanded
)

// Leave: si sale el host, la cola entera se archiva.
func (s *QueueService) Leave(ctx context.Context, queueID int64, userID string) (LeaveResult, error) {
	q, err := s.queues.Get(ctx, queueID)
	if err != nil {
		return LeftQueue, err
	}
	if q.CreatedBy == userID {
		err := s.archiver.Archive(ctx, q, ReasonDisbanded)
		s.count("disband", err)
		if err != nil {
			return LeftDisbanded, err
		}
		return LeftDisbanded, nil
	}

	_, err = s.queues.RemoveMember(ctx, queueID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		err = domain.ErrNotMember
	}
	s.count("leave", err)
	if err != nil {
		return LeftQueue, err
	}
	s.nudge()
	return LeftQueue, nil
}

// Kick: sólo el creador (created_by, no el primero de la lista) puede kickear.
func (s *QueueService) Kick(ctx context.Context, queueID int64, requesterID, targetID string) (domain.QueueMember, error) {
	q, err := s.queues.Get(ctx, queueID)
	if err != nil {
		return domain.QueueMember{}, err
	}
	if q.CreatedBy != requesterID {
		s.count("kick", domain.ErrForbidden)
		return domain.QueueMember{}, domain.ErrForbidden
	}
	if targetID == requesterID {
		s.count("kick", domain.ErrSelfKick)
		return domain.QueueMember{}, domain.ErrSelfKick
	}
	m, err := s.queues.RemoveMember(ctx, queueID, targetID)
	if errors.Is(err, domain.ErrNotFound) {
		err = domain.ErrNotMember
	}
	s.count("kick", err)
	if err != nil {
		return domain.QueueMember{}, err
	}
	s.log.Info().Int64("queue_id", queueID).Str("target", targetID).Msg("member kicked")
	s.nudge()
	return m, nil
}

func (s *QueueService) Get(ctx context.Context, queueID int64) (domain.Queue, error) {
	return s.queues.Get(ctx, queueID)
}

// ListActive devuelve las colas vigentes con el RSN del host resuelto.
func (s *QueueService) ListActive(ctx context.Context) ([]domain.Queue, error) {
	qs, err := s.queues.ListActive(ctx, s.now())
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(qs))
	for _, q := range qs {
		ids = append(ids, q.CreatedBy)
	}
	names, err := s.users.NamesByDiscordIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range qs {
		if n, ok := names[qs[i].CreatedBy]; ok {
			qs[i].HostRSN = n
		} else {
			qs[i].HostRSN = "Unknown"
		}
	}
	return qs, nil
}

func (s *QueueService) linked(ctx context.Context, discordID string) (domain.User, error) {
	u, err := s.users.GetByDiscordID(ctx, discordID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrNotLinked
	}
	return u, err
}

func (s *QueueService) nudge() {
	if s.refresh != nil {
		s.refresh.Nudge()
	}
}

func (s *QueueService) count(op string, err error) {
	res := "ok"
	if err != nil {
		res = resultLabel(err)
	}
	metrics.MutationsTotal.WithLabelValues(op, res).Inc()
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrNotLinked):
		return "not_linked"
	case errors.Is(err, domain.ErrAlreadyMember):
		return "already_member"
	case errors.Is(err, domain.ErrFull):
		return "full"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrSelfKick):
		return "self_kick"
	case errors.Is(err, domain.ErrNotMember):
		return "not_member"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "error"
}
