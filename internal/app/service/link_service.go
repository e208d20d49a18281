package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bosscape/lfg-bot/internal/domain"
	"github.com/bosscape/lfg-bot/internal/infra/logging"
)

// LinkService maneja la identidad (discord id ↔ RSN) y las consultas de stats.
type LinkService struct {
	users     UserRepo
	snapshots SnapshotRepo
	notes     NotificationRepo
	hiscores  Hiscores
	now       Clock
	log       zerolog.Logger
}

func NewLinkService(users UserRepo, snapshots SnapshotRepo, notes NotificationRepo, hs Hiscores, now Clock) *LinkService {
	if now == nil {
		now = SystemClock
	}
	return &LinkService{
		users:     users,
		snapshots: snapshots,
		notes:     notes,
		hiscores:  hs,
		now:       now,
		log:       logging.WithComponent("link"),
	}
}

// Link crea o actualiza el RSN del usuario y devuelve el texto para responder.
func (s *LinkService) Link(ctx context.Context, discordID, rsn string) (string, error) {
	rsn = strings.TrimSpace(rsn)
	if err := domain.ValidateRSN(rsn); err != nil {
		return "", err
	}
	created, err := s.users.UpsertLink(ctx, discordID, rsn)
	if err != nil {
		return "", fmt.Errorf("upsert link: %w", err)
	}
	s.log.Info().Str("discord_id", discordID).Str("rsn", rsn).Bool("created", created).Msg("rsn linked")
	if created {
		return fmt.Sprintf("Linked your account to **%s**.", rsn), nil
	}
	return fmt.Sprintf("Updated your RSN to **%s**.", rsn), nil
}

func (s *LinkService) WhoAmI(ctx context.Context, discordID string) (domain.User, error) {
	u, err := s.users.GetByDiscordID(ctx, discordID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrNotLinked
	}
	return u, err
}

type StatsView struct {
	Hiscore domain.Hiscore
	Combat  float64
	// CombatOK es false si falta algún nivel de combate.
	CombatOK bool
}

// Stats consulta los hiscores de rsn (o del RSN vinculado si viene vacío).
// Las consultas del propio RSN quedan guardadas como snapshot.
func (s *LinkService) Stats(ctx context.Context, requesterID, rsn string) (StatsView, error) {
	rsn = strings.TrimSpace(rsn)
	own := false
	if rsn == "" {
		u, err := s.WhoAmI(ctx, requesterID)
		if err != nil {
			return StatsView{}, err
		}
		rsn, own = u.RSN, true
	} else if err := domain.ValidateRSN(rsn); err != nil {
		return StatsView{}, err
	}

	hs, err := s.hiscores.Lookup(ctx, rsn)
	if err != nil {
		return StatsView{}, err
	}
	cb, ok := domain.CombatLevel(hs.Levels())
	if own && s.snapshots != nil {
		err := s.snapshots.Add(ctx, domain.StatSnapshot{DiscordID: requesterID, TakenAt: s.now(), Stats: hs})
		if err != nil {
			s.log.Warn().Err(err).Str("discord_id", requesterID).Msg("save snapshot")
		}
	}
	return StatsView{Hiscore: hs, Combat: cb, CombatOK: ok}, nil
}

const notificationsLimit = 20

func (s *LinkService) Notifications(ctx context.Context, discordID string) ([]domain.Notification, error) {
	return s.notes.ListFor(ctx, discordID, notificationsLimit)
}
