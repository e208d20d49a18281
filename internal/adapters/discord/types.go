package discord

import (
	"context"

	"github.com/bosscape/lfg-bot/internal/app/service"
	"github.com/bosscape/lfg-bot/internal/domain"
)

// QueueActions es todo lo que los botones y comandos pueden pedirle al core.
// Lo implementa *service.QueueService.
type QueueActions interface {
	Create(ctx context.Context, p service.CreateParams) (int64, error)
	Join(ctx context.Context, queueID int64, userID string) error
	Leave(ctx context.Context, queueID int64, userID string) (service.LeaveResult, error)
	Kick(ctx context.Context, queueID int64, requesterID, targetID string) (domain.QueueMember, error)
	Get(ctx context.Context, queueID int64) (domain.Queue, error)
	ListActive(ctx context.Context) ([]domain.Queue, error)
}

// Lo implementa *service.LinkService.
type LinkActions interface {
	Link(ctx context.Context, discordID, rsn string) (string, error)
	WhoAmI(ctx context.Context, discordID string) (domain.User, error)
	Stats(ctx context.Context, requesterID, rsn string) (service.StatsView, error)
}

// Syncer fuerza un tick del loop (lo implementa *service.Reconciler).
type Syncer interface {
	Sync(ctx context.Context) (service.TickReport, error)
}

// OccupancyHandler recibe cambios de ocupación de canales de voz.
type OccupancyHandler interface {
	HandleOccupancy(ctx context.Context, c service.OccupancyChange) (bool, error)
}
