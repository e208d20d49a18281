package service

import (
	"context"
	"time"

	"github.com/bosscape/lfg-bot/internal/app/present"
	"github.com/bosscape/lfg-bot/internal/domain"
)

// Lo implementa internal/infra/storage.UserRepo
type UserRepo interface {
	GetByDiscordID(ctx context.Context, discordID string) (domain.User, error)
	UpsertLink(ctx context.Context, discordID, rsn string) (bool, error)
	NamesByDiscordIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// Lo implementa internal/infra/storage.QueueRepo
type QueueRepo interface {
	CreateWithHost(ctx context.Context, q domain.Queue, host domain.QueueMember) (int64, error)
	Get(ctx context.Context, id int64) (domain.Queue, error)
	ListActive(ctx context.Context, now time.Time) ([]domain.Queue, error)
	ListExpired(ctx context.Context, now time.Time) ([]domain.Queue, error)
	AddMember(ctx context.Context, m domain.QueueMember, now time.Time) error
	RemoveMember(ctx context.Context, queueID int64, discordID string) (domain.QueueMember, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SetMessage(ctx context.Context, id int64, ref domain.MessageRef) error
	ClaimVoice(ctx context.Context, id int64, staleAfter time.Duration) (bool, error)
	SetVoiceChannel(ctx context.Context, id int64, channelID string) error
	ReleaseVoiceClaim(ctx context.Context, id int64) error
}

type NotificationRepo interface {
	Add(ctx context.Context, discordID, message string) error
	ListFor(ctx context.Context, discordID string, limit int) ([]domain.Notification, error)
}

type SnapshotRepo interface {
	Add(ctx context.Context, s domain.StatSnapshot) error
	Latest(ctx context.Context, discordID string) (domain.StatSnapshot, error)
}

// Lo implementa internal/adapters/hiscores.Client
type Hiscores interface {
	Lookup(ctx context.Context, rsn string) (domain.Hiscore, error)
}

// Chat es lo que el core necesita de Discord. Devuelve
// domain.ErrRemoteNotFound cuando el mensaje/canal ya no existe.
// Lo implementa internal/adapters/discord.Chat
type Chat interface {
	SendQueue(ctx context.Context, s present.Summary) (domain.MessageRef, error)
	EditQueue(ctx context.Context, ref domain.MessageRef, s present.Summary) error
	DeleteMessage(ctx context.Context, ref domain.MessageRef) error
	PostArchive(ctx context.Context, s present.Summary) error
	CreateVoiceChannel(ctx context.Context, name string) (domain.ChannelRef, error)
	DeleteVoiceChannel(ctx context.Context, channelID string) error
	AnnounceFull(ctx context.Context, s present.Summary, ch domain.ChannelRef, mentions []string) error
}

// Refresher recibe avisos de que una cola cambió (lo implementa Reconciler).
type Refresher interface {
	Nudge()
}

// Clock permite fijar "ahora" en tests. Siempre UTC.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now().UTC() }
