package domain

import "time"

// User es el link entre una identidad de Discord y un RSN.
type User struct {
	DiscordID string
	RSN       string
	LinkedAt  time.Time
}

type Queue struct {
	ID        int64
	Activity  string // boss/raid/evento
	Role      string // Learner, Casual, Sweat...
	GroupSize int
	CreatedBy string // discord id del host
	Note      string
	CreatedAt time.Time
	ExpiresAt time.Time

	Message        *MessageRef // embed vivo en el canal LFG
	VoiceChannelID string      // vacío hasta que se llena

	// Members en orden de llegada (joined_at ASC).
	Members []QueueMember
	// HostRSN sólo se llena en listados web.
	HostRSN string
}

type QueueMember struct {
	QueueID   int64
	DiscordID string
	RSN       string // snapshot al momento del join
	JoinedAt  time.Time
}

// MessageRef apunta a un mensaje de Discord (canal + id).
type MessageRef struct {
	ChannelID string
	MessageID string
}

// ChannelRef es un canal de voz creado para una cola.
type ChannelRef struct {
	ID      string
	Name    string
	JumpURL string
}

type StatSnapshot struct {
	DiscordID string
	TakenAt   time.Time
	Stats     Hiscore
}

type Notification struct {
	ID        int64
	DiscordID string
	Message   string
	CreatedAt time.Time
}

// IsMember indica si discordID ya está en la cola.
func (q Queue) IsMember(discordID string) bool {
	for _, m := range q.Members {
		if m.DiscordID == discordID {
			return true
		}
	}
	return false
}

// Mentions devuelve "<@id>" de cada miembro, en orden de join.
func (q Queue) Mentions() []string {
	out := make([]string, 0, len(q.Members))
	for _, m := range q.Members {
		out = append(out, "<@"+m.DiscordID+">")
	}
	return out
}
