package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/bosscape/lfg-bot/internal/infra/config"
	"github.com/bosscape/lfg-bot/internal/infra/logging"
)

type Router struct {
	s       *discordgo.Session
	guildID string
	// categoría de los canales de voz gestionados
	categoryID   string
	adminRoleIDs []string

	catalog config.Catalog

	queue  QueueActions
	link   LinkActions
	sync   Syncer
	voice  OccupancyHandler
	clicks *userLimiter
	log    zerolog.Logger
}

type RouterDeps struct {
	Queue QueueActions
	Link  LinkActions
	Sync  Syncer
	Voice OccupancyHandler
}

func NewRouter(s *discordgo.Session, cfg config.Config, cat config.Catalog, deps RouterDeps) *Router {
	return &Router{
		s:            s,
		guildID:      cfg.DiscordGuild,
		categoryID:   cfg.VoiceCategoryID,
		adminRoleIDs: cfg.AdminRoleIDs,
		catalog:      cat,
		queue:        deps.Queue,
		link:         deps.Link,
		sync:         deps.Sync,
		voice:        deps.Voice,
		clicks:       newUserLimiter(time.Second),
		log:          logging.WithComponent("router"),
	}
}

// Register publica los slash commands en el guild.
func (r *Router) Register() error {
	appID := r.s.State.User.ID
	_, err := r.s.ApplicationCommandBulkOverwrite(appID, r.guildID, Commands)
	return err
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.GuildID != r.guildID || ic.Member == nil || ic.Member.User == nil {
			return
		}
		switch ic.Type {
		case discordgo.InteractionApplicationCommand:
			r.handleSlashCommand(s, ic)
		case discordgo.InteractionMessageComponent:
			r.handleMessageComponent(s, ic)
		case discordgo.InteractionModalSubmit:
			r.handleModalSubmit(s, ic)
		}
	})
	r.s.AddHandler(r.onVoiceStateUpdate)
}

// recoverInteraction evita que un panic en un handler tumbe el proceso.
func (r *Router) recoverInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate, what string) {
	if rec := recover(); rec != nil {
		r.log.Error().Interface("panic", rec).Str("interaction", what).Str("user", ic.Member.User.ID).Msg("recovered")
		ReplyEphemeral(s, ic, "❌ Unexpected error processing this action. Please contact an administrator.")
	}
}
