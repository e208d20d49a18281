package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	discordrouter "github.com/bosscape/lfg-bot/internal/adapters/discord"
	"github.com/bosscape/lfg-bot/internal/adapters/hiscores"
	"github.com/bosscape/lfg-bot/internal/adapters/web"
	"github.com/bosscape/lfg-bot/internal/app/service"
	"github.com/bosscape/lfg-bot/internal/infra/config"
	"github.com/bosscape/lfg-bot/internal/infra/logging"
	"github.com/bosscape/lfg-bot/internal/infra/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Levanta el bot, el loop de sync y la web",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logging.Init(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	},
}

func run(ctx context.Context, cfg config.Config) error {
	log := logging.WithComponent("main")

	// DB
	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info().Msg("✅ DB lista y migrada")

	cat, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return err
	}

	// Repos
	users := storage.NewUserRepo(db)
	queues := storage.NewQueueRepo(db)
	notes := storage.NewNotificationRepo(db)
	snapshots := storage.NewSnapshotRepo(db)

	hs := hiscores.New(hiscores.WithBaseURL(cfg.HiscoresBaseURL))

	// Discord session
	auth := strings.TrimSpace(cfg.DiscordToken)
	if !strings.HasPrefix(strings.ToLower(auth), "bot ") {
		auth = "Bot " + auth
	}
	s, err := discordgo.New(auth)
	if err != nil {
		return err
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	if err := s.Open(); err != nil {
		return fmt.Errorf("discord open: %w", err)
	}
	defer s.Close()
	log.Info().Str("user", s.State.User.Username).Str("id", s.State.User.ID).Msg("✅ conectado a Discord")

	// emojis custom del guild como badges de rol; sin ellos quedan los del catálogo
	badges := discordrouter.NewRoleBadges(cat)
	if emojis, err := s.GuildEmojis(cfg.DiscordGuild); err != nil {
		log.Warn().Err(err).Msg("guild emojis")
	} else {
		badges.Discover(cat, emojis)
	}

	chat := discordrouter.NewChat(s, discordrouter.ChatConfig{
		GuildID:          cfg.DiscordGuild,
		LFGChannelID:     cfg.LFGChannelID,
		ArchiveChannelID: cfg.ArchiveChannelID,
		CategoryID:       cfg.VoiceCategoryID,
		BotUserID:        s.State.User.ID,
	}, badges)

	// Services
	now := service.SystemClock
	archiver := service.NewArchiver(queues, chat, now)
	voice := service.NewVoiceService(queues, notes, chat, cfg.VoiceCategoryID, now)
	rec := service.NewReconciler(queues, chat, voice, archiver, cfg.SyncInterval, now)
	queueSvc := service.NewQueueService(users, queues, archiver, rec, now)
	linkSvc := service.NewLinkService(users, snapshots, notes, hs, now)

	// Router
	r := discordrouter.NewRouter(s, cfg, cat, discordrouter.RouterDeps{
		Queue: queueSvc,
		Link:  linkSvc,
		Sync:  rec,
		Voice: voice,
	})
	if err := r.Register(); err != nil {
		return fmt.Errorf("registrando comandos: %w", err)
	}
	r.Handlers()
	log.Info().Str("guild", cfg.DiscordGuild).Msg("✅ comandos registrados")

	go rec.Run(ctx)

	deps := web.Deps{Queues: queueSvc, Accounts: linkSvc, Catalog: cat, Now: now}
	if cfg.WebEnabled() {
		deps.Sessions = web.NewSessions(cfg.SessionSecret, 0, strings.HasPrefix(cfg.OAuthRedirectURL, "https://"))
		deps.OAuth = web.OAuthConfig{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
		}
	} else {
		log.Info().Msg("web login deshabilitado (sin DISCORD_CLIENT_ID)")
	}
	errc := make(chan error, 1)
	go func() { errc <- web.New(deps).Start(ctx, cfg.HTTPAddr) }()

	select {
	case <-ctx.Done():
		log.Info().Msg("apagando")
		<-errc
		return nil
	case err := <-errc:
		return fmt.Errorf("http: %w", err)
	}
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
