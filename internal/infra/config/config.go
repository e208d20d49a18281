package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL string

	DiscordToken     string
	DiscordGuild     string
	LFGChannelID     string // canal donde viven los embeds de colas
	ArchiveChannelID string // opcional
	VoiceCategoryID  string // categoría de los canales de voz efímeros
	AdminRoleIDs     []string

	// OAuth2 para la web
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string
	SessionSecret     string

	HTTPAddr        string // default :8080
	SyncInterval    time.Duration
	HiscoresBaseURL string
	CatalogFile     string

	LogLevel string
	LogJSON  bool
}

// Load lee la config del entorno; reporta todas las faltantes juntas.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	var missing []string
	get := func(k string, req bool) string {
		v := strings.TrimSpace(getenv(k))
		if v == "" && req {
			missing = append(missing, k)
		}
		return v
	}

	cfg := Config{
		DatabaseURL:       get("DATABASE_URL", true),
		DiscordToken:      get("DISCORD_BOT_TOKEN", true),
		DiscordGuild:      get("DISCORD_GUILD_ID", true),
		LFGChannelID:      get("DISCORD_LFG_CHANNEL_ID", true),
		ArchiveChannelID:  get("DISCORD_ARCHIVE_CHANNEL_ID", false),
		VoiceCategoryID:   get("DISCORD_CATEGORY_ID", true),
		AdminRoleIDs:      splitList(get("ADMIN_ROLE_IDS", false)),
		OAuthClientID:     get("DISCORD_CLIENT_ID", false),
		OAuthClientSecret: get("DISCORD_CLIENT_SECRET", false),
		OAuthRedirectURL:  get("DISCORD_REDIRECT_URL", false),
		SessionSecret:     get("SESSION_SECRET", false),
		HTTPAddr:          get("HTTP_ADDR", false),
		HiscoresBaseURL:   get("HISCORES_BASE_URL", false),
		CatalogFile:       get("CATALOG_FILE", false),
		LogLevel:          get("LOG_LEVEL", false),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing env: %s", strings.Join(missing, ", "))
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if v := get("LOG_JSON", false); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("LOG_JSON: %w", err)
		}
		cfg.LogJSON = b
	}

	cfg.SyncInterval = 5 * time.Second
	if v := get("SYNC_INTERVAL", false); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("SYNC_INTERVAL: invalid duration %q", v)
		}
		cfg.SyncInterval = d
	}

	// la web es opcional pero si se configura va completa
	if cfg.OAuthClientID != "" && (cfg.OAuthClientSecret == "" || cfg.OAuthRedirectURL == "" || cfg.SessionSecret == "") {
		return Config{}, fmt.Errorf("web login needs DISCORD_CLIENT_SECRET, DISCORD_REDIRECT_URL and SESSION_SECRET")
	}
	return cfg, nil
}

// WebEnabled indica si hay credenciales OAuth para la web.
func (c Config) WebEnabled() bool { return c.OAuthClientID != "" }

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
