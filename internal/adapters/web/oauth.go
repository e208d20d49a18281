package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	stateCookie        = "lfg_oauth_state"
	discordUserInfoURL = "https://discord.com/api/users/@me"
)

var DiscordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// vacíos = endpoints reales de Discord
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

// discordLogin implementa el code flow de OAuth2 con Discord.
type discordLogin struct {
	conf     *oauth2.Config
	userInfo string
	sessions *Sessions
	log      zerolog.Logger
}

func newDiscordLogin(cfg OAuthConfig, sessions *Sessions, log zerolog.Logger) *discordLogin {
	ep := cfg.Endpoint
	if ep.AuthURL == "" {
		ep = DiscordEndpoint
	}
	ui := cfg.UserInfoURL
	if ui == "" {
		ui = discordUserInfoURL
	}
	return &discordLogin{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     ep,
			Scopes:       []string{"identify"},
		},
		userInfo: ui,
		sessions: sessions,
		log:      log,
	}
}

func (l *discordLogin) handleLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", "", l.sessions.secure, true)
	c.Redirect(http.StatusFound, l.conf.AuthCodeURL(state))
}

func (l *discordLogin) handleCallback(c *gin.Context) {
	want, err := c.Cookie(stateCookie)
	if err != nil || want == "" || c.Query("state") != want {
		errorJSON(c, http.StatusBadRequest, "BAD_STATE", "Login expired, please try again.")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", l.sessions.secure, true)

	code := c.Query("code")
	if code == "" {
		errorJSON(c, http.StatusBadRequest, "NO_CODE", "Missing authorization code.")
		return
	}
	tok, err := l.conf.Exchange(c.Request.Context(), code)
	if err != nil {
		l.log.Warn().Err(err).Msg("oauth exchange")
		errorJSON(c, http.StatusBadGateway, "OAUTH_FAILED", "Discord login failed.")
		return
	}
	u, err := l.fetchUser(c.Request.Context(), tok)
	if err != nil {
		l.log.Warn().Err(err).Msg("oauth user info")
		errorJSON(c, http.StatusBadGateway, "OAUTH_FAILED", "Discord login failed.")
		return
	}
	session, err := l.sessions.Issue(u.ID, u.Username)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "SESSION", "Could not start session.")
		return
	}
	l.sessions.SetCookie(c, session)
	l.log.Info().Str("discord_id", u.ID).Msg("web login")
	c.Redirect(http.StatusFound, "/queues")
}

type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (l *discordLogin) fetchUser(ctx context.Context, tok *oauth2.Token) (discordUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.userInfo, nil)
	if err != nil {
		return discordUser{}, err
	}
	res, err := l.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return discordUser{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return discordUser{}, fmt.Errorf("users/@me status %d: %s", res.StatusCode, b)
	}
	var u discordUser
	if err := json.NewDecoder(res.Body).Decode(&u); err != nil {
		return discordUser{}, err
	}
	if u.ID == "" {
		return discordUser{}, fmt.Errorf("users/@me: empty id")
	}
	return u, nil
}
