package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/bosscape/lfg-bot/internal/app/service"
	"github.com/bosscape/lfg-bot/internal/domain"
	"github.com/bosscape/lfg-bot/internal/infra/config"
	"github.com/bosscape/lfg-bot/internal/infra/logging"
	"github.com/bosscape/lfg-bot/internal/infra/metrics"
)

// Queues lo implementa *service.QueueService.
type Queues interface {
	Create(ctx context.Context, p service.CreateParams) (int64, error)
	Join(ctx context.Context, queueID int64, userID string) error
	Leave(ctx context.Context, queueID int64, userID string) (service.LeaveResult, error)
	Kick(ctx context.Context, queueID int64, requesterID, targetID string) (domain.QueueMember, error)
	ListActive(ctx context.Context) ([]domain.Queue, error)
}

// Accounts lo implementa *service.LinkService.
type Accounts interface {
	Link(ctx context.Context, discordID, rsn string) (string, error)
	WhoAmI(ctx context.Context, discordID string) (domain.User, error)
	Notifications(ctx context.Context, discordID string) ([]domain.Notification, error)
}

type Deps struct {
	Queues   Queues
	Accounts Accounts
	Catalog  config.Catalog
	// nil = sólo /healthz y /metrics
	Sessions *Sessions
	OAuth    OAuthConfig
	Now      func() time.Time
}

type Server struct {
	engine *gin.Engine
	deps   Deps
	login  *discordLogin
	log    zerolog.Logger
}

func New(deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = service.SystemClock
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{engine: gin.New(), deps: deps, log: logging.WithComponent("web")}
	s.engine.Use(gin.Recovery(), s.requestLog())
	if deps.Sessions != nil {
		s.login = newDiscordLogin(deps.OAuth, deps.Sessions, s.log)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	if s.login == nil {
		return
	}

	s.engine.GET("/login", s.login.handleLogin)
	s.engine.GET("/callback", s.login.handleCallback)
	s.engine.POST("/logout", func(c *gin.Context) {
		s.deps.Sessions.ClearCookie(c)
		c.JSON(http.StatusOK, MessageResponse{Message: "Logged out."})
	})

	auth := s.engine.Group("/", s.deps.Sessions.Middleware())
	auth.GET("/me", s.handleMe)
	auth.POST("/link", s.handleLink)
	auth.GET("/notifications", s.handleNotifications)
	auth.GET("/queues", s.handleListQueues)
	auth.POST("/queues", s.handleCreateQueue)
	auth.POST("/queues/:id/join", s.handleJoin)
	auth.POST("/queues/:id/leave", s.handleLeave)
	auth.POST("/queues/:id/kick/:target", s.handleKick)
}

// Start sirve hasta que ctx se cancele y hace shutdown ordenado.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http listening")
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
