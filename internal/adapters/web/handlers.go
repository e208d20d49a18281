package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bosscape/lfg-bot/internal/app/present"
	"github.com/bosscape/lfg-bot/internal/app/service"
	"github.com/bosscape/lfg-bot/internal/domain"
)

func userID(c *gin.Context) string { return c.GetString(ctxUserID) }

func queueIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorJSON(c, http.StatusBadRequest, "INVALID_QUEUE_ID", "Invalid queue id.")
		return 0, false
	}
	return id, true
}

type meResponse struct {
	DiscordID string    `json:"discord_id"`
	Username  string    `json:"username"`
	RSN       string    `json:"rsn,omitempty"`
	LinkedAt  time.Time `json:"linked_at,omitempty"`
	Linked    bool      `json:"linked"`
}

func (s *Server) handleMe(c *gin.Context) {
	resp := meResponse{DiscordID: userID(c), Username: c.GetString(ctxUserName)}
	u, err := s.deps.Accounts.WhoAmI(c.Request.Context(), userID(c))
	switch {
	case err == nil:
		resp.RSN, resp.LinkedAt, resp.Linked = u.RSN, u.LinkedAt, true
	case errors.Is(err, domain.ErrNotLinked):
	default:
		s.fail(c, "me", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type linkRequest struct {
	RSN string `json:"rsn" form:"rsn" binding:"required"`
}

func (s *Server) handleLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBind(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "rsn is required.")
		return
	}
	msg, err := s.deps.Accounts.Link(c.Request.Context(), userID(c), req.RSN)
	if err != nil {
		s.fail(c, "link", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: strings.ReplaceAll(msg, "**", "")})
}

type notificationView struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleNotifications(c *gin.Context) {
	ns, err := s.deps.Accounts.Notifications(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, "notifications", err)
		return
	}
	out := make([]notificationView, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationView{ID: n.ID, Message: n.Message, CreatedAt: n.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

type queueView struct {
	present.Summary
	HostRSN   string    `json:"host_rsn"`
	ExpiresAt time.Time `json:"expires_at"`
	IsMember  bool      `json:"is_member"`
	IsHost    bool      `json:"is_host"`
}

func (s *Server) handleListQueues(c *gin.Context) {
	qs, err := s.deps.Queues.ListActive(c.Request.Context())
	if err != nil {
		s.fail(c, "list queues", err)
		return
	}
	now := s.deps.Now()
	uid := userID(c)
	out := make([]queueView, 0, len(qs))
	for _, q := range qs {
		out = append(out, queueView{
			Summary:   present.Build(q, now),
			HostRSN:   q.HostRSN,
			ExpiresAt: q.ExpiresAt,
			IsMember:  q.IsMember(uid),
			IsHost:    q.CreatedBy == uid,
		})
	}
	c.JSON(http.StatusOK, gin.H{"queues": out})
}

type createRequest struct {
	Activity      string `json:"activity" form:"activity" binding:"required"`
	Role          string `json:"role" form:"role" binding:"required"`
	Size          int    `json:"size" form:"size" binding:"required"`
	ExpiryMinutes int    `json:"expiry_minutes" form:"expiry_minutes" binding:"required"`
	Note          string `json:"note" form:"note"`
}

func (s *Server) handleCreateQueue(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBind(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "activity, role, size and expiry_minutes are required.")
		return
	}
	if !s.deps.Catalog.HasActivity(req.Activity) || !s.deps.Catalog.HasRole(req.Role) {
		errorJSON(c, http.StatusBadRequest, "UNKNOWN_ACTIVITY", "Unknown activity or role.")
		return
	}
	id, err := s.deps.Queues.Create(c.Request.Context(), service.CreateParams{
		CreatorID:     userID(c),
		Activity:      req.Activity,
		Role:          req.Role,
		Size:          req.Size,
		ExpiryMinutes: req.ExpiryMinutes,
		Note:          req.Note,
	})
	if err != nil {
		s.fail(c, "create queue", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Queue created for " + req.Activity + " (" + req.Role + ")!"})
}

func (s *Server) handleJoin(c *gin.Context) {
	id, ok := queueIDParam(c)
	if !ok {
		return
	}
	if err := s.deps.Queues.Join(c.Request.Context(), id, userID(c)); err != nil {
		s.fail(c, "join", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Joined the queue!"})
}

func (s *Server) handleLeave(c *gin.Context) {
	id, ok := queueIDParam(c)
	if !ok {
		return
	}
	res, err := s.deps.Queues.Leave(c.Request.Context(), id, userID(c))
	if err != nil {
		s.fail(c, "leave", err)
		return
	}
	msg := "Left the queue."
	if res == service.LeftDisbanded {
		msg = "Host left: queue disbanded."
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

func (s *Server) handleKick(c *gin.Context) {
	id, ok := queueIDParam(c)
	if !ok {
		return
	}
	m, err := s.deps.Queues.Kick(c.Request.Context(), id, userID(c), c.Param("target"))
	if err != nil {
		s.fail(c, "kick", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Kicked " + m.RSN + "."})
}
