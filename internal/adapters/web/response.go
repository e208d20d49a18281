package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bosscape/lfg-bot/internal/app/service"
	"github.com/bosscape/lfg-bot/internal/domain"
)

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse: Code es para clientes, Message para humanos.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: msg})
}

// fail traduce un error del core a status + código + texto.
func (s *Server) fail(c *gin.Context, op string, err error) {
	msg, ok := service.Describe(err)
	if !ok {
		s.log.Error().Err(err).Str("op", op).Msg("unexpected error")
	}
	status, code := classify(err)
	errorJSON(c, status, code, msg)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrNotLinked):
		return http.StatusForbidden, "NOT_LINKED"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrAlreadyMember):
		return http.StatusConflict, "ALREADY_MEMBER"
	case errors.Is(err, domain.ErrFull):
		return http.StatusConflict, "FULL"
	case errors.Is(err, domain.ErrSelfKick):
		return http.StatusConflict, "SELF_KICK"
	case errors.Is(err, domain.ErrNotMember):
		return http.StatusConflict, "NOT_MEMBER"
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable, "UNAVAILABLE"
	}
	return http.StatusInternalServerError, "INTERNAL"
}
