package service

import (
	"errors"

	"github.com/bosscape/lfg-bot/internal/domain"
)

// Describe traduce errores del core a texto para el usuario.
// ok=false si el error no es de negocio (hay que loguearlo).
func Describe(err error) (string, bool) {
	switch {
	case err == nil:
		return "", true
	case errors.Is(err, domain.ErrInvalidSize):
		return "❌ Group size must be between 2 and 100.", true
	case errors.Is(err, domain.ErrInvalidExpiry):
		return "❌ Expiration must be in intervals of 5 minutes, up to 180.", true
	case errors.Is(err, domain.ErrInvalidNote):
		return "❌ Notes can be at most 100 characters.", true
	case errors.Is(err, domain.ErrInvalidName):
		return "❌ That doesn't look like a valid RSN (1-12 letters, numbers, spaces, - or _).", true
	case errors.Is(err, domain.ErrInvalidInput):
		return "❌ Invalid input.", true
	case errors.Is(err, domain.ErrNotLinked):
		return "❌ You must link your RSN first! Use `/link` in Discord or the website.", true
	case errors.Is(err, domain.ErrAlreadyMember):
		return "⚠️ You are already in this queue.", true
	case errors.Is(err, domain.ErrFull):
		return "❌ Queue is full.", true
	case errors.Is(err, domain.ErrForbidden):
		return "🔒 Only the host can do that.", true
	case errors.Is(err, domain.ErrSelfKick):
		return "❌ You cannot kick yourself.", true
	case errors.Is(err, domain.ErrNotMember):
		return "⚠️ You are not in this queue.", true
	case errors.Is(err, domain.ErrNotFound):
		return "❌ Queue not found (it may have expired).", true
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return "⚠️ The service is unavailable right now, try again in a moment.", true
	}
	return "⚠️ Something went wrong.", false
}
