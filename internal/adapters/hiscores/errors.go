package hiscores

import (
	"fmt"

	"github.com/bosscape/lfg-bot/internal/domain"
)

// APIError es una respuesta no-2xx distinta de 404.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hiscores status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error { return domain.ErrRemoteUnavailable }
