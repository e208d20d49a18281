package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput agrupa los errores de validación; se usa con errors.Is.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrInvalidSize   = fmt.Errorf("%w: group size must be between %d and %d", ErrInvalidInput, MinGroupSize, MaxGroupSize)
	ErrInvalidExpiry = fmt.Errorf("%w: expiry must be a multiple of %d minutes up to %d", ErrInvalidInput, ExpiryStepMinutes, MaxExpiryMinutes)
	ErrInvalidNote   = fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, MaxNoteLength)
	ErrInvalidName   = fmt.Errorf("%w: invalid RSN", ErrInvalidInput)
)

var (
	ErrNotLinked     = errors.New("rsn not linked")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyMember = errors.New("already a member")
	ErrFull          = errors.New("queue is full")
	ErrForbidden     = errors.New("forbidden")
	ErrSelfKick      = errors.New("cannot kick yourself")
	ErrNotMember     = errors.New("not a member")
)

// Errores del lado remoto (Discord, hiscores).
var (
	ErrRemoteNotFound    = errors.New("remote object not found")
	ErrRemoteUnavailable = errors.New("remote unavailable")
)
