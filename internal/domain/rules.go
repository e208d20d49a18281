package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MinGroupSize      = 2
	MaxGroupSize      = 100
	ExpiryStepMinutes = 5
	MaxExpiryMinutes  = 180
	MaxNoteLength     = 100
	MaxRSNLength      = 12
)

// ValidateQueueParams chequea tamaño y expiración de una cola nueva.
func ValidateQueueParams(size, expiryMinutes int) error {
	if size < MinGroupSize || size > MaxGroupSize {
		return ErrInvalidSize
	}
	if expiryMinutes <= 0 || expiryMinutes > MaxExpiryMinutes || expiryMinutes%ExpiryStepMinutes != 0 {
		return ErrInvalidExpiry
	}
	return nil
}

func ValidateNote(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return ErrInvalidNote
	}
	return nil
}

// ValidateRSN acepta letras, dígitos, espacio, '-' y '_' (1..12).
func ValidateRSN(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxRSNLength {
		return ErrInvalidName
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ', r == '-', r == '_':
		default:
			return ErrInvalidName
		}
	}
	return nil
}

// IsFull: miembros >= tamaño objetivo.
func (q Queue) IsFull() bool {
	return len(q.Members) >= q.GroupSize
}
