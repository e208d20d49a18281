package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQueueParams_Size(t *testing.T) {
	for s := -1; s <= 102; s++ {
		err := ValidateQueueParams(s, 60)
		if s >= 2 && s <= 100 {
			assert.NoError(t, err, "size %d", s)
		} else {
			assert.ErrorIs(t, err, ErrInvalidSize, "size %d", s)
		}
	}
}

func TestValidateQueueParams_Expiry(t *testing.T) {
	for m := -5; m <= 200; m++ {
		err := ValidateQueueParams(3, m)
		if m > 0 && m <= 180 && m%5 == 0 {
			assert.NoError(t, err, "minutes %d", m)
		} else {
			assert.ErrorIs(t, err, ErrInvalidExpiry, "minutes %d", m)
		}
	}

	assert.ErrorIs(t, ValidateQueueParams(3, 63), ErrInvalidExpiry)
	assert.NoError(t, ValidateQueueParams(3, 65))
	assert.NoError(t, ValidateQueueParams(3, 60))
	assert.ErrorIs(t, ValidateQueueParams(3, 185), ErrInvalidExpiry)
}

func TestValidationErrorsAreInvalidInput(t *testing.T) {
	for _, err := range []error{ErrInvalidSize, ErrInvalidExpiry, ErrInvalidNote, ErrInvalidName} {
		assert.True(t, errors.Is(err, ErrInvalidInput), err.Error())
	}
	assert.False(t, errors.Is(ErrFull, ErrInvalidInput))
}

func TestValidateRSN(t *testing.T) {
	tests := []struct {
		name string
		rsn  string
		ok   bool
	}{
		{"simple", "Zezima", true},
		{"spaces and dash", "Iron my-man_1", true},
		{"empty", "   ", false},
		{"too long", "abcdefghijklm", false},
		{"symbols", "b0b!", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRSN(tt.rsn)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidName)
			}
		})
	}
}

func TestValidateNote(t *testing.T) {
	long := make([]rune, MaxNoteLength+1)
	for i := range long {
		long[i] = 'x'
	}
	assert.NoError(t, ValidateNote("300 invo, split"))
	assert.NoError(t, ValidateNote(string(long[:MaxNoteLength])))
	assert.ErrorIs(t, ValidateNote(string(long)), ErrInvalidNote)
}

func TestQueueIsFull(t *testing.T) {
	q := Queue{GroupSize: 3}
	assert.False(t, q.IsFull())
	q.Members = []QueueMember{{DiscordID: "a"}, {DiscordID: "b"}}
	assert.False(t, q.IsFull())
	q.Members = append(q.Members, QueueMember{DiscordID: "c"})
	assert.True(t, q.IsFull())
	assert.True(t, q.IsMember("b"))
	assert.False(t, q.IsMember("z"))
	assert.Equal(t, []string{"<@a>", "<@b>", "<@c>"}, q.Mentions())
}
