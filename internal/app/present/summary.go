// Package present arma el resumen de una cola para Discord y la web.
package present

import (
	"fmt"
	"strings"
	"time"

	"github.com/bosscape/lfg-bot/internal/domain"
)

type Capacity string

const (
	Open     Capacity = "green"
	Full     Capacity = "red"
	Archived Capacity = "grey"
)

const emptyRoster = "None"

type Summary struct {
	QueueID   int64    `json:"id"`
	Title     string   `json:"title"`
	Activity  string   `json:"activity"`
	Role      string   `json:"role"`
	State     Capacity `json:"state"`
	Host      string   `json:"host"` // primer miembro, sólo display
	Size      string   `json:"size"`
	Count     int      `json:"count"`
	Capacity  int      `json:"capacity"`
	Note      string   `json:"note,omitempty"`
	Roster    []string `json:"roster"`
	Remaining int      `json:"remaining_minutes"`
	Footer    string   `json:"footer"`
}

func (s Summary) IsFull() bool { return s.State == Full }

// RosterText: una línea "• rsn" por miembro o "None".
func (s Summary) RosterText() string {
	if len(s.Roster) == 0 {
		return emptyRoster
	}
	var b strings.Builder
	for i, r := range s.Roster {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(r)
	}
	return b.String()
}

// Build arma el resumen de q al instante now.
func Build(q domain.Queue, now time.Time) Summary {
	s := Summary{
		QueueID:   q.ID,
		Title:     fmt.Sprintf("%s (%s)", q.Activity, q.Role),
		Activity:  q.Activity,
		Role:      q.Role,
		State:     Open,
		Host:      "Unknown",
		Count:     len(q.Members),
		Capacity:  q.GroupSize,
		Note:      strings.TrimSpace(q.Note),
		Remaining: RemainingMinutes(q.ExpiresAt, now),
	}
	if q.IsFull() {
		s.State = Full
	}
	if len(q.Members) > 0 {
		s.Host = q.Members[0].RSN
	}
	s.Size = fmt.Sprintf("%d / %d", s.Count, s.Capacity)
	s.Roster = make([]string, 0, len(q.Members))
	for _, m := range q.Members {
		s.Roster = append(s.Roster, m.RSN)
	}
	s.Footer = fmt.Sprintf("Expires in %d mins | ID: %d", s.Remaining, q.ID)
	return s
}

// BuildArchive es el resumen final que se publica en el canal de archivo.
func BuildArchive(q domain.Queue, reason string, now time.Time) Summary {
	s := Build(q, now)
	s.Title = fmt.Sprintf("[%s] %s", reason, s.Title)
	s.State = Archived
	s.Remaining = 0
	s.Footer = fmt.Sprintf("Ended at %s UTC | ID: %d", now.UTC().Format("15:04"), q.ID)
	return s
}

// RemainingMinutes = floor((expires-now)/1m), nunca negativo.
func RemainingMinutes(expiresAt, now time.Time) int {
	d := expiresAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
