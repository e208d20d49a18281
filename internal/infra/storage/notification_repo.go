package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/bosscape/lfg-bot/internal/domain"
)

type NotificationRepo struct{ db *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

func (r *NotificationRepo) Add(ctx context.Context, discordID, message string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO notifications (discord_id, message) VALUES ($1, $2)
`, discordID, message)
	return err
}

func (r *NotificationRepo) ListFor(ctx context.Context, discordID string, limit int) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, discord_id, message, created_at
  FROM notifications
 WHERE discord_id = $1
 ORDER BY created_at DESC
 LIMIT $2
`, discordID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.DiscordID, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

type SnapshotRepo struct{ db *sql.DB }

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

func (r *SnapshotRepo) Add(ctx context.Context, s domain.StatSnapshot) error {
	raw, err := json.Marshal(s.Stats)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO stat_snapshots (discord_id, taken_at, stats) VALUES ($1, $2, $3)
`, s.DiscordID, s.TakenAt, raw)
	return err
}

// Latest devuelve el último snapshot del usuario; ErrNotFound si no hay.
func (r *SnapshotRepo) Latest(ctx context.Context, discordID string) (domain.StatSnapshot, error) {
	var (
		s   domain.StatSnapshot
		raw []byte
		at  time.Time
	)
	err := r.db.QueryRowContext(ctx, `
SELECT discord_id, taken_at, stats
  FROM stat_snapshots
 WHERE discord_id = $1
 ORDER BY taken_at DESC
 LIMIT 1
`, discordID).Scan(&s.DiscordID, &at, &raw)
	if err == sql.ErrNoRows {
		return domain.StatSnapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.StatSnapshot{}, err
	}
	s.TakenAt = at.UTC()
	if err := json.Unmarshal(raw, &s.Stats); err != nil {
		return domain.StatSnapshot{}, err
	}
	return s, nil
}
