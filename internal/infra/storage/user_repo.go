package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/bosscape/lfg-bot/internal/domain"
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// UpsertLink crea o actualiza el RSN; created=true si es el primer link.
func (r *UserRepo) UpsertLink(ctx context.Context, discordID, rsn string) (bool, error) {
	var created bool
	err := r.db.QueryRowContext(ctx, `
INSERT INTO users (discord_id, rsn)
VALUES ($1, $2)
ON CONFLICT (discord_id) DO UPDATE SET
  rsn = EXCLUDED.rsn
RETURNING (xmax = 0)
`, discordID, strings.TrimSpace(rsn)).Scan(&created)
	return created, err
}

func (r *UserRepo) GetByDiscordID(ctx context.Context, discordID string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, `
SELECT discord_id, rsn, linked_at
  FROM users
 WHERE discord_id = $1
`, discordID).Scan(&u.DiscordID, &u.RSN, &u.LinkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	u.LinkedAt = u.LinkedAt.UTC()
	return u, err
}
