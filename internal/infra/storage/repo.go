package storage

import (
	"context"

	pq "github.com/lib/pq"
)

// NamesByDiscordIDs: devuelve mapa discord_id -> rsn
func (r *UserRepo) NamesByDiscordIDs(ctx context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT discord_id, rsn
  FROM users
 WHERE discord_id = ANY($1)
`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var did, rsn string
		if err := rows.Scan(&did, &rsn); err != nil {
			return nil, err
		}
		out[did] = rsn
	}
	return out, rows.Err()
}
