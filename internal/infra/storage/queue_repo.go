package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	pq "github.com/lib/pq"

	"github.com/bosscape/lfg-bot/internal/domain"
)

type QueueRepo struct{ db *sql.DB }

func NewQueueRepo(db *sql.DB) *QueueRepo { return &QueueRepo{db: db} }

const queueCols = `id, activity, role, group_size, created_by, COALESCE(note, ''), created_at, expires_at,
       COALESCE(message_channel_id, ''), COALESCE(message_id, ''), COALESCE(voice_channel_id, '')`

type rowScanner interface{ Scan(dest ...any) error }

func scanQueue(row rowScanner) (domain.Queue, error) {
	var q domain.Queue
	var msgChan, msgID string
	if err := row.Scan(&q.ID, &q.Activity, &q.Role, &q.GroupSize, &q.CreatedBy, &q.Note,
		&q.CreatedAt, &q.ExpiresAt, &msgChan, &msgID, &q.VoiceChannelID); err != nil {
		return domain.Queue{}, err
	}
	q.CreatedAt = q.CreatedAt.UTC()
	q.ExpiresAt = q.ExpiresAt.UTC()
	if msgID != "" {
		q.Message = &domain.MessageRef{ChannelID: msgChan, MessageID: msgID}
	}
	return q, nil
}

// CreateWithHost inserta la cola y a su creador como primer miembro en la misma tx.
func (r *QueueRepo) CreateWithHost(ctx context.Context, q domain.Queue, host domain.QueueMember) (int64, error) {
	var id int64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
INSERT INTO queues (activity, role, group_size, created_by, note, created_at, expires_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id
`, q.Activity, q.Role, q.GroupSize, q.CreatedBy, nullString(q.Note), q.CreatedAt, q.ExpiresAt).Scan(&id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO queue_members (queue_id, discord_id, rsn, joined_at)
VALUES ($1,$2,$3,$4)
`, id, host.DiscordID, host.RSN, host.JoinedAt)
		return err
	})
	return id, err
}

func (r *QueueRepo) Get(ctx context.Context, id int64) (domain.Queue, error) {
	q, err := scanQueue(r.db.QueryRowContext(ctx, `SELECT `+queueCols+` FROM queues WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Queue{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Queue{}, err
	}
	qs := []domain.Queue{q}
	if err := r.loadMembers(ctx, qs); err != nil {
		return domain.Queue{}, err
	}
	return qs[0], nil
}

// ListActive: colas con expires_at > now, más nuevas primero.
func (r *QueueRepo) ListActive(ctx context.Context, now time.Time) ([]domain.Queue, error) {
	return r.list(ctx, `SELECT `+queueCols+` FROM queues WHERE expires_at > $1 ORDER BY created_at DESC, id DESC`, now)
}

// ListExpired: colas con expires_at <= now.
func (r *QueueRepo) ListExpired(ctx context.Context, now time.Time) ([]domain.Queue, error) {
	return r.list(ctx, `SELECT `+queueCols+` FROM queues WHERE expires_at <= $1 ORDER BY expires_at ASC, id ASC`, now)
}

func (r *QueueRepo) list(ctx context.Context, query string, args ...any) ([]domain.Queue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Queue
	for rows.Next() {
		q, err := scanQueue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadMembers llena Members de cada cola en una sola query.
func (r *QueueRepo) loadMembers(ctx context.Context, qs []domain.Queue) error {
	if len(qs) == 0 {
		return nil
	}
	ids := make([]int64, len(qs))
	idx := make(map[int64]int, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
		idx[q.ID] = i
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT queue_id, discord_id, rsn, joined_at
  FROM queue_members
 WHERE queue_id = ANY($1)
 ORDER BY joined_at ASC, id ASC
`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var m domain.QueueMember
		if err := rows.Scan(&m.QueueID, &m.DiscordID, &m.RSN, &m.JoinedAt); err != nil {
			return err
		}
		m.JoinedAt = m.JoinedAt.UTC()
		i := idx[m.QueueID]
		qs[i].Members = append(qs[i].Members, m)
	}
	return rows.Err()
}

// AddMember: lock de la fila de la cola y re-chequeo de expiración,
// duplicado y cupo dentro de la misma tx que inserta.
func (r *QueueRepo) AddMember(ctx context.Context, m domain.QueueMember, now time.Time) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		var size int
		var expires time.Time
		err := tx.QueryRowContext(ctx, `
SELECT group_size, expires_at FROM queues WHERE id = $1 FOR UPDATE
`, m.QueueID).Scan(&size, &expires)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !expires.After(now) {
			return domain.ErrNotFound
		}

		var count, mine int
		if err := tx.QueryRowContext(ctx, `
SELECT count(*), count(*) FILTER (WHERE discord_id = $2)
  FROM queue_members
 WHERE queue_id = $1
`, m.QueueID, m.DiscordID).Scan(&count, &mine); err != nil {
			return err
		}
		if mine > 0 {
			return domain.ErrAlreadyMember
		}
		if count >= size {
			return domain.ErrFull
		}

		_, err = tx.ExecContext(ctx, `
INSERT INTO queue_members (queue_id, discord_id, rsn, joined_at)
VALUES ($1,$2,$3,$4)
`, m.QueueID, m.DiscordID, m.RSN, m.JoinedAt)
		if isUniqueViolation(err) {
			return domain.ErrAlreadyMember
		}
		return err
	})
}

// RemoveMember borra al miembro y lo devuelve; ErrNotFound si no estaba.
func (r *QueueRepo) RemoveMember(ctx context.Context, queueID int64, discordID string) (domain.QueueMember, error) {
	m := domain.QueueMember{QueueID: queueID}
	err := r.db.QueryRowContext(ctx, `
DELETE FROM queue_members
 WHERE queue_id = $1 AND discord_id = $2
RETURNING discord_id, rsn, joined_at
`, queueID, discordID).Scan(&m.DiscordID, &m.RSN, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QueueMember{}, domain.ErrNotFound
	}
	return m, err
}

// Delete borra la cola (cascade a miembros). false si ya no existía.
func (r *QueueRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM queues WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetMessage guarda la referencia al embed; ErrNotFound si la cola ya no está.
func (r *QueueRepo) SetMessage(ctx context.Context, id int64, ref domain.MessageRef) error {
	return r.execOne(ctx, `
UPDATE queues SET message_channel_id = $2, message_id = $3 WHERE id = $1
`, id, ref.ChannelID, ref.MessageID)
}

// ClaimVoice reserva la creación del canal de voz. Sólo un llamador obtiene
// true mientras voice_channel_id siga NULL y el claim no esté vencido.
func (r *QueueRepo) ClaimVoice(ctx context.Context, id int64, staleAfter time.Duration) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE queues
   SET voice_claimed_at = now()
 WHERE id = $1
   AND voice_channel_id IS NULL
   AND (voice_claimed_at IS NULL OR voice_claimed_at < now() - $2::interval)
`, id, durToInterval(staleAfter))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *QueueRepo) SetVoiceChannel(ctx context.Context, id int64, channelID string) error {
	return r.execOne(ctx, `
UPDATE queues SET voice_channel_id = $2 WHERE id = $1
`, id, channelID)
}

func (r *QueueRepo) ReleaseVoiceClaim(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE queues SET voice_claimed_at = NULL WHERE id = $1 AND voice_channel_id IS NULL
`, id)
	return err
}

func (r *QueueRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
