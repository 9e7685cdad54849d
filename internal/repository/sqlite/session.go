package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/devhuddle/doubtboard/internal/apperror"
	"github.com/devhuddle/doubtboard/internal/model"
	"github.com/devhuddle/doubtboard/internal/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implements repository.SessionRepository on SQLite.
type SessionRepo struct {
	conn *sql.DB
}

// NewSessionRepo creates a SessionRepo backed by db.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{conn: db.conn}
}

// Create inserts a new session row. The caller sets UserID and
// ExpiresAt; ID and CreatedAt are filled in here.
func (r *SessionRepo) Create(ctx context.Context, session *model.Session) error {
	session.ID = xid.New().String()
	session.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating session for user %s: %w", session.UserID, err)
	}

	return nil
}

// GetByID returns the session only while it is unexpired. An expired or
// deleted session is indistinguishable from one that never existed.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at
		 FROM sessions WHERE id = ? AND expires_at > ?`,
		id, time.Now(),
	).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("session", id)
		}
		return nil, fmt.Errorf("sqlite: getting session %s: %w", id, err)
	}

	return &s, nil
}

// Delete removes a session, revoking the login it backs. Deleting a
// session that is already gone is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting session %s: %w", id, err)
	}
	return nil
}

// DeleteExpired purges all sessions past their expiry.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting expired sessions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return n, nil
}
