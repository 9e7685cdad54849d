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

var _ repository.TipRepository = (*TipRepo)(nil)

// TipRepo implements repository.TipRepository on SQLite.
type TipRepo struct {
	conn *sql.DB
}

// NewTipRepo creates a TipRepo backed by db.
func NewTipRepo(db *DB) *TipRepo {
	return &TipRepo{conn: db.conn}
}

// Create inserts a new tip. Likes always starts at zero and pinned at
// false, regardless of what the caller set.
func (r *TipRepo) Create(ctx context.Context, tip *model.Tip) error {
	tip.ID = xid.New().String()
	tip.Likes = 0
	tip.Pinned = false
	tip.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO tips (id, content, posted_by, likes, pinned, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tip.ID,
		tip.Content,
		tip.PostedBy,
		tip.Likes,
		tip.Pinned,
		tip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating tip: %w", err)
	}

	return nil
}

// GetByID retrieves a tip without its author.
func (r *TipRepo) GetByID(ctx context.Context, id string) (*model.Tip, error) {
	var t model.Tip

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, content, posted_by, likes, pinned, created_at
		 FROM tips WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Content, &t.PostedBy, &t.Likes, &t.Pinned, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("tip", id)
		}
		return nil, fmt.Errorf("sqlite: getting tip %s: %w", id, err)
	}

	return &t, nil
}

// List returns all tips with their authors, pinned tips first, newest
// first within each group.
func (r *TipRepo) List(ctx context.Context) ([]model.TipWithAuthor, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT
			t.id, t.content, t.posted_by, t.likes, t.pinned, t.created_at,
			u.id, u.email, u.first_name, u.last_name, u.profile_image_url,
			u.created_at, u.updated_at
		 FROM tips t
		 LEFT JOIN users u ON u.id = t.posted_by
		 ORDER BY t.pinned DESC, t.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tips: %w", err)
	}
	defer rows.Close()

	tips := make([]model.TipWithAuthor, 0, 8)
	for rows.Next() {
		var t model.TipWithAuthor
		err := rows.Scan(
			&t.ID, &t.Content, &t.PostedBy, &t.Likes, &t.Pinned, &t.CreatedAt,
			&t.Author.ID, &t.Author.Email, &t.Author.FirstName, &t.Author.LastName,
			&t.Author.ProfileImageURL, &t.Author.CreatedAt, &t.Author.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning tip row: %w", err)
		}
		tips = append(tips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tips: %w", err)
	}

	return tips, nil
}

// Like records that the user likes the tip and bumps the denormalized
// counter.
//
// Both writes happen in one transaction, and the counter moves only
// when the membership insert actually added a row. A user mashing the
// like button therefore counts once, and the counter can never drift
// from the number of tip_likes rows.
func (r *TipRepo) Like(ctx context.Context, tipID, userID string) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning like transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM tips WHERE id = ?`, tipID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperror.NotFound("tip", tipID)
		}
		return fmt.Errorf("sqlite: checking tip %s: %w", tipID, err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tip_likes (id, tip_id, user_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(tip_id, user_id) DO NOTHING`,
		xid.New().String(), tipID, userID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting like on tip %s: %w", tipID, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if inserted > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE tips SET likes = likes + 1 WHERE id = ?`, tipID,
		); err != nil {
			return fmt.Errorf("sqlite: incrementing likes on tip %s: %w", tipID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing like on tip %s: %w", tipID, err)
	}
	return nil
}

// Unlike is the inverse of Like: it removes the membership row and
// decrements the counter, again only when a row was actually deleted.
func (r *TipRepo) Unlike(ctx context.Context, tipID, userID string) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning unlike transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM tips WHERE id = ?`, tipID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperror.NotFound("tip", tipID)
		}
		return fmt.Errorf("sqlite: checking tip %s: %w", tipID, err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM tip_likes WHERE tip_id = ? AND user_id = ?`,
		tipID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting like on tip %s: %w", tipID, err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if deleted > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE tips SET likes = likes - 1 WHERE id = ?`, tipID,
		); err != nil {
			return fmt.Errorf("sqlite: decrementing likes on tip %s: %w", tipID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing unlike on tip %s: %w", tipID, err)
	}
	return nil
}
