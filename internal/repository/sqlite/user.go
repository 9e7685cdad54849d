package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/devhuddle/doubtboard/internal/apperror"
	"github.com/devhuddle/doubtboard/internal/model"
	"github.com/devhuddle/doubtboard/internal/repository"
)

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements repository.UserRepository on SQLite.
type UserRepo struct {
	conn *sql.DB
}

// NewUserRepo creates a UserRepo backed by db.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{conn: db.conn}
}

// Upsert inserts or updates a user keyed by the identity provider's
// subject, which is the primary key.
//
// First login inserts the row; every later login overwrites the mutable
// profile fields (email, names, avatar) and refreshes updated_at, so the
// local profile tracks whatever the provider currently reports.
// created_at is never touched after the insert.
//
// The row is read back afterwards so the caller gets the canonical
// record, including the preserved created_at on the update path.
func (r *UserRepo) Upsert(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		return apperror.ValidationFailed("id", "user ID is required")
	}

	now := time.Now()
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			email             = excluded.email,
			first_name        = excluded.first_name,
			last_name         = excluded.last_name,
			profile_image_url = excluded.profile_image_url,
			updated_at        = excluded.updated_at`,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.ProfileImageURL,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting user %s: %w", user.ID, err)
	}

	stored, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("sqlite: reading back user %s: %w", user.ID, err)
	}
	*user = *stored

	return nil
}

// GetByID retrieves a user by their identity subject.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name, profile_image_url, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.ProfileImageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}
