package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/devhuddle/doubtboard/internal/apperror"
	"github.com/devhuddle/doubtboard/internal/model"
	"github.com/devhuddle/doubtboard/internal/repository"
)

var _ repository.PostRepository = (*PostRepo)(nil)

// PostRepo implements repository.PostRepository on SQLite.
type PostRepo struct {
	conn *sql.DB
}

// NewPostRepo creates a PostRepo backed by db.
func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{conn: db.conn}
}

// postWithAuthorColumns is shared by List and GetByID so the two read
// projections cannot drift apart. The comment count is computed by the
// group-by, never stored.
const postWithAuthorColumns = `
	p.id, p.title, p.description, p.category, p.image_url,
	p.created_by, p.resolved, p.created_at, p.updated_at,
	u.id, u.email, u.first_name, u.last_name, u.profile_image_url,
	u.created_at, u.updated_at,
	COUNT(c.id)`

const postWithAuthorFrom = `
	FROM posts p
	LEFT JOIN users u ON u.id = p.created_by
	LEFT JOIN comments c ON c.post_id = p.id`

func scanPostWithAuthor(row interface{ Scan(...any) error }) (*model.PostWithAuthor, error) {
	var p model.PostWithAuthor
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.ImageURL,
		&p.CreatedBy, &p.Resolved, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Email, &p.Author.FirstName, &p.Author.LastName,
		&p.Author.ProfileImageURL, &p.Author.CreatedAt, &p.Author.UpdatedAt,
		&p.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new post. Resolved always starts false regardless of
// what the caller set.
func (r *PostRepo) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.Resolved = false

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO posts (id, title, description, category, image_url, created_by, resolved, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Description,
		post.Category,
		post.ImageURL,
		post.CreatedBy,
		post.Resolved,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// List returns posts joined with author and comment count, newest
// first. Filters are combined as a conjunction; the search term matches
// a case-insensitive substring of the title or the description. No
// pagination; the full filtered set is returned.
func (r *PostRepo) List(ctx context.Context, filters model.PostFilters) ([]model.PostWithAuthor, error) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if filters.Category != "" {
		conds = append(conds, "p.category = ?")
		args = append(args, filters.Category)
	}
	if filters.Resolved != nil {
		conds = append(conds, "p.resolved = ?")
		args = append(args, *filters.Resolved)
	}
	if filters.Search != "" {
		conds = append(conds,
			"(LOWER(p.title) LIKE '%' || LOWER(?) || '%' OR LOWER(p.description) LIKE '%' || LOWER(?) || '%')")
		args = append(args, filters.Search, filters.Search)
	}

	query := "SELECT" + postWithAuthorColumns + postWithAuthorFrom
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " GROUP BY p.id, u.id ORDER BY p.created_at DESC"

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.PostWithAuthor, 0, 16)
	for rows.Next() {
		p, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// GetByID retrieves a single post with author and comment count.
func (r *PostRepo) GetByID(ctx context.Context, id string) (*model.PostWithAuthor, error) {
	row := r.conn.QueryRowContext(ctx,
		"SELECT"+postWithAuthorColumns+postWithAuthorFrom+
			" WHERE p.id = ? GROUP BY p.id, u.id",
		id,
	)

	p, err := scanPostWithAuthor(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return p, nil
}

// ToggleResolved flips the resolved flag, permitted only to the post's
// creator.
//
// The flip is a single conditional UPDATE, so two concurrent toggles
// compose as two real flips instead of racing a read-then-write. When
// no row was affected we read the post once more to tell an unknown id
// (NotFound) apart from somebody else's post (Forbidden).
func (r *PostRepo) ToggleResolved(ctx context.Context, id, requesterID string) (*model.Post, error) {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE posts SET resolved = NOT resolved, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		time.Now(), id, requesterID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: toggling post %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		var createdBy string
		err := r.conn.QueryRowContext(ctx,
			`SELECT created_by FROM posts WHERE id = ?`, id,
		).Scan(&createdBy)
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		if err != nil {
			return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
		}
		return nil, apperror.Forbidden("only the post creator can toggle resolution")
	}

	var p model.Post
	err = r.conn.QueryRowContext(ctx,
		`SELECT id, title, description, category, image_url, created_by, resolved, created_at, updated_at
		 FROM posts WHERE id = ?`,
		id,
	).Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.ImageURL,
		&p.CreatedBy, &p.Resolved, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading back post %s: %w", id, err)
	}

	return &p, nil
}

// Delete removes a post; the foreign keys cascade to its comments and
// their votes. There is no HTTP route for this; it exists for
// administrative cleanup.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}
