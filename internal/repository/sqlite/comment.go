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

var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo implements repository.CommentRepository on SQLite.
type CommentRepo struct {
	conn *sql.DB
}

// NewCommentRepo creates a CommentRepo backed by db.
func NewCommentRepo(db *DB) *CommentRepo {
	return &CommentRepo{conn: db.conn}
}

// Create inserts a new comment under a post.
func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, user_id, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment on post %s: %w", comment.PostID, err)
	}

	return nil
}

// ListByPost returns the post's comments with author and vote count,
// newest first. The vote count sums every vote row on the comment, both
// "up" and "helpful".
func (r *CommentRepo) ListByPost(ctx context.Context, postID string) ([]model.CommentWithAuthor, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT
			c.id, c.post_id, c.user_id, c.content, c.created_at,
			u.id, u.email, u.first_name, u.last_name, u.profile_image_url,
			u.created_at, u.updated_at,
			COUNT(cv.id)
		 FROM comments c
		 LEFT JOIN users u ON u.id = c.user_id
		 LEFT JOIN comment_votes cv ON cv.comment_id = c.id
		 WHERE c.post_id = ?
		 GROUP BY c.id, u.id
		 ORDER BY c.created_at DESC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %s: %w", postID, err)
	}
	defer rows.Close()

	comments := make([]model.CommentWithAuthor, 0, 8)
	for rows.Next() {
		var c model.CommentWithAuthor
		err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt,
			&c.Author.ID, &c.Author.Email, &c.Author.FirstName, &c.Author.LastName,
			&c.Author.ProfileImageURL, &c.Author.CreatedAt, &c.Author.UpdatedAt,
			&c.VoteCount,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}

// Vote records a vote of the given type. The unique index over
// (comment_id, user_id, vote_type) makes a repeated identical vote a
// silent no-op, while "up" and "helpful" from the same user coexist.
func (r *CommentRepo) Vote(ctx context.Context, vote *model.CommentVote) error {
	var exists int
	err := r.conn.QueryRowContext(ctx,
		`SELECT 1 FROM comments WHERE id = ?`, vote.CommentID,
	).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperror.NotFound("comment", vote.CommentID)
		}
		return fmt.Errorf("sqlite: checking comment %s: %w", vote.CommentID, err)
	}

	vote.ID = xid.New().String()
	vote.CreatedAt = time.Now()

	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO comment_votes (id, comment_id, user_id, vote_type, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(comment_id, user_id, vote_type) DO NOTHING`,
		vote.ID,
		vote.CommentID,
		vote.UserID,
		vote.VoteType,
		vote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: voting on comment %s: %w", vote.CommentID, err)
	}

	return nil
}

// RemoveVote deletes every vote the user holds on the comment. Removing
// votes that do not exist is not an error.
func (r *CommentRepo) RemoveVote(ctx context.Context, commentID, userID string) error {
	_, err := r.conn.ExecContext(ctx,
		`DELETE FROM comment_votes WHERE comment_id = ? AND user_id = ?`,
		commentID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing votes on comment %s: %w", commentID, err)
	}
	return nil
}
