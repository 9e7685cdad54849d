// Package repository declares the storage interfaces implemented by the
// sqlite package. Services depend on these interfaces, never on the
// concrete database type, so tests can substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/devhuddle/doubtboard/internal/model"
)

// UserRepository persists collaborator profiles keyed by the external
// identity subject.
type UserRepository interface {
	// Upsert inserts the user, or on a conflicting ID overwrites all
	// mutable profile fields and refreshes UpdatedAt. The stored row is
	// written back into user.
	Upsert(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	// GetByID returns the session only while it is unexpired.
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes all sessions past their expiry and reports
	// how many rows were purged.
	DeleteExpired(ctx context.Context) (int64, error)
}

// PostRepository persists doubts and their read projections.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// List returns posts joined with author and live comment count,
	// newest first, narrowed by the optional filters.
	List(ctx context.Context, filters model.PostFilters) ([]model.PostWithAuthor, error)
	GetByID(ctx context.Context, id string) (*model.PostWithAuthor, error)
	// ToggleResolved atomically flips the resolved flag when requesterID
	// is the post creator. Returns ErrNotFound for an unknown post and
	// ErrForbidden when the requester is not the creator.
	ToggleResolved(ctx context.Context, id, requesterID string) (*model.Post, error)
	// Delete removes the post; comments and their votes go with it.
	// Not exposed over HTTP; administrative only.
	Delete(ctx context.Context, id string) error
}

// CommentRepository persists comments and their votes.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPost returns comments joined with author and the live count
	// of all vote rows, newest first.
	ListByPost(ctx context.Context, postID string) ([]model.CommentWithAuthor, error)
	// Vote records a (comment, user, type) vote; an exact duplicate is a
	// silent no-op. Returns ErrNotFound for an unknown comment.
	Vote(ctx context.Context, vote *model.CommentVote) error
	// RemoveVote deletes every vote the user holds on the comment,
	// regardless of vote type.
	RemoveVote(ctx context.Context, commentID, userID string) error
}

// TipRepository persists tips, their likes and the denormalized counter.
type TipRepository interface {
	Create(ctx context.Context, tip *model.Tip) error
	GetByID(ctx context.Context, id string) (*model.Tip, error)
	// List returns tips with author, pinned first then newest first.
	List(ctx context.Context) ([]model.TipWithAuthor, error)
	// Like inserts the membership row and increments the counter in one
	// transaction; if the user already liked the tip nothing changes.
	Like(ctx context.Context, tipID, userID string) error
	// Unlike removes the membership row and decrements the counter in
	// one transaction; a no-op if the user had not liked the tip.
	Unlike(ctx context.Context, tipID, userID string) error
}

// StatsRepository computes the sidebar aggregates.
type StatsRepository interface {
	Stats(ctx context.Context) (*model.Stats, error)
}
