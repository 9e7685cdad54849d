package model

import "time"

// Vote types a user can attach to a comment. A user may hold one vote of
// each type on the same comment; duplicate (comment, user, type) triples
// are silently ignored on insert.
const (
	VoteTypeUp      = "up"
	VoteTypeHelpful = "helpful"
)

// Comment belongs to exactly one post and one authoring user. Comments
// are immutable once created (there is no edit or delete operation) and
// are removed only when their post is deleted (cascade).
type Comment struct {
	ID        string    `json:"id"        db:"id"`
	PostID    string    `json:"postId"    db:"post_id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Content   string    `json:"content"   db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CommentWithAuthor joins a comment with its author and the live count
// of all vote rows on it (both vote types together).
type CommentWithAuthor struct {
	Comment
	Author    User `json:"author"`
	VoteCount int  `json:"voteCount"`
}

// CommentVote records that a user voted on a comment.
type CommentVote struct {
	ID        string    `json:"id"        db:"id"`
	CommentID string    `json:"commentId" db:"comment_id"`
	UserID    string    `json:"userId"    db:"user_id"`
	VoteType  string    `json:"voteType"  db:"vote_type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateCommentRequest is the JSON body for POST /api/posts/{id}/comments.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// VoteCommentRequest is the JSON body for POST /api/comments/{id}/vote.
type VoteCommentRequest struct {
	VoteType string `json:"voteType" validate:"required,oneof=up helpful"`
}
