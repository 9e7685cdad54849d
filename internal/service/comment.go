package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devhuddle/doubtboard/internal/apperror"
	"github.com/devhuddle/doubtboard/internal/model"
	"github.com/devhuddle/doubtboard/internal/repository"
)

// CommentService handles business logic for comments and their votes.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	logger   *slog.Logger
}

// NewCommentService creates a CommentService. It needs the post
// repository too, to confirm the parent post exists before writing.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{comments: comments, posts: posts, logger: logger}
}

// Create validates and saves a comment under the given post.
func (s *CommentService) Create(ctx context.Context, postID, userID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "comment content is required")
	}

	// Commenting on a missing post must be a 404, not a foreign key
	// failure surfacing as a 500.
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("service/comment: checking post %s: %w", postID, err)
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("service/comment: creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.String("commentID", comment.ID),
		slog.String("postID", postID),
		slog.String("userID", userID),
	)

	return comment, nil
}

// ListByPost returns the post's comments, newest first. The post must
// exist; a post with no comments yields an empty list.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]model.CommentWithAuthor, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("service/comment: checking post %s: %w", postID, err)
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("service/comment: listing comments for post %s: %w", postID, err)
	}
	return comments, nil
}

// Vote records the user's vote of the given type on the comment. A
// repeated identical vote changes nothing.
func (s *CommentService) Vote(ctx context.Context, commentID, userID, voteType string) error {
	if voteType != model.VoteTypeUp && voteType != model.VoteTypeHelpful {
		return apperror.ValidationFailed("voteType", "vote type must be up or helpful")
	}

	vote := &model.CommentVote{
		CommentID: commentID,
		UserID:    userID,
		VoteType:  voteType,
	}
	if err := s.comments.Vote(ctx, vote); err != nil {
		return fmt.Errorf("service/comment: voting on comment %s: %w", commentID, err)
	}

	return nil
}

// RemoveVote clears every vote the user holds on the comment.
func (s *CommentService) RemoveVote(ctx context.Context, commentID, userID string) error {
	if err := s.comments.RemoveVote(ctx, commentID, userID); err != nil {
		return fmt.Errorf("service/comment: removing votes on comment %s: %w", commentID, err)
	}
	return nil
}
