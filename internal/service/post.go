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

// MaxTitleLength bounds post titles; descriptions are unbounded.
const MaxTitleLength = 300

// PostService handles business logic for doubt posts.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, logger: logger}
}

// Create validates and saves a new post on behalf of userID. imageURL
// is the already-stored upload path, or empty when no image was
// attached.
func (s *PostService) Create(ctx context.Context, userID string, req model.CreatePostRequest, imageURL string) (*model.Post, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if description == "" {
		return nil, apperror.ValidationFailed("description", "description is required")
	}
	if !model.ValidCategory(req.Category) {
		return nil, apperror.ValidationFailed("category",
			"category must be one of: backend, frontend, devops")
	}

	post := &model.Post{
		Title:       title,
		Description: description,
		Category:    req.Category,
		ImageURL:    imageURL,
		CreatedBy:   userID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("category", post.Category),
		slog.String("userID", userID),
	)

	return post, nil
}

// List returns posts narrowed by the optional filters, newest first.
func (s *PostService) List(ctx context.Context, filters model.PostFilters) ([]model.PostWithAuthor, error) {
	posts, err := s.posts.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	return posts, nil
}

// Get returns one post with its author and comment count.
func (s *PostService) Get(ctx context.Context, id string) (*model.PostWithAuthor, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/post: getting post %s: %w", id, err)
	}
	return post, nil
}

// ToggleResolved flips the post's resolved flag for its creator.
func (s *PostService) ToggleResolved(ctx context.Context, id, userID string) (*model.Post, error) {
	post, err := s.posts.ToggleResolved(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("service/post: toggling post %s: %w", id, err)
	}

	s.logger.Info("post resolution toggled",
		slog.String("postID", id),
		slog.Bool("resolved", post.Resolved),
		slog.String("userID", userID),
	)

	return post, nil
}
