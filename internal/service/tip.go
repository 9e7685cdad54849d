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

// TipService handles business logic for community tips.
type TipService struct {
	tips   repository.TipRepository
	logger *slog.Logger
}

// NewTipService creates a TipService.
func NewTipService(tips repository.TipRepository, logger *slog.Logger) *TipService {
	return &TipService{tips: tips, logger: logger}
}

// Create validates and saves a new tip posted by userID.
func (s *TipService) Create(ctx context.Context, userID, content string) (*model.Tip, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "tip content is required")
	}

	tip := &model.Tip{
		Content:  content,
		PostedBy: userID,
	}
	if err := s.tips.Create(ctx, tip); err != nil {
		return nil, fmt.Errorf("service/tip: creating tip: %w", err)
	}

	s.logger.Info("tip created",
		slog.String("tipID", tip.ID),
		slog.String("userID", userID),
	)

	return tip, nil
}

// List returns all tips with authors, pinned first then newest first.
func (s *TipService) List(ctx context.Context) ([]model.TipWithAuthor, error) {
	tips, err := s.tips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/tip: listing tips: %w", err)
	}
	return tips, nil
}

// Like records that the user likes the tip and returns the tip with the
// fresh counter.
func (s *TipService) Like(ctx context.Context, tipID, userID string) (*model.Tip, error) {
	if err := s.tips.Like(ctx, tipID, userID); err != nil {
		return nil, fmt.Errorf("service/tip: liking tip %s: %w", tipID, err)
	}

	tip, err := s.tips.GetByID(ctx, tipID)
	if err != nil {
		return nil, fmt.Errorf("service/tip: reading back tip %s: %w", tipID, err)
	}
	return tip, nil
}

// Unlike withdraws the user's like and returns the tip with the fresh
// counter.
func (s *TipService) Unlike(ctx context.Context, tipID, userID string) (*model.Tip, error) {
	if err := s.tips.Unlike(ctx, tipID, userID); err != nil {
		return nil, fmt.Errorf("service/tip: unliking tip %s: %w", tipID, err)
	}

	tip, err := s.tips.GetByID(ctx, tipID)
	if err != nil {
		return nil, fmt.Errorf("service/tip: reading back tip %s: %w", tipID, err)
	}
	return tip, nil
}
