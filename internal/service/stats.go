package service

import (
	"context"
	"fmt"

	"github.com/devhuddle/doubtboard/internal/model"
	"github.com/devhuddle/doubtboard/internal/repository"
)

// StatsService exposes the sidebar aggregates.
type StatsService struct {
	stats repository.StatsRepository
}

// NewStatsService creates a StatsService.
func NewStatsService(stats repository.StatsRepository) *StatsService {
	return &StatsService{stats: stats}
}

// Stats returns the current counts.
func (s *StatsService) Stats(ctx context.Context) (*model.Stats, error) {
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/stats: computing stats: %w", err)
	}
	return stats, nil
}
