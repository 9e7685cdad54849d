package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/devhuddle/doubtboard/internal/model"
	"github.com/devhuddle/doubtboard/internal/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo implements repository.StatsRepository on SQLite.
type StatsRepo struct {
	conn *sql.DB
}

// NewStatsRepo creates a StatsRepo backed by db.
func NewStatsRepo(db *DB) *StatsRepo {
	return &StatsRepo{conn: db.conn}
}

// Stats computes the sidebar aggregates in three queries.
//
// "Resolved today" counts posts whose resolved flag is set and whose
// updated_at falls within the current local day. updated_at moves only
// when resolution is toggled, so it stands in for a resolution
// timestamp.
func (r *StatsRepo) Stats(ctx context.Context) (*model.Stats, error) {
	var s model.Stats

	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE resolved = 0`,
	).Scan(&s.OpenDoubts)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting open doubts: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	err = r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE resolved = 1 AND updated_at >= ?`,
		startOfDay,
	).Scan(&s.ResolvedToday)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting resolved today: %w", err)
	}

	err = r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tips`,
	).Scan(&s.TipsShared)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting tips: %w", err)
	}

	return &s, nil
}
