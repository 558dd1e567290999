package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"healthdash/domain/core"
	"healthdash/domain/survey"
	"healthdash/ports"
)

// loadCatalog is the Postgres-backed load catalog.
type loadCatalog struct {
	db *sqlx.DB
}

// NewLoadCatalog creates a load catalog backed by the given database.
func NewLoadCatalog(db *sqlx.DB) ports.LoadCatalog {
	return &loadCatalog{db: db}
}

func (c *loadCatalog) RecordLoad(ctx context.Context, info survey.LoadInfo) error {
	query := `
		INSERT INTO dataset_loads (
			id, source, checksum, record_count, column_count, null_faf_count, loaded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := c.db.ExecContext(ctx, query,
		string(info.ID),
		info.Source,
		string(info.Checksum),
		info.RecordCount,
		info.ColumnCount,
		info.NullFAFCount,
		info.LoadedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to record dataset load: %w", err)
	}

	return nil
}

func (c *loadCatalog) ListRecent(ctx context.Context, limit int) ([]survey.LoadInfo, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, source, checksum, record_count, column_count, null_faf_count, loaded_at
		FROM dataset_loads
		ORDER BY loaded_at DESC
		LIMIT $1`

	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset loads: %w", err)
	}
	defer rows.Close()

	var loads []survey.LoadInfo
	for rows.Next() {
		var (
			info     survey.LoadInfo
			id       string
			loadedAt time.Time
		)
		if err := rows.Scan(
			&id,
			&info.Source,
			&info.Checksum,
			&info.RecordCount,
			&info.ColumnCount,
			&info.NullFAFCount,
			&loadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dataset load: %w", err)
		}
		info.ID = core.LoadID(id)
		info.LoadedAt = core.NewTimestamp(loadedAt)
		loads = append(loads, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dataset loads: %w", err)
	}

	return loads, nil
}
