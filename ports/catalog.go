package ports

import (
	"context"

	"healthdash/domain/survey"
)

// LoadCatalog records dataset load events and serves recent load history.
// The Postgres adapter implements it for real deployments; tests use an
// in-memory fake. A nil catalog means the feature is disabled.
type LoadCatalog interface {
	RecordLoad(ctx context.Context, info survey.LoadInfo) error
	ListRecent(ctx context.Context, limit int) ([]survey.LoadInfo, error)
}
