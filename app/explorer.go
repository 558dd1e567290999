package app

import (
	"context"
	"time"

	"healthdash/domain/survey"
	"healthdash/internal/aggregate"
)

// Explorer serves interactive exploration over one loaded survey dataset.
// The dataset is immutable after construction, so every method is safe for
// concurrent use without locking.
type Explorer struct {
	dataset *survey.Dataset
	info    survey.LoadInfo
}

// Exploration is the complete response to a filter interaction: the resolved
// selection echoed back, the subset size, and every chart aggregate computed
// over that subset.
type Exploration struct {
	Selection   survey.Selection     `json:"selection"`
	RecordCount int                  `json:"recordCount"`
	Aggregates  aggregate.Aggregates `json:"aggregates"`
	RuntimeMs   int64                `json:"runtimeMs"`
}

// RecordPage is one page of subset records in dataset order.
type RecordPage struct {
	Records []survey.Record `json:"records"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// NewExplorer creates an explorer over a derived dataset.
func NewExplorer(dataset *survey.Dataset, info survey.LoadInfo) *Explorer {
	return &Explorer{
		dataset: dataset,
		info:    info,
	}
}

// Info returns the load metadata for the dataset being explored.
func (e *Explorer) Info() survey.LoadInfo {
	return e.info
}

// Dataset returns the underlying derived dataset. Callers must treat it as
// read-only.
func (e *Explorer) Dataset() *survey.Dataset {
	return e.dataset
}

// Options returns the value sets the filter controls offer, which is exactly
// the default unfiltered selection.
func (e *Explorer) Options() survey.Selection {
	return e.dataset.DefaultSelection()
}

// Explore resolves a selection request against the dataset, filters, and
// recomputes every aggregate from scratch.
func (e *Explorer) Explore(ctx context.Context, req survey.SelectionRequest) *Exploration {
	startTime := time.Now()

	selection := e.dataset.ResolveSelection(req)
	subset := e.dataset.Filter(selection)

	return &Exploration{
		Selection:   selection,
		RecordCount: subset.Len(),
		Aggregates:  aggregate.Compute(subset),
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}
}

// Records returns one page of the subset a selection request resolves to.
// Limits are clamped to [1, 500]; a zero or negative limit falls back to the
// default page size.
func (e *Explorer) Records(ctx context.Context, req survey.SelectionRequest, limit, offset int) *RecordPage {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	_, records := e.SubsetRecords(req)
	total := len(records)

	page := make([]survey.Record, 0, limit)
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page = append(page, records[offset:end]...)
	}

	return &RecordPage{
		Records: page,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
}

// SubsetRecords resolves a request and returns the resolved selection together
// with the matching records in dataset order. Exports run off this.
func (e *Explorer) SubsetRecords(req survey.SelectionRequest) (survey.Selection, []survey.Record) {
	selection := e.dataset.ResolveSelection(req)
	subset := e.dataset.Filter(selection)
	return selection, subset.Records
}
