package survey

import "healthdash/domain/core"

// LoadInfo describes one dataset load event: where the data came from and
// what the Deriver made of it. Recorded in the catalog when one is
// configured, and served as the dataset identity at the API boundary.
type LoadInfo struct {
	ID           core.LoadID    `json:"id"`
	Source       string         `json:"source"`
	Checksum     core.Hash      `json:"checksum"`
	RecordCount  int            `json:"recordCount"`
	ColumnCount  int            `json:"columnCount"`
	NullFAFCount int            `json:"nullFafCount"`
	LoadedAt     core.Timestamp `json:"loadedAt"`
}
