package schedule

import "context"

// SnapshotKey identifies one computed grid.
type SnapshotKey struct {
	Date        string
	ProcedureID uint
	ExcludeID   uint
}

// SnapshotCache stores computed grids. Entries are invalidated by version
// bumps, never deleted one by one.
type SnapshotCache interface {
	// Get returns the cached grid, or a stamp under which a freshly computed
	// grid may be stored with Put. The stamp pins the versions read by Get so
	// a grid computed before a concurrent bump is never stored as current.
	Get(ctx context.Context, k SnapshotKey) (*Availability, string, error)
	Put(ctx context.Context, stamp string, a Availability) error

	InvalidateDate(ctx context.Context, date string) error
	InvalidateAll(ctx context.Context) error
}
