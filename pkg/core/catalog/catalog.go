package catalog

import (
	// 外部依赖
	"context"
	"io"
)

// Service owns the reference dictionaries: a read-mostly in-memory
// snapshot for lookups plus the TSV seed importers. Dictionaries
// change rarely, so components read the snapshot instead of querying
// per request; Refresh rebuilds it after a seed run.
type Service interface {
	// Snapshot returns the current snapshot, loading it on first use.
	Snapshot(ctx context.Context) (*Snapshot, error)
	// Refresh rebuilds the snapshot from the database.
	Refresh(ctx context.Context) (*Snapshot, error)
	// List returns all dictionaries for the edge.
	List(ctx context.Context) (*ListResp, error)

	// ImportSpeciesTSV seeds areas, species, markers and analysis
	// types from the species seed file.
	ImportSpeciesTSV(ctx context.Context, r io.Reader) (*ImportResp, error)
	// ImportSampleTypesTSV seeds sample types and their area
	// memberships.
	ImportSampleTypesTSV(ctx context.Context, r io.Reader) (*ImportResp, error)
}
