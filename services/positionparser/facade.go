package positionparser

import (
	"context"
	"errors"
)

var ErrRecordNotFound = errors.New("destination record not found")

// Record is the slice of a politician profile the merge engine cares
// about: identity plus the stored value of each issue field, keyed by
// field name. A missing key or empty string means nothing recorded.
type Record struct {
	ID     string
	Name   string
	Issues map[string]string
}

// RecordFacade is the boundary to wherever destination records live.
// The merge engine only ever reads a record and rewrites the issue
// fields it touched; it never performs full-record overwrites.
//
// ApplyPartialUpdate takes field name -> serialized stance list and
// must leave absent fields untouched, as a single atomic update.
type RecordFacade interface {
	Fetch(ctx context.Context, id string) (Record, error)
	ApplyPartialUpdate(ctx context.Context, id string, fields map[string]string) (Record, error)
}
