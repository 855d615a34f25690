package positionparser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrNotReady = errors.New("selection is not ready to commit")

// decodeStoredStances deserializes an issue field's at-rest value.
// Missing, null-ish, or unparseable values read as empty. A stored
// value that is valid JSON but not a string list is wrapped as a
// single-element list; records written before the list format existed
// hold a bare string here, and those stances must survive the merge.
func decodeStoredStances(raw string) []string {
	if raw == "" {
		return nil
	}

	var stances []string
	if err := json.Unmarshal([]byte(raw), &stances); err == nil {
		return stances
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return []string{single}
	}

	var anything interface{}
	if err := json.Unmarshal([]byte(raw), &anything); err == nil && anything != nil {
		return []string{raw}
	}
	return nil
}

// MergeOutcome reports what a commit wrote.
type MergeOutcome struct {
	// field name -> serialized merged stance list; exactly the fields
	// that received at least one new stance
	Written map[string]string
	// number of stances written, for operator feedback
	Added int
	// the record after the update
	Record Record
}

// Merge commits the selected, categorized stances into the destination
// record. New stances append after existing ones; the merge never
// deletes, reorders, or de-duplicates prior entries. Fields with no new
// stances stay out of the write payload entirely.
//
// A fetch failure aborts before anything is written. A write failure is
// terminal for this commit only; the caller's session state survives so
// the commit can be retried without re-submitting urls.
func Merge(ctx context.Context, facade RecordFacade, destinationID string, result *Result, selection *Selection) (MergeOutcome, error) {
	ctx, span := tracer.Start(ctx, "Merge")
	defer span.End()
	span.SetAttributes(attribute.String("destination_id", destinationID))

	if destinationID == "" || result == nil || !selection.ReadyToCommit(destinationID != "") {
		return MergeOutcome{}, fmt.Errorf("%w: %s", ErrNotReady,
			selection.ValidationMessage(destinationID != ""))
	}

	// group selected stances by category, extraction order preserved
	grouped := map[Category][]string{}
	added := 0
	for i, position := range result.Positions {
		if !selection.Selected(i) {
			continue
		}
		category := selection.CategoryOf(i)
		if category == Uncategorized || !category.Valid() {
			// ReadyToCommit excludes this; double checked because a
			// write against the wrong field is unrecoverable
			return MergeOutcome{}, fmt.Errorf("%w: position %d is uncategorized", ErrNotReady, i)
		}
		grouped[category] = append(grouped[category], position.Stance)
		added++
	}

	record, err := facade.Fetch(ctx, destinationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return MergeOutcome{}, fmt.Errorf("failed to fetch destination record: %w", err)
	}

	payload := map[string]string{}
	for category, stances := range grouped {
		field := category.Field()
		merged := append(decodeStoredStances(record.Issues[field]), stances...)
		serialized, err := json.Marshal(merged)
		if err != nil {
			return MergeOutcome{}, err
		}
		payload[field] = string(serialized)
	}

	updated, err := facade.ApplyPartialUpdate(ctx, destinationID, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return MergeOutcome{}, fmt.Errorf("failed to update destination record: %w", err)
	}

	span.SetAttributes(attribute.Int("stances_added", added))
	return MergeOutcome{
		Written: payload,
		Added:   added,
		Record:  updated,
	}, nil
}
