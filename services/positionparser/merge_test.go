package positionparser

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeFacade struct {
	records map[string]Record

	fetchErr  error
	updateErr error

	fetches int
	updates []map[string]string
}

func (f *fakeFacade) Fetch(ctx context.Context, id string) (Record, error) {
	f.fetches++
	if f.fetchErr != nil {
		return Record{}, f.fetchErr
	}
	record, ok := f.records[id]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return record, nil
}

func (f *fakeFacade) ApplyPartialUpdate(ctx context.Context, id string, fields map[string]string) (Record, error) {
	if f.updateErr != nil {
		return Record{}, f.updateErr
	}
	record, ok := f.records[id]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	f.updates = append(f.updates, fields)
	for field, value := range fields {
		record.Issues[field] = value
	}
	f.records[id] = record
	return record, nil
}

func stances(t *testing.T, serialized string) []string {
	t.Helper()
	var out []string
	require.NoError(t, json.Unmarshal([]byte(serialized), &out))
	return out
}

func TestMergeAppendsAfterExisting(t *testing.T) {
	facade := &fakeFacade{records: map[string]Record{
		"p1": {ID: "p1", Name: "Jane Doe", Issues: map[string]string{
			"healthCare": `["For universal coverage"]`,
		}},
	}}

	result := &Result{Positions: []Position{
		{Stance: "Against drug price caps"},
	}}
	selection := NewSelection(1)
	selection.SetCategory(0, CategoryHealthCare)

	outcome, err := Merge(context.Background(), facade, "p1", result, selection)
	require.NoError(t, err)
	require.Equal(t, 1, outcome.Added)

	diff := cmp.Diff(
		[]string{"For universal coverage", "Against drug price caps"},
		stances(t, outcome.Written["healthCare"]),
	)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestMergeOmitsUntouchedFields(t *testing.T) {
	facade := &fakeFacade{records: map[string]Record{
		"p1": {ID: "p1", Issues: map[string]string{
			"healthCare": `["existing"]`,
		}},
	}}

	result := &Result{Positions: []Position{{Stance: "tuition-free college"}}}
	selection := NewSelection(1)
	selection.SetCategory(0, CategoryEducation)

	outcome, err := Merge(context.Background(), facade, "p1", result, selection)
	require.NoError(t, err)

	require.Len(t, outcome.Written, 1)
	_, touched := outcome.Written["healthCare"]
	require.False(t, touched, "a commit touching only education must not write healthCare")
	require.Len(t, facade.updates, 1)
	require.Equal(t, `["existing"]`, facade.records["p1"].Issues["healthCare"])
}

func TestMergeLegacyScalarIsWrapped(t *testing.T) {
	// records written before the list format hold a bare string;
	// that stance must survive as the first element
	facade := &fakeFacade{records: map[string]Record{
		"p1": {ID: "p1", Issues: map[string]string{
			"environment": `"Supports the clean air act"`,
		}},
	}}

	result := &Result{Positions: []Position{{Stance: "For carbon pricing"}}}
	selection := NewSelection(1)
	selection.SetCategory(0, CategoryEnvironment)

	outcome, err := Merge(context.Background(), facade, "p1", result, selection)
	require.NoError(t, err)
	require.Equal(t,
		[]string{"Supports the clean air act", "For carbon pricing"},
		stances(t, outcome.Written["environment"]),
	)
}

func TestMergeUnparseableStoredValueReadsAsEmpty(t *testing.T) {
	facade := &fakeFacade{records: map[string]Record{
		"p1": {ID: "p1", Issues: map[string]string{
			"civilRights": `{broken`,
		}},
	}}

	result := &Result{Positions: []Position{{Stance: "s"}}}
	selection := NewSelection(1)
	selection.SetCategory(0, CategoryCivilRights)

	outcome, err := Merge(context.Background(), facade, "p1", result, selection)
	require.NoError(t, err)
	require.Equal(t, []string{"s"}, stances(t, outcome.Written["civilRights"]))
}

func TestMergeSkipsDeselected(t *testing.T) {
	facade := &fakeFacade{records: map[string]Record{
		"p1": {ID: "p1", Issues: map[string]string{}},
	}}

	result := &Result{Positions: []Position{
		{Stance: "kept"},
		{Stance: "dropped"},
	}}
	selection := NewSelection(2)
	selection.SetCategory(0, CategoryEducation)
	selection.SetCategory(1, CategoryEducation)
	selection.Toggle(1)

	outcome, err := Merge(context.Background(), facade, "p1", result, selection)
	require.NoError(t, err)
	require.Equal(t, []string{"kept"}, stances(t, outcome.Written["education"]))
}

func TestMergeNotReady(t *testing.T) {
	facade := &fakeFacade{records: map[string]Record{"p1": {ID: "p1", Issues: map[string]string{}}}}

	result := &Result{Positions: []Position{{Stance: "s"}}}
	selection := NewSelection(1)

	_, err := Merge(context.Background(), facade, "p1", result, selection)
	require.ErrorIs(t, err, ErrNotReady)
	require.Equal(t, 0, facade.fetches, "a blocked commit must not touch the store")
}

func TestMergeFetchFailureWritesNothing(t *testing.T) {
	facade := &fakeFacade{
		records:  map[string]Record{},
		fetchErr: errors.New("store is down"),
	}

	result := &Result{Positions: []Position{{Stance: "s"}}}
	selection := NewSelection(1)
	selection.SetCategory(0, CategoryEducation)

	_, err := Merge(context.Background(), facade, "p1", result, selection)
	require.Error(t, err)
	require.Empty(t, facade.updates)
}

func TestMergeWriteFailureSurfaces(t *testing.T) {
	facade := &fakeFacade{
		records:   map[string]Record{"p1": {ID: "p1", Issues: map[string]string{}}},
		updateErr: errors.New("destination deleted concurrently"),
	}

	result := &Result{Positions: []Position{{Stance: "s"}}}
	selection := NewSelection(1)
	selection.SetCategory(0, CategoryEducation)

	_, err := Merge(context.Background(), facade, "p1", result, selection)
	require.Error(t, err)
}

func TestMergeEndToEndScenario(t *testing.T) {
	// two extracted positions, one destined for an empty field and one
	// appended to an existing stance
	facade := &fakeFacade{records: map[string]Record{
		"p1": {ID: "p1", Name: "Jane Doe", Issues: map[string]string{
			"publicSafety": `["For community policing reform"]`,
		}},
	}}

	result := &Result{
		PoliticianName: "Jane Doe",
		Positions: []Position{
			{Stance: "For a higher minimum wage"},
			{Stance: "Against qualified immunity"},
		},
	}
	selection := NewSelection(2)
	selection.SetCategory(0, CategoryEconomicPolicy)
	selection.SetCategory(1, CategoryPublicSafety)

	outcome, err := Merge(context.Background(), facade, "p1", result, selection)
	require.NoError(t, err)
	require.Equal(t, 2, outcome.Added)
	require.Len(t, outcome.Written, 2)
	require.Equal(t,
		[]string{"For a higher minimum wage"},
		stances(t, outcome.Written["economicPolicy"]),
	)
	require.Equal(t,
		[]string{"For community policing reform", "Against qualified immunity"},
		stances(t, outcome.Written["publicSafety"]),
	)
}

func TestSuggestDestination(t *testing.T) {
	candidates := []Candidate{
		{ID: "1", Name: "Jane Doe"},
		{ID: "2", Name: "John Q. Public"},
	}

	suggested, ok := SuggestDestination("jane  doe", candidates)
	require.True(t, ok)
	require.Equal(t, "1", suggested.ID)

	_, ok = SuggestDestination("Somebody Unrelated", candidates)
	require.False(t, ok)

	_, ok = SuggestDestination("", candidates)
	require.False(t, ok)
}
