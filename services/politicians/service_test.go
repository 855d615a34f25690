package politicians

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gzambran/poligrade/lib/testutil"
	"github.com/gzambran/poligrade/services/politicians/db"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) Service {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "politicians",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	return NewService(result.DB)
}

func create(t *testing.T, service Service, form CreateForm) Politician {
	t.Helper()
	politician, err := service.Create(context.Background(), form)
	require.NoError(t, err)
	return politician
}

func validForm() CreateForm {
	return CreateForm{
		Name:   "Jane Doe",
		State:  "CA",
		Office: "SENATOR",
		Status: "INCUMBENT",
		Grade:  "PROGRESSIVE",
	}
}

func TestCreateAndGet(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	created := create(t, service, validForm())
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.Slug)
	require.Equal(t, "jane-doe", *created.Slug)
	require.False(t, created.Published)
	require.Nil(t, created.EconomicPolicy)

	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestCreateValidation(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	form := validForm()
	form.Name = ""
	_, err := service.Create(ctx, form)
	require.ErrorIs(t, err, ErrInvalid)

	form = validForm()
	form.Office = "MAYOR"
	_, err = service.Create(ctx, form)
	require.ErrorIs(t, err, ErrInvalid)

	form = validForm()
	form.Grade = "A+"
	_, err = service.Create(ctx, form)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestCreateDisambiguatesSlugs(t *testing.T) {
	service := setup(t)

	first := create(t, service, validForm())
	second := create(t, service, validForm())
	third := create(t, service, validForm())

	require.Equal(t, "jane-doe", *first.Slug)
	require.Equal(t, "jane-doe-2", *second.Slug)
	require.Equal(t, "jane-doe-3", *third.Slug)
}

func TestGetNotFound(t *testing.T) {
	service := setup(t)

	_, err := service.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePartialLeavesOtherFieldsAlone(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	created := create(t, service, validForm())
	_, err := service.Update(ctx, created.ID, map[string]json.RawMessage{
		"healthCare": json.RawMessage(`["For universal coverage"]`),
	})
	require.NoError(t, err)

	updated, err := service.Update(ctx, created.ID, map[string]json.RawMessage{
		"education": json.RawMessage(`["tuition-free college"]`),
		"party":     json.RawMessage(`"DEMOCRAT"`),
	})
	require.NoError(t, err)

	require.Equal(t, "Jane Doe", updated.Name)
	require.NotNil(t, updated.HealthCare)
	require.Equal(t, `["For universal coverage"]`, *updated.HealthCare)
	require.NotNil(t, updated.Education)
	require.Equal(t, `["tuition-free college"]`, *updated.Education)
	require.Equal(t, "DEMOCRAT", *updated.Party)
}

func TestUpdateEmptyStanceListStoresNull(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	created := create(t, service, validForm())
	updated, err := service.Update(ctx, created.ID, map[string]json.RawMessage{
		"environment": json.RawMessage(`["s"]`),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Environment)

	updated, err = service.Update(ctx, created.ID, map[string]json.RawMessage{
		"environment": json.RawMessage(`[]`),
	})
	require.NoError(t, err)
	require.Nil(t, updated.Environment, "an emptied stance list reads back as null, not \"[]\"")
}

func TestUpdateValidation(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	created := create(t, service, validForm())

	_, err := service.Update(ctx, created.ID, map[string]json.RawMessage{
		"favoriteColor": json.RawMessage(`"blue"`),
	})
	require.ErrorIs(t, err, ErrInvalid)

	_, err = service.Update(ctx, created.ID, map[string]json.RawMessage{
		"name": json.RawMessage(`""`),
	})
	require.ErrorIs(t, err, ErrInvalid)

	_, err = service.Update(ctx, created.ID, map[string]json.RawMessage{
		"status": json.RawMessage(`"RETIRED"`),
	})
	require.ErrorIs(t, err, ErrInvalid)

	_, err = service.Update(ctx, "missing", map[string]json.RawMessage{
		"name": json.RawMessage(`"X"`),
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePublish(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	created := create(t, service, validForm())
	updated, err := service.Update(ctx, created.ID, map[string]json.RawMessage{
		"published": json.RawMessage(`true`),
	})
	require.NoError(t, err)
	require.True(t, updated.Published)
}

func TestListFilters(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	create(t, service, validForm())
	form := validForm()
	form.Name = "John Q. Public"
	form.State = "NY"
	form.Grade = "CONSERVATIVE"
	create(t, service, form)

	all, err := service.List(ctx, Filters{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	byName, err := service.List(ctx, Filters{Name: "jane"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	require.Equal(t, "Jane Doe", byName[0].Name)

	byState, err := service.List(ctx, Filters{State: "NY"})
	require.NoError(t, err)
	require.Len(t, byState, 1)

	byGrade, err := service.List(ctx, Filters{Grade: "CONSERVATIVE"})
	require.NoError(t, err)
	require.Len(t, byGrade, 1)

	none, err := service.List(ctx, Filters{State: "TX"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestPublicListFormatsLabels(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	form := validForm()
	form.District = "12"
	created := create(t, service, form)

	// drafts stay off the public listing
	summaries, err := service.PublicList(ctx, "")
	require.NoError(t, err)
	require.Empty(t, summaries)

	_, err = service.Update(ctx, created.ID, map[string]json.RawMessage{
		"published": json.RawMessage(`true`),
	})
	require.NoError(t, err)

	summaries, err = service.PublicList(ctx, "progressive")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "Senator", summaries[0].Office)
	require.Equal(t, "Incumbent", summaries[0].Status)
	require.Equal(t, "Progressive", summaries[0].Grade)
	require.Equal(t, "12", summaries[0].District)
}

func TestGetBySlugRequiresPublished(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	created := create(t, service, validForm())
	_, err := service.GetBySlug(ctx, "jane-doe")
	require.ErrorIs(t, err, ErrNotFound, "unpublished profiles stay invisible to the public")

	_, err = service.Update(ctx, created.ID, map[string]json.RawMessage{
		"published": json.RawMessage(`true`),
	})
	require.NoError(t, err)

	got, err := service.GetBySlug(ctx, "jane-doe")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}

func TestDelete(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	created := create(t, service, validForm())
	require.NoError(t, service.Delete(ctx, created.ID))

	_, err := service.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, service.Delete(ctx, created.ID), ErrNotFound)
}

func TestBackfillSlugs(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	// simulate rows created before slugs existed
	for _, name := range []string{"Jane Doe", "John Q. Public"} {
		id := name
		err := service.qry.CreatePolitician(ctx, db.CreatePoliticianParams{
			ID:        id,
			Name:      name,
			State:     "CA",
			Office:    "SENATOR",
			Status:    "INCUMBENT",
			Grade:     "PENDING",
			CreatedAt: 1,
		})
		require.NoError(t, err)
	}

	count, err := service.BackfillSlugs(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	first, err := service.Get(ctx, "Jane Doe")
	require.NoError(t, err)
	require.NotNil(t, first.Slug)
	require.Equal(t, "jane-doe", *first.Slug)

	again, err := service.BackfillSlugs(ctx)
	require.NoError(t, err)
	require.Zero(t, again)
}
