package politicians

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gzambran/poligrade/lib/slugutil"
	"github.com/gzambran/poligrade/services/politicians/db"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/politicians")

var ErrNotFound = errors.New("politician not found")
var ErrInvalid = errors.New("invalid politician data")

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

// Politician is the full record shape served to the admin UI and the
// parser's record facade. Issue fields hold serialized JSON arrays of
// stance strings; nil means nothing recorded yet.
type Politician struct {
	ID                        string  `json:"id"`
	Name                      string  `json:"name"`
	Slug                      *string `json:"slug"`
	State                     string  `json:"state"`
	District                  *string `json:"district"`
	Office                    string  `json:"office"`
	Status                    string  `json:"status"`
	Grade                     string  `json:"grade"`
	PhotoUrl                  *string `json:"photoUrl"`
	Party                     *string `json:"party"`
	CurrentPosition           *string `json:"currentPosition"`
	RunningFor                *string `json:"runningFor"`
	Published                 bool    `json:"published"`
	EconomicPolicy            *string `json:"economicPolicy"`
	BusinessLabor             *string `json:"businessLabor"`
	HealthCare                *string `json:"healthCare"`
	Education                 *string `json:"education"`
	Environment               *string `json:"environment"`
	CivilRights               *string `json:"civilRights"`
	VotingRights              *string `json:"votingRights"`
	ImmigrationForeignAffairs *string `json:"immigrationForeignAffairs"`
	PublicSafety              *string `json:"publicSafety"`
	CreatedAt                 string  `json:"createdAt"`
	UpdatedAt                 string  `json:"updatedAt"`
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func fromRow(row db.Politician) Politician {
	return Politician{
		ID:                        row.ID,
		Name:                      row.Name,
		Slug:                      nullable(row.Slug),
		State:                     row.State,
		District:                  nullable(row.District),
		Office:                    row.Office,
		Status:                    row.Status,
		Grade:                     row.Grade,
		PhotoUrl:                  nullable(row.PhotoUrl),
		Party:                     nullable(row.Party),
		CurrentPosition:           nullable(row.CurrentPosition),
		RunningFor:                nullable(row.RunningFor),
		Published:                 row.Published,
		EconomicPolicy:            nullable(row.EconomicPolicy),
		BusinessLabor:             nullable(row.BusinessLabor),
		HealthCare:                nullable(row.HealthCare),
		Education:                 nullable(row.Education),
		Environment:               nullable(row.Environment),
		CivilRights:               nullable(row.CivilRights),
		VotingRights:              nullable(row.VotingRights),
		ImmigrationForeignAffairs: nullable(row.ImmigrationForeignAffairs),
		PublicSafety:              nullable(row.PublicSafety),
		CreatedAt:                 time.Unix(row.CreatedAt, 0).UTC().Format(time.RFC3339),
		UpdatedAt:                 time.Unix(row.UpdatedAt, 0).UTC().Format(time.RFC3339),
	}
}

type Filters struct {
	Name   string
	State  string
	Office string
	Status string
	Grade  string
}

func (s Service) List(ctx context.Context, filters Filters) ([]Politician, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	rows, err := s.qry.ListPoliticians(ctx, db.ListPoliticiansParams{
		Name:   filters.Name,
		State:  filters.State,
		Office: filters.Office,
		Status: filters.Status,
		Grade:  filters.Grade,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]Politician, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out, nil
}

// PublicSummary is the slimmed-down, display-formatted shape served to
// the public listing page.
type PublicSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	State    string `json:"state"`
	District string `json:"district"`
	Office   string `json:"office"`
	Status   string `json:"status"`
	Grade    string `json:"grade"`
}

// PublicList only serves published profiles, same visibility rule as
// GetBySlug.
func (s Service) PublicList(ctx context.Context, grade string) ([]PublicSummary, error) {
	ctx, span := tracer.Start(ctx, "PublicList")
	defer span.End()

	rows, err := s.qry.ListPoliticians(ctx, db.ListPoliticiansParams{
		Grade:         strings.ToUpper(grade),
		PublishedOnly: true,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]PublicSummary, len(rows))
	for i, row := range rows {
		out[i] = PublicSummary{
			ID:       row.ID,
			Name:     row.Name,
			State:    row.State,
			District: row.District.String,
			Office:   FormatOffice(row.Office),
			Status:   FormatStatus(row.Status),
			Grade:    FormatGrade(row.Grade),
		}
	}
	return out, nil
}

func (s Service) Get(ctx context.Context, id string) (Politician, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("id", id))

	row, err := s.qry.GetPolitician(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Politician{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Politician{}, err
	}
	return fromRow(row), nil
}

// GetBySlug only returns published profiles; unpublished records are
// indistinguishable from missing ones to the public.
func (s Service) GetBySlug(ctx context.Context, slug string) (Politician, error) {
	ctx, span := tracer.Start(ctx, "GetBySlug")
	defer span.End()
	span.SetAttributes(attribute.String("slug", slug))

	row, err := s.qry.GetPublishedPoliticianBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return Politician{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Politician{}, err
	}
	return fromRow(row), nil
}

type CreateForm struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	District string `json:"district"`
	Office   string `json:"office"`
	Status   string `json:"status"`
	Grade    string `json:"grade"`
}

func (s Service) Create(ctx context.Context, form CreateForm) (Politician, error) {
	ctx, span := tracer.Start(ctx, "Create")
	defer span.End()

	if form.Name == "" || form.State == "" || form.Office == "" ||
		form.Status == "" || form.Grade == "" {
		return Politician{}, fmt.Errorf("%w: missing required fields", ErrInvalid)
	}
	if _, ok := OfficeLabels[form.Office]; !ok {
		return Politician{}, fmt.Errorf("%w: unknown office %q", ErrInvalid, form.Office)
	}
	if _, ok := StatusLabels[form.Status]; !ok {
		return Politician{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, form.Status)
	}
	if _, ok := GradeLabels[form.Grade]; !ok {
		return Politician{}, fmt.Errorf("%w: unknown grade %q", ErrInvalid, form.Grade)
	}

	slug, err := s.uniqueSlug(ctx, form.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Politician{}, err
	}

	id := uuid.NewString()
	district := sql.NullString{String: form.District, Valid: form.District != ""}
	err = s.qry.CreatePolitician(ctx, db.CreatePoliticianParams{
		ID:        id,
		Name:      form.Name,
		Slug:      sql.NullString{String: slug, Valid: slug != ""},
		State:     form.State,
		District:  district,
		Office:    form.Office,
		Status:    form.Status,
		Grade:     form.Grade,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Politician{}, err
	}
	return s.Get(ctx, id)
}

func (s Service) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slugutil.Generate(name)
	if base == "" {
		return "", nil
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.qry.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// maps the JSON field names accepted by Update to their columns
var fieldColumns = map[string]string{
	"name":                      "name",
	"state":                     "state",
	"district":                  "district",
	"office":                    "office",
	"status":                    "status",
	"grade":                     "grade",
	"photoUrl":                  "photo_url",
	"party":                     "party",
	"currentPosition":           "current_position",
	"runningFor":                "running_for",
	"published":                 "published",
	"economicPolicy":            "economic_policy",
	"businessLabor":             "business_labor",
	"healthCare":                "health_care",
	"education":                 "education",
	"environment":               "environment",
	"civilRights":               "civil_rights",
	"votingRights":              "voting_rights",
	"immigrationForeignAffairs": "immigration_foreign_affairs",
	"publicSafety":              "public_safety",
}

// IssueFields lists the JSON field names of the nine policy categories.
var IssueFields = []string{
	"economicPolicy", "businessLabor", "healthCare", "education",
	"environment", "civilRights", "votingRights",
	"immigrationForeignAffairs", "publicSafety",
}

var issueFieldSet = func() map[string]bool {
	out := map[string]bool{}
	for _, f := range IssueFields {
		out[f] = true
	}
	return out
}()

var requiredFields = map[string]bool{
	"name": true, "state": true, "office": true,
	"status": true, "grade": true,
}

var enumFields = map[string]map[string]string{
	"office": OfficeLabels,
	"status": StatusLabels,
	"grade":  GradeLabels,
	"party":  PartyLabels,
}

// Update applies a partial update: only the fields present in the
// payload are written, everything else keeps its stored value. Issue
// fields accept a JSON array of stances (serialized at rest), a bare
// string, or null.
func (s Service) Update(ctx context.Context, id string, fields map[string]json.RawMessage) (Politician, error) {
	ctx, span := tracer.Start(ctx, "Update")
	defer span.End()
	span.SetAttributes(attribute.String("id", id))

	columns := map[string]interface{}{}
	for name, raw := range fields {
		column, ok := fieldColumns[name]
		if !ok {
			return Politician{}, fmt.Errorf("%w: unknown field %q", ErrInvalid, name)
		}

		value, err := decodeField(name, raw)
		if err != nil {
			return Politician{}, err
		}
		columns[column] = value
	}

	err := s.qry.UpdatePoliticianFields(ctx, db.UpdatePoliticianFieldsParams{
		ID:        id,
		Fields:    columns,
		UpdatedAt: time.Now().Unix(),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Politician{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Politician{}, err
	}
	return s.Get(ctx, id)
}

func decodeField(name string, raw json.RawMessage) (interface{}, error) {
	if issueFieldSet[name] {
		return decodeIssueField(name, raw)
	}

	if name == "published" {
		var published bool
		if err := json.Unmarshal(raw, &published); err != nil {
			return nil, fmt.Errorf("%w: field %q must be a boolean", ErrInvalid, name)
		}
		return published, nil
	}

	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: field %q must be a string", ErrInvalid, name)
	}
	if value == nil || *value == "" {
		if requiredFields[name] {
			return nil, fmt.Errorf("%w: field %q may not be empty", ErrInvalid, name)
		}
		return sql.NullString{}, nil
	}
	if labels, ok := enumFields[name]; ok {
		if _, known := labels[*value]; !known {
			return nil, fmt.Errorf("%w: unknown %s %q", ErrInvalid, name, *value)
		}
	}
	if requiredFields[name] {
		return *value, nil
	}
	return sql.NullString{String: *value, Valid: true}, nil
}

func decodeIssueField(name string, raw json.RawMessage) (interface{}, error) {
	var stances []string
	if err := json.Unmarshal(raw, &stances); err == nil {
		if len(stances) == 0 {
			// zero stances serialize to null at rest, never "[]"
			return sql.NullString{}, nil
		}
		serialized, err := json.Marshal(stances)
		if err != nil {
			return nil, err
		}
		return sql.NullString{String: string(serialized), Valid: true}, nil
	}

	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: field %q must be a list of stances", ErrInvalid, name)
	}
	if value == nil {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: *value, Valid: true}, nil
}

func (s Service) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()
	span.SetAttributes(attribute.String("id", id))

	err := s.qry.DeletePolitician(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// BackfillSlugs generates slugs for records created before slugs
// existed. Returns the number of records updated.
func (s Service) BackfillSlugs(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "BackfillSlugs")
	defer span.End()

	rows, err := s.qry.ListPoliticiansWithoutSlug(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	count := 0
	for _, row := range rows {
		slug, err := s.uniqueSlug(ctx, row.Name)
		if err != nil {
			return count, err
		}
		if slug == "" {
			continue
		}
		err = s.qry.UpdatePoliticianFields(ctx, db.UpdatePoliticianFieldsParams{
			ID:        row.ID,
			Fields:    map[string]interface{}{"slug": slug},
			UpdatedAt: time.Now().Unix(),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return count, err
		}
		count++
	}
	return count, nil
}
