package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const politicianColumns = `id, name, slug, state, district, office, status, grade,
photo_url, party, current_position, running_for, published,
economic_policy, business_labor, health_care, education, environment,
civil_rights, voting_rights, immigration_foreign_affairs, public_safety,
created_at, updated_at`

func scanPolitician(row interface{ Scan(...interface{}) error }) (Politician, error) {
	var p Politician
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.State, &p.District, &p.Office,
		&p.Status, &p.Grade, &p.PhotoUrl, &p.Party, &p.CurrentPosition,
		&p.RunningFor, &p.Published, &p.EconomicPolicy, &p.BusinessLabor,
		&p.HealthCare, &p.Education, &p.Environment, &p.CivilRights,
		&p.VotingRights, &p.ImmigrationForeignAffairs, &p.PublicSafety,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

type ListPoliticiansParams struct {
	// substring match, case-insensitive; empty matches everything
	Name string
	// exact matches; empty matches everything
	State         string
	Office        string
	Status        string
	Grade         string
	PublishedOnly bool
}

func (q *Queries) ListPoliticians(ctx context.Context, params ListPoliticiansParams) ([]Politician, error) {
	query := fmt.Sprintf("SELECT %s FROM politicians", politicianColumns)

	var conds []string
	var args []interface{}
	if params.Name != "" {
		conds = append(conds, "name LIKE '%' || ? || '%' COLLATE NOCASE")
		args = append(args, params.Name)
	}
	if params.State != "" {
		conds = append(conds, "state = ?")
		args = append(args, params.State)
	}
	if params.Office != "" {
		conds = append(conds, "office = ?")
		args = append(args, params.Office)
	}
	if params.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, params.Status)
	}
	if params.Grade != "" {
		conds = append(conds, "grade = ?")
		args = append(args, params.Grade)
	}
	if params.PublishedOnly {
		conds = append(conds, "published = 1")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name ASC"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Politician
	for rows.Next() {
		p, err := scanPolitician(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q *Queries) GetPolitician(ctx context.Context, id string) (Politician, error) {
	row := q.db.QueryRowContext(
		ctx,
		fmt.Sprintf("SELECT %s FROM politicians WHERE id = ?", politicianColumns),
		id,
	)
	return scanPolitician(row)
}

func (q *Queries) GetPublishedPoliticianBySlug(ctx context.Context, slug string) (Politician, error) {
	row := q.db.QueryRowContext(
		ctx,
		fmt.Sprintf("SELECT %s FROM politicians WHERE slug = ? AND published = 1", politicianColumns),
		slug,
	)
	return scanPolitician(row)
}

func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(
		ctx,
		"SELECT COUNT(*) FROM politicians WHERE slug = ?",
		slug,
	).Scan(&n)
	return n > 0, err
}

type CreatePoliticianParams struct {
	ID        string
	Name      string
	Slug      sql.NullString
	State     string
	District  sql.NullString
	Office    string
	Status    string
	Grade     string
	CreatedAt int64
}

func (q *Queries) CreatePolitician(ctx context.Context, params CreatePoliticianParams) error {
	_, err := q.db.ExecContext(
		ctx,
		`INSERT INTO politicians (id, name, slug, state, district, office, status, grade, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		params.ID, params.Name, params.Slug, params.State, params.District,
		params.Office, params.Status, params.Grade,
		params.CreatedAt, params.CreatedAt,
	)
	return err
}

// column names allowed through UpdatePoliticianFields; anything else is
// a programming error in the caller
var updatableColumns = map[string]bool{
	"name":                        true,
	"slug":                        true,
	"state":                       true,
	"district":                    true,
	"office":                      true,
	"status":                      true,
	"grade":                       true,
	"photo_url":                   true,
	"party":                       true,
	"current_position":            true,
	"running_for":                 true,
	"published":                   true,
	"economic_policy":             true,
	"business_labor":              true,
	"health_care":                 true,
	"education":                   true,
	"environment":                 true,
	"civil_rights":                true,
	"voting_rights":               true,
	"immigration_foreign_affairs": true,
	"public_safety":               true,
}

type UpdatePoliticianFieldsParams struct {
	ID        string
	Fields    map[string]interface{}
	UpdatedAt int64
}

// UpdatePoliticianFields performs a partial update: only the columns
// present in Fields are written. Returns sql.ErrNoRows when the id is
// unknown.
func (q *Queries) UpdatePoliticianFields(ctx context.Context, params UpdatePoliticianFieldsParams) error {
	if len(params.Fields) == 0 {
		return nil
	}

	var sets []string
	var args []interface{}
	for column, value := range params.Fields {
		if !updatableColumns[column] {
			return fmt.Errorf("column is not updatable: %s", column)
		}
		sets = append(sets, fmt.Sprintf("%s = ?", column))
		args = append(args, value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, params.UpdatedAt, params.ID)

	res, err := q.db.ExecContext(
		ctx,
		fmt.Sprintf("UPDATE politicians SET %s WHERE id = ?", strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (q *Queries) DeletePolitician(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM politicians WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (q *Queries) ListPoliticiansWithoutSlug(ctx context.Context) ([]Politician, error) {
	rows, err := q.db.QueryContext(
		ctx,
		fmt.Sprintf("SELECT %s FROM politicians WHERE slug IS NULL OR slug = ''", politicianColumns),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Politician
	for rows.Next() {
		p, err := scanPolitician(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
