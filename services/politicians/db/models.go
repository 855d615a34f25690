package db

import "database/sql"

type Politician struct {
	ID                        string
	Name                      string
	Slug                      sql.NullString
	State                     string
	District                  sql.NullString
	Office                    string
	Status                    string
	Grade                     string
	PhotoUrl                  sql.NullString
	Party                     sql.NullString
	CurrentPosition           sql.NullString
	RunningFor                sql.NullString
	Published                 bool
	EconomicPolicy            sql.NullString
	BusinessLabor             sql.NullString
	HealthCare                sql.NullString
	Education                 sql.NullString
	Environment               sql.NullString
	CivilRights               sql.NullString
	VotingRights              sql.NullString
	ImmigrationForeignAffairs sql.NullString
	PublicSafety              sql.NullString
	CreatedAt                 int64
	UpdatedAt                 int64
}
