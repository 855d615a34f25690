package testutil

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/gzambran/poligrade/lib/telemetry"

	_ "modernc.org/sqlite"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService opens an in-memory sqlite database with the given schema
// and configures telemetry for the test.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, "test:"+params.Name)

	var sqlite *sql.DB
	if params.DbSchema != "" {
		var err error
		sqlite, err = sql.Open("sqlite", ":memory:")
		if err != nil {
			t.Fatal(err)
		}
		// every pooled connection would get its own empty in-memory db
		sqlite.SetMaxOpenConns(1)
		_, err = sqlite.Exec(params.DbSchema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			t.Fatal(err)
		}
	}

	return ServiceResult{DB: sqlite}, func() {
		if sqlite != nil {
			sqlite.Close()
		}
		cleanup()
	}
}
