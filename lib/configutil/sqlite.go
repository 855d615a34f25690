package configutil

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Sqlite points at the politician record store. When Url is set the
// libsql driver is used (remote turso databases), otherwise File is
// opened as a local sqlite database. ":memory:" works for File.
type Sqlite struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// OpenDB opens the database and applies the given schema.
func (config Sqlite) OpenDB(schema string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch {
	case config.Url != "":
		dsn := config.Url
		if config.AuthToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", config.Url, config.AuthToken)
		}
		db, err = sql.Open("libsql", dsn)
	case config.File != "" && config.File != ":memory:":
		_, statErr := os.Stat(config.File)
		if os.IsNotExist(statErr) {
			f, err := os.Create(config.File)
			if err != nil {
				return nil, err
			}
			f.Close()
		}
		db, err = sql.Open("sqlite", config.File)
	case config.File == ":memory:":
		db, err = sql.Open("sqlite", ":memory:")
	default:
		return nil, fmt.Errorf("a database path was not specified")
	}
	if err != nil {
		return nil, err
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	if config.Url == "" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			return nil, err
		}
	}

	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}
	return db, nil
}
