package bundle

import (
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Config selects where the bundle is written, Url takes precedence over
// File. File may be ":memory:".
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c Config) Enabled() bool {
	return c.File != "" || c.Url != ""
}

func wrapOpenDB(err error) error {
	return fmt.Errorf("open bundle db: %w", err)
}

// OpenDB opens a remote libsql database when Url is set and a local sqlite
// file otherwise.
func (c Config) OpenDB() (*sql.DB, error) {
	if c.Url != "" {
		values := url.Values{}
		if c.AuthToken != "" {
			values.Add("authToken", c.AuthToken)
		}
		db, err := sql.Open("libsql", c.Url+"?"+values.Encode())
		if err != nil {
			return nil, wrapOpenDB(err)
		}
		return db, nil
	}
	if c.File == "" {
		return nil, wrapOpenDB(fmt.Errorf("neither a file nor a url was specified"))
	}

	if c.File != ":memory:" {
		err := os.MkdirAll(filepath.Dir(c.File), 0777)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}
	db, err := sql.Open("sqlite", c.File)
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	// a single connection keeps sqlite from failing concurrent writes and
	// keeps ":memory:" pointing at one database
	db.SetMaxOpenConns(1)
	if c.File != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}
	return db, nil
}
