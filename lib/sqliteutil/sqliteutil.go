package sqliteutil

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var remoteSchemes = []string{"libsql://", "http://", "https://", "ws://", "wss://"}

// IsRemote reports whether the target is a libsql server url rather than a
// local database file.
func IsRemote(target string) bool {
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(target, scheme) {
			return true
		}
	}
	return false
}

// Exists reports whether the database already exists. Remote databases
// are always considered to exist.
func Exists(target string) bool {
	if IsRemote(target) {
		return true
	}
	if target == ":memory:" {
		return false
	}
	_, err := os.Stat(target)
	return err == nil
}

// Open opens the database at `target` and applies `schema` to it.
//
// A plain path (or ":memory:") opens a local sqlite file, creating it when
// missing. A libsql, http(s) or ws(s) url opens a remote libsql database,
// `authToken` is only used in that case.
func Open(schema, target, authToken string) (*sql.DB, error) {
	if target == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}

	var db *sql.DB
	var err error
	if IsRemote(target) {
		db, err = openRemote(target, authToken)
	} else {
		db, err = openLocal(target)
	}
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func openRemote(target, authToken string) (*sql.DB, error) {
	if authToken != "" {
		parsed, err := url.Parse(target)
		if err != nil {
			return nil, err
		}
		query := parsed.Query()
		query.Set("authToken", authToken)
		parsed.RawQuery = query.Encode()
		target = parsed.String()
	}
	return sql.Open("libsql", target)
}

func openLocal(dbpath string) (*sql.DB, error) {
	if dbpath != ":memory:" {
		err := os.MkdirAll(filepath.Dir(dbpath), 0755)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases alive across queries
	// and serializes writers on file databases.
	db.SetMaxOpenConns(1)

	if dbpath != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
