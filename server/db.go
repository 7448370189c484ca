package server

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/dekarrin/verbly/server/dao/inmem"
	"github.com/dekarrin/verbly/server/dao/sqlite"
)

// DBType names a kind of persistence.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

// ParseDBType gives the DBType named by s, ignoring case. "none" is not
// accepted.
func ParseDBType(s string) (DBType, error) {
	switch t := DBType(strings.ToLower(s)); t {
	case DatabaseSQLite, DatabaseInMemory:
		return t, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database says where sessions and users are kept.
type Database struct {
	Type DBType

	// DataDir is the directory the database file goes in. SQLite only.
	DataDir string
}

// ParseDBConnString reads a Database from a string of the form "inmem" or
// "sqlite:DIR".
func ParseDBConnString(s string) (Database, error) {
	engine, param, _ := strings.Cut(s, ":")
	param = strings.TrimSpace(param)

	if strings.EqualFold(strings.TrimSpace(engine), DatabaseNone.String()) {
		return Database{}, fmt.Errorf("cannot specify DB engine 'none' (perhaps you wanted 'inmem'?)")
	}
	t, err := ParseDBType(strings.TrimSpace(engine))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	db := Database{Type: t, DataDir: param}
	switch {
	case t == DatabaseInMemory && param != "":
		return Database{}, fmt.Errorf("in-memory DB engine takes no params but got %q", param)
	case t == DatabaseSQLite && param == "":
		return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
	}
	return db, nil
}

// Validate checks that db names a usable type and has what that type needs.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Connect opens the store db describes, creating its data directory if needed.
func (db Database) Connect() (dao.Store, error) {
	if err := db.Validate(); err != nil {
		return nil, err
	}
	if db.Type == DatabaseInMemory {
		return inmem.NewDatastore(), nil
	}

	if err := os.MkdirAll(db.DataDir, 0770); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := sqlite.NewDatastore(db.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite: %w", err)
	}
	return st, nil
}
