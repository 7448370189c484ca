// Package sqlite is a dao.Store kept in a SQLite database file, using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// DBFilename is the name of the database file within the storage directory.
const DBFilename = "data.db"

// schema is run in order every time a store is opened.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		email TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		last_logout_time INTEGER NOT NULL,
		last_login_time INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE,
		world TEXT NOT NULL,
		state TEXT NOT NULL,
		over INTEGER NOT NULL,
		commands INTEGER NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS commands (
		id TEXT NOT NULL PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE ON UPDATE CASCADE,
		seq INTEGER NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		template TEXT NOT NULL,
		matched INTEGER NOT NULL,
		created INTEGER NOT NULL,
		UNIQUE(session_id, seq)
	);`,
}

type store struct {
	path string
	db   *sql.DB

	users    *UsersDB
	sessions *SessionsDB
	commands *CommandsDB
}

// NewDatastore opens the database in storageDir, creating it and its tables
// if they do not yet exist.
func NewDatastore(storageDir string) (dao.Store, error) {
	path := filepath.Join(storageDir, DBFilename)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: create tables: %w", path, wrapDBError(err))
		}
	}

	return &store{
		path:     path,
		db:       db,
		users:    &UsersDB{db},
		sessions: &SessionsDB{db},
		commands: &CommandsDB{db},
	}, nil
}

func (s *store) Users() dao.UserRepository       { return s.users }
func (s *store) Sessions() dao.SessionRepository { return s.sessions }
func (s *store) Commands() dao.CommandRepository { return s.commands }

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}
	return nil
}

// wrapDBError turns driver errors into the dao errors they stand for.
func wrapDBError(err error) error {
	var sqliteErr *sqlite.Error
	switch {
	case errors.As(err, &sqliteErr):
		// SQLITE_CONSTRAINT and its extended codes
		if sqliteErr.Code()&0xff == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	case errors.Is(err, sql.ErrNoRows):
		return dao.ErrNotFound
	default:
		return err
	}
}

// scanner is a *sql.Row or *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func newID() (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("could not generate ID: %w", err)
	}
	return id, nil
}

// exec runs a statement and gives how many rows it touched.
func exec(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapDBError(err)
	}
	return n, nil
}

// execOne is like exec but fails with dao.ErrNotFound if no row was touched.
func execOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	n, err := exec(ctx, db, query, args...)
	if err != nil {
		return err
	}
	if n < 1 {
		return dao.ErrNotFound
	}
	return nil
}

// queryAll runs a query and scans every row it gives with scan.
func queryAll[E any](ctx context.Context, db *sql.DB, scan func(scanner) (E, error), query string, args ...any) ([]E, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []E
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return all, err
		}
		all = append(all, e)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}
