package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/google/uuid"
)

// CommandsDB is the dao.CommandRepository of a sqlite store.
type CommandsDB struct {
	db *sql.DB
}

const commandColumns = `id, session_id, seq, input, output, template, matched, created`

// Create fails with dao.ErrConstraintViolation if the session does not exist
// or already has a command with the same Seq.
func (repo *CommandsDB) Create(ctx context.Context, c dao.Command) (dao.Command, error) {
	// foreign keys are not enforced by default, so check by hand
	var sessions int
	row := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?;`, c.SessionID.String())
	if err := row.Scan(&sessions); err != nil {
		return dao.Command{}, wrapDBError(err)
	}
	if sessions < 1 {
		return dao.Command{}, dao.ErrConstraintViolation
	}

	id, err := newID()
	if err != nil {
		return dao.Command{}, err
	}

	_, err = exec(ctx, repo.db, `INSERT INTO commands (`+commandColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		id.String(), c.SessionID.String(), c.Seq, c.Input, c.Output, c.Template, dbBool(c.Matched), dbTime(time.Now()),
	)
	if err != nil {
		return dao.Command{}, err
	}

	return scanCommand(repo.db.QueryRowContext(ctx, `SELECT `+commandColumns+` FROM commands WHERE id = ?;`, id.String()))
}

func (repo *CommandsDB) GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]dao.Command, error) {
	return queryAll(ctx, repo.db, scanCommand, `SELECT `+commandColumns+` FROM commands WHERE session_id = ? ORDER BY seq;`, sessionID.String())
}

func (repo *CommandsDB) DeleteAllBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	n, err := exec(ctx, repo.db, `DELETE FROM commands WHERE session_id = ?;`, sessionID.String())
	return int(n), err
}

func (repo *CommandsDB) Close() error {
	return nil
}

func scanCommand(row scanner) (dao.Command, error) {
	var (
		c             dao.Command
		id, sessionID string
		matched       int
		created       int64
	)

	err := row.Scan(&id, &sessionID, &c.Seq, &c.Input, &c.Output, &c.Template, &matched, &created)
	if err != nil {
		return dao.Command{}, wrapDBError(err)
	}

	if c.ID, err = uuid.Parse(id); err != nil {
		return c, decodeErr("command ID", id, err)
	}
	if c.SessionID, err = uuid.Parse(sessionID); err != nil {
		return c, decodeErr("session ID", sessionID, err)
	}
	c.Matched = matched != 0
	c.Created = fromDBTime(created)

	return c, nil
}
