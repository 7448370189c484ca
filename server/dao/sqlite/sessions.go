package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/google/uuid"
)

// SessionsDB is the dao.SessionRepository of a sqlite store.
type SessionsDB struct {
	db *sql.DB
}

const sessionColumns = `id, user_id, world, state, over, commands, created, modified`

func (repo *SessionsDB) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	id, err := newID()
	if err != nil {
		return dao.Session{}, err
	}
	state, err := dbState(s.State)
	if err != nil {
		return dao.Session{}, err
	}

	now := dbTime(time.Now())
	_, err = exec(ctx, repo.db, `INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		id.String(), s.UserID.String(), s.World, state, dbBool(s.Over), s.Commands, now, now,
	)
	if err != nil {
		return dao.Session{}, err
	}
	return repo.GetByID(ctx, id)
}

func (repo *SessionsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	return scanSession(repo.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?;`, id.String()))
}

func (repo *SessionsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Session, error) {
	return queryAll(ctx, repo.db, scanSession, `SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? ORDER BY created;`, userID.String())
}

func (repo *SessionsDB) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	state, err := dbState(s.State)
	if err != nil {
		return dao.Session{}, err
	}

	err = execOne(ctx, repo.db, `UPDATE sessions SET id=?, user_id=?, world=?, state=?, over=?, commands=?, modified=? WHERE id=?;`,
		s.ID.String(), s.UserID.String(), s.World, state, dbBool(s.Over), s.Commands, dbTime(time.Now()),
		id.String(),
	)
	if err != nil {
		return dao.Session{}, err
	}
	return repo.GetByID(ctx, s.ID)
}

func (repo *SessionsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	old, err := repo.GetByID(ctx, id)
	if err != nil {
		return old, err
	}
	return old, execOne(ctx, repo.db, `DELETE FROM sessions WHERE id = ?;`, id.String())
}

func (repo *SessionsDB) Close() error {
	return nil
}

func scanSession(row scanner) (dao.Session, error) {
	var (
		s                 dao.Session
		id, userID, state string
		over              int
		created, modified int64
	)

	err := row.Scan(&id, &userID, &s.World, &state, &over, &s.Commands, &created, &modified)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	if s.ID, err = uuid.Parse(id); err != nil {
		return s, decodeErr("session ID", id, err)
	}
	if s.UserID, err = uuid.Parse(userID); err != nil {
		return s, decodeErr("user ID", userID, err)
	}
	if s.State, err = fromDBState(state); err != nil {
		return s, decodeErr("state of session", id, err)
	}
	s.Over = over != 0
	s.Created = fromDBTime(created)
	s.Modified = fromDBTime(modified)

	return s, nil
}
