// Package inmem is a dao.Store that keeps everything in memory. Everything is
// lost when the process exits.
package inmem

import (
	"errors"
	"fmt"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/google/uuid"
)

type store struct {
	users  *UsersRepository
	seshes *SessionsRepository
	cmds   *CommandsRepository
}

// NewDatastore creates an empty in-memory store.
func NewDatastore() dao.Store {
	st := &store{
		users:  NewUsersRepository(),
		seshes: NewSessionsRepository(),
	}
	st.cmds = NewCommandsRepository(st.seshes)
	return st
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Sessions() dao.SessionRepository {
	return s.seshes
}

func (s *store) Commands() dao.CommandRepository {
	return s.cmds
}

func (s *store) Close() error {
	return errors.Join(s.users.Close(), s.seshes.Close(), s.cmds.Close())
}

func newID() (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("could not generate ID: %w", err)
	}
	return id, nil
}
