package inmem

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/google/uuid"
)

func NewSessionsRepository() *SessionsRepository {
	return &SessionsRepository{
		seshes:        make(map[uuid.UUID]dao.Session),
		byUserIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type SessionsRepository struct {
	mtx           sync.RWMutex
	seshes        map[uuid.UUID]dao.Session
	byUserIDIndex map[uuid.UUID][]uuid.UUID
}

func (imsr *SessionsRepository) Close() error {
	return nil
}

func (imsr *SessionsRepository) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()

	newUUID, err := newID()
	if err != nil {
		return dao.Session{}, err
	}

	s.ID = newUUID
	s.Created = time.Now()
	s.Modified = s.Created
	s.State = *s.State.Copy()

	imsr.seshes[s.ID] = s
	imsr.byUserIDIndex[s.UserID] = append(imsr.byUserIDIndex[s.UserID], s.ID)

	return copySession(s), nil
}

func (imsr *SessionsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Session, error) {
	imsr.mtx.RLock()
	defer imsr.mtx.RUnlock()

	byUser := imsr.byUserIDIndex[userID]
	all := make([]dao.Session, len(byUser))
	for i := range byUser {
		all[i] = copySession(imsr.seshes[byUser[i]])
	}

	slices.SortStableFunc(all, func(l, r dao.Session) int {
		return l.Created.Compare(r.Created)
	})

	return all, nil
}

func (imsr *SessionsRepository) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()

	existing, ok := imsr.seshes[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}
	if s.ID != id {
		if _, ok := imsr.seshes[s.ID]; ok {
			return dao.Session{}, dao.ErrConstraintViolation
		}
	}

	s.Created = existing.Created
	s.Modified = time.Now()
	s.State = *s.State.Copy()

	imsr.removeFromIndex(existing)
	delete(imsr.seshes, id)
	imsr.seshes[s.ID] = s
	imsr.byUserIDIndex[s.UserID] = append(imsr.byUserIDIndex[s.UserID], s.ID)

	return copySession(s), nil
}

func (imsr *SessionsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	imsr.mtx.RLock()
	defer imsr.mtx.RUnlock()

	s, ok := imsr.seshes[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	return copySession(s), nil
}

func (imsr *SessionsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()

	s, ok := imsr.seshes[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	imsr.removeFromIndex(s)
	delete(imsr.seshes, s.ID)

	return s, nil
}

func (imsr *SessionsRepository) removeFromIndex(s dao.Session) {
	byUser := slices.DeleteFunc(imsr.byUserIDIndex[s.UserID], func(id uuid.UUID) bool {
		return id == s.ID
	})
	if len(byUser) < 1 {
		delete(imsr.byUserIDIndex, s.UserID)
	} else {
		imsr.byUserIDIndex[s.UserID] = byUser
	}
}

// copySession keeps callers from sharing the maps in a stored State.
func copySession(s dao.Session) dao.Session {
	s.State = *s.State.Copy()
	return s
}
