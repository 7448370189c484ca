package inmem

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/google/uuid"
)

// UsersRepository is a dao.UserRepository held in memory.
type UsersRepository struct {
	mtx    sync.RWMutex
	byID   map[uuid.UUID]dao.User
	byName map[string]uuid.UUID
}

func NewUsersRepository() *UsersRepository {
	return &UsersRepository{
		byID:   map[uuid.UUID]dao.User{},
		byName: map[string]uuid.UUID{},
	}
}

func (repo *UsersRepository) Close() error {
	return nil
}

// Create fails with dao.ErrConstraintViolation if the username is taken.
func (repo *UsersRepository) Create(ctx context.Context, user dao.User) (dao.User, error) {
	id, err := newID()
	if err != nil {
		return dao.User{}, err
	}

	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	if _, taken := repo.byName[user.Username]; taken {
		return dao.User{}, dao.ErrConstraintViolation
	}

	now := time.Now()
	user.ID = id
	user.Created, user.Modified, user.LastLogoutTime = now, now, now
	repo.put(user)
	return user, nil
}

func (repo *UsersRepository) GetAll(ctx context.Context) ([]dao.User, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	all := make([]dao.User, 0, len(repo.byID))
	for _, u := range repo.byID {
		all = append(all, u)
	}
	slices.SortFunc(all, func(l, r dao.User) int {
		return strings.Compare(l.ID.String(), r.ID.String())
	})
	return all, nil
}

// Update replaces every field but Created. Both the ID and the username may
// change as long as they stay unique.
func (repo *UsersRepository) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	old, ok := repo.byID[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	if owner, taken := repo.byName[user.Username]; taken && owner != id {
		return dao.User{}, dao.ErrConstraintViolation
	}
	if _, taken := repo.byID[user.ID]; taken && user.ID != id {
		return dao.User{}, dao.ErrConstraintViolation
	}

	user.Created = old.Created
	user.Modified = time.Now()

	repo.drop(old)
	repo.put(user)
	return user, nil
}

func (repo *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	u, ok := repo.byID[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	return u, nil
}

func (repo *UsersRepository) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	id, ok := repo.byName[username]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	return repo.byID[id], nil
}

func (repo *UsersRepository) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	u, ok := repo.byID[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	repo.drop(u)
	return u, nil
}

func (repo *UsersRepository) put(u dao.User) {
	repo.byID[u.ID] = u
	repo.byName[u.Username] = u.ID
}

func (repo *UsersRepository) drop(u dao.User) {
	delete(repo.byID, u.ID)
	delete(repo.byName, u.Username)
}
