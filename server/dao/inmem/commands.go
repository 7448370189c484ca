package inmem

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/google/uuid"
)

// NewCommandsRepository creates a new Commands repo. If seshRepo is provided,
// Create refuses commands for sessions that do not exist.
func NewCommandsRepository(seshRepo dao.SessionRepository) *CommandsRepository {
	return &CommandsRepository{
		seshRepo:      seshRepo,
		bySeshIDIndex: make(map[uuid.UUID][]dao.Command),
	}
}

type CommandsRepository struct {
	mtx           sync.RWMutex
	seshRepo      dao.SessionRepository
	bySeshIDIndex map[uuid.UUID][]dao.Command
}

func (imcr *CommandsRepository) Close() error {
	return nil
}

func (imcr *CommandsRepository) Create(ctx context.Context, c dao.Command) (dao.Command, error) {
	if imcr.seshRepo != nil {
		_, err := imcr.seshRepo.GetByID(ctx, c.SessionID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return dao.Command{}, dao.ErrConstraintViolation
			}
			return dao.Command{}, err
		}
	}

	imcr.mtx.Lock()
	defer imcr.mtx.Unlock()

	for _, existing := range imcr.bySeshIDIndex[c.SessionID] {
		if existing.Seq == c.Seq {
			return dao.Command{}, dao.ErrConstraintViolation
		}
	}

	newUUID, err := newID()
	if err != nil {
		return dao.Command{}, err
	}

	c.ID = newUUID
	c.Created = time.Now()

	imcr.bySeshIDIndex[c.SessionID] = append(imcr.bySeshIDIndex[c.SessionID], c)

	return c, nil
}

func (imcr *CommandsRepository) GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]dao.Command, error) {
	imcr.mtx.RLock()
	defer imcr.mtx.RUnlock()

	all := slices.Clone(imcr.bySeshIDIndex[sessionID])
	slices.SortFunc(all, func(l, r dao.Command) int {
		return l.Seq - r.Seq
	})
	return all, nil
}

func (imcr *CommandsRepository) DeleteAllBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	imcr.mtx.Lock()
	defer imcr.mtx.Unlock()

	n := len(imcr.bySeshIDIndex[sessionID])
	delete(imcr.bySeshIDIndex, sessionID)
	return n, nil
}
