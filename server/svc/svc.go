// Package svc has services for interacting with the Verbly server backend
// decoupled from the API that accesses it.
package svc

import (
	"maps"
	"slices"
	"sync"

	"github.com/dekarrin/verbly/internal/vbw"
	"github.com/dekarrin/verbly/server/dao"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service is a service for interacting with and modifying the Verbly server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it. A Service must not be copied after first
// use.
type Service struct {
	// DB is the persistence store of the service.
	DB dao.Store

	// Worlds are the worlds sessions can be started in, keyed by name.
	Worlds map[string]vbw.WorldData

	// Log receives debug output from games. If nil, nothing is logged.
	Log *zap.Logger

	// HashCost is the bcrypt cost of new password hashes. If zero,
	// bcrypt.DefaultCost is used.
	HashCost int

	mtx   sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// WorldNames returns the names of all worlds that sessions can be started in,
// in sorted order.
func (svc *Service) WorldNames() []string {
	return slices.Sorted(maps.Keys(svc.Worlds))
}

func (svc *Service) hashCost() int {
	if svc.HashCost == 0 {
		return bcrypt.DefaultCost
	}
	return svc.HashCost
}

func (svc *Service) logger() *zap.Logger {
	if svc.Log == nil {
		return zap.NewNop()
	}
	return svc.Log
}

// lockSession blocks until no other caller holds the session and returns the
// function that releases it.
func (svc *Service) lockSession(id uuid.UUID) func() {
	svc.mtx.Lock()
	if svc.locks == nil {
		svc.locks = map[uuid.UUID]*sync.Mutex{}
	}
	m, ok := svc.locks[id]
	if !ok {
		m = &sync.Mutex{}
		svc.locks[id] = m
	}
	svc.mtx.Unlock()

	m.Lock()
	return m.Unlock
}

func (svc *Service) forgetSession(id uuid.UUID) {
	svc.mtx.Lock()
	defer svc.mtx.Unlock()
	delete(svc.locks, id)
}
