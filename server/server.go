// Package server runs the Verbly REST server, which lets players hold game
// sessions over HTTP.
//
// Every endpoint lives under /api/v1:
//
//	POST   /login                    log in and get a token
//	DELETE /login/{id}               log out, invalidating all tokens
//	POST   /tokens                   get a fresh token
//	GET    /info                     version info
//	GET    /worlds                   names of playable worlds
//	GET    /users                    all users (admin only)
//	POST   /users                    create a user (admin only)
//	GET    /users/{id}               get a user
//	DELETE /users/{id}               delete a user and their sessions
//	GET    /sessions                 sessions of the logged-in user
//	POST   /sessions                 start a game
//	GET    /sessions/{id}            get a session
//	DELETE /sessions/{id}            end and remove a session
//	POST   /sessions/{id}/commands   give a line of input to the game
//	GET    /sessions/{id}/commands   history of a session
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dekarrin/verbly/internal/vbw"
	"github.com/dekarrin/verbly/server/api"
	"github.com/dekarrin/verbly/server/dao"
	"github.com/dekarrin/verbly/server/serr"
	"github.com/dekarrin/verbly/server/svc"
	"go.uber.org/zap"
)

// Server is an HTTP REST server that provides Verbly games and associated
// resources. The zero-value of a Server should not be used directly; call New
// to get one ready for use.
type Server struct {
	Backend *svc.Service

	router http.Handler
	addr   string
	log    *zap.Logger
}

// New creates a Server from cfg. Unset values in cfg are given their defaults
// before it is checked. Every world file in cfg is loaded now, so a broken one
// stops the server from starting.
func New(cfg Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	worlds, err := LoadWorlds(cfg.Worlds)
	if err != nil {
		return nil, err
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}

	backend := &svc.Service{
		DB:     db,
		Worlds: worlds,
		Log:    log.Named("svc"),
	}

	srv := &Server{
		Backend: backend,
		addr:    cfg.ListenAddress,
		log:     log,
		router: api.NewRouter(api.API{
			Backend:     backend,
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
			Log:         log.Named("api"),
		}),
	}

	return srv, nil
}

// LoadWorlds loads every world file in paths and keys it by its file name with
// the extension removed.
func LoadWorlds(paths []string) (map[string]vbw.WorldData, error) {
	worlds := make(map[string]vbw.WorldData, len(paths))
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if _, ok := worlds[name]; ok {
			return nil, fmt.Errorf("world %q: loaded more than once", name)
		}

		wd, err := vbw.LoadResourceBundle(p)
		if err != nil {
			return nil, fmt.Errorf("world %q: %w", p, err)
		}
		worlds[name] = wd
	}
	return worlds, nil
}

// Handler gives the handler that routes all requests to the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// EnsureAdmin creates an admin user with the given credentials unless a user
// with that name already exists. It returns whether one was created.
func (s *Server) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.Backend.CreateUser(ctx, username, password, "", dao.Admin)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ServeForever begins listening on the configured address for HTTP REST
// client requests. It only returns if the server fails.
func (s *Server) ServeForever() error {
	s.log.Info("listening", zap.String("address", s.addr))
	return http.ListenAndServe(s.addr, s.router)
}

// Close releases the DB.
func (s *Server) Close() error {
	return s.Backend.DB.Close()
}
