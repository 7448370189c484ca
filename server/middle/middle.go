// Package middle holds HTTP middleware for the Verbly server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/dekarrin/verbly/server/result"
	"github.com/dekarrin/verbly/server/token"
	"go.uber.org/zap"
)

// Middleware wraps a handler in another.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a request context key set by the auth middleware.
type AuthKey int64

const (
	// AuthLoggedIn holds a bool telling whether the request carried a valid
	// token.
	AuthLoggedIn AuthKey = iota

	// AuthUser holds the dao.User the token belongs to, or the default user
	// for optional auth.
	AuthUser
)

type authConfig struct {
	users       dao.UserRepository
	secret      []byte
	required    bool
	anonymous   dao.User
	rejectDelay time.Duration
	log         *zap.Logger
}

// RequireAuth gives middleware that answers HTTP-401 to any request that lacks
// a valid bearer token. Rejections wait for unauthDelay first.
func RequireAuth(users dao.UserRepository, secret []byte, unauthDelay time.Duration, log *zap.Logger) Middleware {
	return authConfig{users: users, secret: secret, required: true, rejectDelay: unauthDelay, log: log}.middleware()
}

// OptionalAuth gives middleware that passes every request on. Requests without
// a valid token get defaultUser as their AuthUser.
func OptionalAuth(users dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User, log *zap.Logger) Middleware {
	return authConfig{users: users, secret: secret, anonymous: defaultUser, rejectDelay: unauthDelay, log: log}.middleware()
}

func (ac authConfig) middleware() Middleware {
	if ac.log == nil {
		ac.log = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user, err := ac.identify(req)
			if err != nil && ac.required {
				ac.reject(w, req, err)
				return
			}

			loggedIn := err == nil
			if !loggedIn {
				user = ac.anonymous
			}

			ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
			ctx = context.WithValue(ctx, AuthUser, user)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// identify gives the user whose token req carries.
func (ac authConfig) identify(req *http.Request) (dao.User, error) {
	tok, err := token.Get(req)
	if err != nil {
		return dao.User{}, err
	}
	return token.Validate(req.Context(), tok, ac.secret, ac.users)
}

func (ac authConfig) reject(w http.ResponseWriter, req *http.Request, why error) {
	r := result.Unauthorized("", why.Error())
	ac.log.Info("rejected request",
		zap.String("remote", req.RemoteAddr),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", r.Status),
		zap.String("reason", why.Error()),
	)
	time.Sleep(ac.rejectDelay)
	r.WriteResponse(w)
}
