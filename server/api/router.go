package api

import (
	"net/http"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/dekarrin/verbly/server/middle"
	"github.com/dekarrin/verbly/server/result"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// NewRouter gives a handler that routes every endpoint of the API under
// PathPrefix.
func NewRouter(a API) http.Handler {
	users := a.Backend.DB.Users()
	required := middle.RequireAuth(users, a.Secret, a.UnauthDelay, a.Log)
	optional := middle.OptionalAuth(users, a.Secret, a.UnauthDelay, dao.User{}, a.Log)

	r := chi.NewRouter()
	r.NotFound(a.httpEndpoint(func(req *http.Request) result.Result {
		return result.NotFound()
	}))
	r.MethodNotAllowed(a.httpEndpoint(func(req *http.Request) result.Result {
		return result.MethodNotAllowed(req)
	}))

	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/login", a.HTTPCreateLogin())
		r.With(required, uuidParam(a)).Delete("/login/{id}", a.HTTPDeleteLogin())
		r.With(required).Post("/tokens", a.HTTPCreateToken())

		r.With(optional).Get("/info", a.HTTPGetInfo())
		r.With(optional).Get("/worlds", a.HTTPGetWorlds())

		r.Route("/users", func(r chi.Router) {
			r.Use(required)
			r.Get("/", a.HTTPGetAllUsers())
			r.Post("/", a.HTTPCreateUser())
			r.With(uuidParam(a)).Get("/{id}", a.HTTPGetUser())
			r.With(uuidParam(a)).Delete("/{id}", a.HTTPDeleteUser())
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Use(required)
			r.Get("/", a.HTTPGetSessions())
			r.Post("/", a.HTTPCreateSession())
			r.Route("/{id}", func(r chi.Router) {
				r.Use(uuidParam(a))
				r.Get("/", a.HTTPGetSession())
				r.Delete("/", a.HTTPDeleteSession())
				r.Get("/commands", a.HTTPGetCommands())
				r.Post("/commands", a.HTTPCreateCommand())
			})
		})
	})

	return r
}

// uuidParam gives middleware that responds with HTTP-404 when the id URL
// parameter is not a UUID, so endpoints can call requireIDParam safely.
func uuidParam(a API) middle.Middleware {
	notFound := a.httpEndpoint(func(req *http.Request) result.Result {
		return result.NotFound("id %q is not a UUID", chi.URLParam(req, "id"))
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if _, err := uuid.Parse(chi.URLParam(req, "id")); err != nil {
				notFound(w, req)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
