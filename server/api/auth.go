package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/dekarrin/verbly/server/middle"
	"github.com/dekarrin/verbly/server/result"
	"github.com/dekarrin/verbly/server/serr"
	"github.com/dekarrin/verbly/server/token"
	"github.com/google/uuid"
)

// authUser gives the user that the auth middleware put in the request
// context. Endpoints that call it must be behind that middleware.
func authUser(req *http.Request) dao.User {
	return req.Context().Value(middle.AuthUser).(dao.User)
}

// mayActOn returns whether user is allowed to operate on the user with the
// given ID.
func mayActOn(user dao.User, target uuid.UUID) bool {
	return user.ID == target || user.Role == dao.Admin
}

// whom describes the target of an action for the log.
func whom(user dao.User, target uuid.UUID, targetName string) string {
	switch {
	case user.ID == target:
		return "self"
	case targetName == "":
		return "user " + target.String()
	default:
		return "user '" + targetName + "'"
	}
}

// missing gives the HTTP-400 for a required property left out of a request.
func missing(prop string) result.Result {
	return result.BadRequest(prop+": property is empty or missing from request", "empty %s", prop)
}

// issue generates a token for u and wraps it in a HTTP-201.
func (api API) issue(u dao.User, what string) result.Result {
	tok, err := token.Generate(api.Secret, u)
	if err != nil {
		return result.InternalServerError("could not generate JWT: %s", err.Error())
	}
	return result.Created(LoginResponse{Token: tok, UserID: u.ID.String()}, "user '%s' %s", u.Username, what)
}

// HTTPCreateLogin returns a HandlerFunc that exchanges a username and password
// for a token.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	var body LoginRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	switch {
	case body.Username == "":
		return missing("username")
	case body.Password == "":
		return missing("password")
	}

	user, err := api.Backend.Login(req.Context(), body.Username, body.Password)
	if errors.Is(err, serr.ErrBadCredentials) {
		return result.Unauthorized(serr.ErrBadCredentials.Error(), "login as '%s': %s", body.Username, err.Error())
	} else if err != nil {
		return result.InternalServerError(err.Error())
	}

	return api.issue(user, "logged in")
}

// HTTPDeleteLogin returns a HandlerFunc that logs a user out, invalidating
// their tokens. Only an admin may log out someone other than themselves.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return api.httpEndpoint(api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := authUser(req)

	if !mayActOn(user, id) {
		return result.Forbidden("user '%s' (role %s) logout of user %s: forbidden", user.Username, user.Role, id)
	}

	out, err := api.Backend.Logout(req.Context(), id)
	if errors.Is(err, serr.ErrNotFound) {
		return result.NotFound()
	} else if err != nil {
		return result.InternalServerError("could not log out user: %s", err.Error())
	}

	return result.NoContent("user '%s' logged out %s", user.Username, whom(user, id, out.Username))
}

// HTTPCreateToken returns a HandlerFunc that gives a fresh token to the
// logged-in user.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return api.httpEndpoint(func(req *http.Request) result.Result {
		return api.issue(authUser(req), "refreshed token")
	})
}
