package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/dekarrin/verbly/server/result"
	"github.com/dekarrin/verbly/server/serr"
)

// HTTPGetAllUsers returns a HandlerFunc that lists every user. Admin only.
func (api API) HTTPGetAllUsers() http.HandlerFunc {
	return api.httpEndpoint(api.epGetAllUsers)
}

func (api API) epGetAllUsers(req *http.Request) result.Result {
	user := authUser(req)
	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) list users: forbidden", user.Username, user.Role)
	}

	all, err := api.Backend.GetAllUsers(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	models := make([]UserModel, 0, len(all))
	for _, u := range all {
		models = append(models, userModel(u))
	}
	return result.OK(models, "user '%s' listed %d user(s)", user.Username, len(models))
}

// HTTPCreateUser returns a HandlerFunc that adds a user. Admin only. The role
// defaults to normal.
func (api API) HTTPCreateUser() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateUser)
}

func (api API) epCreateUser(req *http.Request) result.Result {
	user := authUser(req)
	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) create user: forbidden", user.Username, user.Role)
	}

	var body UserModel
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	switch {
	case body.Username == "":
		return missing("username")
	case body.Password == "":
		return missing("password")
	}

	role := dao.Normal
	if body.Role != "" {
		var err error
		if role, err = dao.ParseRole(body.Role); err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	created, err := api.Backend.CreateUser(req.Context(), body.Username, body.Password, body.Email, role)
	switch {
	case errors.Is(err, serr.ErrAlreadyExists):
		return result.Conflict("User with that username already exists", "username '%s' taken", body.Username)
	case errors.Is(err, serr.ErrBadArgument):
		return result.BadRequest(err.Error(), err.Error())
	case err != nil:
		return result.InternalServerError(err.Error())
	}

	m := userModel(created)
	return result.Created(m, "user '%s' created user '%s' (%s)", user.Username, m.Username, m.ID)
}

// HTTPGetUser returns a HandlerFunc that gives one user. Users may get
// themselves. Only an admin may get anyone else.
func (api API) HTTPGetUser() http.HandlerFunc {
	return api.httpEndpoint(api.epGetUser)
}

func (api API) epGetUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := authUser(req)
	if !mayActOn(user, id) {
		return result.Forbidden("user '%s' (role %s) get user %s: forbidden", user.Username, user.Role, id)
	}

	found, err := api.Backend.GetUser(req.Context(), id.String())
	switch {
	case errors.Is(err, serr.ErrNotFound):
		return result.NotFound()
	case errors.Is(err, serr.ErrBadArgument):
		return result.BadRequest(err.Error(), err.Error())
	case err != nil:
		return result.InternalServerError("could not get user: %s", err.Error())
	}

	return result.OK(userModel(found), "user '%s' got %s", user.Username, whom(user, id, found.Username))
}

// HTTPDeleteUser returns a HandlerFunc that removes a user along with their
// sessions. Deleting a user that does not exist succeeds.
func (api API) HTTPDeleteUser() http.HandlerFunc {
	return api.httpEndpoint(api.epDeleteUser)
}

func (api API) epDeleteUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := authUser(req)
	if !mayActOn(user, id) {
		return result.Forbidden("user '%s' (role %s) delete user %s: forbidden", user.Username, user.Role, id)
	}

	gone, err := api.Backend.DeleteUser(req.Context(), id.String())
	switch {
	case errors.Is(err, serr.ErrNotFound):
	case errors.Is(err, serr.ErrBadArgument):
		return result.BadRequest(err.Error(), err.Error())
	case err != nil:
		return result.InternalServerError("could not delete user: %s", err.Error())
	}

	return result.NoContent("user '%s' deleted %s", user.Username, whom(user, id, gone.Username))
}
