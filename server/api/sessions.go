package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/dekarrin/verbly/server/result"
	"github.com/dekarrin/verbly/server/serr"
)

// sessionErr converts an error from the session service calls into a Result.
func sessionErr(user dao.User, action string, err error) result.Result {
	switch {
	case errors.Is(err, serr.ErrNotFound):
		return result.NotFound("user '%s' %s: %s", user.Username, action, err.Error())
	case errors.Is(err, serr.ErrPermissions):
		return result.Forbidden("user '%s' (role %s) %s: forbidden", user.Username, user.Role, action)
	case errors.Is(err, serr.ErrBadArgument):
		return result.BadRequest(err.Error(), "user '%s' %s: %s", user.Username, action, err.Error())
	case errors.Is(err, serr.ErrSessionOver):
		return result.Conflict(serr.ErrSessionOver.Error(), "user '%s' %s: session is over", user.Username, action)
	default:
		return result.InternalServerError("user '%s' %s: %s", user.Username, action, err.Error())
	}
}

// HTTPGetSessions returns a HandlerFunc that lists the sessions of the
// logged-in user.
func (api API) HTTPGetSessions() http.HandlerFunc {
	return api.httpEndpoint(api.epGetSessions)
}

func (api API) epGetSessions(req *http.Request) result.Result {
	user := authUser(req)

	seshes, err := api.Backend.GetSessions(req.Context(), user)
	if err != nil {
		return sessionErr(user, "get sessions", err)
	}

	resp := make([]SessionModel, len(seshes))
	for i := range seshes {
		resp[i] = sessionModel(seshes[i])
	}
	return result.OK(resp, "user '%s' got %d session(s)", user.Username, len(resp))
}

// HTTPCreateSession returns a HandlerFunc that starts a new game for the
// logged-in user. The response includes the world's introduction.
func (api API) HTTPCreateSession() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateSession)
}

func (api API) epCreateSession(req *http.Request) result.Result {
	user := authUser(req)

	var createReq CreateSessionRequest
	if err := parseJSON(req, &createReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createReq.World == "" {
		return result.BadRequest("world: property is empty or missing from request", "empty world")
	}

	sesh, intro, err := api.Backend.CreateSession(req.Context(), user, createReq.World)
	if err != nil {
		return sessionErr(user, "create session", err)
	}

	resp := CreateSessionResponse{
		Session: sessionModel(sesh),
		Intro:   intro.Output,
	}
	return result.Created(resp, "user '%s' started session %s in world %q", user.Username, sesh.ID, sesh.World)
}

// HTTPGetSession returns a HandlerFunc that gets a session. Users may get only
// their own sessions unless they are an admin.
func (api API) HTTPGetSession() http.HandlerFunc {
	return api.httpEndpoint(api.epGetSession)
}

func (api API) epGetSession(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := authUser(req)

	sesh, err := api.Backend.GetSession(req.Context(), user, id)
	if err != nil {
		return sessionErr(user, "get session "+id.String(), err)
	}

	return result.OK(sessionModel(sesh), "user '%s' got session %s", user.Username, id)
}

// HTTPDeleteSession returns a HandlerFunc that deletes a session and its
// history.
func (api API) HTTPDeleteSession() http.HandlerFunc {
	return api.httpEndpoint(api.epDeleteSession)
}

func (api API) epDeleteSession(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := authUser(req)

	_, err := api.Backend.DeleteSession(req.Context(), user, id)
	if err != nil {
		return sessionErr(user, "delete session "+id.String(), err)
	}

	return result.NoContent("user '%s' deleted session %s", user.Username, id)
}

// HTTPCreateCommand returns a HandlerFunc that gives a line of input to the
// game in a session and responds with what the game said.
func (api API) HTTPCreateCommand() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateCommand)
}

func (api API) epCreateCommand(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := authUser(req)

	var cmdReq CommandRequest
	if err := parseJSON(req, &cmdReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	cmd, sesh, err := api.Backend.SubmitCommand(req.Context(), user, id, cmdReq.Input)
	if err != nil {
		return sessionErr(user, "command in session "+id.String(), err)
	}

	resp := commandModel(cmd)
	resp.Over = sesh.Over
	return result.Created(resp, "user '%s' session %s command %d: %q", user.Username, id, cmd.Seq, cmd.Input)
}

// HTTPGetCommands returns a HandlerFunc that gets the history of a session.
func (api API) HTTPGetCommands() http.HandlerFunc {
	return api.httpEndpoint(api.epGetCommands)
}

func (api API) epGetCommands(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := authUser(req)

	cmds, err := api.Backend.GetCommands(req.Context(), user, id)
	if err != nil {
		return sessionErr(user, "get commands of session "+id.String(), err)
	}

	resp := make([]CommandModel, len(cmds))
	for i := range cmds {
		resp[i] = commandModel(cmds[i])
	}
	return result.OK(resp, "user '%s' got %d command(s) of session %s", user.Username, len(resp), id)
}
