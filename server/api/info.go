package api

import (
	"net/http"

	"github.com/dekarrin/verbly/internal/version"
	"github.com/dekarrin/verbly/server/middle"
	"github.com/dekarrin/verbly/server/result"
)

// HTTPGetInfo returns a HandlerFunc that gives the server and engine versions.
// Logging in is optional.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.httpEndpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Verbly = version.Current

	who := "anonymous client"
	if req.Context().Value(middle.AuthLoggedIn).(bool) {
		who = "user '" + authUser(req).Username + "'"
	}
	return result.OK(resp, "%s got API info", who)
}

// HTTPGetWorlds returns a HandlerFunc that lists the worlds sessions can be
// started in.
func (api API) HTTPGetWorlds() http.HandlerFunc {
	return api.httpEndpoint(api.epGetWorlds)
}

func (api API) epGetWorlds(req *http.Request) result.Result {
	resp := WorldsModel{Worlds: api.Backend.WorldNames()}
	if resp.Worlds == nil {
		resp.Worlds = []string{}
	}
	return result.OK(resp, "got %d world(s)", len(resp.Worlds))
}
