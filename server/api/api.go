// Package api provides HTTP API endpoints for the Verbly server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/verbly/server/result"
	"github.com/dekarrin/verbly/server/serr"
	"github.com/dekarrin/verbly/server/svc"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PathPrefix is where the API is mounted.
const PathPrefix = "/api/v1"

// requireIDParam gives the UUID in the id URL parameter. Routes using it must
// check the parameter first, as it panics on a bad one.
func requireIDParam(r *http.Request) uuid.UUID {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		panic(fmt.Sprintf("id parameter: %s", err))
	}
	return id
}

// API is the HTTP face of a svc.Service. Its HTTP* methods give the handler
// for each endpoint, and NewRouter routes all of them.
type API struct {
	Backend *svc.Service

	// UnauthDelay is how long to wait before answering with HTTP-401,
	// HTTP-403, or HTTP-500.
	UnauthDelay time.Duration

	// Secret signs tokens.
	Secret []byte

	// Log receives an entry for every response. If nil, nothing is logged.
	Log *zap.Logger
}

func (api API) logger() *zap.Logger {
	if api.Log == nil {
		return zap.NewNop()
	}
	return api.Log
}

// parseJSON decodes the JSON body of req into v. Malformed JSON gives an error
// matching serr.ErrBodyUnmarshal.
func parseJSON(req *http.Request, v interface{}) error {
	mediaType, _, _ := strings.Cut(req.Header.Get("Content-Type"), ";")
	if !strings.EqualFold(strings.TrimSpace(mediaType), "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	req.Body = io.NopCloser(bytes.NewReader(data))

	if err := json.Unmarshal(data, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}

// EndpointFunc handles a request and gives the Result to send back.
type EndpointFunc func(req *http.Request) result.Result

// slowed are the statuses that make a client wait for UnauthDelay.
var slowed = map[int]bool{
	http.StatusUnauthorized:        true,
	http.StatusForbidden:           true,
	http.StatusInternalServerError: true,
}

func (api API) httpEndpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer api.panicTo500(w, req)

		r := ep(req)
		if r.Status == 0 {
			api.logHttpResponse(zapcore.ErrorLevel, req, http.StatusInternalServerError, "endpoint gave an empty result")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// WriteResponse panics on a marshal failure, so find out now
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.InternalServerError("could not marshal JSON response: %s", err.Error())
		}

		level := zapcore.InfoLevel
		if r.IsErr {
			level = zapcore.ErrorLevel
		}
		api.logHttpResponse(level, req, r.Status, r.InternalMsg)

		if slowed[r.Status] {
			time.Sleep(api.UnauthDelay)
		}
		r.WriteResponse(w)
	}
}

func (api API) panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		msg := fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()))
		api.logHttpResponse(zapcore.ErrorLevel, req, http.StatusInternalServerError, msg)
		result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			msg,
		).WriteResponse(w)
	}
}

func (api API) logHttpResponse(level zapcore.Level, req *http.Request, respStatus int, msg string) {
	remoteIP := req.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = host
	}

	if ce := api.logger().Check(level, msg); ce != nil {
		ce.Write(
			zap.String("remote", remoteIP),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", respStatus),
		)
	}
}
