// Package result contains the results that endpoints return and that are
// written out as API responses.
//
// Every constructor that takes a trailing internalMsg treats it as an optional
// format string followed by its arguments. The formatted message is kept in
// Result.InternalMsg for the server log and is never sent to the client.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is the outcome of an endpoint. Create one with the functions in this
// package rather than directly.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	body any
	hdrs [][2]string

	// set by PrepareMarshaledResponse
	encoded []byte
}

func detail(def string, internalMsg []interface{}) string {
	if len(internalMsg) < 1 {
		return def
	}
	return fmt.Sprintf(internalMsg[0].(string), internalMsg[1:]...)
}

func success(status int, body any, def string, internalMsg []interface{}) Result {
	return Result{
		Status:      status,
		IsJSON:      true,
		InternalMsg: detail(def, internalMsg),
		body:        body,
	}
}

func failure(status int, userMsg, def string, internalMsg []interface{}) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		IsJSON:      true,
		InternalMsg: detail(def, internalMsg),
		body:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// OK is an HTTP-200 with body as JSON.
func OK(body any, internalMsg ...interface{}) Result {
	return success(http.StatusOK, body, "OK", internalMsg)
}

// Created is an HTTP-201 with body as JSON.
func Created(body any, internalMsg ...interface{}) Result {
	return success(http.StatusCreated, body, "created", internalMsg)
}

// NoContent is an HTTP-204 with no body.
func NoContent(internalMsg ...interface{}) Result {
	return success(http.StatusNoContent, nil, "no content", internalMsg)
}

// BadRequest is an HTTP-400 telling the client userMsg.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return failure(http.StatusBadRequest, userMsg, "bad request", internalMsg)
}

// Unauthorized is an HTTP-401 that asks for a bearer token. If userMsg is
// empty a generic one is used.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	r := failure(http.StatusUnauthorized, userMsg, "unauthorized", internalMsg)
	return r.WithHeader("WWW-Authenticate", `Bearer realm="Verbly server", charset="utf-8"`)
}

// Forbidden is an HTTP-403.
func Forbidden(internalMsg ...interface{}) Result {
	return failure(http.StatusForbidden, "You don't have permission to do that", "forbidden", internalMsg)
}

// NotFound is an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	return failure(http.StatusNotFound, "The requested resource was not found", "not found", internalMsg)
}

// MethodNotAllowed is an HTTP-405 naming the method and path of req.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return failure(http.StatusMethodNotAllowed, userMsg, "method not allowed", internalMsg)
}

// Conflict is an HTTP-409 telling the client userMsg.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	return failure(http.StatusConflict, userMsg, "conflict", internalMsg)
}

// InternalServerError is an HTTP-500. The client is only told that something
// went wrong.
func InternalServerError(internalMsg ...interface{}) Result {
	return failure(http.StatusInternalServerError, "An internal server error occurred", "internal server error", internalMsg)
}

// Err is a JSON error with any status.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return failure(status, userMsg, "", append([]interface{}{internalMsg}, v...))
}

// TextErr is like Err but the body is userMsg as plain text, so writing it
// cannot fail to marshal.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		body:        userMsg,
	}
}

// WithHeader returns a copy of r that also sets the given header.
func (r Result) WithHeader(name, val string) Result {
	r.hdrs = append(append([][2]string(nil), r.hdrs...), [2]string{name, val})
	r.encoded = nil
	return r
}

// PrepareMarshaledResponse encodes the body of a JSON Result ahead of time so
// that encoding problems can be handled before anything is written. Calling
// it again after it succeeds does nothing.
func (r *Result) PrepareMarshaledResponse() error {
	if r.encoded != nil || !r.IsJSON || r.Status == http.StatusNoContent {
		return nil
	}

	data, err := json.Marshal(r.body)
	if err != nil {
		return err
	}
	r.encoded = data
	return nil
}

// WriteResponse writes r to w. It panics if r was never populated or its body
// cannot be marshaled.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if err := r.PrepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	body := r.encoded
	contentType := "application/json"
	if !r.IsJSON {
		contentType = "text/plain; charset=utf-8"
		body = []byte(fmt.Sprintf("%v", r.body))
	}

	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("X-Content-Type-Options", "nosniff")
	for _, kv := range r.hdrs {
		h.Set(kv[0], kv[1])
	}

	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(body)
	}
}
