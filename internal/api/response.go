package api

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo describes a failed request.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeBadRequest = "BAD_REQUEST"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

func fail(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Response{Error: &ErrorInfo{Code: code, Message: message}})
}

func badRequest(w http.ResponseWriter, message string) {
	fail(w, http.StatusBadRequest, CodeBadRequest, message)
}

func notFound(w http.ResponseWriter, message string) {
	fail(w, http.StatusNotFound, CodeNotFound, message)
}

func internalError(w http.ResponseWriter, message string) {
	fail(w, http.StatusInternalServerError, CodeInternal, message)
}

// decodeBody decodes a JSON request body into dest, rejecting unknown fields.
func decodeBody(r *http.Request, dest any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}
