// Package httpapi holds the HTTP server, middleware and response helpers
// shared by the module handlers.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ErrBadRequest marks request input that could not be read.
var ErrBadRequest = errors.New("bad request")

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusRule maps a sentinel error to a response status.
type StatusRule struct {
	Err    error
	Status int
}

// StatusFor returns the status of the first rule err matches, 400 for
// ErrBadRequest and 500 otherwise.
func StatusFor(err error, rules ...StatusRule) int {
	for _, rule := range rules {
		if errors.Is(err, rule.Err) {
			return rule.Status
		}
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// WriteBlob writes a binary download.
func WriteBlob(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", ErrBadRequest)
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// PathInt64 parses a positive integer URL parameter.
func PathInt64(r *http.Request, name string) (int64, error) {
	return parseID(name, chi.URLParam(r, name))
}

// QueryInt64 parses an optional positive integer query parameter; absent means 0.
func QueryInt64(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return parseID(name, raw)
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrBadRequest, name, raw)
	}
	return id, nil
}
