package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/SigNoz/ecommerce-rest-api/internal/middleware"
	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/services"
)

// badRequestError is a malformed path parameter or request body
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

// writeError renders err as a StandardError. Unknown errors are logged and
// hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var br *badRequestError
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeStandardError(w, r, http.StatusNotFound, "Resource not found", err.Error())
	case errors.Is(err, services.ErrDatabase):
		writeStandardError(w, r, http.StatusBadRequest, "Database error", err.Error())
	case errors.As(err, &br):
		writeStandardError(w, r, http.StatusBadRequest, "Bad request", br.msg)
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestID(r.Context()))
		writeStandardError(w, r, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred")
	}
}

func writeStandardError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	writeJSON(w, status, models.StandardError{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     title,
		Message:   message,
		Path:      r.URL.Path,
	})
}

func (a *App) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeStandardError(w, r, http.StatusNotFound, "Not found", "No route for "+r.URL.Path)
}

func (a *App) methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeStandardError(w, r, http.StatusMethodNotAllowed, "Method not allowed", r.Method+" is not supported on "+r.URL.Path)
}

// pathID parses the {id} route variable
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badRequest("Invalid id: %q", raw)
	}
	return id, nil
}

// decodeBody reads a JSON request body into v
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("Request body is empty")
		}
		return badRequest("Invalid request body: %v", err)
	}
	// exactly one JSON value per body
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badRequest("Invalid request body: unexpected data after JSON value")
	}
	return nil
}

// location returns the absolute URL of the named route for id
func (a *App) location(r *http.Request, route string, id int64) (string, error) {
	u, err := a.router.Get(route).URL("id", strconv.FormatInt(id, 10))
	if err != nil {
		return "", fmt.Errorf("failed to build %s URL: %w", route, err)
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return (&url.URL{Scheme: scheme, Host: r.Host, Path: u.Path}).String(), nil
}
