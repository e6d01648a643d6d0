// Package handler translates HTTP requests into service calls and service
// results (or domain errors) back into JSON responses.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable type, e.g. "duplicate_name"
	Message string `json:"message"` // user-facing text
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, model.Success{Success: true})
}

// statusByCode is the HTTP status of each domain error code.
var statusByCode = map[string]int{
	apperror.CodeDuplicateName:           http.StatusBadRequest,
	apperror.CodeInvalidCredentials:      http.StatusUnauthorized,
	apperror.CodeNotAuthorizedOrNotFound: http.StatusForbidden,
	apperror.CodeNoUpdates:               http.StatusBadRequest,
	apperror.CodeValidation:              http.StatusBadRequest,
	apperror.CodeNotFound:                http.StatusNotFound,
	apperror.CodeForbidden:               http.StatusForbidden,
}

// writeError sends a domain error with its own message. Anything that is not
// an *apperror.AppError becomes a generic 500; the raw error never reaches
// the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code := apperror.Code(err)
		status, ok := statusByCode[code]
		if !ok {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, ErrorResponse{
			Error:   code,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   apperror.CodeInternal,
		Message: "An internal error occurred",
	})
}

// decodeJSON reads the request body into dst. With strict set, fields dst
// does not declare are rejected. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperror.ValidationFailed("body", fmt.Sprintf("Invalid JSON body: %v", err))
	}
	return nil
}

// pathParam returns the chi URL parameter. chi routes on r.URL.RawPath when
// it is set, and only then is the parameter still escaped.
func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}
