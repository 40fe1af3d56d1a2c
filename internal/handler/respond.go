package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goaltracker/api/internal/ctxkeys"
	"github.com/goaltracker/api/internal/render"
	"github.com/goaltracker/api/internal/repository"
	"github.com/goaltracker/api/internal/service"
	"github.com/goaltracker/api/internal/validation"
)

const maxJSONBody = 1 << 20

var errInvalidBody = &validation.Error{Field: "body", Message: "request body must be a JSON object"}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &validation.Error{Field: "body", Message: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
	}
	if err != nil {
		return errInvalidBody
	}
	return nil
}

// writeError maps an error from the service layer to its status and kind.
// Anything unrecognized is a 500 carrying the underlying message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *validation.Error

	switch {
	case errors.As(err, &validationErr):
		render.Error(w, http.StatusBadRequest, render.KindBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		render.Error(w, http.StatusUnauthorized, render.KindUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		message := strings.TrimPrefix(err.Error(), service.ErrForbidden.Error()+": ")
		render.Error(w, http.StatusForbidden, render.KindForbidden, message)
	case errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrCommentNotFound),
		errors.Is(err, repository.ErrInformationNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		render.Error(w, http.StatusNotFound, render.KindNotFound, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		render.Error(w, http.StatusConflict, render.KindConflict, err.Error())
	case errors.Is(err, service.ErrPicturesDisabled):
		render.Error(w, http.StatusServiceUnavailable, render.KindUnavailable, err.Error())
	default:
		attrs := []any{
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		}
		if user := ctxkeys.User(r.Context()); user != nil {
			attrs = append(attrs, "user_id", user.ID.Hex())
		}
		slog.Error("request failed", attrs...)
		render.Error(w, http.StatusInternalServerError, render.KindInternal, err.Error())
	}
}
