package render

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error kinds used in the error envelope.
const (
	KindBadRequest      = "bad_request"
	KindUnauthorized    = "unauthorized"
	KindForbidden       = "forbidden"
	KindNotFound        = "not_found"
	KindConflict        = "conflict"
	KindTooManyRequests = "too_many_requests"
	KindUnavailable     = "unavailable"
	KindInternal        = "internal"
)

// ErrorBody is the single error shape every endpoint answers with.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// MessageBody acknowledges mutations that have nothing else to return.
type MessageBody struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("render json failed", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, kind, message string) {
	JSON(w, status, ErrorBody{Kind: kind, Message: message})
}

func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageBody{Message: message})
}
