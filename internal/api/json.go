package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Craig-TribeAI/org-chart-builder/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeDomainError maps a service error onto the corresponding HTTP
// status. Unknown errors log and return 500 without leaking detail.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrCycle):
		writeJSON(w, http.StatusConflict, errorBody("assignment would create a cycle"))
	case errors.Is(err, apperr.ErrNotCustom):
		writeJSON(w, http.StatusConflict, errorBody("only custom roles can be deleted"))
	case errors.Is(err, apperr.ErrNoDataset):
		writeJSON(w, http.StatusConflict, errorBody("no dataset loaded"))
	case errors.Is(err, apperr.ErrBadFormat):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
