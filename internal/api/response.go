package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/n8henrie/knapsack/internal/codec"
	"github.com/n8henrie/knapsack/internal/knapsack"
)

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}

// writeSolveError maps parser and solver errors onto HTTP statuses.
func writeSolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, codec.ErrFormat):
		writeError(w, http.StatusBadRequest, "Invalid problem", err.Error())
	case errors.Is(err, knapsack.ErrInvalidProblem):
		writeError(w, http.StatusBadRequest, "Invalid problem", err.Error())
	case errors.Is(err, knapsack.ErrTooManyItems):
		writeError(w, http.StatusUnprocessableEntity, "Problem too large", err.Error(),
			"Reduce the number of items or retry with ?strategy=subset")
	case errors.Is(err, knapsack.ErrNoSolution):
		writeError(w, http.StatusUnprocessableEntity, "No solution", err.Error(),
			"Provide at least one item")
	default:
		writeInternalError(w, err)
	}
}
