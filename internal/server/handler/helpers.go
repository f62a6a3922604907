package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BrianChanLEE/bot/internal/domain"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// exchangeErrorStatus maps the exchange error taxonomy to an HTTP status for
// the on-demand query path: upstream failures surface as 502, local
// misconfiguration as 500.
func exchangeErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNetwork),
		errors.Is(err, domain.ErrExchange),
		errors.Is(err, domain.ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
