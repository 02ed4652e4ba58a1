package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/zappabad/actibourse/internal/game"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/trade"
)

var errBadBody = errors.New("malformed request body")

// writeJSON marshals v and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError sends a JSON error body with the status derived from err.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadBody),
		errors.Is(err, trade.ErrInvalidQuantity),
		errors.Is(err, trade.ErrInvalidAmount),
		errors.Is(err, trade.ErrInvalidSide):
		return http.StatusBadRequest
	case errors.Is(err, market.ErrUnknownEntity):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, trade.ErrInsufficientFunds),
		errors.Is(err, trade.ErrInsufficientHoldings):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}
