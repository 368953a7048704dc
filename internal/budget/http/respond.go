package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spendwise/budgetd/internal/budget/service"
	"github.com/spendwise/budgetd/internal/budget/store"
	"github.com/spendwise/budgetd/pkg/httpx"
	"github.com/spendwise/budgetd/pkg/slogx"
)

// The auth failure body is identical for every failure mode so callers
// can't tell a bad signature from an unknown user or a stale token.
const authFailureMessage = "Error: Invalid token, please log in again."

type okResponse struct {
	OK       int    `json:"ok"`
	Response string `json:"response,omitempty"`
}

type failResponse struct {
	OK    int    `json:"ok"`
	Error string `json:"error"`
}

func writeAuthFailure(w http.ResponseWriter) {
	// HTTP 200 with ok:0, matching what the dashboard expects.
	httpx.WriteJSON(w, http.StatusOK, failResponse{OK: 0, Error: authFailureMessage})
}

func writeValidationFailure(w http.ResponseWriter, message string) {
	httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

func writeServerError(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "Internal server error",
	})
}

func writeConflict(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusConflict, failResponse{
		OK:    0,
		Error: "Error: Budget was modified by another request, please retry.",
	})
}

// writeLedgerError maps a ledger/store failure onto the response contract.
// Validation failures carry an endpoint-specific message, so callers
// handle service.ErrInvalidAmount themselves before landing here.
func writeLedgerError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		writeAuthFailure(w)
	case errors.Is(err, store.ErrVersionConflict):
		writeConflict(w)
	default:
		slogx.FromContext(ctx).Error("persistence failure", "err", err)
		writeServerError(w)
	}
}

// decodeBody decodes the JSON request body into dst. All API requests are
// small JSON objects; anything undecodable gets a 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeValidationFailure(w, "Invalid request body")
		return false
	}
	return true
}
