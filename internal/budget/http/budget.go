package http

import (
	"errors"
	"net/http"

	"github.com/spendwise/budgetd/internal/budget/service"
	"github.com/spendwise/budgetd/pkg/httpx"
)

// BudgetHandler serves the token-gated ledger endpoints. The token travels
// in the JSON body and is the authority for authentication; an
// Authorization header may be present but is not consulted.
type BudgetHandler struct {
	Gate   *service.TokenGate
	Ledger *service.Ledger
}

type getBudgetRequest struct {
	Token string `json:"token"`
}

type getBudgetResponse struct {
	OK int `json:"ok"`
	service.Snapshot
}

// HandleGetBudget returns the caller's budget snapshot.
func (h *BudgetHandler) HandleGetBudget(w http.ResponseWriter, r *http.Request) {
	var req getBudgetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Gate.Authorize(r.Context(), req.Token)
	if err != nil {
		writeAuthFailure(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, getBudgetResponse{
		OK:       1,
		Snapshot: h.Ledger.GetSnapshot(user),
	})
}

type updateIncomeRequest struct {
	Token  string `json:"token"`
	Income any    `json:"income"`
}

// HandleUpdateIncome persists a new income value.
func (h *BudgetHandler) HandleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	var req updateIncomeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Gate.Authorize(r.Context(), req.Token)
	if err != nil {
		writeAuthFailure(w)
		return
	}

	income, err := h.Ledger.UpdateIncome(r.Context(), user, req.Income)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			writeValidationFailure(w, "Invalid income value")
			return
		}
		writeLedgerError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": 1, "income": income})
}

type updateSavingsRequest struct {
	Token   string `json:"token"`
	Savings any    `json:"savings"`
}

// HandleUpdateSavings persists a new savings value.
func (h *BudgetHandler) HandleUpdateSavings(w http.ResponseWriter, r *http.Request) {
	var req updateSavingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Gate.Authorize(r.Context(), req.Token)
	if err != nil {
		writeAuthFailure(w)
		return
	}

	savings, err := h.Ledger.UpdateSavings(r.Context(), user, req.Savings)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			writeValidationFailure(w, "Invalid savings value")
			return
		}
		writeLedgerError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": 1, "savings": savings})
}

type addBudgetRequest struct {
	Token  string `json:"token"`
	Title  string `json:"title"`
	Budget any    `json:"budget"`
	Color  string `json:"color"`
}

// HandleAddBudget appends a new budget category.
func (h *BudgetHandler) HandleAddBudget(w http.ResponseWriter, r *http.Request) {
	var req addBudgetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Gate.Authorize(r.Context(), req.Token)
	if err != nil {
		writeAuthFailure(w)
		return
	}

	err = h.Ledger.AddItem(r.Context(), user, req.Title, req.Budget, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateTitle):
			httpx.WriteJSON(w, http.StatusOK, failResponse{
				OK:    0,
				Error: "Error: There is already a budget item with the same title.",
			})
		case errors.Is(err, service.ErrInvalidAmount):
			writeValidationFailure(w, "Invalid budget value")
		default:
			writeLedgerError(r.Context(), w, err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, okResponse{OK: 1, Response: "Budget data added."})
}

type deleteBudgetRequest struct {
	Token string `json:"token"`
	Title string `json:"title"`
}

// HandleDeleteFromBudget removes a budget category by title. Absent titles
// still report success.
func (h *BudgetHandler) HandleDeleteFromBudget(w http.ResponseWriter, r *http.Request) {
	var req deleteBudgetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Gate.Authorize(r.Context(), req.Token)
	if err != nil {
		writeAuthFailure(w)
		return
	}

	if err := h.Ledger.DeleteItem(r.Context(), user, req.Title); err != nil {
		writeLedgerError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, okResponse{OK: 1, Response: "Budget data deleted."})
}
