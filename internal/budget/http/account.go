package http

import (
	"errors"
	"net/http"

	"github.com/spendwise/budgetd/internal/budget/service"
	"github.com/spendwise/budgetd/pkg/httpx"
	"github.com/spendwise/budgetd/pkg/slogx"
)

// AccountHandler serves the issuance flow: signup, login, password change.
type AccountHandler struct {
	Accounts *service.Accounts
	Gate     *service.TokenGate
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	OK    int    `json:"ok"`
	Token string `json:"token"`
}

// HandleSignup registers a new user and returns a session token.
func (h *AccountHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.Accounts.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			httpx.WriteJSON(w, http.StatusOK, failResponse{
				OK:    0,
				Error: "Error: Username is already taken.",
			})
		case errors.Is(err, service.ErrWeakCredentials):
			httpx.WriteJSON(w, http.StatusOK, failResponse{
				OK:    0,
				Error: "Error: Username or password not acceptable.",
			})
		default:
			slogx.FromContext(r.Context()).Error("signup failed", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{OK: 1, Token: token})
}

// HandleLogin authenticates a username/password pair and returns a session
// token. Unknown users and wrong passwords get the same response.
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteJSON(w, http.StatusOK, failResponse{
				OK:    0,
				Error: "Error: Invalid username or password.",
			})
			return
		}
		slogx.FromContext(r.Context()).Error("login failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{OK: 1, Token: token})
}

type changePasswordRequest struct {
	Token           string `json:"token"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleChangePassword swaps the password behind the token gate. On
// success every token issued before this call stops working; the response
// carries a fresh one so the caller stays signed in.
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Gate.Authorize(r.Context(), req.Token)
	if err != nil {
		writeAuthFailure(w)
		return
	}

	token, err := h.Accounts.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteJSON(w, http.StatusOK, failResponse{
				OK:    0,
				Error: "Error: Current password is incorrect.",
			})
		case errors.Is(err, service.ErrWeakCredentials):
			httpx.WriteJSON(w, http.StatusOK, failResponse{
				OK:    0,
				Error: "Error: New password not acceptable.",
			})
		default:
			slogx.FromContext(r.Context()).Error("password change failed", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{OK: 1, Token: token})
}
