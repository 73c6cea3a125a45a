package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"loadestimator/internal/identity"
)

type AuthHandler struct {
	provider identity.Provider
	logr     *zap.Logger
}

func NewAuthHandler(provider identity.Provider, logr *zap.Logger) *AuthHandler {
	return &AuthHandler{provider: provider, logr: logr}
}

type signUpReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type confirmReq struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

type signInReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUp handles POST /auth/signup. The account cannot sign in until
// the emailed verification code is confirmed.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	if err := h.provider.SignUp(r.Context(), req.Username, req.Email, req.Password); err != nil {
		h.logr.Warn("sign up failed", zap.Error(err), zap.String("username", req.Username))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "sign up successful, check your email for the verification code",
	})
}

// Confirm handles POST /auth/confirm.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	if err := h.provider.ConfirmSignUp(r.Context(), req.Username, req.Code); err != nil {
		h.logr.Warn("confirmation failed", zap.Error(err), zap.String("username", req.Username))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "account confirmed"})
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	session, err := h.provider.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logr.Warn("sign in failed", zap.Error(err), zap.String("username", req.Username))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
