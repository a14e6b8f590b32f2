package http

import (
	"log/slog"
	"net/http"

	"petadoption/internal/dto"
	"petadoption/internal/httpx"
	"petadoption/internal/netutil"
	"petadoption/internal/observability/middleware"
)

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		badJSON(w)
		return
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		slog.Info("registration rejected", append([]any{"error", err, "ip", netutil.ClientIP(r)}, middleware.LogAttrs(r.Context())...)...)
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		badJSON(w)
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		slog.Info("login rejected", append([]any{"error", err, "ip", netutil.ClientIP(r)}, middleware.LogAttrs(r.Context())...)...)
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *handlers) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		badJSON(w)
		return
	}
	if err := h.recovery.RequestReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "password reset link sent"})
}

func (h *handlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		badJSON(w)
		return
	}
	if err := h.recovery.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "password updated"})
}
