package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/charity-donations/internal/api/httpx"
	"github.com/baharkarakas/charity-donations/internal/auth"
	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/services"
)

type AdminHandler struct {
	Password  *auth.AdminPassword
	TM        *auth.TokenManager
	Stats     *services.StatsService
	Donations *services.DonationService
	Log       *slog.Logger
}

type loginReq struct {
	Password string `json:"password"`
}

type loginResp struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badBody(w)
		return
	}
	if err := h.Password.Verify(req.Password); err != nil {
		if errors.Is(err, auth.ErrLoginDisabled) {
			h.Log.Warn("admin login attempted but no password is configured")
		}
		httpx.WriteFailure(w, http.StatusUnauthorized, "Invalid password", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResp{Success: true, Token: h.TM.Token()})
}

func (h *AdminHandler) History(w http.ResponseWriter, r *http.Request) {
	hist, err := h.Stats.History(r.Context())
	if err != nil {
		h.Log.Error("history", "err", err)
		httpx.WriteFailure(w, http.StatusInternalServerError, "Error fetching history", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hist)
}

type terminalResp struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

func (h *AdminHandler) VirtualTerminal(w http.ResponseWriter, r *http.Request) {
	var req models.TerminalRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badBody(w)
		return
	}
	rc, err := h.Donations.VirtualTerminal(context.WithoutCancel(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.Log, err, "Invalid terminal entry", "Terminal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, terminalResp{
		Success:       true,
		Message:       "Virtual transaction authorized.",
		TransactionID: rc.TransactionID,
	})
}
