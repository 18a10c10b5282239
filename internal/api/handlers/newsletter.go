package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/charity-donations/internal/api/httpx"
	"github.com/baharkarakas/charity-donations/internal/services"
)

type NewsletterHandler struct {
	Newsletter *services.NewsletterService
	Log        *slog.Logger
}

type newsletterReq struct {
	Email string `json:"email"`
}

type newsletterResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterReq
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badBody(w)
		return
	}
	already, err := h.Newsletter.Subscribe(r.Context(), req.Email)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			httpx.WriteFailure(w, http.StatusBadRequest, "Please enter a valid email address.", nil)
			return
		}
		h.Log.Error("newsletter subscribe", "err", err)
		httpx.WriteFailure(w, http.StatusInternalServerError, "Subscription failed.", nil)
		return
	}
	msg := "Thanks for subscribing!"
	if already {
		msg = "You are already subscribed."
	}
	httpx.WriteJSON(w, http.StatusOK, newsletterResp{Success: true, Message: msg})
}
