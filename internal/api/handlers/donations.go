package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/charity-donations/internal/api/httpx"
	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/services"
)

type DonationHandler struct {
	Donations *services.DonationService
	Log       *slog.Logger
}

type donateResp struct {
	Success       bool               `json:"success"`
	Message       string             `json:"message"`
	TransactionID string             `json:"transactionId"`
	UpdatedStats  models.ImpactStats `json:"updatedStats"`
	RedirectURL   string             `json:"redirectUrl,omitempty"`
}

// Donate runs the intake pipeline. Once the body is read the pipeline is detached from the client
// connection so an accepted donation is never half-written.
func (h *DonationHandler) Donate(w http.ResponseWriter, r *http.Request) {
	var req models.DonationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badBody(w)
		return
	}
	rc, err := h.Donations.Donate(context.WithoutCancel(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.Log, err, "Invalid donation request", "Processing failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, donateResp{
		Success:       true,
		Message:       "Donation processed!",
		TransactionID: rc.TransactionID,
		UpdatedStats:  rc.Stats,
		RedirectURL:   rc.RedirectURL,
	})
}

type intentReq struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *DonationHandler) PaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req intentReq
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badBody(w)
		return
	}
	in, err := h.Donations.PrepareIntent(r.Context(), req.Amount)
	if err != nil {
		writeServiceError(w, r, h.Log, err, "Invalid amount", "Could not create payment intent")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, in)
}
