package handlers

import (
	"log/slog"
	"net/http"

	"github.com/baharkarakas/charity-donations/internal/api/httpx"
	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/services"
)

// StorageReporter names the backend currently serving reads and writes.
type StorageReporter interface {
	Name() string
}

type PublicHandler struct {
	Svc     *services.StatsService
	Storage StorageReporter
	Log     *slog.Logger
}

func (h *PublicHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.Svc.Current(r.Context()))
}

// Donors degrades to an empty wall rather than an error page.
func (h *PublicHandler) Donors(w http.ResponseWriter, r *http.Request) {
	donors, err := h.Svc.Donors(r.Context())
	if err != nil {
		h.Log.Warn("donors wall", "err", err)
		donors = []models.Donor{}
	}
	httpx.WriteJSON(w, http.StatusOK, donors)
}

func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": h.Storage.Name()})
}
