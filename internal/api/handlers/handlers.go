package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/charity-donations/internal/api/httpx"
	"github.com/baharkarakas/charity-donations/internal/api/validate"
	"github.com/baharkarakas/charity-donations/internal/middleware"
	"github.com/baharkarakas/charity-donations/internal/services"
)

// writeServiceError maps service errors onto the failure envelope. fallback is the message for
// anything that is neither a validation nor a processor error.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, invalidMsg, fallback string) {
	var ve *services.ValidationError
	var pe *services.ProcessorError
	switch {
	case errors.As(err, &ve):
		httpx.WriteFailure(w, http.StatusBadRequest, invalidMsg, validate.From(ve.Err))
	case errors.As(err, &pe):
		httpx.WriteFailure(w, http.StatusPaymentRequired, pe.Message, nil)
	default:
		log.Error("request failed", "path", r.URL.Path, "request_id", middleware.RequestIDFrom(r.Context()), "err", err)
		httpx.WriteFailure(w, http.StatusInternalServerError, fallback, nil)
	}
}

func badBody(w http.ResponseWriter) {
	httpx.WriteFailure(w, http.StatusBadRequest, "Invalid request body", nil)
}
