package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"crowdfund/internal/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var errBadRequest = errors.New("bad request")

// errorMapping is checked in order; the first match wins.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{errUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{errBadRequest, http.StatusBadRequest, "bad_request"},
	{domain.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{domain.ErrInvalidGoal, http.StatusBadRequest, "invalid_goal"},
	{domain.ErrInvalidDeadline, http.StatusBadRequest, "invalid_deadline"},
	{domain.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{domain.ErrInvalidAddress, http.StatusBadRequest, "invalid_address"},
	{domain.ErrCampaignNotFound, http.StatusNotFound, "campaign_not_found"},
	{domain.ErrNotAdmin, http.StatusNotFound, "not_admin"},
	{domain.ErrNoContribution, http.StatusNotFound, "no_contribution"},
	{domain.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{domain.ErrAlreadyProcessed, http.StatusConflict, "already_processed"},
	{domain.ErrAlreadyAdmin, http.StatusConflict, "already_admin"},
	{domain.ErrLastAdminProtected, http.StatusConflict, "last_admin_protected"},
	{domain.ErrPaused, http.StatusServiceUnavailable, "paused"},
	{domain.ErrTransferFailed, http.StatusBadGateway, "transfer_failed"},
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			attrs := []any{slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Int("status", m.status), slog.Any("error", err)}
			if m.status >= http.StatusInternalServerError {
				h.logger.WarnContext(r.Context(), "request rejected", attrs...)
			} else {
				h.logger.DebugContext(r.Context(), "request rejected", attrs...)
			}
			writeJSON(w, m.status, errorResponse{Error: m.code, Message: err.Error()})
			return
		}
	}
	h.logger.Error("request failed", slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
