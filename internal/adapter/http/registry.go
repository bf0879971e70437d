package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"crowdfund/internal/core/domain"
)

func (h *Handler) handleRegistry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paused, err := h.svc.Registry.Paused(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	admins, err := h.svc.Registry.ListAdmins(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	count, err := h.svc.Factory.CampaignCount(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := registryResponse{Paused: paused, CampaignCount: count, Admins: make([]adminResponse, 0, len(admins))}
	for _, a := range admins {
		resp.Admins = append(resp.Admins, adminResponse{
			Address: a.Address.Hex(),
			AddedBy: a.AddedBy.Hex(),
			AddedAt: a.AddedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleIsAdmin(w http.ResponseWriter, r *http.Request) {
	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok, err := h.svc.Registry.IsAdmin(r.Context(), addr)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, isAdminResponse{Address: addr.Hex(), IsAdmin: ok})
}

func (h *Handler) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	var req adminRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	target, err := domain.ParseAddress(req.Address)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = h.svc.Registry.AddAdmin(r.Context(), caller, target); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, isAdminResponse{Address: target.Hex(), IsAdmin: true})
}

func (h *Handler) handleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	target, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = h.svc.Registry.RemoveAdmin(r.Context(), caller, target); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	if err := h.svc.Registry.Pause(r.Context(), caller); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUnpause(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	if err := h.svc.Registry.Unpause(r.Context(), caller); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
