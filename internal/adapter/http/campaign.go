package httpadapter

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"crowdfund/internal/core/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func campaignID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: campaign id %q", errBadRequest, chi.URLParam(r, "id"))
	}
	return id, nil
}

// queryInt reads a non-negative integer query parameter, def when absent.
func queryInt(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return v, nil
}

func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	list, err := h.svc.Factory.ListCampaigns(r.Context(), int(offset), int(limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := make([]campaignResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toCampaignResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Campaigns.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

func (h *Handler) handleContribution(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Campaigns.ContributionOf(r.Context(), id, addr)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contributionResponse{
		CampaignID:  id,
		Contributor: addr.Hex(),
		Amount:      c.Amount,
		Refunded:    c.Refunded,
	})
}

func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	var req createCampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	creator, err := domain.ParseAddress(req.Creator)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Factory.CreateCampaign(r.Context(), caller, domain.CampaignParams{
		Creator:    creator,
		GoalAmount: req.GoalAmount,
		Deadline:   req.Deadline,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/v1/campaigns/%d", c.ID))
	writeJSON(w, http.StatusCreated, toCampaignResponse(c))
}

func (h *Handler) handlePledge(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req pledgeRequest
	if err = decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Campaigns.Pledge(r.Context(), caller, id, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Campaigns.Finalize(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	s, err := h.svc.Campaigns.Withdraw(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settlementResponse{CampaignID: id, Payout: s.Payout, Fee: s.Fee})
}

func (h *Handler) handleRefund(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	amount, err := h.svc.Campaigns.Refund(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refundResponse{CampaignID: id, Amount: amount})
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Campaigns.Cancel(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c))
}
