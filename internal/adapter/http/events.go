package httpadapter

import "net/http"

// handleEvents pages through the event feed: ?after=<seq>&limit=<n>.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	after, err := queryInt(r, "after", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	events, err := h.svc.Events.Events(r.Context(), after, int(limit))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}
