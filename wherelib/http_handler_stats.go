package wherelib

import "net/http"

type handleStatsResponse struct {
	Results []*UsageStats `json:"results"`
}

func (h httpHandler) handleStats(w http.ResponseWriter, _ *http.Request) {
	h.sendJSON(w, handleStatsResponse{
		Results: h.app.UsageStats(),
	}, http.StatusOK)
}
