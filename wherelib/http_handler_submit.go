package wherelib

import (
	"errors"
	"io"
	"net/http"
)

type handleSubmitResponse struct {
	Status     string   `json:"status"`
	Phone      string   `json:"phone"`
	Permission *string  `json:"permission"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	IP         string   `json:"ip"`
	IPCity     string   `json:"ip_city"`
	IPRegion   string   `json:"ip_region"`
	IPCountry  string   `json:"ip_country"`
}

func (h httpHandler) handleSubmit(w http.ResponseWriter, req *http.Request) {
	bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxSubmitBodySize))

	req.Body.Close()

	if err != nil {
		var tooLarge *http.MaxBytesError

		if errors.As(err, &tooLarge) {
			h.sendError(w, err, "Request body is too large", http.StatusRequestEntityTooLarge)
		} else {
			h.sendError(w, err, "Cannot read request body", http.StatusBadRequest)
		}

		return
	}

	record, err := h.app.Submit(req.Context(), Submission{
		Body:         bodyBytes,
		RemoteAddr:   req.RemoteAddr,
		ForwardedFor: req.Header.Get("X-Forwarded-For"),
		UserAgent:    req.UserAgent(),
	})

	switch {
	case errors.Is(err, ErrBadPayload):
		h.sendError(w, err, "Request body must be a JSON object", http.StatusBadRequest)

		return
	case err != nil:
		h.sendError(w, err, "Cannot save record", http.StatusInternalServerError)

		return
	}

	h.sendJSON(w, handleSubmitResponse{
		Status:     "ok",
		Phone:      record.Phone,
		Permission: record.Permission,
		Latitude:   record.Latitude,
		Longitude:  record.Longitude,
		IP:         record.IP,
		IPCity:     record.IPCity,
		IPRegion:   record.IPRegion,
		IPCountry:  record.IPCountry,
	}, http.StatusOK)
}
