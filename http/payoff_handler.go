package http

import (
	"net/http"

	"mortgage-engine/service"
)

type PayoffHandler struct {
	service *service.LienPayoffService
}

func NewPayoffHandler(service *service.LienPayoffService) *PayoffHandler {
	return &PayoffHandler{service: service}
}

func (h *PayoffHandler) CalculatePayoffPlan(w http.ResponseWriter, r *http.Request) {

	var req payoffRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	input, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.CalculatePayoffPlan(input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
