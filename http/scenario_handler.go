package http

import (
	"log"
	"net/http"

	"mortgage-engine/service"
)

type ScenarioHandler struct {
	service *service.ScenarioService
}

func NewScenarioHandler(service *service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{service: service}
}

func (h *ScenarioHandler) Evaluate(w http.ResponseWriter, r *http.Request) {

	var req scenarioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	sc, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.service.Evaluate(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Printf("Evaluated scenario %s (program %s, %d warnings)", res.ID, res.FirstLien.Program, len(res.Warnings))
	writeJSON(w, http.StatusOK, res)
}
