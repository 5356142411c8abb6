package http

import (
	"net/http"

	"mortgage-engine/domain"
	"mortgage-engine/service"
)

type ProgramHandler struct {
	validator *service.ProgramValidator
}

func NewProgramHandler(validator *service.ProgramValidator) *ProgramHandler {
	return &ProgramHandler{validator: validator}
}

func (h *ProgramHandler) Validate(w http.ResponseWriter, r *http.Request) {

	var req programRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	in, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.validator.Validate(in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *ProgramHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]domain.LoanProgram{
		"programs": h.validator.Programs(),
	})
}
