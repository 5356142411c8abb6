package repository

import "mortgage-engine/domain"

// ProgramRepository looks up loan programs by ID.
type ProgramRepository interface {
	FindByID(id domain.ProgramID) (domain.LoanProgram, error)
	List() []domain.LoanProgram
}
