package dto

type ClienteCreateRequest struct {
	Nome     string  `json:"nome" validate:"required,min=2,max=100"`
	CPF      string  `json:"cpf"  validate:"required,min=11,max=14"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Telefone *string `json:"telefone"`
	// DataNascimento in YYYY-MM-DD; required — sales enforce a minimum age.
	DataNascimento string `json:"data_nascimento" validate:"required"`
}

type ClienteUpdateRequest struct {
	Nome           string  `json:"nome" validate:"required,min=2,max=100"`
	Email          *string `json:"email"    validate:"omitempty,email"`
	Telefone       *string `json:"telefone"`
	DataNascimento string  `json:"data_nascimento" validate:"required"`
}

type ClienteResponse struct {
	ID             string  `json:"id"`
	Nome           string  `json:"nome"`
	CPF            string  `json:"cpf"`
	Email          *string `json:"email"`
	Telefone       *string `json:"telefone"`
	DataNascimento string  `json:"data_nascimento"`
	CreatedAt      string  `json:"created_at"`
}
