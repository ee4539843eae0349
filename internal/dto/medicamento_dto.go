package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// MedicamentoFilter is bound from query string of GET /v1/medicamentos.
type MedicamentoFilter struct {
	Nome        string `form:"nome"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	// Ativo: "false" = inativos, "all" = todos, anything else = ativos
	Ativo string `form:"ativo"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MedicamentoListResponse struct {
	Data  []MedicamentoResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// MedicamentoCreateRequest is bound from the multipart form of POST
// /v1/medicamentos; image files arrive in the "imagens" file field.
type MedicamentoCreateRequest struct {
	Nome              string          `form:"nome"               validate:"required,min=2"`
	Descricao         *string         `form:"descricao"`
	Preco             decimal.Decimal `form:"preco"              validate:"required,gt=0"`
	QuantidadeEstoque int             `form:"quantidade_estoque" validate:"min=0"`
	// Validade in YYYY-MM-DD; required and must be a future date.
	Validade    string `form:"validade"     validate:"required"`
	CategoriaID string `form:"categoria_id" validate:"required,uuid"`
}

type MedicamentoUpdateRequest struct {
	Nome        string          `form:"nome"         validate:"required,min=2"`
	Descricao   *string         `form:"descricao"`
	Preco       decimal.Decimal `form:"preco"        validate:"required,gt=0"`
	Validade    string          `form:"validade"     validate:"required"`
	CategoriaID string          `form:"categoria_id" validate:"required,uuid"`
}

type StatusUpdateRequest struct {
	Ativo *bool `json:"ativo" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MedicamentoResponse struct {
	ID                string          `json:"id"`
	Nome              string          `json:"nome"`
	Descricao         *string         `json:"descricao"`
	Preco             decimal.Decimal `json:"preco"`
	QuantidadeEstoque int             `json:"quantidade_estoque"`
	Validade          *string         `json:"validade"`
	Ativo             bool            `json:"ativo"`
	CategoriaID       string          `json:"categoria_id"`
	CategoriaNome     string          `json:"categoria_nome,omitempty"`
	Imagens           []string        `json:"imagens"`
	CreatedAt         string          `json:"created_at"`
}
