package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VendaFilter is bound from query string of GET /v1/vendas.
type VendaFilter struct {
	Status    string `form:"status"` // CONCLUIDA | CANCELADA | all (default)
	ClienteID string `form:"cliente_id" validate:"omitempty,uuid"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	MedicamentoID string `json:"medicamento_id" validate:"required,uuid"`
	Quantidade    int    `json:"quantidade"     validate:"required,min=1"`
}

type VendaCreateRequest struct {
	ClienteID string             `json:"cliente_id" validate:"required,uuid"`
	Itens     []ItemVendaRequest `json:"itens"      validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	MedicamentoID   string          `json:"medicamento_id"`
	MedicamentoNome string          `json:"medicamento_nome"`
	Quantidade      int             `json:"quantidade"`
	PrecoUnitario   decimal.Decimal `json:"preco_unitario"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type VendaResponse struct {
	ID         string              `json:"id"`
	ClienteID  string              `json:"cliente_id"`
	UsuarioID  string              `json:"usuario_id"`
	Status     string              `json:"status"`
	ValorTotal decimal.Decimal     `json:"valor_total"`
	Itens      []ItemVendaResponse `json:"itens"`
	CreatedAt  string              `json:"created_at"`
}
