package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale status.
const (
	VendaConcluida = "CONCLUIDA"
	VendaCancelada = "CANCELADA"
)

// Venda registra uma venda com itens embutidos. Somente vendas CONCLUIDA
// podem ser canceladas; o cancelamento devolve o estoque via movimentos
// ENTRADA, nunca apagando os movimentos originais.
type Venda struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status     string          `gorm:"type:varchar(15);not null"` // "CONCLUIDA" | "CANCELADA"
	ValorTotal decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time

	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
	Itens   []ItemVenda `gorm:"foreignKey:VendaID;constraint:OnDelete:CASCADE"`
}

// ItemVenda congela nome e preço do medicamento no momento da venda;
// mudanças posteriores no catálogo não afetam vendas já registradas.
type ItemVenda struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID       uuid.UUID `gorm:"type:uuid;not null;index"`
	MedicamentoID uuid.UUID `gorm:"type:uuid;not null;index"`
	// MedicamentoNome é o nome no momento da venda.
	MedicamentoNome string          `gorm:"not null"`
	Quantidade      int             `gorm:"not null"`
	PrecoUnitario   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName overrides GORM's default pluralization (item_vendas → itens_venda).
func (ItemVenda) TableName() string { return "itens_venda" }
