package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement direction.
const (
	MovimentacaoEntrada = "ENTRADA"
	MovimentacaoSaida   = "SAIDA"
)

// MovimentacaoEstoque registra cada mudança de estoque de um medicamento.
// O registro é append-only: nunca é atualizado nem removido, mesmo quando a
// venda que o originou é cancelada (o cancelamento gera novos registros).
type MovimentacaoEstoque struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MedicamentoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"type:varchar(10);not null"` // "ENTRADA" | "SAIDA"
	// Quantidade é sempre a magnitude positiva do movimento.
	Quantidade int `gorm:"not null"`
	// EstoqueTotal é o estoque resultante logo após o movimento.
	EstoqueTotal int    `gorm:"not null"`
	Motivo       string `gorm:"not null"`
	Data         time.Time

	Medicamento *Medicamento `gorm:"foreignKey:MedicamentoID"`
}

// TableName overrides GORM's default pluralization.
func (MovimentacaoEstoque) TableName() string { return "movimentacoes_estoque" }
