package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medicamento é o item de catálogo da farmácia. A quantidade em estoque só é
// alterada pelo serviço de estoque, sempre junto com uma MovimentacaoEstoque.
type Medicamento struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome              string    `gorm:"uniqueIndex;not null"`
	Descricao         *string
	Preco             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	QuantidadeEstoque int             `gorm:"not null;default:0"`
	// Validade é a data de vencimento; nil para produtos sem vencimento.
	Validade    *time.Time `gorm:"type:date"`
	Ativo       bool       `gorm:"not null;default:true"`
	CategoriaID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria          `gorm:"foreignKey:CategoriaID"`
	Imagens   []MedicamentoImagem `gorm:"foreignKey:MedicamentoID;constraint:OnDelete:CASCADE"`
}

// MedicamentoImagem guarda o caminho de uma imagem já persistida em disco.
type MedicamentoImagem struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MedicamentoID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL           string    `gorm:"not null"`
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization.
func (MedicamentoImagem) TableName() string { return "medicamento_imagens" }
