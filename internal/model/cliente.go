package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente é o comprador. DataNascimento é obrigatória porque a venda exige
// maioridade (18 anos) no momento da compra.
type Cliente struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome           string    `gorm:"not null"`
	CPF            string    `gorm:"uniqueIndex;not null"`
	Email          *string
	Telefone       *string
	DataNascimento time.Time `gorm:"type:date;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
