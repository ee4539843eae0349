package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria agrupa medicamentos (analgésicos, antibióticos, etc.).
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Descricao *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
