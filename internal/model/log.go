package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit operation kinds.
const (
	LogCreate = "CREATE"
	LogUpdate = "UPDATE"
	LogDelete = "DELETE"
	LogLogin  = "LOGIN"
)

// Log é a trilha de auditoria. A gravação é best-effort: falhas nunca
// propagam para a operação de negócio que gerou o registro.
type Log struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TipoOperacao string     `gorm:"type:varchar(10);not null;index"`
	TipoEntidade string     `gorm:"type:varchar(30);not null;index"`
	EntidadeID   *uuid.UUID `gorm:"type:uuid"`
	Descricao    string     `gorm:"not null"`
	// Detalhes carrega um payload JSON livre com o snapshot da operação.
	Detalhes    *string    `gorm:"type:jsonb"`
	UsuarioID   *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioNome string
	CreatedAt   time.Time
}
