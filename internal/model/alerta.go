package model

import (
	"time"

	"github.com/google/uuid"
)

// Alert kinds.
const (
	AlertaEstoqueBaixo    = "ESTOQUE_BAIXO"
	AlertaValidadeProxima = "VALIDADE_PROXIMA"
	AlertaValidadeVencida = "VALIDADE_VENCIDA"
)

// Alerta é derivado do estado do catálogo pelo serviço de alertas.
// Um alerta não lido do mesmo tipo bloqueia a criação de um novo; um alerta
// lido não bloqueia, permitindo a recorrência lido → novo não lido.
type Alerta struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MedicamentoID uuid.UUID `gorm:"type:uuid;not null;index"`
	// MedicamentoNome é denormalizado no momento da criação.
	MedicamentoNome string `gorm:"not null"`
	Tipo            string `gorm:"type:varchar(20);not null;index"`
	Mensagem        string `gorm:"not null"`
	Lido            bool   `gorm:"not null;default:false"`
	CreatedAt       time.Time
}
