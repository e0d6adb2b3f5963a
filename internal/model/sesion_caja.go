package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de sesión de caja.
const (
	SesionAbierta = "abierta"
	SesionCerrada = "cerrada"
)

// SesionCaja represents a cashier shift: none → abierta → cerrada.
// At most one open session per user (enforced on open).
type SesionCaja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoApertura decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Campos de cierre — nulos mientras la sesión está abierta
	MontoCierre   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado        string           `gorm:"type:varchar(20);not null;default:'abierta';index"`
	OpenedAt      time.Time
	ClosedAt      *time.Time
}

func (SesionCaja) TableName() string { return "sesiones_caja" }
