package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos y estados de devolución.
const (
	DevolucionTotal   = "total"
	DevolucionParcial = "parcial"

	DevolucionPendiente  = "pendiente"
	DevolucionCompletada = "completada"
	DevolucionCancelada  = "cancelada"
)

// Motivos de devolución aceptados.
const (
	MotivoDevCliente      = "insatisfaccion_cliente"
	MotivoDevError        = "error_de_pedido"
	MotivoDevCalidad      = "problema_de_calidad"
	MotivoDevOtro         = "otro"
)

// Devolucion is the unit of idempotent reversal against one sale. Once both
// completion flags are true it must never be reprocessed.
type Devolucion struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo            string          `gorm:"type:varchar(10);not null"`
	Motivo          string          `gorm:"type:varchar(40);not null"`
	MetodoReembolso string          `gorm:"type:varchar(20);not null"`
	Estado          string          `gorm:"type:varchar(20);not null;index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Impuesto        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	InventarioRestaurado bool `gorm:"not null;default:false"`
	FlujoCajaAjustado    bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []DevolucionItem `gorm:"foreignKey:DevolucionID"`
	Venta *Venta           `gorm:"foreignKey:VentaID"`
}

func (Devolucion) TableName() string { return "devoluciones" }

// DevolucionItem records the returned quantity per original sale line.
// PrecioUnitario and CantidadOriginal are snapshots taken at return time,
// immune to later price changes on the sellable.
type DevolucionItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DevolucionID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	VentaItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CantidadDevuelta  int             `gorm:"not null"`
	CantidadOriginal  int             `gorm:"not null"`
	PrecioUnitario    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalLinea        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	InventarioRestaurado bool         `gorm:"not null;default:false"`

	VentaItem *VentaItem `gorm:"foreignKey:VentaItemID"`
}

func (DevolucionItem) TableName() string { return "devolucion_items" }
