package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direcciones de movimiento.
const (
	DireccionEntrada = "entrada"
	DireccionSalida  = "salida"
	DireccionAjuste  = "ajuste"
)

// Motivos de movimiento.
const (
	MotivoVentaAutomatica  = "venta_automatica"
	MotivoDevolucion       = "devolucion"
	MotivoDevolucionSimple = "devolucion_producto_simple"
	MotivoPerdidaOperativa = "perdida_operativa"
	MotivoAjusteManual     = "ajuste_manual"
)

// MovimientoInventario es una entrada inmutable del libro de inventario.
// Cada fila se crea junto con el ajuste de stock del producto dueño, dentro
// de la misma transacción; nunca se actualiza ni se borra.
type MovimientoInventario struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direccion  string          `gorm:"type:varchar(10);not null"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	// CostoUnitario al momento del movimiento — inmune a cambios de precio posteriores
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Motivo        string          `gorm:"type:varchar(40);not null;index"`
	Nota          string
	StockAnterior decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	// ReferenciaID enlaza con la venta o devolución que originó el movimiento
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	Fecha        time.Time  `gorm:"not null"`
	CreatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
