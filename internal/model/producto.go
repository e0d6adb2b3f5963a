package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CodigoPerdidaOperativa identifies the pseudo-product that accumulates the
// cost of returned prepared food. Its stock is never sold; movements against
// it exist purely for cost accounting.
const CodigoPerdidaOperativa = "PERDIDA-OPERATIVA"

// Producto is a raw inventory good. StockActual is a derived snapshot of the
// movement ledger — it is mutated exclusively through
// InventarioService.AplicarMovimientoTx, never written directly.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo       string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"index;not null"`
	UnidadMedida string    `gorm:"not null;default:'unidad'"`
	// StockActual admite fracciones (ej: 8.5 kg de harina)
	StockActual      decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	StockMinimo      decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CostoUnitario    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	FechaVencimiento *time.Time
	Activo           bool `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EsPerdidaOperativa reports whether this is the operational-loss pseudo-product.
func (p *Producto) EsPerdidaOperativa() bool { return p.Codigo == CodigoPerdidaOperativa }

// BajoStockMinimo reports whether the product has fallen to or below its alert threshold.
func (p *Producto) BajoStockMinimo() bool {
	return p.StockActual.LessThanOrEqual(p.StockMinimo)
}
