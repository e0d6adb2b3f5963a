package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categorías de flujo de caja.
const (
	CategoriaVentas       = "ventas"
	CategoriaCompras      = "compras"
	CategoriaDevoluciones = "devoluciones"
	CategoriaGastos       = "gastos_operativos"
	CategoriaOtros        = "otros"
)

// FlujoCaja is a money-movement ledger entry. Created once per completed sale
// (entrada) and once per completed return (salida). Never mutated; the only
// deletion path is the anulación of a completed sale.
type FlujoCaja struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Direccion   string          `gorm:"type:varchar(10);not null"`
	Categoria   string          `gorm:"type:varchar(30);not null;index"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VentaID     *uuid.UUID      `gorm:"type:uuid;index"`
	Descripcion string          `gorm:"not null"`
	Notas       *string
	Fecha       time.Time `gorm:"not null;index"`
	CreatedAt   time.Time
}

func (FlujoCaja) TableName() string { return "flujos_caja" }
