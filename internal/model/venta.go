package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de venta.
const (
	VentaPendiente  = "pendiente"
	VentaCompletada = "completada"
	VentaCancelada  = "cancelada"
)

// Tipos de línea de venta (unión cerrada — el resolver hace switch exhaustivo).
const (
	TipoItemMenu       = "menu"
	TipoVarianteMenu   = "variante_menu"
	TipoSimple         = "simple"
	TipoVarianteSimple = "variante_simple"
	TipoCombo          = "combo"
	TipoLibre          = "libre"
)

// Estado de cocina de una línea — la cancelación individual solo se permite
// mientras la línea sigue "nueva" y la venta "pendiente".
const (
	CocinaNueva       = "nueva"
	CocinaPreparando  = "preparando"
	CocinaEntregada   = "entregada"
)

// Venta is a sale transaction. A pendiente sale has no financial effect;
// completada applies deduction + cash flow atomically. Completed sales are
// reversed only through the return path, never through cancelation.
type Venta struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SesionCajaID *uuid.UUID      `gorm:"type:uuid;index"`
	MesaID       *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Impuesto     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago   string          `gorm:"type:varchar(20);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;index"`
	ClienteEmail *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

// SeleccionCombo records the customer's pick for one choice component.
type SeleccionCombo struct {
	OpcionID   uuid.UUID  `json:"opcion_id"`
	VarianteID *uuid.UUID `json:"variante_id,omitempty"`
}

// SeleccionesCombo maps combo component ID → selection. Stored as jsonb.
type SeleccionesCombo map[string]SeleccionCombo

func (s SeleccionesCombo) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *SeleccionesCombo) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("selecciones_combo: tipo de columna inesperado")
		}
		b = []byte(str)
	}
	return json.Unmarshal(b, s)
}

// VentaItem is one resolved sale line: a tagged union over TipoProducto.
// ReferenciaID points at the sellable of that type; nil for líneas libres.
type VentaItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	TipoProducto string     `gorm:"type:varchar(20);not null"`
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	// Descripcion: nombre del vendible al momento de la venta (líneas libres
	// llevan el texto ad-hoc ingresado por el cajero)
	Descripcion    string           `gorm:"not null"`
	Cantidad       int              `gorm:"not null"`
	PrecioUnitario decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	TotalLinea     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Selecciones    SeleccionesCombo `gorm:"type:jsonb"`
	EstadoCocina   string           `gorm:"type:varchar(20);not null;default:'nueva'"`

	CanceladoAt       *time.Time
	CanceladoPor      *uuid.UUID `gorm:"type:uuid"`
	MotivoCancelacion *string

	CreatedAt time.Time
}

func (VentaItem) TableName() string { return "venta_items" }

// Cancelado reports whether the individual line was soft-cancelled.
func (i *VentaItem) Cancelado() bool { return i.CanceladoAt != nil }
