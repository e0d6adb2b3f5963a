package dto

import (
	"fondapos/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineaVentaRequest is one normalized line item as delivered by the caller.
// Tipo "libre" carries its ad-hoc description and price and bypasses both
// availability checks and inventory deduction.
type LineaVentaRequest struct {
	Tipo           string                 `json:"tipo"            validate:"required,oneof=menu variante_menu simple variante_simple combo libre"`
	ReferenciaID   *string                `json:"referencia_id"   validate:"omitempty,uuid"`
	Descripcion    string                 `json:"descripcion"`
	Cantidad       int                    `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal        `json:"precio_unitario" validate:"min=0"`
	Selecciones    model.SeleccionesCombo `json:"selecciones"`
}

type RegistrarVentaRequest struct {
	Items      []LineaVentaRequest `json:"items"       validate:"required,min=1,dive"`
	MetodoPago string              `json:"metodo_pago" validate:"required,oneof=efectivo debito credito transferencia"`
	Descuento  decimal.Decimal     `json:"descuento"   validate:"min=0"`
	Impuesto   decimal.Decimal     `json:"impuesto"    validate:"min=0"`
	// Pendiente: crea la venta sin efecto financiero ni descuento de stock
	// (servicio de mesa); se completa luego con POST /ventas/:id/completar.
	Pendiente    bool    `json:"pendiente"`
	MesaID       *string `json:"mesa_id"       validate:"omitempty,uuid"`
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

type CancelarVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

type CancelarItemRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`  // YYYY-MM-DD; empty = hoy
	Estado string `form:"estado"` // pendiente | completada | cancelada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaItemResponse struct {
	ID             string                 `json:"id"`
	Tipo           string                 `json:"tipo"`
	Descripcion    string                 `json:"descripcion"`
	Cantidad       int                    `json:"cantidad"`
	PrecioUnitario decimal.Decimal        `json:"precio_unitario"`
	TotalLinea     decimal.Decimal        `json:"total_linea"`
	Selecciones    model.SeleccionesCombo `json:"selecciones,omitempty"`
	Cancelado      bool                   `json:"cancelado"`
}

type VentaResponse struct {
	ID           string              `json:"id"`
	Estado       string              `json:"estado"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Descuento    decimal.Decimal     `json:"descuento"`
	Impuesto     decimal.Decimal     `json:"impuesto"`
	Total        decimal.Decimal     `json:"total"`
	MetodoPago   string              `json:"metodo_pago"`
	SesionCajaID *string             `json:"sesion_caja_id,omitempty"`
	MesaID       *string             `json:"mesa_id,omitempty"`
	Items        []VentaItemResponse `json:"items"`
	CreatedAt    string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
