package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo           string          `json:"codigo"            validate:"required,min=2"`
	Nombre           string          `json:"nombre"            validate:"required,min=2"`
	UnidadMedida     string          `json:"unidad_medida"     validate:"required"`
	StockActual      decimal.Decimal `json:"stock_actual"      validate:"min=0"`
	StockMinimo      decimal.Decimal `json:"stock_minimo"      validate:"min=0"`
	CostoUnitario    decimal.Decimal `json:"costo_unitario"    validate:"min=0"`
	FechaVencimiento *string         `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

type ActualizarProductoRequest struct {
	Nombre           string          `json:"nombre"            validate:"required,min=2"`
	UnidadMedida     string          `json:"unidad_medida"     validate:"required"`
	StockMinimo      decimal.Decimal `json:"stock_minimo"      validate:"min=0"`
	CostoUnitario    decimal.Decimal `json:"costo_unitario"    validate:"min=0"`
	FechaVencimiento *string         `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

// AjustarStockRequest feeds a manual "ajuste" inventory movement. Delta may be
// negative; the resulting stock must not go below zero.
type AjustarStockRequest struct {
	Delta decimal.Decimal `json:"delta" validate:"required"`
	Nota  string          `json:"nota"  validate:"required,min=3"`
}

type ProductoFilter struct {
	Nombre string `form:"nombre"`
	Codigo string `form:"codigo"`
	Activo string `form:"activo"` // "false" | "all" | default activos
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID               string          `json:"id"`
	Codigo           string          `json:"codigo"`
	Nombre           string          `json:"nombre"`
	UnidadMedida     string          `json:"unidad_medida"`
	StockActual      decimal.Decimal `json:"stock_actual"`
	StockMinimo      decimal.Decimal `json:"stock_minimo"`
	CostoUnitario    decimal.Decimal `json:"costo_unitario"`
	FechaVencimiento *string         `json:"fecha_vencimiento,omitempty"`
	Activo           bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// AlertaStockResponse flags products at or below their minimum stock.
type AlertaStockResponse struct {
	ProductoID  string          `json:"producto_id"`
	Nombre      string          `json:"nombre"`
	StockActual decimal.Decimal `json:"stock_actual"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
}
