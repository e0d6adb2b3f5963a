package dto

import "github.com/shopspring/decimal"

type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Motivo     string `form:"motivo"`
	Direccion  string `form:"direccion" validate:"omitempty,oneof=entrada salida ajuste"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto"`
	Direccion     string          `json:"direccion"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Motivo        string          `json:"motivo"`
	Nota          string          `json:"nota,omitempty"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	ReferenciaID  *string         `json:"referencia_id,omitempty"`
	Fecha         string          `json:"fecha"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
