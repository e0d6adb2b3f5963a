package dto

import "github.com/shopspring/decimal"

type FlujoCajaFilter struct {
	Desde     string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta     string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
	Direccion string `form:"direccion" validate:"omitempty,oneof=entrada salida"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type FlujoCajaResponse struct {
	ID          string          `json:"id"`
	Direccion   string          `json:"direccion"`
	Categoria   string          `json:"categoria"`
	Monto       decimal.Decimal `json:"monto"`
	VentaID     *string         `json:"venta_id,omitempty"`
	Descripcion string          `json:"descripcion"`
	Notas       *string         `json:"notas,omitempty"`
	Fecha       string          `json:"fecha"`
}

type FlujoCajaListResponse struct {
	Data  []FlujoCajaResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// ResumenFlujoResponse aggregates money movement for a date range.
type ResumenFlujoResponse struct {
	Desde         string                     `json:"desde"`
	Hasta         string                     `json:"hasta"`
	TotalEntradas decimal.Decimal            `json:"total_entradas"`
	TotalSalidas  decimal.Decimal            `json:"total_salidas"`
	Neto          decimal.Decimal            `json:"neto"`
	PorCategoria  map[string]decimal.Decimal `json:"por_categoria"`
}
