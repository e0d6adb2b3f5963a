package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemDevolucionRequest struct {
	VentaItemID string `json:"venta_item_id" validate:"required,uuid"`
	Cantidad    int    `json:"cantidad"      validate:"required,min=1"`
}

type ProcesarDevolucionRequest struct {
	VentaID         string                  `json:"venta_id"         validate:"required,uuid"`
	Items           []ItemDevolucionRequest `json:"items"            validate:"required,min=1,dive"`
	Motivo          string                  `json:"motivo"           validate:"required,oneof=insatisfaccion_cliente error_de_pedido problema_de_calidad otro"`
	MetodoReembolso string                  `json:"metodo_reembolso" validate:"required,oneof=efectivo debito credito transferencia"`
}

type DevolucionFilter struct {
	VentaID string `form:"venta_id" validate:"omitempty,uuid"`
	Estado  string `form:"estado"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DevolucionItemResponse struct {
	ID               string          `json:"id"`
	VentaItemID      string          `json:"venta_item_id"`
	CantidadDevuelta int             `json:"cantidad_devuelta"`
	CantidadOriginal int             `json:"cantidad_original"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
	TotalLinea       decimal.Decimal `json:"total_linea"`
	// InventarioRestaurado: la línea ya tiene su asiento de inventario
	// (restock o pérdida operativa).
	InventarioRestaurado bool `json:"inventario_restaurado"`
}

type DevolucionResponse struct {
	ID                   string                   `json:"id"`
	VentaID              string                   `json:"venta_id"`
	Tipo                 string                   `json:"tipo"`
	Motivo               string                   `json:"motivo"`
	MetodoReembolso      string                   `json:"metodo_reembolso"`
	Estado               string                   `json:"estado"`
	Subtotal             decimal.Decimal          `json:"subtotal"`
	Impuesto             decimal.Decimal          `json:"impuesto"`
	Total                decimal.Decimal          `json:"total"`
	InventarioRestaurado bool                     `json:"inventario_restaurado"`
	FlujoCajaAjustado    bool                     `json:"flujo_caja_ajustado"`
	Items                []DevolucionItemResponse `json:"items"`
	CreatedAt            string                   `json:"created_at"`
}

type DevolucionListResponse struct {
	Data  []DevolucionResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
