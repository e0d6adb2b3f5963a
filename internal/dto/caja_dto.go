package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoApertura decimal.Decimal `json:"monto_apertura" validate:"min=0"`
}

type CerrarCajaRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	MontoCierre  decimal.Decimal `json:"monto_cierre"   validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SesionCajaResponse struct {
	ID            string           `json:"id"`
	UsuarioID     string           `json:"usuario_id"`
	MontoApertura decimal.Decimal  `json:"monto_apertura"`
	MontoCierre   *decimal.Decimal `json:"monto_cierre,omitempty"`
	MontoEsperado *decimal.Decimal `json:"monto_esperado,omitempty"`
	Diferencia    *decimal.Decimal `json:"diferencia,omitempty"`
	Estado        string           `json:"estado"`
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at,omitempty"`
}
