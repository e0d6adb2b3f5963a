package dto

type CrearMesaRequest struct {
	Numero    int `json:"numero"    validate:"required,min=1"`
	Capacidad int `json:"capacidad" validate:"required,min=1"`
}

type CambiarEstadoMesaRequest struct {
	Estado string `json:"estado" validate:"required,oneof=libre ocupada"`
}

type MesaResponse struct {
	ID        string `json:"id"`
	Numero    int    `json:"numero"`
	Capacidad int    `json:"capacidad"`
	Estado    string `json:"estado"`
	Activo    bool   `json:"activo"`
}
