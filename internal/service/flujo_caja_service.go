package service

import (
	"context"
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"
)

// FlujoCajaService exposes the money-movement ledger: raw listing plus an
// aggregated summary per date range. Writes happen only inside the sale and
// return orchestrators.
type FlujoCajaService interface {
	List(ctx context.Context, filter dto.FlujoCajaFilter) ([]model.FlujoCaja, int64, error)
	Resumen(ctx context.Context, desde, hasta string) (*dto.ResumenFlujoResponse, error)
}

type flujoCajaService struct {
	flujoRepo repository.FlujoCajaRepository
}

func NewFlujoCajaService(flujoRepo repository.FlujoCajaRepository) FlujoCajaService {
	return &flujoCajaService{flujoRepo: flujoRepo}
}

func (s *flujoCajaService) List(ctx context.Context, filter dto.FlujoCajaFilter) ([]model.FlujoCaja, int64, error) {
	return s.flujoRepo.List(ctx, filter)
}

func (s *flujoCajaService) Resumen(ctx context.Context, desde, hasta string) (*dto.ResumenFlujoResponse, error) {
	hoy := time.Now().Format("2006-01-02")
	if desde == "" {
		desde = hoy
	}
	if hasta == "" {
		hasta = hoy
	}

	d, err := time.Parse("2006-01-02", desde)
	if err != nil {
		return nil, &ValidacionError{Detalle: "desde inválido, formato esperado YYYY-MM-DD"}
	}
	h, err := time.Parse("2006-01-02", hasta)
	if err != nil {
		return nil, &ValidacionError{Detalle: "hasta inválido, formato esperado YYYY-MM-DD"}
	}
	if h.Before(d) {
		return nil, &ValidacionError{Detalle: "hasta no puede ser anterior a desde"}
	}

	entradas, salidas, porCategoria, err := s.flujoRepo.Resumen(ctx, d, h.AddDate(0, 0, 1))
	if err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	return &dto.ResumenFlujoResponse{
		Desde:         desde,
		Hasta:         hasta,
		TotalEntradas: entradas,
		TotalSalidas:  salidas,
		Neto:          entradas.Sub(salidas),
		PorCategoria:  porCategoria,
	}, nil
}
