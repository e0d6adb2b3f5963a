package service

import (
	"context"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MesaService manages dining tables. The sale flow flips estado automatically;
// CambiarEstado exists for manual correction by the floor staff.
type MesaService interface {
	Crear(ctx context.Context, req dto.CrearMesaRequest) (*model.Mesa, error)
	List(ctx context.Context) ([]model.Mesa, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, estado string) (*model.Mesa, error)
}

type mesaService struct {
	mesaRepo repository.MesaRepository
}

func NewMesaService(mesaRepo repository.MesaRepository) MesaService {
	return &mesaService{mesaRepo: mesaRepo}
}

func (s *mesaService) Crear(ctx context.Context, req dto.CrearMesaRequest) (*model.Mesa, error) {
	m := &model.Mesa{
		Numero:    req.Numero,
		Capacidad: req.Capacidad,
		Estado:    model.MesaLibre,
		Activo:    true,
	}
	if err := s.mesaRepo.Create(ctx, m); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	return m, nil
}

func (s *mesaService) List(ctx context.Context) ([]model.Mesa, error) {
	return s.mesaRepo.List(ctx)
}

func (s *mesaService) CambiarEstado(ctx context.Context, id uuid.UUID, estado string) (*model.Mesa, error) {
	m, err := s.mesaRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	if err := s.mesaRepo.UpdateEstado(ctx, id, estado); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	m.Estado = estado
	return m, nil
}
