package service

import (
	"context"
	"time"

	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CajaService manages cashier register sessions: none → abierta → cerrada,
// at most one open per user.
type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, montoApertura decimal.Decimal) (*model.SesionCaja, error)
	Cerrar(ctx context.Context, usuarioID, sesionID uuid.UUID, montoCierre decimal.Decimal) (*model.SesionCaja, error)
	GetActiva(ctx context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error)
	Historial(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error)
}

type cajaService struct {
	cajaRepo  repository.CajaRepository
	flujoRepo repository.FlujoCajaRepository
}

func NewCajaService(cajaRepo repository.CajaRepository, flujoRepo repository.FlujoCajaRepository) CajaService {
	return &cajaService{cajaRepo: cajaRepo, flujoRepo: flujoRepo}
}

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, montoApertura decimal.Decimal) (*model.SesionCaja, error) {
	if montoApertura.Sign() < 0 {
		return nil, &ValidacionError{Detalle: "el monto de apertura no puede ser negativo"}
	}
	if _, err := s.cajaRepo.FindAbiertaPorUsuario(ctx, usuarioID); err == nil {
		return nil, &EstadoInvalidoError{Detalle: "el usuario ya tiene una sesión de caja abierta"}
	} else if err != gorm.ErrRecordNotFound {
		return nil, &ProcesamientoError{Causa: err}
	}

	sesion := &model.SesionCaja{
		UsuarioID:     usuarioID,
		MontoApertura: montoApertura,
		Estado:        model.SesionAbierta,
		OpenedAt:      time.Now(),
	}
	if err := s.cajaRepo.CreateSesion(ctx, sesion); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}

	log.Info().
		Str("sesion_id", sesion.ID.String()).
		Str("usuario_id", usuarioID.String()).
		Str("monto_apertura", montoApertura.String()).
		Msg("sesión de caja abierta")
	return sesion, nil
}

func (s *cajaService) Cerrar(ctx context.Context, usuarioID, sesionID uuid.UUID, montoCierre decimal.Decimal) (*model.SesionCaja, error) {
	sesion, err := s.cajaRepo.FindSesionByID(ctx, sesionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoEncontrado
		}
		return nil, &ProcesamientoError{Causa: err}
	}
	if sesion.UsuarioID != usuarioID {
		return nil, &ValidacionError{Detalle: "la sesión pertenece a otro usuario"}
	}
	if sesion.Estado != model.SesionAbierta {
		return nil, &EstadoInvalidoError{Detalle: "la sesión ya está cerrada"}
	}

	// Esperado = apertura + ventas en efectivo de la sesión. Los otros medios
	// de pago no pasan por el cajón.
	ventasEfectivo, err := s.flujoRepo.SumVentasEfectivoPorSesion(ctx, sesionID)
	if err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	esperado := sesion.MontoApertura.Add(ventasEfectivo)
	diferencia := montoCierre.Sub(esperado)

	ahora := time.Now()
	sesion.MontoCierre = &montoCierre
	sesion.MontoEsperado = &esperado
	sesion.Diferencia = &diferencia
	sesion.Estado = model.SesionCerrada
	sesion.ClosedAt = &ahora
	if err := s.cajaRepo.UpdateSesion(ctx, sesion); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}

	evt := log.Info()
	if !diferencia.IsZero() {
		evt = log.Warn()
	}
	evt.
		Str("sesion_id", sesionID.String()).
		Str("esperado", esperado.String()).
		Str("cierre", montoCierre.String()).
		Str("diferencia", diferencia.String()).
		Msg("sesión de caja cerrada")
	return sesion, nil
}

func (s *cajaService) GetActiva(ctx context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	sesion, err := s.cajaRepo.FindAbiertaPorUsuario(ctx, usuarioID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoEncontrado
		}
		return nil, &ProcesamientoError{Causa: err}
	}
	return sesion, nil
}

func (s *cajaService) Historial(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	return s.cajaRepo.Historial(ctx, page, limit)
}
