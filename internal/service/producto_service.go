package service

import (
	"context"
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductoService is the base-product catalog CRUD. Stock mutations are not
// here: they go through InventarioService so every change leaves a ledger row.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*model.Producto, error)
	Obtener(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*model.Producto, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	productoRepo repository.ProductoRepository
}

func NewProductoService(productoRepo repository.ProductoRepository) ProductoService {
	return &productoService{productoRepo: productoRepo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*model.Producto, error) {
	if req.Codigo == model.CodigoPerdidaOperativa {
		return nil, &ValidacionError{Detalle: "código reservado: " + model.CodigoPerdidaOperativa}
	}
	if _, err := s.productoRepo.FindByCodigo(ctx, req.Codigo); err == nil {
		return nil, &ValidacionError{Detalle: "ya existe un producto con código " + req.Codigo}
	}

	p := &model.Producto{
		Codigo:        req.Codigo,
		Nombre:        req.Nombre,
		UnidadMedida:  req.UnidadMedida,
		StockActual:   req.StockActual,
		StockMinimo:   req.StockMinimo,
		CostoUnitario: req.CostoUnitario,
		Activo:        true,
	}
	if req.FechaVencimiento != nil {
		fv, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, &ValidacionError{Detalle: "fecha_vencimiento inválida"}
		}
		p.FechaVencimiento = &fv
	}
	if err := s.productoRepo.Create(ctx, p); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	log.Info().Str("producto_id", p.ID.String()).Str("codigo", p.Codigo).Msg("producto creado")
	return p, nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, err := s.productoRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	return p, nil
}

func (s *productoService) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	return s.productoRepo.List(ctx, filter)
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*model.Producto, error) {
	p, err := s.Obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.EsPerdidaOperativa() {
		return nil, &ValidacionError{Detalle: "el producto de pérdida operativa no se edita"}
	}

	p.Nombre = req.Nombre
	p.UnidadMedida = req.UnidadMedida
	p.StockMinimo = req.StockMinimo
	p.CostoUnitario = req.CostoUnitario
	p.FechaVencimiento = nil
	if req.FechaVencimiento != nil {
		fv, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, &ValidacionError{Detalle: "fecha_vencimiento inválida"}
		}
		p.FechaVencimiento = &fv
	}
	if err := s.productoRepo.Update(ctx, p); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	return p, nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.Obtener(ctx, id)
	if err != nil {
		return err
	}
	if p.EsPerdidaOperativa() {
		return &ValidacionError{Detalle: "el producto de pérdida operativa no se elimina"}
	}
	return s.productoRepo.SoftDelete(ctx, id)
}
