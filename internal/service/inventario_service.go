package service

import (
	"context"
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovimientoInput describe un movimiento a aplicar contra el producto ya
// bloqueado. La dirección ajuste admite cantidad con signo; entrada y salida
// exigen cantidad positiva.
type MovimientoInput struct {
	Direccion string
	Cantidad  decimal.Decimal
	Motivo    string
	Nota      string
	// CostoUnitario overrides the product's current cost on the ledger row.
	// Used by returns to value operational losses at the original sale price.
	CostoUnitario *decimal.Decimal
	ReferenciaID  *uuid.UUID
}

// InventarioService owns every stock mutation. AplicarMovimientoTx is the
// single path that touches stock_actual: it writes the immutable ledger row
// and the new snapshot in the same transaction, so the ledger always replays
// to the snapshot.
type InventarioService interface {
	// AplicarMovimientoTx applies one movement to a product the caller already
	// holds locked (FindByIDForUpdateTx). Returns the created ledger row.
	AplicarMovimientoTx(tx *gorm.DB, producto *model.Producto, in MovimientoInput) (*model.MovimientoInventario, error)

	// AjustarStock is the manual correction entry point: locks the product,
	// applies an ajuste_manual movement for the signed delta.
	AjustarStock(ctx context.Context, productoID uuid.UUID, delta decimal.Decimal, nota string) (*model.MovimientoInventario, error)

	ListMovimientos(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error)
	ListAlertasStock(ctx context.Context) ([]model.Producto, error)
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoRepository
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoRepository,
) InventarioService {
	return &inventarioService{productoRepo: productoRepo, movimientoRepo: movimientoRepo}
}

func (s *inventarioService) AplicarMovimientoTx(tx *gorm.DB, producto *model.Producto, in MovimientoInput) (*model.MovimientoInventario, error) {
	anterior := producto.StockActual
	var nuevo decimal.Decimal
	switch in.Direccion {
	case model.DireccionEntrada:
		if in.Cantidad.Sign() <= 0 {
			return nil, &ValidacionError{Detalle: "la cantidad de una entrada debe ser positiva"}
		}
		nuevo = anterior.Add(in.Cantidad)
	case model.DireccionSalida:
		if in.Cantidad.Sign() <= 0 {
			return nil, &ValidacionError{Detalle: "la cantidad de una salida debe ser positiva"}
		}
		nuevo = anterior.Sub(in.Cantidad)
	case model.DireccionAjuste:
		// Un ajuste lleva el delta con signo tal cual lo ingresó el operador.
		if in.Cantidad.IsZero() {
			return nil, &ValidacionError{Detalle: "el delta de ajuste no puede ser cero"}
		}
		nuevo = anterior.Add(in.Cantidad)
	default:
		return nil, &ValidacionError{Detalle: "dirección de movimiento desconocida: " + in.Direccion}
	}

	costo := producto.CostoUnitario
	if in.CostoUnitario != nil {
		costo = *in.CostoUnitario
	}
	mov := &model.MovimientoInventario{
		ProductoID:    producto.ID,
		Direccion:     in.Direccion,
		Cantidad:      in.Cantidad,
		CostoUnitario: costo,
		Motivo:        in.Motivo,
		Nota:          in.Nota,
		StockAnterior: anterior,
		StockNuevo:    nuevo,
		ReferenciaID:  in.ReferenciaID,
		Fecha:         time.Now(),
	}
	if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	if err := s.productoRepo.SetStockTx(tx, producto.ID, nuevo); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}

	producto.StockActual = nuevo
	if producto.BajoStockMinimo() && !producto.EsPerdidaOperativa() {
		log.Warn().
			Str("producto", producto.Nombre).
			Str("stock", nuevo.String()).
			Str("minimo", producto.StockMinimo.String()).
			Msg("producto por debajo del stock mínimo")
	}
	return mov, nil
}

func (s *inventarioService) AjustarStock(ctx context.Context, productoID uuid.UUID, delta decimal.Decimal, nota string) (*model.MovimientoInventario, error) {
	if delta.IsZero() {
		return nil, &ValidacionError{Detalle: "el delta de ajuste no puede ser cero"}
	}

	var mov *model.MovimientoInventario
	err := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.productoRepo.FindByIDForUpdateTx(tx, productoID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNoEncontrado
			}
			return &ProcesamientoError{Causa: err}
		}

		if delta.Sign() < 0 && p.StockActual.Add(delta).Sign() < 0 {
			return &ValidacionError{Detalle: "el ajuste dejaría el stock en negativo"}
		}

		mov, err = s.AplicarMovimientoTx(tx, p, MovimientoInput{
			Direccion: model.DireccionAjuste,
			Cantidad:  delta,
			Motivo:    model.MotivoAjusteManual,
			Nota:      nota,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("producto_id", productoID.String()).
		Str("delta", delta.String()).
		Msg("ajuste manual de stock aplicado")
	return mov, nil
}

func (s *inventarioService) ListMovimientos(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	return s.movimientoRepo.List(ctx, filter)
}

func (s *inventarioService) ListAlertasStock(ctx context.Context) ([]model.Producto, error) {
	return s.productoRepo.ListBajoStockMinimo(ctx)
}
