package service

import (
	"context"
	"fmt"
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DevolucionService processes returns against completed sales. The reversal
// distinguishes prepared food (booked as operational loss) from simple resale
// goods (restocked), caps per-line quantities against what was sold minus what
// was already returned, and marks its two effects with idempotency flags so a
// retried return never applies stock or cash twice.
type DevolucionService interface {
	Procesar(ctx context.Context, req dto.ProcesarDevolucionRequest) (*model.Devolucion, error)
	ObtenerDevolucion(ctx context.Context, id uuid.UUID) (*model.Devolucion, error)
	ListDevoluciones(ctx context.Context, filter dto.DevolucionFilter) ([]model.Devolucion, int64, error)
}

type devolucionService struct {
	devolucionRepo repository.DevolucionRepository
	ventaRepo      repository.VentaRepository
	productoRepo   repository.ProductoRepository
	flujoRepo      repository.FlujoCajaRepository
	resolver       Resolver
	inventario     InventarioService
	notificador    Notificador
}

func NewDevolucionService(
	devolucionRepo repository.DevolucionRepository,
	ventaRepo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	flujoRepo repository.FlujoCajaRepository,
	resolver Resolver,
	inventario InventarioService,
	notificador Notificador,
) DevolucionService {
	return &devolucionService{
		devolucionRepo: devolucionRepo,
		ventaRepo:      ventaRepo,
		productoRepo:   productoRepo,
		flujoRepo:      flujoRepo,
		resolver:       resolver,
		inventario:     inventario,
		notificador:    notificador,
	}
}

func (s *devolucionService) Procesar(ctx context.Context, req dto.ProcesarDevolucionRequest) (*model.Devolucion, error) {
	ventaID, err := uuid.Parse(req.VentaID)
	if err != nil {
		return nil, &ValidacionError{Detalle: "venta_id inválido"}
	}

	var dev *model.Devolucion
	err = runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		// El lock de la venta y sus líneas serializa devoluciones concurrentes
		// contra la misma venta: el tope por línea queda estable.
		venta, err := s.ventaRepo.FindByIDForUpdateTx(tx, ventaID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNoEncontrado
			}
			return &ProcesamientoError{Causa: err}
		}
		if venta.Estado != model.VentaCompletada {
			return &EstadoInvalidoError{Detalle: "solo se devuelve contra una venta completada, estado actual: " + venta.Estado}
		}

		dev, err = s.armarDevolucion(tx, venta, req)
		if err != nil {
			return err
		}
		if err := s.devolucionRepo.CreateTx(tx, dev); err != nil {
			return &ProcesamientoError{Causa: err}
		}
		return s.aplicarEfectos(ctx, tx, dev, venta)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("devolucion_id", dev.ID.String()).
		Str("venta_id", ventaID.String()).
		Str("tipo", dev.Tipo).
		Str("total", dev.Total.String()).
		Msg("devolución procesada")
	if s.notificador != nil {
		s.notificador.DevolucionProcesada(dev)
	}
	return dev, nil
}

// armarDevolucion validates every requested line against its remaining
// returnable quantity and builds the unsaved Devolucion with prorated tax.
func (s *devolucionService) armarDevolucion(tx *gorm.DB, venta *model.Venta, req dto.ProcesarDevolucionRequest) (*model.Devolucion, error) {
	porID := make(map[uuid.UUID]*model.VentaItem, len(venta.Items))
	for i := range venta.Items {
		porID[venta.Items[i].ID] = &venta.Items[i]
	}

	dev := &model.Devolucion{
		VentaID:         venta.ID,
		Motivo:          req.Motivo,
		MetodoReembolso: req.MetodoReembolso,
		Estado:          model.DevolucionPendiente,
	}

	vistos := make(map[uuid.UUID]bool, len(req.Items))
	subtotal := decimal.Zero
	for _, it := range req.Items {
		itemID, err := uuid.Parse(it.VentaItemID)
		if err != nil {
			return nil, &ValidacionError{Detalle: "venta_item_id inválido: " + it.VentaItemID}
		}
		if vistos[itemID] {
			return nil, &ValidacionError{Detalle: "línea repetida en la solicitud: " + it.VentaItemID}
		}
		vistos[itemID] = true

		item, ok := porID[itemID]
		if !ok {
			return nil, &ValidacionError{Detalle: fmt.Sprintf("la línea %s no pertenece a la venta", itemID)}
		}
		if item.Cancelado() {
			return nil, &EstadoInvalidoError{Detalle: "no se devuelve una línea cancelada"}
		}

		yaDevuelto, err := s.devolucionRepo.SumDevueltoPorItemTx(tx, itemID)
		if err != nil {
			return nil, &ProcesamientoError{Causa: err}
		}
		restante := item.Cantidad - yaDevuelto
		if it.Cantidad > restante {
			return nil, &DevolucionExcedidaError{
				VentaItemID: itemID.String(),
				Solicitado:  it.Cantidad,
				Restante:    restante,
			}
		}

		totalLinea := item.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad)))
		subtotal = subtotal.Add(totalLinea)
		dev.Items = append(dev.Items, model.DevolucionItem{
			VentaItemID:      itemID,
			CantidadDevuelta: it.Cantidad,
			CantidadOriginal: item.Cantidad,
			PrecioUnitario:   item.PrecioUnitario,
			TotalLinea:       totalLinea,
		})
	}

	dev.Subtotal = subtotal
	// Impuesto prorrateado por participación en el subtotal de la venta.
	if venta.Impuesto.Sign() > 0 && venta.Subtotal.Sign() > 0 {
		dev.Impuesto = venta.Impuesto.Mul(subtotal).Div(venta.Subtotal).Round(2)
	}
	dev.Total = subtotal.Add(dev.Impuesto)

	dev.Tipo = model.DevolucionParcial
	if dev.Total.GreaterThanOrEqual(venta.Total) {
		dev.Tipo = model.DevolucionTotal
	}
	return dev, nil
}

// aplicarEfectos applies the two effects of a return, each guarded by its
// idempotency flag. Safe to call again on a half-applied return: a completed
// effect is skipped, never repeated.
func (s *devolucionService) aplicarEfectos(ctx context.Context, tx *gorm.DB, dev *model.Devolucion, venta *model.Venta) error {
	porID := make(map[uuid.UUID]*model.VentaItem, len(venta.Items))
	for i := range venta.Items {
		porID[venta.Items[i].ID] = &venta.Items[i]
	}

	if !dev.InventarioRestaurado {
		for i := range dev.Items {
			di := &dev.Items[i]
			item := porID[di.VentaItemID]
			if err := s.restaurarLinea(ctx, tx, dev, di, item); err != nil {
				return err
			}
		}
		dev.InventarioRestaurado = true
	}

	if !dev.FlujoCajaAjustado {
		if err := s.flujoRepo.CreateTx(tx, &model.FlujoCaja{
			Direccion:   model.DireccionSalida,
			Categoria:   model.CategoriaDevoluciones,
			Monto:       dev.Total,
			VentaID:     &dev.VentaID,
			Descripcion: fmt.Sprintf("Devolución %s de venta %s (%s)", dev.Tipo, dev.VentaID, dev.MetodoReembolso),
			Fecha:       time.Now(),
		}); err != nil {
			return &ProcesamientoError{Causa: err}
		}
		dev.FlujoCajaAjustado = true
	}

	dev.Estado = model.DevolucionCompletada
	if err := s.devolucionRepo.UpdateTx(tx, dev); err != nil {
		return &ProcesamientoError{Causa: err}
	}
	return nil
}

// restaurarLinea applies the inventory plan of one returned line: loss entries
// go against the loss pseudo-product at the line's sale price, restock entries
// against the real product at its current cost.
func (s *devolucionService) restaurarLinea(ctx context.Context, tx *gorm.DB, dev *model.Devolucion, di *model.DevolucionItem, item *model.VentaItem) error {
	planes, err := s.resolver.PlanDevolucion(ctx, item, di.CantidadDevuelta)
	if err != nil {
		return err
	}

	for _, plan := range planes {
		in := MovimientoInput{
			Direccion:    model.DireccionEntrada,
			Cantidad:     plan.Cantidad,
			Motivo:       plan.Motivo,
			ReferenciaID: &dev.ID,
		}

		var p *model.Producto
		if plan.ProductoID == nil {
			p, err = s.productoRepo.FindOrCreatePerdidaOperativaTx(tx)
			if err != nil {
				return &ProcesamientoError{Causa: err}
			}
			costo := plan.CostoUnitario
			in.CostoUnitario = &costo
			in.Nota = fmt.Sprintf("pérdida por devolución de %q", item.Descripcion)
		} else {
			p, err = s.productoRepo.FindByIDForUpdateTx(tx, *plan.ProductoID)
			if err != nil {
				return &ProcesamientoError{Causa: err}
			}
		}

		if _, err := s.inventario.AplicarMovimientoTx(tx, p, in); err != nil {
			return err
		}
	}

	// La marca cubre cualquier asiento de la línea: tanto el restock de un
	// producto simple como la pérdida contra el pseudo-producto.
	di.InventarioRestaurado = len(planes) > 0
	return nil
}

func (s *devolucionService) ObtenerDevolucion(ctx context.Context, id uuid.UUID) (*model.Devolucion, error) {
	d, err := s.devolucionRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	return d, nil
}

func (s *devolucionService) ListDevoluciones(ctx context.Context, filter dto.DevolucionFilter) ([]model.Devolucion, int64, error) {
	return s.devolucionRepo.List(ctx, filter)
}
