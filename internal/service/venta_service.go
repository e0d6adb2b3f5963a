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

// Notificador receives post-commit events for asynchronous side effects
// (tickets por email, avisos al canal de administración). Failures never
// affect the committed operation.
type Notificador interface {
	VentaCompletada(venta *model.Venta)
	DevolucionProcesada(dev *model.Devolucion)
}

// VentaService orchestrates the sale pipeline: resolve → validate stock →
// persist → deduct → cash flow, all-or-nothing inside one transaction.
type VentaService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*model.Venta, error)
	// Completar applies the financial effects of a pending sale.
	Completar(ctx context.Context, ventaID, usuarioID uuid.UUID) (*model.Venta, error)
	// CancelarPendiente cancels a pending sale. Nothing to reverse.
	CancelarPendiente(ctx context.Context, ventaID uuid.UUID, motivo string) (*model.Venta, error)
	// Anular voids a completed sale: the cash-flow entry is deleted and the
	// estado flipped, but inventory stays deducted. Recovering goods goes
	// through the return path, which knows what is recoverable and what not.
	Anular(ctx context.Context, ventaID uuid.UUID, motivo string) (*model.Venta, error)
	CancelarItem(ctx context.Context, ventaID, itemID, usuarioID uuid.UUID, motivo string) (*model.Venta, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
}

type ventaService struct {
	ventaRepo    repository.VentaRepository
	productoRepo repository.ProductoRepository
	flujoRepo    repository.FlujoCajaRepository
	cajaRepo     repository.CajaRepository
	mesaRepo     repository.MesaRepository
	resolver     Resolver
	inventario   InventarioService
	notificador  Notificador
}

func NewVentaService(
	ventaRepo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	flujoRepo repository.FlujoCajaRepository,
	cajaRepo repository.CajaRepository,
	mesaRepo repository.MesaRepository,
	resolver Resolver,
	inventario InventarioService,
	notificador Notificador,
) VentaService {
	return &ventaService{
		ventaRepo:    ventaRepo,
		productoRepo: productoRepo,
		flujoRepo:    flujoRepo,
		cajaRepo:     cajaRepo,
		mesaRepo:     mesaRepo,
		resolver:     resolver,
		inventario:   inventario,
		notificador:  notificador,
	}
}

// lineaResuelta pairs the persisted line with its resolved requirements.
type lineaResuelta struct {
	item *model.VentaItem
	reqs []Requerimiento
}

// ── Registrar ────────────────────────────────────────────────────────────────

func (s *ventaService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*model.Venta, error) {
	venta, lineas, err := s.armarVenta(ctx, usuarioID, req)
	if err != nil {
		return nil, err
	}

	// Sesión de caja: se adjunta si el usuario tiene una abierta, pero nunca
	// es requisito para vender.
	if sesion, err := s.cajaRepo.FindAbiertaPorUsuario(ctx, usuarioID); err == nil {
		venta.SesionCajaID = &sesion.ID
	}

	if req.Pendiente {
		venta.Estado = model.VentaPendiente
		err = runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
			if err := s.ventaRepo.CreateTx(tx, venta); err != nil {
				return &ProcesamientoError{Causa: err}
			}
			if venta.MesaID != nil {
				if err := s.mesaRepo.UpdateEstadoTx(tx, *venta.MesaID, model.MesaOcupada); err != nil {
					return &ProcesamientoError{Causa: err}
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("venta_id", venta.ID.String()).Msg("venta pendiente registrada")
		return venta, nil
	}

	venta.Estado = model.VentaCompletada
	err = runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		if err := s.ventaRepo.CreateTx(tx, venta); err != nil {
			return &ProcesamientoError{Causa: err}
		}
		return s.aplicarEfectosVenta(tx, venta, lineas)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("total", venta.Total.String()).
		Int("items", len(venta.Items)).
		Msg("venta completada")
	if s.notificador != nil {
		s.notificador.VentaCompletada(venta)
	}
	return venta, nil
}

// armarVenta validates and resolves every line and builds the unsaved Venta.
// No side effects: everything here can fail without anything to roll back.
func (s *ventaService) armarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*model.Venta, []lineaResuelta, error) {
	venta := &model.Venta{
		UsuarioID:    usuarioID,
		MetodoPago:   req.MetodoPago,
		Descuento:    req.Descuento,
		Impuesto:     req.Impuesto,
		ClienteEmail: req.ClienteEmail,
	}
	if req.MesaID != nil {
		id, err := uuid.Parse(*req.MesaID)
		if err != nil {
			return nil, nil, &ValidacionError{Detalle: "mesa_id inválido"}
		}
		if _, err := s.mesaRepo.FindByID(ctx, id); err != nil {
			return nil, nil, &ValidacionError{Detalle: "mesa no encontrada"}
		}
		venta.MesaID = &id
	}

	subtotal := decimal.Zero
	venta.Items = make([]model.VentaItem, 0, len(req.Items))
	reqsPorLinea := make([][]Requerimiento, 0, len(req.Items))
	for i, linea := range req.Items {
		item, reqs, err := s.armarLinea(ctx, i, linea)
		if err != nil {
			return nil, nil, err
		}
		subtotal = subtotal.Add(item.TotalLinea)
		venta.Items = append(venta.Items, *item)
		reqsPorLinea = append(reqsPorLinea, reqs)
	}

	// Los punteros a las líneas se toman con el slice ya completo: append ya
	// no reubica el arreglo de respaldo.
	lineas := make([]lineaResuelta, len(venta.Items))
	for i := range venta.Items {
		lineas[i] = lineaResuelta{item: &venta.Items[i], reqs: reqsPorLinea[i]}
	}

	venta.Subtotal = subtotal
	venta.Total = subtotal.Sub(req.Descuento).Add(req.Impuesto)
	if venta.Total.Sign() < 0 {
		return nil, nil, &ValidacionError{Detalle: "el descuento supera el subtotal"}
	}
	return venta, lineas, nil
}

func (s *ventaService) armarLinea(ctx context.Context, idx int, linea dto.LineaVentaRequest) (*model.VentaItem, []Requerimiento, error) {
	item := &model.VentaItem{
		TipoProducto:   linea.Tipo,
		Cantidad:       linea.Cantidad,
		PrecioUnitario: linea.PrecioUnitario,
		TotalLinea:     linea.PrecioUnitario.Mul(decimal.NewFromInt(int64(linea.Cantidad))),
		Selecciones:    linea.Selecciones,
		EstadoCocina:   model.CocinaNueva,
	}

	if linea.Tipo == model.TipoLibre {
		if linea.Descripcion == "" {
			return nil, nil, &ValidacionError{Detalle: fmt.Sprintf("línea %d: una línea libre requiere descripción", idx)}
		}
		item.Descripcion = linea.Descripcion
		return item, nil, nil
	}

	if linea.ReferenciaID == nil {
		return nil, nil, &ValidacionError{Detalle: fmt.Sprintf("línea %d: tipo %s requiere referencia_id", idx, linea.Tipo)}
	}
	refID, err := uuid.Parse(*linea.ReferenciaID)
	if err != nil {
		return nil, nil, &ValidacionError{Detalle: fmt.Sprintf("línea %d: referencia_id inválido", idx)}
	}
	item.ReferenciaID = &refID

	res, err := s.resolver.Resolver(ctx, linea.Tipo, refID, linea.Cantidad, linea.Selecciones)
	if err != nil {
		return nil, nil, err
	}
	if !res.Vendible {
		return nil, nil, &ResolucionError{Detalle: fmt.Sprintf("%q no es vendible: configuración incompleta", res.Nombre)}
	}
	item.Descripcion = res.Nombre
	if linea.Descripcion != "" {
		item.Descripcion = linea.Descripcion
	}
	return item, res.Requerimientos, nil
}

// aplicarEfectosVenta runs inside the sale transaction: locks products in
// deterministic order, verifies stock, writes one aggregated ledger movement
// per product and the single cash-flow entry.
func (s *ventaService) aplicarEfectosVenta(tx *gorm.DB, venta *model.Venta, lineas []lineaResuelta) error {
	total := make([]Requerimiento, 0)
	for _, l := range lineas {
		if l.item.Cancelado() {
			continue
		}
		total = append(total, l.reqs...)
	}
	// agregar también ordena por producto: el orden de bloqueo es estable
	// entre ventas concurrentes.
	for _, req := range agregar(total) {
		p, err := s.productoRepo.FindByIDForUpdateTx(tx, req.ProductoID)
		if err != nil {
			return &ProcesamientoError{Causa: err}
		}
		if p.StockActual.LessThan(req.Cantidad) {
			disponible := 0
			if p.StockActual.Sign() > 0 {
				disponible = int(p.StockActual.IntPart())
			}
			return &StockInsuficienteError{
				Vendible:   p.Nombre,
				Solicitado: int(req.Cantidad.Ceil().IntPart()),
				Disponible: disponible,
			}
		}
		if _, err := s.inventario.AplicarMovimientoTx(tx, p, MovimientoInput{
			Direccion:    model.DireccionSalida,
			Cantidad:     req.Cantidad,
			Motivo:       model.MotivoVentaAutomatica,
			ReferenciaID: &venta.ID,
		}); err != nil {
			return err
		}
	}

	if err := s.flujoRepo.CreateTx(tx, &model.FlujoCaja{
		Direccion:   model.DireccionEntrada,
		Categoria:   model.CategoriaVentas,
		Monto:       venta.Total,
		VentaID:     &venta.ID,
		Descripcion: fmt.Sprintf("Venta %s (%s)", venta.ID, venta.MetodoPago),
		Fecha:       time.Now(),
	}); err != nil {
		return &ProcesamientoError{Causa: err}
	}
	return nil
}

// ── Completar ────────────────────────────────────────────────────────────────

func (s *ventaService) Completar(ctx context.Context, ventaID, usuarioID uuid.UUID) (*model.Venta, error) {
	var venta *model.Venta
	err := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		venta, err = s.ventaRepo.FindByIDForUpdateTx(tx, ventaID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNoEncontrado
			}
			return &ProcesamientoError{Causa: err}
		}
		if venta.Estado != model.VentaPendiente {
			return &EstadoInvalidoError{Detalle: "solo una venta pendiente puede completarse, estado actual: " + venta.Estado}
		}

		lineas := make([]lineaResuelta, 0, len(venta.Items))
		for i := range venta.Items {
			item := &venta.Items[i]
			if item.Cancelado() || item.TipoProducto == model.TipoLibre {
				lineas = append(lineas, lineaResuelta{item: item})
				continue
			}
			res, err := s.resolver.Resolver(ctx, item.TipoProducto, *item.ReferenciaID, item.Cantidad, item.Selecciones)
			if err != nil {
				return err
			}
			lineas = append(lineas, lineaResuelta{item: item, reqs: res.Requerimientos})
		}

		if err := s.aplicarEfectosVenta(tx, venta, lineas); err != nil {
			return err
		}

		venta.Estado = model.VentaCompletada
		if venta.SesionCajaID == nil {
			if sesion, err := s.cajaRepo.FindAbiertaPorUsuario(ctx, usuarioID); err == nil {
				venta.SesionCajaID = &sesion.ID
			}
		}
		if err := s.ventaRepo.UpdateTx(tx, venta); err != nil {
			return &ProcesamientoError{Causa: err}
		}
		if venta.MesaID != nil {
			if err := s.mesaRepo.UpdateEstadoTx(tx, *venta.MesaID, model.MesaLibre); err != nil {
				return &ProcesamientoError{Causa: err}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("venta_id", venta.ID.String()).Str("total", venta.Total.String()).Msg("venta pendiente completada")
	if s.notificador != nil {
		s.notificador.VentaCompletada(venta)
	}
	return venta, nil
}

// ── Cancelaciones ────────────────────────────────────────────────────────────

func (s *ventaService) CancelarPendiente(ctx context.Context, ventaID uuid.UUID, motivo string) (*model.Venta, error) {
	var venta *model.Venta
	err := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		venta, err = s.ventaRepo.FindByIDForUpdateTx(tx, ventaID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNoEncontrado
			}
			return &ProcesamientoError{Causa: err}
		}
		if venta.Estado != model.VentaPendiente {
			return &EstadoInvalidoError{Detalle: "solo una venta pendiente puede cancelarse, estado actual: " + venta.Estado}
		}
		venta.Estado = model.VentaCancelada
		if err := s.ventaRepo.UpdateTx(tx, venta); err != nil {
			return &ProcesamientoError{Causa: err}
		}
		if venta.MesaID != nil {
			if err := s.mesaRepo.UpdateEstadoTx(tx, *venta.MesaID, model.MesaLibre); err != nil {
				return &ProcesamientoError{Causa: err}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("venta_id", ventaID.String()).Str("motivo", motivo).Msg("venta pendiente cancelada")
	return venta, nil
}

func (s *ventaService) Anular(ctx context.Context, ventaID uuid.UUID, motivo string) (*model.Venta, error) {
	var venta *model.Venta
	err := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		venta, err = s.ventaRepo.FindByIDForUpdateTx(tx, ventaID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNoEncontrado
			}
			return &ProcesamientoError{Causa: err}
		}
		if venta.Estado != model.VentaCompletada {
			return &EstadoInvalidoError{Detalle: "solo una venta completada puede anularse, estado actual: " + venta.Estado}
		}
		if err := s.flujoRepo.DeleteByVentaTx(tx, venta.ID); err != nil {
			return &ProcesamientoError{Causa: err}
		}
		venta.Estado = model.VentaCancelada
		if err := s.ventaRepo.UpdateTx(tx, venta); err != nil {
			return &ProcesamientoError{Causa: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// El stock queda descontado a propósito: la comida ya salió de cocina.
	log.Warn().Str("venta_id", ventaID.String()).Str("motivo", motivo).
		Msg("venta completada anulada; el inventario no se restaura")
	return venta, nil
}

func (s *ventaService) CancelarItem(ctx context.Context, ventaID, itemID, usuarioID uuid.UUID, motivo string) (*model.Venta, error) {
	var venta *model.Venta
	err := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		venta, err = s.ventaRepo.FindByIDForUpdateTx(tx, ventaID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNoEncontrado
			}
			return &ProcesamientoError{Causa: err}
		}
		if venta.Estado != model.VentaPendiente {
			return &EstadoInvalidoError{Detalle: "solo se cancelan líneas de una venta pendiente"}
		}

		var item *model.VentaItem
		for i := range venta.Items {
			if venta.Items[i].ID == itemID {
				item = &venta.Items[i]
				break
			}
		}
		if item == nil {
			return ErrNoEncontrado
		}
		if item.Cancelado() {
			return &EstadoInvalidoError{Detalle: "la línea ya está cancelada"}
		}
		if item.EstadoCocina != model.CocinaNueva {
			return &EstadoInvalidoError{Detalle: "la línea ya entró a cocina, use una devolución"}
		}

		ahora := time.Now()
		item.CanceladoAt = &ahora
		item.CanceladoPor = &usuarioID
		item.MotivoCancelacion = &motivo
		if err := s.ventaRepo.UpdateItemTx(tx, item); err != nil {
			return &ProcesamientoError{Causa: err}
		}

		subtotal := decimal.Zero
		for i := range venta.Items {
			if !venta.Items[i].Cancelado() {
				subtotal = subtotal.Add(venta.Items[i].TotalLinea)
			}
		}
		venta.Subtotal = subtotal
		venta.Total = subtotal.Sub(venta.Descuento).Add(venta.Impuesto)
		if venta.Total.Sign() < 0 {
			venta.Total = decimal.Zero
		}
		if err := s.ventaRepo.UpdateTx(tx, venta); err != nil {
			return &ProcesamientoError{Causa: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("venta_id", ventaID.String()).Str("item_id", itemID.String()).Msg("línea de venta cancelada")
	return venta, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	v, err := s.ventaRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	return v, nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	return s.ventaRepo.List(ctx, filter)
}
