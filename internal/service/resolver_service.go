package service

import (
	"context"
	"fmt"
	"sort"

	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DisponibilidadIlimitada is the sentinel returned for sellables with no
// resolved stock requirement (e.g. a menu item with an empty recipe set).
const DisponibilidadIlimitada = 999999

// Requerimiento is one resolved (product, quantity) pair for a full sale line
// (already scaled by the line quantity). Recuperable marks requirements coming
// from a simple-product path: those are restocked on return, while prepared
// food is booked as operational loss.
type Requerimiento struct {
	ProductoID  uuid.UUID
	Cantidad    decimal.Decimal
	Recuperable bool
}

// Resolucion is the flat expansion of a sale line. Vendible=false means the
// sellable can never be sold (broken base-product link, zero cost factor) —
// distinct from an empty requirement list, which means "no stock constraint".
type Resolucion struct {
	Nombre         string
	Requerimientos []Requerimiento
	Vendible       bool
}

// MovimientoPlan is one planned inventory effect of a return. A nil
// ProductoID targets the operational-loss pseudo-product; CostoUnitario is
// only set for loss entries (restocks take the product's current cost).
type MovimientoPlan struct {
	ProductoID    *uuid.UUID
	Cantidad      decimal.Decimal
	Motivo        string
	CostoUnitario decimal.Decimal
}

// Resolver turns a (tipo, id, cantidad, selecciones) tuple into concrete
// product requirements, expanding combos recursively, and derives both
// availability and return-reversal plans from the same expansion.
type Resolver interface {
	Resolver(ctx context.Context, tipo string, id uuid.UUID, cantidad int, selecciones model.SeleccionesCombo) (*Resolucion, error)
	// Disponible is pure: it computes the maximum sellable quantity from the
	// current stock snapshot, with no side effects. Callers must not assume
	// it reflects concurrent in-flight sales — the sale orchestrator
	// re-checks under row locks.
	Disponible(ctx context.Context, tipo string, id uuid.UUID) (int, error)
	PlanDevolucion(ctx context.Context, item *model.VentaItem, cantidad int) ([]MovimientoPlan, error)
}

type resolver struct {
	productoRepo repository.ProductoRepository
	menuRepo     repository.MenuRepository
	simpleRepo   repository.ProductoSimpleRepository
	comboRepo    repository.ComboRepository
}

func NewResolver(
	productoRepo repository.ProductoRepository,
	menuRepo repository.MenuRepository,
	simpleRepo repository.ProductoSimpleRepository,
	comboRepo repository.ComboRepository,
) Resolver {
	return &resolver{
		productoRepo: productoRepo,
		menuRepo:     menuRepo,
		simpleRepo:   simpleRepo,
		comboRepo:    comboRepo,
	}
}

// ── Resolver ─────────────────────────────────────────────────────────────────

func (r *resolver) Resolver(ctx context.Context, tipo string, id uuid.UUID, cantidad int, selecciones model.SeleccionesCombo) (*Resolucion, error) {
	if cantidad < 1 {
		return nil, &ValidacionError{Detalle: "cantidad debe ser positiva"}
	}
	res, err := r.resolver(ctx, tipo, id, decimal.NewFromInt(int64(cantidad)), selecciones)
	if err != nil {
		return nil, err
	}
	res.Requerimientos = agregar(res.Requerimientos)
	return res, nil
}

// resolver hace el trabajo recursivo con cantidad decimal (los componentes de
// combo escalan la cantidad de la línea).
func (r *resolver) resolver(ctx context.Context, tipo string, id uuid.UUID, cantidad decimal.Decimal, selecciones model.SeleccionesCombo) (*Resolucion, error) {
	switch tipo {
	case model.TipoLibre:
		// Sin efecto de inventario, sin restricción de disponibilidad.
		return &Resolucion{Nombre: "línea libre", Vendible: true}, nil

	case model.TipoItemMenu:
		item, err := r.menuRepo.FindItemByID(ctx, id)
		if err != nil {
			return nil, &ResolucionError{Detalle: fmt.Sprintf("item de menú %s no encontrado", id)}
		}
		recetas, err := r.menuRepo.RecetasDe(ctx, model.DuenoRecetaItemMenu, id)
		if err != nil {
			return nil, &ProcesamientoError{Causa: err}
		}
		return &Resolucion{Nombre: item.Nombre, Requerimientos: deRecetas(recetas, cantidad, false), Vendible: true}, nil

	case model.TipoVarianteMenu:
		v, err := r.menuRepo.FindVarianteByID(ctx, id)
		if err != nil {
			return nil, &ResolucionError{Detalle: fmt.Sprintf("variante de menú %s no encontrada", id)}
		}
		recetas, err := r.menuRepo.RecetasDe(ctx, model.DuenoRecetaVarianteMenu, id)
		if err != nil {
			return nil, &ProcesamientoError{Causa: err}
		}
		// Variante sin recetas propias ⇒ siempre disponible (lista vacía).
		return &Resolucion{Nombre: v.Nombre, Requerimientos: deRecetas(recetas, cantidad, false), Vendible: true}, nil

	case model.TipoSimple:
		ps, err := r.simpleRepo.FindByID(ctx, id)
		if err != nil {
			return nil, &ResolucionError{Detalle: fmt.Sprintf("producto simple %s no encontrado", id)}
		}
		// Vínculo roto o factor de costo en cero ⇒ no vendible, nunca una
		// división por cero.
		if ps.ProductoID == nil || ps.CostoPorUnidad.IsZero() {
			return &Resolucion{Nombre: ps.Nombre, Vendible: false}, nil
		}
		return &Resolucion{
			Nombre: ps.Nombre,
			Requerimientos: []Requerimiento{{
				ProductoID:  *ps.ProductoID,
				Cantidad:    ps.CostoPorUnidad.Mul(cantidad),
				Recuperable: true,
			}},
			Vendible: true,
		}, nil

	case model.TipoVarianteSimple:
		v, err := r.simpleRepo.FindVarianteByID(ctx, id)
		if err != nil {
			return nil, &ResolucionError{Detalle: fmt.Sprintf("variante simple %s no encontrada", id)}
		}
		recetas, err := r.menuRepo.RecetasDe(ctx, model.DuenoRecetaVarianteSimple, id)
		if err != nil {
			return nil, &ProcesamientoError{Causa: err}
		}
		if len(recetas) > 0 {
			return &Resolucion{Nombre: v.Nombre, Requerimientos: deRecetas(recetas, cantidad, true), Vendible: true}, nil
		}
		// Sin receta propia: cae al producto simple padre.
		padre, err := r.resolver(ctx, model.TipoSimple, v.ProductoSimpleID, cantidad, nil)
		if err != nil {
			return nil, err
		}
		padre.Nombre = v.Nombre
		return padre, nil

	case model.TipoCombo:
		return r.resolverCombo(ctx, id, cantidad, selecciones)

	default:
		return nil, &ValidacionError{Detalle: "tipo de vendible desconocido: " + tipo}
	}
}

func (r *resolver) resolverCombo(ctx context.Context, id uuid.UUID, cantidad decimal.Decimal, selecciones model.SeleccionesCombo) (*Resolucion, error) {
	combo, err := r.comboRepo.FindByID(ctx, id)
	if err != nil {
		return nil, &ResolucionError{Detalle: fmt.Sprintf("combo %s no encontrado", id)}
	}

	res := &Resolucion{Nombre: combo.Nombre, Vendible: true}
	for _, comp := range combo.Componentes {
		escala := cantidad.Mul(decimal.NewFromInt(int64(comp.Cantidad)))

		tipo, vid, varianteID, err := r.destinoComponente(&comp, selecciones)
		if err != nil {
			return nil, err
		}
		if tipo == "" {
			// Elección opcional sin selección ni default: no aporta nada.
			continue
		}
		if varianteID != nil {
			// La variante elegida estrecha qué recetas se consultan.
			tipo, vid = tipoVariante(tipo), *varianteID
		}

		sub, err := r.resolver(ctx, tipo, vid, escala, nil)
		if err != nil {
			return nil, err
		}
		if !sub.Vendible {
			res.Vendible = false
		}
		res.Requerimientos = append(res.Requerimientos, sub.Requerimientos...)
	}
	return res, nil
}

// destinoComponente decides which sellable a combo component resolves to:
// the fixed binding, the customer's selection, or the default option.
// An empty tipo with nil error means the component contributes nothing.
func (r *resolver) destinoComponente(comp *model.ComboComponente, selecciones model.SeleccionesCombo) (tipo string, id uuid.UUID, varianteID *uuid.UUID, err error) {
	if comp.Tipo == model.ComponenteFijo {
		if comp.VendibleTipo == nil || comp.VendibleID == nil {
			return "", uuid.Nil, nil, &ResolucionError{Detalle: fmt.Sprintf("componente fijo %q sin vendible asociado", comp.Nombre)}
		}
		return *comp.VendibleTipo, *comp.VendibleID, nil, nil
	}

	if sel, ok := selecciones[comp.ID.String()]; ok {
		for _, op := range comp.Opciones {
			if op.ID == sel.OpcionID {
				return op.VendibleTipo, op.VendibleID, sel.VarianteID, nil
			}
		}
		return "", uuid.Nil, nil, &ResolucionError{Detalle: fmt.Sprintf("opción %s no pertenece al componente %q", sel.OpcionID, comp.Nombre)}
	}

	for _, op := range comp.Opciones {
		if op.EsDefault {
			return op.VendibleTipo, op.VendibleID, nil, nil
		}
	}
	if comp.Requerido {
		return "", uuid.Nil, nil, &ResolucionError{Detalle: fmt.Sprintf("elección requerida %q sin selección ni opción default", comp.Nombre)}
	}
	return "", uuid.Nil, nil, nil
}

// tipoVariante maps a base sellable type to its variant type.
func tipoVariante(tipo string) string {
	if tipo == model.TipoSimple {
		return model.TipoVarianteSimple
	}
	return model.TipoVarianteMenu
}

// ── Disponible ───────────────────────────────────────────────────────────────

func (r *resolver) Disponible(ctx context.Context, tipo string, id uuid.UUID) (int, error) {
	res, err := r.Resolver(ctx, tipo, id, 1, nil)
	if err != nil {
		return 0, err
	}
	if !res.Vendible {
		return 0, nil
	}
	if len(res.Requerimientos) == 0 {
		return DisponibilidadIlimitada, nil
	}

	min := DisponibilidadIlimitada
	for _, req := range res.Requerimientos {
		p, err := r.productoRepo.FindByID(ctx, req.ProductoID)
		if err != nil {
			return 0, &ResolucionError{Detalle: fmt.Sprintf("producto base %s no encontrado", req.ProductoID)}
		}
		if p.StockActual.Sign() <= 0 {
			return 0, nil
		}
		// floor(stock / cantidad_por_unidad), nunca negativo
		posibles := int(p.StockActual.Div(req.Cantidad).IntPart())
		if posibles < min {
			min = posibles
		}
	}
	if min < 0 {
		min = 0
	}
	return min, nil
}

// ── PlanDevolucion ───────────────────────────────────────────────────────────

// PlanDevolucion classifies the inventory effect of returning `cantidad`
// units of a sale line:
//   - prepared food (menu paths) is a total loss: one movement against the
//     loss pseudo-product at the line's original unit price
//   - simple goods are restocked at their resolved quantities
//   - combos apply the per-component rule using the original selections
func (r *resolver) PlanDevolucion(ctx context.Context, item *model.VentaItem, cantidad int) ([]MovimientoPlan, error) {
	cant := decimal.NewFromInt(int64(cantidad))

	switch item.TipoProducto {
	case model.TipoLibre:
		return nil, nil

	case model.TipoItemMenu, model.TipoVarianteMenu:
		return []MovimientoPlan{{
			Cantidad:      cant,
			Motivo:        model.MotivoPerdidaOperativa,
			CostoUnitario: item.PrecioUnitario,
		}}, nil

	case model.TipoSimple, model.TipoVarianteSimple:
		if item.ReferenciaID == nil {
			return nil, &ResolucionError{Detalle: "línea simple sin referencia"}
		}
		res, err := r.Resolver(ctx, item.TipoProducto, *item.ReferenciaID, cantidad, nil)
		if err != nil {
			return nil, err
		}
		planes := make([]MovimientoPlan, 0, len(res.Requerimientos))
		for _, req := range res.Requerimientos {
			pid := req.ProductoID
			planes = append(planes, MovimientoPlan{
				ProductoID: &pid,
				Cantidad:   req.Cantidad,
				Motivo:     model.MotivoDevolucionSimple,
			})
		}
		return planes, nil

	case model.TipoCombo:
		return r.planDevolucionCombo(ctx, item, cantidad)

	default:
		return nil, &ValidacionError{Detalle: "tipo de vendible desconocido: " + item.TipoProducto}
	}
}

func (r *resolver) planDevolucionCombo(ctx context.Context, item *model.VentaItem, cantidad int) ([]MovimientoPlan, error) {
	if item.ReferenciaID == nil {
		return nil, &ResolucionError{Detalle: "línea combo sin referencia"}
	}
	combo, err := r.comboRepo.FindByID(ctx, *item.ReferenciaID)
	if err != nil {
		return nil, &ResolucionError{Detalle: fmt.Sprintf("combo %s no encontrado", *item.ReferenciaID)}
	}

	var planes []MovimientoPlan
	for _, comp := range combo.Componentes {
		tipo, vid, varianteID, err := r.destinoComponente(&comp, item.Selecciones)
		if err != nil {
			return nil, err
		}
		if tipo == "" {
			continue
		}
		if varianteID != nil {
			tipo, vid = tipoVariante(tipo), *varianteID
		}

		escala := cantidad * comp.Cantidad
		switch tipo {
		case model.TipoItemMenu, model.TipoVarianteMenu:
			costo, err := r.precioDe(ctx, tipo, vid)
			if err != nil {
				return nil, err
			}
			planes = append(planes, MovimientoPlan{
				Cantidad:      decimal.NewFromInt(int64(escala)),
				Motivo:        model.MotivoPerdidaOperativa,
				CostoUnitario: costo,
			})
		case model.TipoSimple, model.TipoVarianteSimple:
			res, err := r.Resolver(ctx, tipo, vid, escala, nil)
			if err != nil {
				return nil, err
			}
			for _, req := range res.Requerimientos {
				pid := req.ProductoID
				planes = append(planes, MovimientoPlan{
					ProductoID: &pid,
					Cantidad:   req.Cantidad,
					Motivo:     model.MotivoDevolucionSimple,
				})
			}
		}
	}
	return planes, nil
}

// precioDe looks up the catalog price of a menu-path sellable for loss valuation.
func (r *resolver) precioDe(ctx context.Context, tipo string, id uuid.UUID) (decimal.Decimal, error) {
	switch tipo {
	case model.TipoItemMenu:
		item, err := r.menuRepo.FindItemByID(ctx, id)
		if err != nil {
			return decimal.Zero, &ResolucionError{Detalle: fmt.Sprintf("item de menú %s no encontrado", id)}
		}
		return item.Precio, nil
	case model.TipoVarianteMenu:
		v, err := r.menuRepo.FindVarianteByID(ctx, id)
		if err != nil {
			return decimal.Zero, &ResolucionError{Detalle: fmt.Sprintf("variante de menú %s no encontrada", id)}
		}
		return v.Precio, nil
	}
	return decimal.Zero, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// deRecetas scales recipe rows by the line quantity.
func deRecetas(recetas []model.Receta, cantidad decimal.Decimal, recuperable bool) []Requerimiento {
	reqs := make([]Requerimiento, 0, len(recetas))
	for _, rec := range recetas {
		reqs = append(reqs, Requerimiento{
			ProductoID:  rec.ProductoID,
			Cantidad:    rec.CantidadNecesaria.Mul(cantidad),
			Recuperable: recuperable,
		})
	}
	return reqs
}

// agregar merges duplicate product requirements (two combo components sharing
// an ingredient) and returns them in deterministic order — the sale
// orchestrator locks product rows in this order to avoid deadlocks.
func agregar(reqs []Requerimiento) []Requerimiento {
	if len(reqs) < 2 {
		return reqs
	}
	porProducto := make(map[uuid.UUID]*Requerimiento, len(reqs))
	for _, req := range reqs {
		if acc, ok := porProducto[req.ProductoID]; ok {
			acc.Cantidad = acc.Cantidad.Add(req.Cantidad)
			// Si algún camino no es recuperable, el agregado tampoco.
			acc.Recuperable = acc.Recuperable && req.Recuperable
			continue
		}
		copia := req
		porProducto[req.ProductoID] = &copia
	}
	out := make([]Requerimiento, 0, len(porProducto))
	for _, req := range porProducto {
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductoID.String() < out[j].ProductoID.String()
	})
	return out
}
