package service

import (
	"context"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogoService is the sellable catalog CRUD: menu items with variants and
// recipes, simple resale products, and combos.
type CatalogoService interface {
	CrearItemMenu(ctx context.Context, req dto.CrearItemMenuRequest) (*model.ItemMenu, error)
	ObtenerItemMenu(ctx context.Context, id uuid.UUID) (*model.ItemMenu, error)
	ListItemsMenu(ctx context.Context, filter dto.MenuFilter) ([]model.ItemMenu, int64, error)
	EliminarItemMenu(ctx context.Context, id uuid.UUID) error

	CrearSimple(ctx context.Context, req dto.CrearProductoSimpleRequest) (*model.ProductoSimple, error)
	ObtenerSimple(ctx context.Context, id uuid.UUID) (*model.ProductoSimple, error)
	ListSimples(ctx context.Context, page, limit int) ([]model.ProductoSimple, int64, error)
	EliminarSimple(ctx context.Context, id uuid.UUID) error

	CrearCombo(ctx context.Context, req dto.CrearComboRequest) (*model.Combo, error)
	ObtenerCombo(ctx context.Context, id uuid.UUID) (*model.Combo, error)
	ListCombos(ctx context.Context, page, limit int) ([]model.Combo, int64, error)
	EliminarCombo(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	menuRepo     repository.MenuRepository
	simpleRepo   repository.ProductoSimpleRepository
	comboRepo    repository.ComboRepository
	productoRepo repository.ProductoRepository
}

func NewCatalogoService(
	menuRepo repository.MenuRepository,
	simpleRepo repository.ProductoSimpleRepository,
	comboRepo repository.ComboRepository,
	productoRepo repository.ProductoRepository,
) CatalogoService {
	return &catalogoService{
		menuRepo:     menuRepo,
		simpleRepo:   simpleRepo,
		comboRepo:    comboRepo,
		productoRepo: productoRepo,
	}
}

// ── Items de menú ────────────────────────────────────────────────────────────

func (s *catalogoService) CrearItemMenu(ctx context.Context, req dto.CrearItemMenuRequest) (*model.ItemMenu, error) {
	item := &model.ItemMenu{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Categoria:   req.Categoria,
		Activo:      true,
	}

	recetas, err := s.armarRecetas(ctx, req.Recetas)
	if err != nil {
		return nil, err
	}
	item.Recetas = recetas

	for _, vr := range req.Variantes {
		recetasVar, err := s.armarRecetas(ctx, vr.Recetas)
		if err != nil {
			return nil, err
		}
		item.Variantes = append(item.Variantes, model.ItemMenuVariante{
			Nombre:  vr.Nombre,
			Precio:  vr.Precio,
			Activo:  true,
			Recetas: recetasVar,
		})
	}

	if err := s.menuRepo.CreateItem(ctx, item); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	return item, nil
}

func (s *catalogoService) ObtenerItemMenu(ctx context.Context, id uuid.UUID) (*model.ItemMenu, error) {
	item, err := s.menuRepo.FindItemByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	return item, nil
}

func (s *catalogoService) ListItemsMenu(ctx context.Context, filter dto.MenuFilter) ([]model.ItemMenu, int64, error) {
	return s.menuRepo.ListItems(ctx, filter)
}

func (s *catalogoService) EliminarItemMenu(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ObtenerItemMenu(ctx, id); err != nil {
		return err
	}
	return s.menuRepo.SoftDeleteItem(ctx, id)
}

// armarRecetas validates that every referenced base product exists and is not
// the loss pseudo-product.
func (s *catalogoService) armarRecetas(ctx context.Context, reqs []dto.RecetaRequest) ([]model.Receta, error) {
	recetas := make([]model.Receta, 0, len(reqs))
	for _, rr := range reqs {
		pid, err := uuid.Parse(rr.ProductoID)
		if err != nil {
			return nil, &ValidacionError{Detalle: "producto_id de receta inválido: " + rr.ProductoID}
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, &ValidacionError{Detalle: "producto de receta no encontrado: " + rr.ProductoID}
		}
		if p.EsPerdidaOperativa() {
			return nil, &ValidacionError{Detalle: "el producto de pérdida operativa no puede ser ingrediente"}
		}
		if rr.CantidadNecesaria.Sign() <= 0 {
			return nil, &ValidacionError{Detalle: "cantidad_necesaria debe ser positiva"}
		}
		recetas = append(recetas, model.Receta{
			ProductoID:        pid,
			CantidadNecesaria: rr.CantidadNecesaria,
		})
	}
	return recetas, nil
}

// ── Productos simples ────────────────────────────────────────────────────────

func (s *catalogoService) CrearSimple(ctx context.Context, req dto.CrearProductoSimpleRequest) (*model.ProductoSimple, error) {
	ps := &model.ProductoSimple{
		Nombre:         req.Nombre,
		Precio:         req.Precio,
		CostoPorUnidad: req.CostoPorUnidad,
		Activo:         true,
	}
	if req.ProductoID != nil {
		pid, err := uuid.Parse(*req.ProductoID)
		if err != nil {
			return nil, &ValidacionError{Detalle: "producto_id inválido"}
		}
		if _, err := s.productoRepo.FindByID(ctx, pid); err != nil {
			return nil, &ValidacionError{Detalle: "producto base no encontrado"}
		}
		ps.ProductoID = &pid
	}
	if err := s.simpleRepo.Create(ctx, ps); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	return ps, nil
}

func (s *catalogoService) ObtenerSimple(ctx context.Context, id uuid.UUID) (*model.ProductoSimple, error) {
	ps, err := s.simpleRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	return ps, nil
}

func (s *catalogoService) ListSimples(ctx context.Context, page, limit int) ([]model.ProductoSimple, int64, error) {
	return s.simpleRepo.List(ctx, page, limit)
}

func (s *catalogoService) EliminarSimple(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ObtenerSimple(ctx, id); err != nil {
		return err
	}
	return s.simpleRepo.SoftDelete(ctx, id)
}

// ── Combos ───────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearCombo(ctx context.Context, req dto.CrearComboRequest) (*model.Combo, error) {
	combo := &model.Combo{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Activo:      true,
	}
	for _, cr := range req.Componentes {
		comp := model.ComboComponente{
			Nombre:    cr.Nombre,
			Tipo:      cr.Tipo,
			Cantidad:  cr.Cantidad,
			Requerido: cr.Requerido,
		}
		switch cr.Tipo {
		case model.ComponenteFijo:
			if cr.VendibleTipo == nil || cr.VendibleID == nil {
				return nil, &ValidacionError{Detalle: "un componente fijo requiere vendible_tipo y vendible_id"}
			}
			vid, err := uuid.Parse(*cr.VendibleID)
			if err != nil {
				return nil, &ValidacionError{Detalle: "vendible_id inválido"}
			}
			if err := s.validarVendible(ctx, *cr.VendibleTipo, vid); err != nil {
				return nil, err
			}
			comp.VendibleTipo = cr.VendibleTipo
			comp.VendibleID = &vid
		case model.ComponenteEleccion:
			if len(cr.Opciones) == 0 {
				return nil, &ValidacionError{Detalle: "un componente de elección requiere opciones"}
			}
			defaults := 0
			for _, or := range cr.Opciones {
				vid, err := uuid.Parse(or.VendibleID)
				if err != nil {
					return nil, &ValidacionError{Detalle: "vendible_id de opción inválido"}
				}
				if err := s.validarVendible(ctx, or.VendibleTipo, vid); err != nil {
					return nil, err
				}
				if or.EsDefault {
					defaults++
				}
				comp.Opciones = append(comp.Opciones, model.ComboComponenteOpcion{
					VendibleTipo: or.VendibleTipo,
					VendibleID:   vid,
					AjustePrecio: or.AjustePrecio,
					EsDefault:    or.EsDefault,
				})
			}
			if defaults > 1 {
				return nil, &ValidacionError{Detalle: "un componente admite a lo sumo una opción default"}
			}
		}
		combo.Componentes = append(combo.Componentes, comp)
	}
	if err := s.comboRepo.Create(ctx, combo); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	return combo, nil
}

// validarVendible checks that a combo target exists. Nesting combos inside
// combos is rejected at the DTO layer (oneof excludes "combo").
func (s *catalogoService) validarVendible(ctx context.Context, tipo string, id uuid.UUID) error {
	var err error
	switch tipo {
	case model.TipoItemMenu:
		_, err = s.menuRepo.FindItemByID(ctx, id)
	case model.TipoVarianteMenu:
		_, err = s.menuRepo.FindVarianteByID(ctx, id)
	case model.TipoSimple:
		_, err = s.simpleRepo.FindByID(ctx, id)
	case model.TipoVarianteSimple:
		_, err = s.simpleRepo.FindVarianteByID(ctx, id)
	default:
		return &ValidacionError{Detalle: "tipo de vendible no admitido en combos: " + tipo}
	}
	if err != nil {
		return &ValidacionError{Detalle: "vendible de combo no encontrado: " + id.String()}
	}
	return nil
}

func (s *catalogoService) ObtenerCombo(ctx context.Context, id uuid.UUID) (*model.Combo, error) {
	c, err := s.comboRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	return c, nil
}

func (s *catalogoService) ListCombos(ctx context.Context, page, limit int) ([]model.Combo, int64, error) {
	return s.comboRepo.List(ctx, page, limit)
}

func (s *catalogoService) EliminarCombo(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ObtenerCombo(ctx, id); err != nil {
		return err
	}
	return s.comboRepo.SoftDelete(ctx, id)
}
