package dto

import (
	"fondapos/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Recetas ─────────────────────────────────────────────────────────────────

type RecetaRequest struct {
	ProductoID        string          `json:"producto_id"        validate:"required,uuid"`
	CantidadNecesaria decimal.Decimal `json:"cantidad_necesaria" validate:"required"`
}

type RecetaResponse struct {
	ID                string          `json:"id"`
	ProductoID        string          `json:"producto_id"`
	Producto          string          `json:"producto,omitempty"`
	CantidadNecesaria decimal.Decimal `json:"cantidad_necesaria"`
}

// ─── Items de menú ───────────────────────────────────────────────────────────

type VarianteMenuRequest struct {
	Nombre  string          `json:"nombre"  validate:"required,min=2"`
	Precio  decimal.Decimal `json:"precio"  validate:"required"`
	Recetas []RecetaRequest `json:"recetas" validate:"dive"`
}

type CrearItemMenuRequest struct {
	Nombre      string                `json:"nombre"    validate:"required,min=2"`
	Descripcion *string               `json:"descripcion"`
	Precio      decimal.Decimal       `json:"precio"    validate:"required"`
	Categoria   string                `json:"categoria"`
	Recetas     []RecetaRequest       `json:"recetas"   validate:"dive"`
	Variantes   []VarianteMenuRequest `json:"variantes" validate:"dive"`
}

type VarianteMenuResponse struct {
	ID      string           `json:"id"`
	Nombre  string           `json:"nombre"`
	Precio  decimal.Decimal  `json:"precio"`
	Recetas []RecetaResponse `json:"recetas,omitempty"`
}

type ItemMenuResponse struct {
	ID          string                 `json:"id"`
	Nombre      string                 `json:"nombre"`
	Descripcion *string                `json:"descripcion,omitempty"`
	Precio      decimal.Decimal        `json:"precio"`
	Categoria   string                 `json:"categoria,omitempty"`
	Activo      bool                   `json:"activo"`
	Disponible  int                    `json:"disponible"`
	Recetas     []RecetaResponse       `json:"recetas,omitempty"`
	Variantes   []VarianteMenuResponse `json:"variantes,omitempty"`
}

type MenuFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Productos simples ───────────────────────────────────────────────────────

type CrearProductoSimpleRequest struct {
	Nombre         string          `json:"nombre"           validate:"required,min=2"`
	Precio         decimal.Decimal `json:"precio"           validate:"required"`
	ProductoID     *string         `json:"producto_id"      validate:"omitempty,uuid"`
	CostoPorUnidad decimal.Decimal `json:"costo_por_unidad" validate:"min=0"`
}

type ProductoSimpleResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Precio         decimal.Decimal `json:"precio"`
	ProductoID     *string         `json:"producto_id,omitempty"`
	CostoPorUnidad decimal.Decimal `json:"costo_por_unidad"`
	Activo         bool            `json:"activo"`
	Disponible     int             `json:"disponible"`
}

// ─── Combos ──────────────────────────────────────────────────────────────────

type OpcionComboRequest struct {
	VendibleTipo string          `json:"vendible_tipo" validate:"required,oneof=menu variante_menu simple variante_simple"`
	VendibleID   string          `json:"vendible_id"   validate:"required,uuid"`
	AjustePrecio decimal.Decimal `json:"ajuste_precio"`
	EsDefault    bool            `json:"es_default"`
}

type ComponenteComboRequest struct {
	Nombre       string               `json:"nombre"    validate:"required"`
	Tipo         string               `json:"tipo"      validate:"required,oneof=fijo eleccion"`
	Cantidad     int                  `json:"cantidad"  validate:"required,min=1"`
	Requerido    bool                 `json:"requerido"`
	VendibleTipo *string              `json:"vendible_tipo" validate:"omitempty,oneof=menu variante_menu simple variante_simple"`
	VendibleID   *string              `json:"vendible_id"   validate:"omitempty,uuid"`
	Opciones     []OpcionComboRequest `json:"opciones"      validate:"dive"`
}

type CrearComboRequest struct {
	Nombre      string                   `json:"nombre"      validate:"required,min=2"`
	Descripcion *string                  `json:"descripcion"`
	Precio      decimal.Decimal          `json:"precio"      validate:"required"`
	Componentes []ComponenteComboRequest `json:"componentes" validate:"required,min=1,dive"`
}

type OpcionComboResponse struct {
	ID           string          `json:"id"`
	VendibleTipo string          `json:"vendible_tipo"`
	VendibleID   string          `json:"vendible_id"`
	AjustePrecio decimal.Decimal `json:"ajuste_precio"`
	EsDefault    bool            `json:"es_default"`
}

type ComponenteComboResponse struct {
	ID           string                `json:"id"`
	Nombre       string                `json:"nombre"`
	Tipo         string                `json:"tipo"`
	Cantidad     int                   `json:"cantidad"`
	Requerido    bool                  `json:"requerido"`
	VendibleTipo *string               `json:"vendible_tipo,omitempty"`
	VendibleID   *string               `json:"vendible_id,omitempty"`
	Opciones     []OpcionComboResponse `json:"opciones,omitempty"`
}

type ComboResponse struct {
	ID          string                    `json:"id"`
	Nombre      string                    `json:"nombre"`
	Descripcion *string                   `json:"descripcion,omitempty"`
	Precio      decimal.Decimal           `json:"precio"`
	Activo      bool                      `json:"activo"`
	Disponible  int                       `json:"disponible"`
	Componentes []ComponenteComboResponse `json:"componentes"`
}

// SeleccionesDefault pre-fills a selections map from a combo's default options —
// used by UI flows that render the combo before the customer customizes it.
func SeleccionesDefault(combo *model.Combo) model.SeleccionesCombo {
	sel := model.SeleccionesCombo{}
	for _, comp := range combo.Componentes {
		if comp.Tipo != model.ComponenteEleccion {
			continue
		}
		for _, op := range comp.Opciones {
			if op.EsDefault {
				sel[comp.ID.String()] = model.SeleccionCombo{OpcionID: op.ID}
				break
			}
		}
	}
	return sel
}
