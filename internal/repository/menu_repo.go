package repository

import (
	"context"

	"fondapos/internal/dto"
	"fondapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuRepository covers menu items, their variants and recipe rows.
type MenuRepository interface {
	CreateItem(ctx context.Context, item *model.ItemMenu) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.ItemMenu, error)
	FindVarianteByID(ctx context.Context, id uuid.UUID) (*model.ItemMenuVariante, error)
	ListItems(ctx context.Context, filter dto.MenuFilter) ([]model.ItemMenu, int64, error)
	UpdateItem(ctx context.Context, item *model.ItemMenu) error
	SoftDeleteItem(ctx context.Context, id uuid.UUID) error

	// RecetasDe returns the recipe rows of a sellable (owner tipo + id).
	RecetasDe(ctx context.Context, duenoTipo string, duenoID uuid.UUID) ([]model.Receta, error)
}

type menuRepo struct{ db *gorm.DB }

func NewMenuRepository(db *gorm.DB) MenuRepository { return &menuRepo{db: db} }

func (r *menuRepo) CreateItem(ctx context.Context, item *model.ItemMenu) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.ItemMenu, error) {
	var item model.ItemMenu
	err := r.db.WithContext(ctx).
		Preload("Recetas.Producto").
		Preload("Variantes.Recetas.Producto").
		First(&item, "id = ?", id).Error
	return &item, err
}

func (r *menuRepo) FindVarianteByID(ctx context.Context, id uuid.UUID) (*model.ItemMenuVariante, error) {
	var v model.ItemMenuVariante
	err := r.db.WithContext(ctx).Preload("Recetas.Producto").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *menuRepo) ListItems(ctx context.Context, filter dto.MenuFilter) ([]model.ItemMenu, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ItemMenu{}).Where("activo = true")
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var items []model.ItemMenu
	err := q.Preload("Recetas.Producto").Preload("Variantes.Recetas.Producto").
		Order("nombre ASC").Offset(offset).Limit(filter.Limit).Find(&items).Error
	return items, total, err
}

func (r *menuRepo) UpdateItem(ctx context.Context, item *model.ItemMenu) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *menuRepo) SoftDeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ItemMenu{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *menuRepo) RecetasDe(ctx context.Context, duenoTipo string, duenoID uuid.UUID) ([]model.Receta, error) {
	var recetas []model.Receta
	err := r.db.WithContext(ctx).
		Where("dueno_tipo = ? AND dueno_id = ?", duenoTipo, duenoID).
		Find(&recetas).Error
	return recetas, err
}
