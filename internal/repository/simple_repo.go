package repository

import (
	"context"

	"fondapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoSimpleRepository interface {
	Create(ctx context.Context, p *model.ProductoSimple) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoSimple, error)
	FindVarianteByID(ctx context.Context, id uuid.UUID) (*model.ProductoSimpleVariante, error)
	List(ctx context.Context, page, limit int) ([]model.ProductoSimple, int64, error)
	Update(ctx context.Context, p *model.ProductoSimple) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type simpleRepo struct{ db *gorm.DB }

func NewProductoSimpleRepository(db *gorm.DB) ProductoSimpleRepository { return &simpleRepo{db: db} }

func (r *simpleRepo) Create(ctx context.Context, p *model.ProductoSimple) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *simpleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoSimple, error) {
	var p model.ProductoSimple
	err := r.db.WithContext(ctx).Preload("Variantes").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *simpleRepo) FindVarianteByID(ctx context.Context, id uuid.UUID) (*model.ProductoSimpleVariante, error) {
	var v model.ProductoSimpleVariante
	err := r.db.WithContext(ctx).Preload("Recetas.Producto").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *simpleRepo) List(ctx context.Context, page, limit int) ([]model.ProductoSimple, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ProductoSimple{}).Where("activo = true")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productos []model.ProductoSimple
	err := q.Order("nombre ASC").Offset((page - 1) * limit).Limit(limit).Find(&productos).Error
	return productos, total, err
}

func (r *simpleRepo) Update(ctx context.Context, p *model.ProductoSimple) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *simpleRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ProductoSimple{}).Where("id = ?", id).Update("activo", false).Error
}
