package repository

import (
	"context"

	"fondapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComboRepository interface {
	Create(ctx context.Context, c *model.Combo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Combo, error)
	FindOpcionByID(ctx context.Context, id uuid.UUID) (*model.ComboComponenteOpcion, error)
	List(ctx context.Context, page, limit int) ([]model.Combo, int64, error)
	Update(ctx context.Context, c *model.Combo) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type comboRepo struct{ db *gorm.DB }

func NewComboRepository(db *gorm.DB) ComboRepository { return &comboRepo{db: db} }

func (r *comboRepo) Create(ctx context.Context, c *model.Combo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *comboRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Combo, error) {
	var c model.Combo
	err := r.db.WithContext(ctx).
		Preload("Componentes.Opciones").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *comboRepo) FindOpcionByID(ctx context.Context, id uuid.UUID) (*model.ComboComponenteOpcion, error) {
	var op model.ComboComponenteOpcion
	err := r.db.WithContext(ctx).First(&op, "id = ?", id).Error
	return &op, err
}

func (r *comboRepo) List(ctx context.Context, page, limit int) ([]model.Combo, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Combo{}).Where("activo = true")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var combos []model.Combo
	err := q.Preload("Componentes.Opciones").
		Order("nombre ASC").Offset((page - 1) * limit).Limit(limit).Find(&combos).Error
	return combos, total, err
}

func (r *comboRepo) Update(ctx context.Context, c *model.Combo) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *comboRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Combo{}).Where("id = ?", id).Update("activo", false).Error
}
