package repository

import (
	"context"

	"fondapos/internal/dto"
	"fondapos/internal/model"

	"gorm.io/gorm"
)

type MovimientoRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoInventario) error
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoInventario{}).Preload("Producto")
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.Motivo != "" {
		q = q.Where("motivo = ?", filter.Motivo)
	}
	if filter.Direccion != "" {
		q = q.Where("direccion = ?", filter.Direccion)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var movimientos []model.MovimientoInventario
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&movimientos).Error
	return movimientos, total, err
}
