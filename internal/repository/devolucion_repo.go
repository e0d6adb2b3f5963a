package repository

import (
	"context"

	"fondapos/internal/dto"
	"fondapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DevolucionRepository interface {
	CreateTx(tx *gorm.DB, d *model.Devolucion) error
	UpdateTx(tx *gorm.DB, d *model.Devolucion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Devolucion, error)
	List(ctx context.Context, filter dto.DevolucionFilter) ([]model.Devolucion, int64, error)

	// SumDevueltoPorItemTx sums quantity already returned for a sale item
	// across all non-cancelled returns. Runs inside the return transaction so
	// the count is stable under the sale-row lock.
	SumDevueltoPorItemTx(tx *gorm.DB, ventaItemID uuid.UUID) (int, error)
}

type devolucionRepo struct{ db *gorm.DB }

func NewDevolucionRepository(db *gorm.DB) DevolucionRepository { return &devolucionRepo{db: db} }

func (r *devolucionRepo) CreateTx(tx *gorm.DB, d *model.Devolucion) error {
	return tx.Create(d).Error
}

func (r *devolucionRepo) UpdateTx(tx *gorm.DB, d *model.Devolucion) error {
	return tx.Save(d).Error
}

func (r *devolucionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Devolucion, error) {
	var d model.Devolucion
	err := r.db.WithContext(ctx).Preload("Items").First(&d, "id = ?", id).Error
	return &d, err
}

func (r *devolucionRepo) List(ctx context.Context, filter dto.DevolucionFilter) ([]model.Devolucion, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Devolucion{})
	if filter.VentaID != "" {
		q = q.Where("venta_id = ?", filter.VentaID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var devoluciones []model.Devolucion
	err := q.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).Find(&devoluciones).Error
	return devoluciones, total, err
}

func (r *devolucionRepo) SumDevueltoPorItemTx(tx *gorm.DB, ventaItemID uuid.UUID) (int, error) {
	var suma int
	err := tx.Model(&model.DevolucionItem{}).
		Select("COALESCE(SUM(devolucion_items.cantidad_devuelta), 0)").
		Joins("JOIN devoluciones ON devoluciones.id = devolucion_items.devolucion_id").
		Where("devolucion_items.venta_item_id = ? AND devoluciones.estado <> ?", ventaItemID, model.DevolucionCancelada).
		Scan(&suma).Error
	return suma, err
}
