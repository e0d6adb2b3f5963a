package repository

import (
	"context"

	"fondapos/internal/dto"
	"fondapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindByIDForUpdateTx locks the sale header and its items — required by
	// the return path so two concurrent returns cannot double-count.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	UpdateTx(tx *gorm.DB, v *model.Venta) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	UpdateItemTx(tx *gorm.DB, item *model.VentaItem) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	// Lock items in a stable order to avoid deadlocks between concurrent returns
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("venta_id = ?", id).Order("id ASC").Find(&v.Items).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) UpdateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Omit("Items").Save(v).Error
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *ventaRepo) UpdateItemTx(tx *gorm.DB, item *model.VentaItem) error {
	return tx.Save(item).Error
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	} else {
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var ventas []model.Venta
	err := q.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).Find(&ventas).Error
	return ventas, total, err
}
