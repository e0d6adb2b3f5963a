package repository

import (
	"context"
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FlujoCajaRepository interface {
	CreateTx(tx *gorm.DB, f *model.FlujoCaja) error
	// DeleteByVentaTx removes the cash-flow entry of a sale. Only the
	// anulación of a completed sale goes through here.
	DeleteByVentaTx(tx *gorm.DB, ventaID uuid.UUID) error
	List(ctx context.Context, filter dto.FlujoCajaFilter) ([]model.FlujoCaja, int64, error)
	Resumen(ctx context.Context, desde, hasta time.Time) (entradas, salidas decimal.Decimal, porCategoria map[string]decimal.Decimal, err error)
	// SumVentasEfectivoPorSesion totals cash-method sale income attached to a
	// register session — the expected amount at close.
	SumVentasEfectivoPorSesion(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, error)
}

type flujoCajaRepo struct{ db *gorm.DB }

func NewFlujoCajaRepository(db *gorm.DB) FlujoCajaRepository { return &flujoCajaRepo{db: db} }

func (r *flujoCajaRepo) CreateTx(tx *gorm.DB, f *model.FlujoCaja) error {
	return tx.Create(f).Error
}

func (r *flujoCajaRepo) DeleteByVentaTx(tx *gorm.DB, ventaID uuid.UUID) error {
	return tx.Where("venta_id = ?", ventaID).Delete(&model.FlujoCaja{}).Error
}

func (r *flujoCajaRepo) List(ctx context.Context, filter dto.FlujoCajaFilter) ([]model.FlujoCaja, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.FlujoCaja{})
	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha < ?::date + INTERVAL '1 day'", filter.Hasta)
	}
	if filter.Direccion != "" {
		q = q.Where("direccion = ?", filter.Direccion)
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var flujos []model.FlujoCaja
	err := q.Order("fecha DESC").Offset(offset).Limit(filter.Limit).Find(&flujos).Error
	return flujos, total, err
}

func (r *flujoCajaRepo) Resumen(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, decimal.Decimal, map[string]decimal.Decimal, error) {
	type fila struct {
		Direccion string
		Categoria string
		Total     decimal.Decimal
	}
	var filas []fila
	err := r.db.WithContext(ctx).Model(&model.FlujoCaja{}).
		Select("direccion, categoria, COALESCE(SUM(monto), 0) AS total").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Group("direccion, categoria").
		Scan(&filas).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}

	entradas, salidas := decimal.Zero, decimal.Zero
	porCategoria := make(map[string]decimal.Decimal)
	for _, f := range filas {
		porCategoria[f.Categoria] = porCategoria[f.Categoria].Add(f.Total)
		if f.Direccion == model.DireccionEntrada {
			entradas = entradas.Add(f.Total)
		} else {
			salidas = salidas.Add(f.Total)
		}
	}
	return entradas, salidas, porCategoria, nil
}

func (r *flujoCajaRepo) SumVentasEfectivoPorSesion(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("COALESCE(SUM(total), 0)").
		Where("sesion_caja_id = ? AND estado = ? AND metodo_pago = 'efectivo'", sesionID, model.VentaCompletada).
		Scan(&total).Error
	return total, err
}
