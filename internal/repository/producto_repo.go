package repository

import (
	"context"

	"fondapos/internal/dto"
	"fondapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository is the data access contract for inventory products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListBajoStockMinimo(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// FindByIDForUpdateTx takes a row-level exclusive lock (SELECT ... FOR
	// UPDATE). Every path that reads stock to later mutate it goes through
	// here — sales, returns and manual adjustments alike.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)

	// SetStockTx writes the new snapshot value. Only InventarioService calls
	// this, paired with a MovimientoInventario row in the same transaction.
	SetStockTx(tx *gorm.DB, id uuid.UUID, nuevo decimal.Decimal) error

	// FindOrCreatePerdidaOperativaTx returns the operational-loss
	// pseudo-product, creating it on first use.
	FindOrCreatePerdidaOperativaTx(tx *gorm.DB) (*model.Producto, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo = ? AND activo = true", codigo).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
	default:
		q = q.Where("activo = true")
	}
	if filter.Codigo != "" {
		q = q.Where("codigo = ?", filter.Codigo)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListBajoStockMinimo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = true AND stock_actual <= stock_minimo AND codigo <> ?", model.CodigoPerdidaOperativa).
		Order("stock_actual ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, nuevo decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("stock_actual", nuevo).Error
}

func (r *productoRepo) FindOrCreatePerdidaOperativaTx(tx *gorm.DB) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("codigo = ?", model.CodigoPerdidaOperativa).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	p = model.Producto{
		Codigo:       model.CodigoPerdidaOperativa,
		Nombre:       "Pérdida operativa",
		UnidadMedida: "unidad",
	}
	if err := tx.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
