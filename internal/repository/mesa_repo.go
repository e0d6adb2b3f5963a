package repository

import (
	"context"

	"fondapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MesaRepository interface {
	Create(ctx context.Context, m *model.Mesa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Mesa, error)
	List(ctx context.Context) ([]model.Mesa, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
}

type mesaRepo struct{ db *gorm.DB }

func NewMesaRepository(db *gorm.DB) MesaRepository { return &mesaRepo{db: db} }

func (r *mesaRepo) Create(ctx context.Context, m *model.Mesa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *mesaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Mesa, error) {
	var m model.Mesa
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *mesaRepo) List(ctx context.Context) ([]model.Mesa, error) {
	var mesas []model.Mesa
	err := r.db.WithContext(ctx).Where("activo = true").Order("numero ASC").Find(&mesas).Error
	return mesas, err
}

func (r *mesaRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Mesa{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *mesaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Mesa{}).Where("id = ?", id).Update("estado", estado).Error
}
