package repository

import (
	"context"

	"fondapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CajaRepository interface {
	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	// FindAbiertaPorUsuario returns the user's open session, or
	// gorm.ErrRecordNotFound when none exists.
	FindAbiertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error)
	UpdateSesion(ctx context.Context, s *model.SesionCaja) error
	Historial(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *cajaRepo) FindAbiertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND estado = ?", usuarioID, model.SesionAbierta).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) UpdateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cajaRepo) Historial(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SesionCaja{}).Where("estado = ?", model.SesionCerrada)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sesiones []model.SesionCaja
	err := q.Order("opened_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&sesiones).Error
	return sesiones, total, err
}
