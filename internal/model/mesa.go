package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de mesa.
const (
	MesaLibre   = "libre"
	MesaOcupada = "ocupada"
)

// Mesa is a dining table. Occupied while an open (pendiente) sale is attached;
// released when the sale completes or is cancelled.
type Mesa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int       `gorm:"uniqueIndex;not null"`
	Capacidad int       `gorm:"not null;default:4"`
	Estado    string    `gorm:"type:varchar(10);not null;default:'libre'"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Mesa) TableName() string { return "mesas" }
