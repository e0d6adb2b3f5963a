package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de componente de combo.
const (
	ComponenteFijo     = "fijo"
	ComponenteEleccion = "eleccion"
)

// Combo is a composite sellable. Fixed components are always included;
// choice components are resolved against the customer's selections (or the
// default option when none was recorded).
type Combo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Componentes []ComboComponente `gorm:"foreignKey:ComboID"`
}

func (Combo) TableName() string { return "combos" }

// ComboComponente is one slot within a combo. For Tipo "fijo" the bound
// sellable lives in VendibleTipo/VendibleID; for "eleccion" the candidate
// sellables live in Opciones.
type ComboComponente struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComboID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre   string    `gorm:"not null"`
	Tipo     string    `gorm:"type:varchar(10);not null"`
	Cantidad int       `gorm:"not null;default:1"`
	// Requerido: una elección sin selección ni opción default falla la venta
	Requerido bool `gorm:"not null;default:true"`

	VendibleTipo *string    `gorm:"type:varchar(20)"`
	VendibleID   *uuid.UUID `gorm:"type:uuid"`

	Opciones []ComboComponenteOpcion `gorm:"foreignKey:ComponenteID"`
}

func (ComboComponente) TableName() string { return "combo_componentes" }

// ComboComponenteOpcion is one pickable option of a choice component.
type ComboComponenteOpcion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComponenteID uuid.UUID `gorm:"type:uuid;not null;index"`
	VendibleTipo string    `gorm:"type:varchar(20);not null"`
	VendibleID   uuid.UUID `gorm:"type:uuid;not null"`
	// AjustePrecio se suma al precio del combo cuando se elige esta opción
	AjustePrecio decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	EsDefault    bool            `gorm:"not null;default:false"`
}

func (ComboComponenteOpcion) TableName() string { return "combo_componente_opciones" }
