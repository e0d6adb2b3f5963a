package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductoSimple is a directly resold inventory good (e.g. a bottled drink).
// It maps to a single base Producto; CostoPorUnidad is the inventory units
// consumed per unit sold. A zero CostoPorUnidad or a missing base link makes
// the product unsellable — never a division by zero.
type ProductoSimple struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string          `gorm:"index;not null"`
	Precio         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ProductoID     *uuid.UUID      `gorm:"type:uuid;index"`
	CostoPorUnidad decimal.Decimal `gorm:"type:decimal(12,3);not null;default:1"`
	Activo         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Producto  *Producto                `gorm:"foreignKey:ProductoID"`
	Variantes []ProductoSimpleVariante `gorm:"foreignKey:ProductoSimpleID"`
}

func (ProductoSimple) TableName() string { return "productos_simples" }

// ProductoSimpleVariante is a priced sub-SKU of a ProductoSimple with its own
// recipe set (e.g. a bundled presentation).
type ProductoSimpleVariante struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoSimpleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre           string          `gorm:"not null"`
	Precio           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Activo           bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time

	Recetas []Receta `gorm:"polymorphic:Dueno;polymorphicValue:variante_simple"`
}

func (ProductoSimpleVariante) TableName() string { return "productos_simples_variantes" }
