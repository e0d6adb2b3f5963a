package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemMenu is a prepared dish. Its stock impact is declared via Receta rows;
// an item with no recipe is treated as always available.
type ItemMenu struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Categoria   string          `gorm:"index"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Recetas   []Receta          `gorm:"polymorphic:Dueno;polymorphicValue:item_menu"`
	Variantes []ItemMenuVariante `gorm:"foreignKey:ItemMenuID"`
}

func (ItemMenu) TableName() string { return "items_menu" }

// ItemMenuVariante is a priced sub-SKU of an ItemMenu with its own optional
// recipe set. An empty recipe set falls back to "always available".
type ItemMenuVariante struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemMenuID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre     string          `gorm:"not null"`
	Precio     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Activo     bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time

	Recetas []Receta `gorm:"polymorphic:Dueno;polymorphicValue:variante_menu"`
}

func (ItemMenuVariante) TableName() string { return "items_menu_variantes" }

// Dueños posibles de una receta.
const (
	DuenoRecetaItemMenu       = "item_menu"
	DuenoRecetaVarianteMenu   = "variante_menu"
	DuenoRecetaVarianteSimple = "variante_simple"
)

// Receta declares the quantity of a base Producto consumed per unit sold of
// its owner (menu item, menu variant, or simple-product variant).
type Receta struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DuenoTipo         string          `gorm:"type:varchar(20);not null;index:idx_receta_dueno"`
	DuenoID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_receta_dueno"`
	ProductoID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CantidadNecesaria decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CreatedAt         time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Receta) TableName() string { return "recetas" }
