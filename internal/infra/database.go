package infra

import (
	"fmt"

	"fondapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (partial indexes, extensions).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.MovimientoInventario{},
		&model.ItemMenu{},
		&model.ItemMenuVariante{},
		&model.Receta{},
		&model.ProductoSimple{},
		&model.ProductoSimpleVariante{},
		&model.Combo{},
		&model.ComboComponente{},
		&model.ComboComponenteOpcion{},
		&model.Mesa{},
		&model.SesionCaja{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Devolucion{},
		&model.DevolucionItem{},
		&model.FlujoCaja{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Una sola sesión de caja abierta por usuario, garantizado también a
		// nivel de base.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sesion_abierta_por_usuario') THEN
		    CREATE UNIQUE INDEX idx_sesion_abierta_por_usuario
		        ON sesiones_caja (usuario_id)
		        WHERE estado = 'abierta';
		  END IF;
		END $$`,
		// Búsqueda del libro de inventario por referencia (venta o devolución).
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_referencia') THEN
		    CREATE INDEX idx_movimientos_referencia
		        ON movimientos_inventario (referencia_id)
		        WHERE referencia_id IS NOT NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
