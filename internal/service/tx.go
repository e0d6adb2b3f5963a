package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx ejecuta fn dentro de una transacción sobre db. Cuando db es nil
// (tests unitarios con repos en memoria) fn corre sin transacción, con tx nil;
// los repos stub ignoran el parámetro tx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
