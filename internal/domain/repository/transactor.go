package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands out database handles to usecases so that repositories can
// run either standalone or inside a transaction.
type Transactor interface {
	// DB returns a handle bound to ctx for reads outside a transaction.
	DB(ctx context.Context) *gorm.DB
	// Transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
