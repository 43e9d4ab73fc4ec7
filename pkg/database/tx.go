package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager runs functions inside a database transaction. The transaction
// handle travels in the context so repositories join the caller's
// transaction transparently. Nested calls reuse the surrounding transaction
// instead of opening a new one.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager over the given connection.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transactional executes fn inside a transaction. The transaction commits
// when fn returns nil and rolls back when fn returns an error.
func (m *TxManager) Transactional(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// FromContext returns the transaction handle carried by ctx, or fallback
// when the context holds none.
func FromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}
