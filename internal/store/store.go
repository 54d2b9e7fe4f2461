// Package store adapts the gorm models to the stock engine's ports.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotPaid        = errors.New("order is not paid")
	ErrOrderAlreadySettled = errors.New("order stock already settled")
)

// Store wraps a gorm handle. The zero value is unusable; use New.
type Store struct {
	db *gorm.DB
}

func New(database *gorm.DB) *Store {
	return &Store{db: database}
}

func (s *Store) ensure() error {
	if s == nil || s.db == nil {
		return gorm.ErrInvalidDB
	}
	return nil
}

// Ping checks that the underlying connection pool answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ensure(); err != nil {
		return err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
