// Package repository is the persistence boundary: a narrow interface per
// entity backed by GORM.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Repositories groups the per-entity repositories over one connection or
// transaction.
type Repositories interface {
	Users() UserRepository
	Restaurants() RestaurantRepository
	Waitlist() WaitlistRepository
	// Transaction runs fn against repositories bound to a single database
	// transaction, committing only if fn returns nil.
	Transaction(ctx context.Context, fn func(tx Repositories) error) error
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() UserRepository {
	return &gormUserRepository{db: s.db}
}

func (s *Store) Restaurants() RestaurantRepository {
	return &gormRestaurantRepository{db: s.db}
}

func (s *Store) Waitlist() WaitlistRepository {
	return &gormWaitlistRepository{db: s.db}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
