package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BaseRepository provides common CRUD operations for entities
type BaseRepository[T any] struct {
	db *Database
}

// NewBaseRepository creates a new base repository instance
func NewBaseRepository[T any](db *Database) *BaseRepository[T] {
	return &BaseRepository[T]{db: db}
}

func (r *BaseRepository[T]) conn(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx)
}

// Insert creates a new entity
func (r *BaseRepository[T]) Insert(ctx context.Context, entity *T) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	if err := r.conn(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to insert entity: %w", Translate(err))
	}
	return nil
}

// GetByID retrieves an entity by its ID
func (r *BaseRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var entity T
	if err := r.conn(ctx).First(&entity, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", Translate(err))
	}
	return &entity, nil
}

// GetByField retrieves an entity by a specific field
func (r *BaseRepository[T]) GetByField(ctx context.Context, field string, value interface{}) (*T, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var entity T
	if err := r.conn(ctx).Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).First(&entity).Error; err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", Translate(err))
	}
	return &entity, nil
}

// Find retrieves all entities ordered by id, narrowed by the optional scopes
func (r *BaseRepository[T]) Find(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]*T, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var entities []*T
	query := r.conn(ctx).Model(new(T)).Scopes(scopes...).Order("id")
	if err := query.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", Translate(err))
	}
	return entities, nil
}

// UpdateLocked loads the entity with a row lock, applies mutate and saves it
// in a single transaction, so concurrent writers on one id are serialized
func (r *BaseRepository[T]) UpdateLocked(ctx context.Context, id uint, mutate func(*T) error) (*T, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var entity T
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&entity, id).Error; err != nil {
			return err
		}
		if err := mutate(&entity); err != nil {
			return err
		}
		return tx.Save(&entity).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update entity: %w", Translate(err))
	}
	return &entity, nil
}

// DeleteByID deletes an entity by its ID
func (r *BaseRepository[T]) DeleteByID(ctx context.Context, id uint) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	result := r.conn(ctx).Delete(new(T), id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete entity: %w", Translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete entity: %w", ErrNotFound)
	}
	return nil
}

// Exists checks if an entity matches the field value
func (r *BaseRepository[T]) Exists(ctx context.Context, field string, value interface{}) (bool, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var count int64
	err := r.conn(ctx).Model(new(T)).Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count entities: %w", Translate(err))
	}
	return count > 0, nil
}
