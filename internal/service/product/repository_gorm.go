package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myapi/internal/pkg/database"

	"gorm.io/gorm"
)

// gormRepository handles product data access in postgres
type gormRepository struct {
	base *database.BaseRepository[Product]
}

// NewGormRepository creates a postgres backed product repository
func NewGormRepository(db *database.Database) Repository {
	return &gormRepository{base: database.NewBaseRepository[Product](db)}
}

func (r *gormRepository) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	var scopes []func(*gorm.DB) *gorm.DB
	if filter.Query != "" {
		scopes = append(scopes, nameContains(filter.Query))
	}

	products, err := r.base.Find(ctx, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *gormRepository) Get(ctx context.Context, id uint) (*Product, error) {
	p, err := r.base.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *gormRepository) Create(ctx context.Context, p *Product) error {
	if err := r.base.Insert(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *gormRepository) Update(ctx context.Context, id uint, mutate func(*Product) error) (*Product, error) {
	p, err := r.base.UpdateLocked(ctx, id, func(p *Product) error {
		if err := mutate(p); err != nil {
			return err
		}
		p.ID = id
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *gormRepository) Delete(ctx context.Context, id uint) error {
	if err := r.base.DeleteByID(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

// nameContains matches a case-insensitive name substring with LIKE wildcards escaped
func nameContains(query string) func(*gorm.DB) *gorm.DB {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(query))
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(name) LIKE ?", "%"+escaped+"%")
	}
}

func notFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}
