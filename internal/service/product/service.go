package product

import (
	"context"
	"errors"
	"fmt"

	"myapi/internal/pkg/errorsx"
	"myapi/internal/pkg/logger"

	"go.uber.org/zap"
)

// ProductService handles product business logic
type ProductService struct {
	repo   Repository
	logger *logger.Logger
}

// NewProductService creates a new product service
func NewProductService(repo Repository, log *logger.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: log,
	}
}

// List returns all products ordered by id
func (s *ProductService) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*Product{}
	}
	return products, nil
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, id uint) (*Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// Create stores a new product; createdBy is nil for anonymous requests
func (s *ProductService) Create(ctx context.Context, dto CreateProductDTO, createdBy *uint) (*Product, error) {
	p := &Product{
		Name:        dto.Name,
		Description: dto.Description,
		Price:       *dto.Price,
		Stock:       dto.Stock,
		SKU:         dto.SKU,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Info("Product created", zap.Uint("product_id", p.ID))
	return p, nil
}

// Update applies the present fields of dto to the product
func (s *ProductService) Update(ctx context.Context, id uint, dto UpdateProductDTO) (*Product, error) {
	p, err := s.repo.Update(ctx, id, func(p *Product) error {
		dto.Apply(p)
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// Delete removes the product
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}

	s.logger.WithContext(ctx).Info("Product deleted", zap.Uint("product_id", id))
	return nil
}

func mapError(err error) error {
	if errors.Is(err, ErrProductNotFound) {
		return errorsx.NotFound("product not found")
	}
	return fmt.Errorf("product repository: %w", err)
}
