package product

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrProductNotFound is returned when no product has the requested id
var ErrProductNotFound = errors.New("product not found")

// Repository stores products
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Product, error)
	Get(ctx context.Context, id uint) (*Product, error)
	// Create assigns the id and timestamps
	Create(ctx context.Context, p *Product) error
	// Update applies mutate to the stored product; writers on one id are serialized
	Update(ctx context.Context, id uint, mutate func(*Product) error) (*Product, error)
	Delete(ctx context.Context, id uint) error
}

// memoryRepository keeps products in process memory
type memoryRepository struct {
	mu       sync.RWMutex
	nextID   uint
	products map[uint]Product
	now      func() time.Time
}

// NewMemoryRepository creates an in-memory product repository
func NewMemoryRepository() Repository {
	return &memoryRepository{
		nextID:   1,
		products: make(map[uint]Product),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryRepository) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	products := make([]*Product, 0, len(r.products))
	for _, p := range r.products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		p := p
		products = append(products, &p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	return products, nil
}

func (r *memoryRepository) Get(ctx context.Context, id uint) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (r *memoryRepository) Create(ctx context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	p.ID = r.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	r.nextID++

	r.products[p.ID] = *p
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, id uint, mutate func(*Product) error) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	// mutate works on a copy; a failed mutation leaves the record untouched
	if err := mutate(&p); err != nil {
		return nil, err
	}
	p.ID = id
	p.UpdatedAt = r.now()
	r.products[id] = p
	return &p, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}
