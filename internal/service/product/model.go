package product

import (
	"strings"
	"time"
)

// Product represents the product entity
type Product struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"size:2000;not null;default:''" json:"description"`
	Price       float64 `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	SKU         string  `gorm:"size:64" json:"sku"`
	// CreatedBy is set only when the creating request was authenticated
	CreatedBy *uint     `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Product model
func (Product) TableName() string {
	return "products"
}

// CreateProductDTO is the data transfer object for creating a product
type CreateProductDTO struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=2000"`
	Price       *float64 `json:"price" validate:"required,gte=0,lte=9999999999.99,scale=2"`
	Stock       int      `json:"stock" validate:"gte=0"`
	SKU         string   `json:"sku" validate:"max=64"`
}

// Normalize trims surrounding whitespace
func (d *CreateProductDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.SKU = strings.TrimSpace(d.SKU)
}

// UpdateProductDTO is the data transfer object for updating a product.
// Absent fields are left unchanged for both PUT and PATCH.
type UpdateProductDTO struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string  `json:"description" validate:"omitnil,max=2000"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0,lte=9999999999.99,scale=2"`
	Stock       *int     `json:"stock" validate:"omitnil,gte=0"`
	SKU         *string  `json:"sku" validate:"omitnil,max=64"`
}

// Normalize trims surrounding whitespace
func (d *UpdateProductDTO) Normalize() {
	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		d.Name = &name
	}
	if d.SKU != nil {
		sku := strings.TrimSpace(*d.SKU)
		d.SKU = &sku
	}
}

// Apply copies the present fields onto p
func (d *UpdateProductDTO) Apply(p *Product) {
	if d.Name != nil {
		p.Name = *d.Name
	}
	if d.Description != nil {
		p.Description = *d.Description
	}
	if d.Price != nil {
		p.Price = *d.Price
	}
	if d.Stock != nil {
		p.Stock = *d.Stock
	}
	if d.SKU != nil {
		p.SKU = *d.SKU
	}
}

// Empty reports whether no field is present
func (d *UpdateProductDTO) Empty() bool {
	return d.Name == nil && d.Description == nil && d.Price == nil && d.Stock == nil && d.SKU == nil
}

// ListFilter narrows List results
type ListFilter struct {
	// Query matches a case-insensitive substring of the name
	Query string
}
