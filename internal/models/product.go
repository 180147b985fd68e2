package models

import "time"

// Product is a catalog product owned by a seller.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       Money     `json:"price"`
	Stock       int       `json:"stock"`
	MaxPerOrder int       `json:"max_per_order,omitempty"`
	SellerID    string    `json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductInput is the seller-scoped product creation payload.
type CreateProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Stock       int     `json:"stock"`
	MaxPerOrder int     `json:"max_per_order"`
	SellerID    string  `json:"seller_id"`
}

// UpdateProductInput carries optional product updates; nil fields are left
// unchanged.
type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	MaxPerOrder *int     `json:"max_per_order"`
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Name     string
	MinPrice *float64
	MaxPrice *float64
	SellerID string
	Page     int
	Limit    int
}
