package inventory

import (
	"context"
	"errors"
)

var (
	ErrNameRequired  = errors.New("name required")
	ErrIDRequired    = errors.New("id required")
	ErrNotFound      = errors.New("product not found")
	ErrInvalidMethod = errors.New("invalid _method")
)

type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Patch carries the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Name     *string
	Quantity *int
	Price    *float64
}

// Store owns all products and the id sequence. Implementations must serialize
// every operation against both.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, name string, quantity int, price float64) (Product, error)
	Update(ctx context.Context, id int, p Patch) (Product, error)
	Delete(ctx context.Context, id int) (bool, error)
	Ping(ctx context.Context) error
}
