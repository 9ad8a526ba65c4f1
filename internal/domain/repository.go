package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductGateway is the contract of the remote inventory service as seen by the screen.
// Implementations never retry; every failure is returned as a *TransportError.
type ProductGateway interface {
	ListAll(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, draft Draft) (Product, error)
	Update(ctx context.Context, id string, draft Draft) (Product, error)
	Remove(ctx context.Context, id string) error
}

// ProductRepository defines the contract for product storage behind the stub API
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}
