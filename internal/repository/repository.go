package repository

import (
	"context"
	"errors"

	"github.com/Benitta1729/Product-application/internal/domain"
)

var (
	// ErrDuplicateID is returned when a product id is already taken.
	ErrDuplicateID = errors.New("product id already exists")

	// ErrDuplicateName is returned when another product already uses the name,
	// compared case-insensitively.
	ErrDuplicateName = errors.New("product name already exists")
)

// ProductRepository persists products together with their reviews and offers.
// Lookups that find nothing return apperrors.ErrNotFound.
type ProductRepository interface {
	// GetByID loads a product and its embedded collections.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Create inserts a new product. It fails with ErrDuplicateID or
	// ErrDuplicateName when a uniqueness constraint is hit.
	Create(ctx context.Context, p *domain.Product) error

	// Save writes the product and replaces its reviews and offers.
	Save(ctx context.Context, p *domain.Product) error

	// Delete removes a product and everything embedded in it.
	Delete(ctx context.Context, id string) error

	// FindByNameIgnoreCase looks a product up by name regardless of case.
	FindByNameIgnoreCase(ctx context.Context, name string) (*domain.Product, error)

	// FindTopByIDDesc returns the highest product id, or "" when the store is empty.
	FindTopByIDDesc(ctx context.Context) (string, error)

	// ExistsByTriple reports whether a product with the same name and
	// description (ignoring case) and price exists.
	ExistsByTriple(ctx context.Context, name, description string, price float64) (bool, error)

	// FindAll returns every product in id order.
	FindAll(ctx context.Context) ([]domain.Product, error)

	// ListSummaries returns one page of summaries in id order and the total
	// number of products.
	ListSummaries(ctx context.Context, offset, limit int) ([]domain.ProductSummary, int, error)
}
