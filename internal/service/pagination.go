package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Benitta1729/Product-application/internal/domain"
	apperrors "github.com/Benitta1729/Product-application/pkg/errors"
	"github.com/Benitta1729/Product-application/pkg/pagination"
)

// Messages returned by the paginated listings.
const (
	MsgInvalidPage      = "Error: Invalid page number. Page number must be greater than or equal to 0."
	MsgInvalidPageSize  = "Error: Please provide valid values for size and page."
	MsgPageExceeded     = "Page number exceeds, No reviews found for the specified page."
	msgProductNotFoundF = "Error: Product not found with ID %s"
)

// Page is one window over an ordered collection.
type Page[T any] struct {
	Items         []T
	TotalElements int
	TotalPages    int
	CurrentPage   int
}

// ReviewEntry is the listing projection of a review. The keys carry a
// trailing colon on the wire.
type ReviewEntry struct {
	Name     string  `json:"name:"`
	Rating   float64 `json:"rating:"`
	Comments string  `json:"comments:"`
}

// GetProductSummaries returns one page of product summaries in id order.
// An empty catalog yields an empty page rather than an error.
func (s *ProductService) GetProductSummaries(ctx context.Context, p pagination.Params) (*Page[domain.ProductSummary], error) {
	if p.Page < 0 {
		return nil, apperrors.InvalidInput(MsgInvalidPage)
	}
	if p.Size < 1 {
		return nil, apperrors.InvalidInput(MsgInvalidPageSize)
	}

	items, total, err := s.repo.ListSummaries(ctx, p.Offset(), p.Size)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("list product summaries: %w", err))
	}
	return paginate(total, p, func(int, int) []domain.ProductSummary { return items })
}

// GetProductReviews returns one page of a product's reviews in insertion order.
func (s *ProductService) GetProductReviews(ctx context.Context, id string, p pagination.Params) (*Page[ReviewEntry], error) {
	if p.Page < 0 {
		return nil, apperrors.InvalidInput(MsgInvalidPage)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFoundMessage(fmt.Sprintf(msgProductNotFoundF, id))
		}
		return nil, apperrors.Internal(fmt.Errorf("get product by id: %w", err))
	}

	if p.Size < 1 {
		return nil, apperrors.InvalidInput(MsgInvalidPageSize)
	}

	return paginate(len(product.Reviews), p, func(start, end int) []ReviewEntry {
		entries := make([]ReviewEntry, 0, end-start)
		for _, rv := range product.Reviews[start:end] {
			entries = append(entries, ReviewEntry{Name: rv.Reviewer, Rating: rv.Rating, Comments: rv.Comments})
		}
		return entries
	})
}

// paginate applies the shared page rules: an empty collection is an empty
// page and a page past the end is not found.
func paginate[T any](total int, p pagination.Params, window func(start, end int) []T) (*Page[T], error) {
	if total == 0 {
		return &Page[T]{Items: []T{}, CurrentPage: p.Page}, nil
	}

	totalPages := pagination.TotalPages(total, p.Size)
	if p.Page >= totalPages {
		return nil, apperrors.NotFoundMessage(MsgPageExceeded)
	}

	start, end := pagination.Window(total, p)
	return &Page[T]{
		Items:         window(start, end),
		TotalElements: total,
		TotalPages:    totalPages,
		CurrentPage:   p.Page,
	}, nil
}
