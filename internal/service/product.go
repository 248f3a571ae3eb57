package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Benitta1729/Product-application/internal/domain"
	"github.com/Benitta1729/Product-application/internal/repository"
	apperrors "github.com/Benitta1729/Product-application/pkg/errors"
	pkgvalidator "github.com/Benitta1729/Product-application/pkg/validator"
)

// MsgNameNotUnique is reported whenever a product name collides with another,
// ignoring case.
const MsgNameNotUnique = "Name must be unique"

// maxMintAttempts bounds id minting retries when concurrent creates race for
// the same id.
const maxMintAttempts = 5

// EventPublisher publishes product domain events. Failures are logged by the
// service and never fail the operation.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishProductUpdated(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, id string) error
	PublishReviewAdded(ctx context.Context, product *domain.Product, review domain.Review) error
	PublishOfferAdded(ctx context.Context, product *domain.Product, offer domain.Offer) error
}

// ProductService implements the business logic for the product catalog.
type ProductService struct {
	repo   repository.ProductRepository
	events EventPublisher
	logger *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, events EventPublisher, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// ReviewInput is a review as submitted by a client.
type ReviewInput struct {
	Reviewer string   `json:"reviewer" validate:"notblank,alphanum,max=15"`
	Comments string   `json:"comments" validate:"notblank"`
	Rating   *float64 `json:"rating" validate:"required,gte=0,lte=5"`
}

func (in ReviewInput) review() domain.Review {
	return domain.Review{Reviewer: in.Reviewer, Comments: in.Comments, Rating: *in.Rating}
}

// OfferInput is an offer as submitted by a client. Any discount amount sent by
// the client is ignored and recomputed from the product price.
type OfferInput struct {
	OfferDetails string       `json:"offerdetails" validate:"notblank,offerdetails"`
	CouponCode   string       `json:"couponCode" validate:"notblank"`
	StartDate    *domain.Date `json:"startDate" validate:"required,todayorlater"`
	EndDate      *domain.Date `json:"endDate" validate:"required,aftertoday"`
}

func (in OfferInput) offer(price float64) (domain.Offer, error) {
	return domain.NewOffer(in.OfferDetails, in.CouponCode, *in.StartDate, *in.EndDate, price)
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string        `json:"name" validate:"notblank,max=15,productname"`
	Description string        `json:"description" validate:"notblank"`
	Price       *float64      `json:"price" validate:"required,gt=0"`
	Reviews     []ReviewInput `json:"reviews" validate:"omitempty,dive"`
	Offers      []OfferInput  `json:"offers" validate:"omitempty,max=1,dive"`
}

// UpdateProductInput holds the replaceable scalar fields of a product.
type UpdateProductInput struct {
	Name        string   `json:"name" validate:"notblank,max=15,productname"`
	Description string   `json:"description" validate:"notblank"`
	Price       *float64 `json:"price" validate:"required,gt=0"`
}

// validate runs struct validation and converts failures into a Validation
// AppError listing one message per field.
func validate(ctx context.Context, input any) error {
	err := pkgvalidator.ValidateCtx(ctx, input)
	if err == nil {
		return nil
	}
	var verr *pkgvalidator.ValidationError
	if errors.As(err, &verr) {
		return apperrors.Validation(verr.Messages())
	}
	return apperrors.Internal(fmt.Errorf("validate input: %w", err))
}

// CreateProduct validates the input, rejects names already taken, mints the
// next id and stores the product. The returned product is not enriched.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if err := validate(ctx, input); err != nil {
		return nil, err
	}

	switch _, err := s.repo.FindByNameIgnoreCase(ctx, input.Name); {
	case err == nil:
		return nil, apperrors.AlreadyExists(MsgNameNotUnique)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, apperrors.Internal(fmt.Errorf("find product by name: %w", err))
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		Reviews:     make([]domain.Review, 0, len(input.Reviews)),
		Offers:      make([]domain.Offer, 0, len(input.Offers)),
	}
	for _, rv := range input.Reviews {
		product.Reviews = append(product.Reviews, rv.review())
	}
	for _, in := range input.Offers {
		offer, err := in.offer(product.Price)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		product.Offers = append(product.Offers, offer)
	}

	if err := s.insertWithNextID(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, "product.created", product.ID, func() error {
		return s.events.PublishProductCreated(ctx, product)
	})

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)

	return product, nil
}

// insertWithNextID mints an id from the current top id and inserts the
// product, minting again when a concurrent create took the same id first.
func (s *ProductService) insertWithNextID(ctx context.Context, product *domain.Product) error {
	for attempt := 1; attempt <= maxMintAttempts; attempt++ {
		top, err := s.repo.FindTopByIDDesc(ctx)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("find top product id: %w", err))
		}
		id, err := domain.NextID(top)
		if err != nil {
			return apperrors.Internal(err)
		}
		product.ID = id

		err = s.repo.Create(ctx, product)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repository.ErrDuplicateName):
			return apperrors.AlreadyExists(MsgNameNotUnique)
		case errors.Is(err, repository.ErrDuplicateID):
			s.logger.WarnContext(ctx, "product id already taken, minting again",
				slog.String("product_id", id),
				slog.Int("attempt", attempt),
			)
		default:
			return apperrors.Internal(fmt.Errorf("create product: %w", err))
		}
	}
	return apperrors.Internal(fmt.Errorf("mint product id: no free id after %d attempts", maxMintAttempts))
}

// GetProduct retrieves a product by its ID with its derived fields computed.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Enrich(); err != nil {
		return nil, apperrors.Internal(err)
	}
	return product, nil
}

// GetAllProducts returns every product with derived fields computed.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("list products: %w", err))
	}
	for i := range products {
		if err := products[i].Enrich(); err != nil {
			return nil, apperrors.Internal(err)
		}
	}
	return products, nil
}

// UpdateProduct replaces the name, description and price of a product.
// Reviews and offers are left untouched.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	if err := validate(ctx, input); err != nil {
		return nil, err
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = *input.Price

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, "product.updated", product.ID, func() error {
		return s.events.PublishProductUpdated(ctx, product)
	})

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", product.ID))

	return product, nil
}

// AddReview appends a review to a product and returns the product with its
// average rating recomputed, along with the stored review.
func (s *ProductService) AddReview(ctx context.Context, id string, input *ReviewInput) (*domain.Product, domain.Review, error) {
	if err := validate(ctx, input); err != nil {
		return nil, domain.Review{}, err
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, domain.Review{}, err
	}

	review := input.review()
	product.Reviews = append(product.Reviews, review)
	product.AverageRating = domain.AverageRating(product.Reviews)

	if err := s.save(ctx, product); err != nil {
		return nil, domain.Review{}, err
	}

	s.publish(ctx, "product.review_added", product.ID, func() error {
		return s.events.PublishReviewAdded(ctx, product, review)
	})

	s.logger.InfoContext(ctx, "review added",
		slog.String("product_id", product.ID),
		slog.Int("review_count", len(product.Reviews)),
	)

	return product, review, nil
}

// AddOffer replaces the product's offer with a new one whose discount amount
// is computed from the product price.
func (s *ProductService) AddOffer(ctx context.Context, id string, input *OfferInput) (*domain.Product, domain.Offer, error) {
	if err := validate(ctx, input); err != nil {
		return nil, domain.Offer{}, err
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, domain.Offer{}, err
	}

	offer, err := input.offer(product.Price)
	if err != nil {
		return nil, domain.Offer{}, apperrors.Internal(err)
	}
	product.Offers = []domain.Offer{offer}

	if err := s.save(ctx, product); err != nil {
		return nil, domain.Offer{}, err
	}

	s.publish(ctx, "product.offer_added", product.ID, func() error {
		return s.events.PublishOfferAdded(ctx, product, offer)
	})

	s.logger.InfoContext(ctx, "offer added",
		slog.String("product_id", product.ID),
		slog.String("coupon_code", offer.CouponCode),
	)

	return product, offer, nil
}

// DeleteProduct removes a product and returns it as it was before deletion,
// with derived fields computed.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Product", id)
		}
		return nil, apperrors.Internal(fmt.Errorf("delete product: %w", err))
	}

	s.publish(ctx, "product.deleted", id, func() error {
		return s.events.PublishProductDeleted(ctx, id)
	})

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return product, nil
}

func (s *ProductService) load(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Product", id)
		}
		return nil, apperrors.Internal(fmt.Errorf("get product by id: %w", err))
	}
	return product, nil
}

func (s *ProductService) save(ctx context.Context, product *domain.Product) error {
	if err := s.repo.Save(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return apperrors.AlreadyExists(MsgNameNotUnique)
		}
		return apperrors.Internal(fmt.Errorf("save product: %w", err))
	}
	return nil
}

func (s *ProductService) publish(ctx context.Context, event, productID string, fn func() error) {
	if err := fn(); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish "+event+" event",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
