package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Benitta1729/Product-application/internal/domain"
	pkgkafka "github.com/Benitta1729/Product-application/pkg/kafka"
	"github.com/Benitta1729/Product-application/pkg/logger"
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from the catalog service.
const SourceCatalogService = "catalog-service"

// Kafka topics for product domain events.
var (
	TopicProductCreated     = pkgkafka.Topic(AggregateTypeProduct, "created")
	TopicProductUpdated     = pkgkafka.Topic(AggregateTypeProduct, "updated")
	TopicProductDeleted     = pkgkafka.Topic(AggregateTypeProduct, "deleted")
	TopicProductReviewAdded = pkgkafka.Topic(AggregateTypeProduct, "review_added")
	TopicProductOfferAdded  = pkgkafka.Topic(AggregateTypeProduct, "offer_added")
)

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ReviewCount int     `json:"review_count"`
	OfferCount  int     `json:"offer_count"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// ReviewAddedData is the payload for a product.review_added event.
type ReviewAddedData struct {
	ProductID     string        `json:"product_id"`
	Review        domain.Review `json:"review"`
	AverageRating *float64      `json:"average_rating"`
}

// OfferAddedData is the payload for a product.offer_added event.
type OfferAddedData struct {
	ProductID string       `json:"product_id"`
	Offer     domain.Offer `json:"offer"`
}

// Publisher is the narrow view of pkg/kafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes product domain events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       domain.Round2(p.Price),
		ReviewCount: len(p.Reviews),
		OfferCount:  len(p.Offers),
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, ProductDeletedData{ID: id})
}

// PublishReviewAdded publishes a product.review_added event.
func (p *Producer) PublishReviewAdded(ctx context.Context, product *domain.Product, review domain.Review) error {
	return p.publish(ctx, TopicProductReviewAdded, product.ID, ReviewAddedData{
		ProductID:     product.ID,
		Review:        review,
		AverageRating: product.AverageRating,
	})
}

// PublishOfferAdded publishes a product.offer_added event.
func (p *Producer) PublishOfferAdded(ctx context.Context, product *domain.Product, offer domain.Offer) error {
	return p.publish(ctx, TopicProductOfferAdded, product.ID, OfferAddedData{
		ProductID: product.ID,
		Offer:     offer,
	})
}

func (p *Producer) publish(ctx context.Context, topic, productID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, productID, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.String("product_id", productID),
	)
	return nil
}

// Noop discards every event. It is used when Kafka is disabled.
type Noop struct{}

func (Noop) PublishProductCreated(context.Context, *domain.Product) error             { return nil }
func (Noop) PublishProductUpdated(context.Context, *domain.Product) error             { return nil }
func (Noop) PublishProductDeleted(context.Context, string) error                      { return nil }
func (Noop) PublishReviewAdded(context.Context, *domain.Product, domain.Review) error { return nil }
func (Noop) PublishOfferAdded(context.Context, *domain.Product, domain.Offer) error   { return nil }
