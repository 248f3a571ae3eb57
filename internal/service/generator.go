package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Benitta1729/Product-application/internal/domain"
	"github.com/Benitta1729/Product-application/internal/repository"
	"github.com/Benitta1729/Product-application/pkg/tracing"
)

// DefaultGeneratorCount is the number of candidates produced per run.
const DefaultGeneratorCount = 2000

const (
	outcomeCreated = "created"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

var generatorProducts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_generator_products_total",
	Help: "Generated product candidates by outcome.",
}, []string{"outcome"})

// GeneratorStats summarizes one population run.
type GeneratorStats struct {
	Created int
	Skipped int
	Failed  int
}

// Generator fills the catalog with random demo products. Every candidate goes
// through the regular create path, so invalid candidates are rejected and
// counted as failures. Each run draws from its own random source, so
// concurrent runs share no mutable state.
type Generator struct {
	products *ProductService
	repo     repository.ProductRepository
	seed     func() (uint64, uint64)
	count    int
	now      func() time.Time
	logger   *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithCount sets the number of candidates per run.
func WithCount(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.count = n
		}
	}
}

// WithSeed makes every run replay the same PCG sequence.
func WithSeed(seed1, seed2 uint64) GeneratorOption {
	return func(g *Generator) {
		g.seed = func() (uint64, uint64) { return seed1, seed2 }
	}
}

// WithClock sets the clock used for offer dates and for validating them.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a generator that submits candidates to products.
func NewGenerator(products *ProductService, repo repository.ProductRepository, logger *slog.Logger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		products: products,
		repo:     repo,
		seed:     func() (uint64, uint64) { return rand.Uint64(), rand.Uint64() },
		count:    DefaultGeneratorCount,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Populate generates and submits every candidate. Per-candidate errors are
// logged and counted; only context cancellation stops the run early.
func (g *Generator) Populate(ctx context.Context) (GeneratorStats, error) {
	ctx, span := tracing.Tracer("github.com/Benitta1729/Product-application/internal/service").Start(ctx, "generator.Populate")
	defer span.End()

	ctx = domain.WithClock(ctx, g.now)
	rng := rand.New(rand.NewPCG(g.seed()))

	var stats GeneratorStats
	for i := 0; i < g.count; i++ {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("populate products: %w", err)
		}

		input := g.candidate(rng)
		outcome, err := g.submit(ctx, input)
		generatorProducts.WithLabelValues(outcome).Inc()
		switch outcome {
		case outcomeCreated:
			stats.Created++
		case outcomeSkipped:
			stats.Skipped++
		default:
			stats.Failed++
			g.logger.WarnContext(ctx, "generated product rejected",
				slog.String("name", input.Name),
				slog.String("error", err.Error()),
			)
		}
	}

	span.SetAttributes(
		attribute.Int("generator.created", stats.Created),
		attribute.Int("generator.skipped", stats.Skipped),
		attribute.Int("generator.failed", stats.Failed),
	)
	g.logger.InfoContext(ctx, "product population finished",
		slog.Int("created", stats.Created),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (g *Generator) submit(ctx context.Context, input *CreateProductInput) (string, error) {
	exists, err := g.repo.ExistsByTriple(ctx, input.Name, input.Description, *input.Price)
	if err != nil {
		return outcomeFailed, fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return outcomeSkipped, nil
	}
	if _, err := g.products.CreateProduct(ctx, input); err != nil {
		return outcomeFailed, err
	}
	return outcomeCreated, nil
}

func (g *Generator) candidate(rng *rand.Rand) *CreateProductInput {
	name := fmt.Sprintf("Product%d", rng.IntN(20000))
	price := domain.Round2(rng.Float64() * 10000)

	input := &CreateProductInput{
		Name:        name,
		Description: "Description for " + name,
		Price:       &price,
	}

	for i := range rng.IntN(4) {
		rating := domain.Round2(rng.Float64() * 5)
		input.Reviews = append(input.Reviews, ReviewInput{
			Reviewer: fmt.Sprintf("Reviewer%d", i),
			Comments: commentFor(rating),
			Rating:   &rating,
		})
	}

	// endDate may land on today; such candidates fail the after-today rule
	// and are counted as failed.
	today := domain.DateOf(g.now())
	for range rng.IntN(2) {
		pct := 5 + rng.IntN(56)
		start := today.AddDays(rng.IntN(30))
		end := start.AddDays(rng.IntN(30))
		input.Offers = append(input.Offers, OfferInput{
			OfferDetails: fmt.Sprintf("%d%% discount", pct),
			CouponCode:   fmt.Sprintf("SAVE%d", pct),
			StartDate:    &start,
			EndDate:      &end,
		})
	}

	return input
}

func commentFor(rating float64) string {
	switch {
	case rating >= 4.5:
		return "Superb!"
	case rating >= 3.5:
		return "Good"
	case rating >= 2.5:
		return "Average"
	case rating >= 1.5:
		return "Below Average"
	default:
		return "Poor"
	}
}
