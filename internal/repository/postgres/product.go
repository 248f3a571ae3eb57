package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Benitta1729/Product-application/internal/domain"
	"github.com/Benitta1729/Product-application/internal/repository"
	"github.com/Benitta1729/Product-application/pkg/database"
	apperrors "github.com/Benitta1729/Product-application/pkg/errors"
)

const (
	uniqueViolation = "23505"

	productsPKey       = "products_pkey"
	productsNameLower  = "products_name_lower_key"
	productColumns     = "id, name, description, price"
	idOrder            = "ORDER BY LENGTH(id), id"
	reviewColumns      = "product_id, reviewer, comments, rating"
	offerColumns       = "product_id, offerdetails, coupon_code, start_date, end_date, discount_amount"
	insertReviewQuery  = `INSERT INTO product_reviews (product_id, position, reviewer, comments, rating) VALUES ($1, $2, $3, $4, $5)`
	insertOfferQuery   = `INSERT INTO product_offers (product_id, offerdetails, coupon_code, start_date, end_date, discount_amount) VALUES ($1, $2, $3, $4, $5, $6)`
	deleteReviewsQuery = `DELETE FROM product_reviews WHERE product_id = $1`
	deleteOffersQuery  = `DELETE FROM product_offers WHERE product_id = $1`
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
// Reviews and offers are stored in child tables and always travel with their
// product.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// GetByID retrieves a product with its reviews and offers.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (_ *domain.Product, err error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, end := database.TraceQuery(ctx, "GetProduct", query)
	defer func() { end(err) }()

	return r.loadOne(ctx, query, id)
}

// FindByNameIgnoreCase retrieves the product whose name matches regardless of case.
func (r *ProductRepository) FindByNameIgnoreCase(ctx context.Context, name string) (_ *domain.Product, err error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE LOWER(name) = LOWER($1)`
	ctx, end := database.TraceQuery(ctx, "FindProductByName", query)
	defer func() { end(err) }()

	return r.loadOne(ctx, query, name)
}

// Create inserts a product and its embedded collections in one transaction.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (err error) {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4)`
	ctx, end := database.TraceQuery(ctx, "CreateProduct", query)
	defer func() { end(err) }()

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price); err != nil {
			return mapWriteError(err, "insert product")
		}
		return insertChildren(ctx, tx, p)
	})
}

// Save upserts the product row and replaces its reviews and offers.
func (r *ProductRepository) Save(ctx context.Context, p *domain.Product) (err error) {
	query := `
		INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price`
	ctx, end := database.TraceQuery(ctx, "SaveProduct", query)
	defer func() { end(err) }()

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price); err != nil {
			return mapWriteError(err, "save product")
		}
		if _, err := tx.Exec(ctx, deleteReviewsQuery, p.ID); err != nil {
			return fmt.Errorf("clear reviews: %w", err)
		}
		if _, err := tx.Exec(ctx, deleteOffersQuery, p.ID); err != nil {
			return fmt.Errorf("clear offers: %w", err)
		}
		return insertChildren(ctx, tx, p)
	})
}

// Delete removes a product. Reviews and offers go with it through the
// cascading foreign keys.
func (r *ProductRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM products WHERE id = $1`
	ctx, end := database.TraceQuery(ctx, "DeleteProduct", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindTopByIDDesc returns the numerically largest id. Ids grow past five
// digits, so length orders before the text itself.
func (r *ProductRepository) FindTopByIDDesc(ctx context.Context) (_ string, err error) {
	query := `SELECT id FROM products ORDER BY LENGTH(id) DESC, id DESC LIMIT 1`
	ctx, end := database.TraceQuery(ctx, "FindTopProductID", query)
	defer func() { end(err) }()

	var id string
	if err = r.pool.QueryRow(ctx, query).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find top product id: %w", err)
	}
	return id, nil
}

// ExistsByTriple reports whether an equivalent product is already stored.
func (r *ProductRepository) ExistsByTriple(ctx context.Context, name, description string, price float64) (_ bool, err error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE LOWER(name) = LOWER($1) AND LOWER(description) = LOWER($2) AND price = $3
		)`
	ctx, end := database.TraceQuery(ctx, "ProductExists", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.pool.QueryRow(ctx, query, name, description, price).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product exists: %w", err)
	}
	return exists, nil
}

// FindAll returns every product with its collections, ordered by id.
func (r *ProductRepository) FindAll(ctx context.Context) (_ []domain.Product, err error) {
	query := `SELECT ` + productColumns + ` FROM products ` + idOrder
	ctx, end := database.TraceQuery(ctx, "ListProducts", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Product, error) {
		var p domain.Product
		err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan product rows: %w", err)
	}
	if len(products) == 0 {
		return []domain.Product{}, nil
	}

	reviews, err := r.reviewsByProduct(ctx, `SELECT `+reviewColumns+` FROM product_reviews ORDER BY product_id, position`)
	if err != nil {
		return nil, err
	}
	offers, err := r.offersByProduct(ctx, `SELECT `+offerColumns+` FROM product_offers ORDER BY product_id`)
	if err != nil {
		return nil, err
	}

	for i := range products {
		products[i].Reviews = nonNil(reviews[products[i].ID])
		products[i].Offers = nonNil(offers[products[i].ID])
	}
	return products, nil
}

// ListSummaries returns one page of summaries and the total product count.
func (r *ProductRepository) ListSummaries(ctx context.Context, offset, limit int) (_ []domain.ProductSummary, _ int, err error) {
	query := `SELECT ` + productColumns + ` FROM products ` + idOrder + ` LIMIT $1 OFFSET $2`
	ctx, end := database.TraceQuery(ctx, "ListProductSummaries", query)
	defer func() { end(err) }()

	var total int
	if err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	if total == 0 || offset >= total {
		return []domain.ProductSummary{}, total, nil
	}

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list product summaries: %w", err)
	}
	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ProductSummary, error) {
		var s domain.ProductSummary
		err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price)
		return s, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan product summaries: %w", err)
	}
	return summaries, total, nil
}

func (r *ProductRepository) loadOne(ctx context.Context, query string, arg any) (*domain.Product, error) {
	var p domain.Product
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Name, &p.Description, &p.Price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	reviews, err := r.reviewsByProduct(ctx,
		`SELECT `+reviewColumns+` FROM product_reviews WHERE product_id = $1 ORDER BY position`, p.ID)
	if err != nil {
		return nil, err
	}
	offers, err := r.offersByProduct(ctx,
		`SELECT `+offerColumns+` FROM product_offers WHERE product_id = $1`, p.ID)
	if err != nil {
		return nil, err
	}
	p.Reviews = nonNil(reviews[p.ID])
	p.Offers = nonNil(offers[p.ID])
	return &p, nil
}

func (r *ProductRepository) reviewsByProduct(ctx context.Context, query string, args ...any) (map[string][]domain.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Review)
	for rows.Next() {
		var (
			productID string
			rv        domain.Review
		)
		if err := rows.Scan(&productID, &rv.Reviewer, &rv.Comments, &rv.Rating); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		out[productID] = append(out[productID], rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return out, nil
}

func (r *ProductRepository) offersByProduct(ctx context.Context, query string, args ...any) (map[string][]domain.Offer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Offer)
	for rows.Next() {
		var (
			productID  string
			o          domain.Offer
			start, end time.Time
		)
		if err := rows.Scan(&productID, &o.OfferDetails, &o.CouponCode, &start, &end, &o.DiscountAmount); err != nil {
			return nil, fmt.Errorf("scan offer row: %w", err)
		}
		o.StartDate = domain.DateOf(start)
		o.EndDate = domain.DateOf(end)
		out[productID] = append(out[productID], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offer rows: %w", err)
	}
	return out, nil
}

func (r *ProductRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertChildren(ctx context.Context, tx pgx.Tx, p *domain.Product) error {
	for i, rv := range p.Reviews {
		if _, err := tx.Exec(ctx, insertReviewQuery, p.ID, i, rv.Reviewer, rv.Comments, rv.Rating); err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
	}
	for _, o := range p.Offers {
		if _, err := tx.Exec(ctx, insertOfferQuery,
			p.ID, o.OfferDetails, o.CouponCode, o.StartDate.Time(), o.EndDate.Time(), o.DiscountAmount,
		); err != nil {
			return fmt.Errorf("insert offer: %w", err)
		}
	}
	return nil
}

// mapWriteError turns unique violations on the products table into the
// repository's duplicate sentinels.
func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case productsPKey:
			return repository.ErrDuplicateID
		case productsNameLower:
			return repository.ErrDuplicateName
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
