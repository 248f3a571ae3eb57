package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benitta1729/Product-application/internal/domain"
	"github.com/Benitta1729/Product-application/internal/repository"
	"github.com/Benitta1729/Product-application/pkg/database"
	apperrors "github.com/Benitta1729/Product-application/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

var (
	productCols = []string{"id", "name", "description", "price"}
	reviewCols  = []string{"product_id", "reviewer", "comments", "rating"}
	offerCols   = []string{"product_id", "offerdetails", "coupon_code", "start_date", "end_date", "discount_amount"}

	offerStart = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	offerEnd   = time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)
)

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          "PDNO_00007",
		Name:        "Laptop7",
		Description: "Thin and light",
		Price:       999.5,
		Reviews: []domain.Review{
			{Reviewer: "ann", Comments: "great", Rating: 5},
			{Reviewer: "bob", Comments: "ok", Rating: 3},
		},
		Offers: []domain.Offer{{
			OfferDetails:   "10% discount",
			CouponCode:     "TEN",
			StartDate:      domain.DateOf(offerStart),
			EndDate:        domain.DateOf(offerEnd),
			DiscountAmount: 99.95,
		}},
	}
}

func expectChildren(mock pgxmock.PgxPoolIface, p domain.Product) {
	for i, rv := range p.Reviews {
		mock.ExpectExec("INSERT INTO product_reviews").
			WithArgs(p.ID, i, rv.Reviewer, rv.Comments, rv.Rating).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	for _, o := range p.Offers {
		mock.ExpectExec("INSERT INTO product_offers").
			WithArgs(p.ID, o.OfferDetails, o.CouponCode, o.StartDate.Time(), o.EndDate.Time(), o.DiscountAmount).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID / FindByNameIgnoreCase
// ─────────────────────────────────────────────────────────────────────────────

func TestProductRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(p.ID, p.Name, p.Description, p.Price))
	mock.ExpectQuery("FROM product_reviews WHERE product_id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(reviewCols).
			AddRow(p.ID, "ann", "great", 5.0).
			AddRow(p.ID, "bob", "ok", 3.0))
	mock.ExpectQuery("FROM product_offers WHERE product_id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(offerCols).
			AddRow(p.ID, "10% discount", "TEN", offerStart, offerEnd, 99.95))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, &p, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_EmptyCollections(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs("PDNO_00001").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow("PDNO_00001", "Pen", "Blue", 1.5))
	mock.ExpectQuery("FROM product_reviews").WithArgs("PDNO_00001").WillReturnRows(pgxmock.NewRows(reviewCols))
	mock.ExpectQuery("FROM product_offers").WithArgs("PDNO_00001").WillReturnRows(pgxmock.NewRows(offerCols))

	got, err := repo.GetByID(context.Background(), "PDNO_00001")
	require.NoError(t, err)
	assert.NotNil(t, got.Reviews)
	assert.Empty(t, got.Reviews)
	assert.NotNil(t, got.Offers)
	assert.Empty(t, got.Offers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs("PDNO_99999").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "PDNO_99999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByNameIgnoreCase(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("WHERE LOWER\\(name\\) = LOWER\\(\\$1\\)").
		WithArgs("PEN").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow("PDNO_00001", "pen", "Blue", 1.5))
	mock.ExpectQuery("FROM product_reviews").WithArgs("PDNO_00001").WillReturnRows(pgxmock.NewRows(reviewCols))
	mock.ExpectQuery("FROM product_offers").WithArgs("PDNO_00001").WillReturnRows(pgxmock.NewRows(offerCols))

	got, err := repo.FindByNameIgnoreCase(context.Background(), "PEN")
	require.NoError(t, err)
	assert.Equal(t, "PDNO_00001", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// Create / Save
// ─────────────────────────────────────────────────────────────────────────────

func TestProductRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Name, p.Description, p.Price).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectChildren(mock, p)
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), &p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_DuplicateConstraints(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{constraint: "products_pkey", want: repository.ErrDuplicateID},
		{constraint: "products_name_lower_key", want: repository.ErrDuplicateName},
	}
	for _, tc := range tests {
		t.Run(tc.constraint, func(t *testing.T) {
			mock := newMock(t)
			defer mock.Close()
			repo := NewProductRepository(mock)

			p := sampleProduct()
			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO products").
				WithArgs(p.ID, p.Name, p.Description, p.Price).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})
			mock.ExpectRollback()

			err := repo.Create(context.Background(), &p)
			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductRepository_Create_ChildFailureRollsBack(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Name, p.Description, p.Price).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO product_reviews").
		WithArgs(p.ID, 0, "ann", "great", 5.0).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert review")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Save_ReplacesChildren(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectBegin()
	mock.ExpectExec("ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs(p.ID, p.Name, p.Description, p.Price).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM product_reviews").WithArgs(p.ID).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM product_offers").WithArgs(p.ID).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	expectChildren(mock, p)
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), &p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Save_DuplicateName(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectBegin()
	mock.ExpectExec("ON CONFLICT").
		WithArgs(p.ID, p.Name, p.Description, p.Price).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "products_name_lower_key"})
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Save(context.Background(), &p), repository.ErrDuplicateName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

func TestProductRepository_Delete(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products WHERE id").
		WithArgs("PDNO_00001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM products WHERE id").
		WithArgs("PDNO_00002").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.Delete(context.Background(), "PDNO_00001"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "PDNO_00002"), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// Id minting and duplicate checks
// ─────────────────────────────────────────────────────────────────────────────

func TestProductRepository_FindTopByIDDesc(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("ORDER BY LENGTH\\(id\\) DESC, id DESC LIMIT 1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("PDNO_00042"))
	mock.ExpectQuery("ORDER BY LENGTH\\(id\\) DESC, id DESC LIMIT 1").
		WillReturnError(pgx.ErrNoRows)

	top, err := repo.FindTopByIDDesc(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PDNO_00042", top)

	top, err = repo.FindTopByIDDesc(context.Background())
	require.NoError(t, err)
	assert.Empty(t, top)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ExistsByTriple(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Pen", "Blue ink", 2.5).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByTriple(context.Background(), "Pen", "Blue ink", 2.5)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAll / ListSummaries
// ─────────────────────────────────────────────────────────────────────────────

func TestProductRepository_FindAll_GroupsChildren(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("FROM products ORDER BY LENGTH\\(id\\), id").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("PDNO_00001", "Pen", "Blue", 1.5).
			AddRow("PDNO_00002", "Cup", "Red", 4.0))
	mock.ExpectQuery("FROM product_reviews ORDER BY").
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow("PDNO_00002", "zed", "nice", 4.0))
	mock.ExpectQuery("FROM product_offers ORDER BY").
		WillReturnRows(pgxmock.NewRows(offerCols).AddRow("PDNO_00001", "5% discount", "FIVE", offerStart, offerEnd, 0.08))

	got, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].Reviews)
	assert.Len(t, got[0].Offers, 1)
	assert.Len(t, got[1].Reviews, 1)
	assert.Empty(t, got[1].Offers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindAll_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("FROM products ORDER BY").WillReturnRows(pgxmock.NewRows(productCols))

	got, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListSummaries(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("LIMIT \\$1 OFFSET \\$2").
		WithArgs(2, 4).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow("PDNO_00005", "Pen", "Blue", 1.5))

	got, total, err := repo.ListSummaries(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, []domain.ProductSummary{{ID: "PDNO_00005", Name: "Pen", Description: "Blue", Price: 1.5}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListSummaries_OffsetPastEnd(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	got, total, err := repo.ListSummaries(context.Background(), 8, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
