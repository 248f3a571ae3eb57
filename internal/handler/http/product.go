package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Benitta1729/Product-application/internal/service"
	apperrors "github.com/Benitta1729/Product-application/pkg/errors"
	"github.com/Benitta1729/Product-application/pkg/httputil"
)

// Messages and per-operation error details rendered by the product endpoints.
const (
	msgMalformedBody = "Malformed JSON request body"

	msgCreated   = "Product created successfully"
	msgRetrieved = "Product retrieved successfully"
	msgListed    = "Products retrieved successfully"
	msgUpdated   = "Product updated successfully"
	msgDeleted   = "Product deleted successfully"

	detailCreate = "Error occured in product creation"
	detailGet    = "Error occured in retrieving the product"
	detailUpdate = "Error occured in updating the product"
	detailReview = "Error occured in adding review to the product"
	detailOffer  = "Error occured in adding offer to the product"
	detailDelete = "Error occured in deleting the product"

	msgUpdateFailed = "Error in updating the product"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// UpdatedProduct is the data returned by a successful update.
type UpdatedProduct struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input service.CreateProductInput
	if !h.decode(w, r, &input) {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &input)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			httputil.WriteFailure(w, http.StatusBadRequest, apperrors.MessageOf(err), detailCreate)
			return
		}
		httputil.WriteError(w, r, err, "", h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, msgCreated, product)
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAllProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, "", h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, msgListed, products)
}

// GetProduct handles GET /products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		httputil.WriteError(w, r, err, detailGet, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, msgRetrieved, product)
}

// UpdateProduct handles PUT /products/{productId}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateProductInput
	if !h.decode(w, r, &input) {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "productId"), &input)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			httputil.WriteFailure(w, http.StatusBadRequest, msgUpdateFailed, apperrors.MessageOf(err))
			return
		}
		httputil.WriteError(w, r, err, detailUpdate, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, msgUpdated, UpdatedProduct{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
	})
}

// AddReview handles POST /products/reviews/{productId}
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var input service.ReviewInput
	if !h.decode(w, r, &input) {
		return
	}

	id := chi.URLParam(r, "productId")
	_, review, err := h.service.AddReview(r.Context(), id, &input)
	if err != nil {
		httputil.WriteError(w, r, err, detailReview, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, fmt.Sprintf("Reviews added successfully for product %s", id), review)
}

// AddOffer handles POST /products/offers/{productId}
func (h *ProductHandler) AddOffer(w http.ResponseWriter, r *http.Request) {
	var input service.OfferInput
	if !h.decode(w, r, &input) {
		return
	}

	id := chi.URLParam(r, "productId")
	_, offer, err := h.service.AddOffer(r.Context(), id, &input)
	if err != nil {
		httputil.WriteError(w, r, err, detailOffer, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, fmt.Sprintf("Offers added successfully for product %s", id), offer)
}

// DeleteProduct handles DELETE /products/{productId}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		httputil.WriteError(w, r, err, detailDelete, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, msgDeleted, product)
}

// maxBodyBytes caps product request bodies.
const maxBodyBytes = 1 << 20

// decode reads the JSON body into dst, answering 400 when it cannot be parsed
// or exceeds maxBodyBytes.
func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.DebugContext(r.Context(), "rejecting malformed request body",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		httputil.WriteFailure(w, http.StatusBadRequest, apperrors.ValidationMessage, msgMalformedBody)
		return false
	}
	return true
}
