package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Benitta1729/Product-application/internal/domain"
	"github.com/Benitta1729/Product-application/internal/service"
	apperrors "github.com/Benitta1729/Product-application/pkg/errors"
	"github.com/Benitta1729/Product-application/pkg/httputil"
	"github.com/Benitta1729/Product-application/pkg/pagination"
)

const msgNoReviews = "No reviews available."

// SummaryPage is the bare body of GET /products/summaries.
type SummaryPage struct {
	TotalPages    int                     `json:"TotalPages"`
	TotalElements int                     `json:"TotalElements"`
	CurrentPage   int                     `json:"CurrentPage"`
	Products      []domain.ProductSummary `json:"PRODUCTS"`
}

// ReviewPage is the bare body of GET /products/allreviews/{productId}.
type ReviewPage struct {
	TotalPages    int                   `json:"TotalPages"`
	TotalElements int                   `json:"TotalElements"`
	CurrentPage   int                   `json:"CurrentPage"`
	Reviews       []service.ReviewEntry `json:"PRODUCT REVIEWS"`
}

// ListSummaries handles GET /products/summaries
func (h *ProductHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteFailure(w, http.StatusBadRequest, service.MsgInvalidPageSize)
		return
	}

	page, err := h.service.GetProductSummaries(r.Context(), params)
	if err != nil {
		h.writeListingError(w, r, err)
		return
	}
	if page.TotalElements == 0 {
		httputil.WriteSuccess(w, http.StatusOK, msgNoReviews, nil)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, SummaryPage{
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
		CurrentPage:   page.CurrentPage,
		Products:      page.Items,
	})
}

// ListReviews handles GET /products/allreviews/{productId}
func (h *ProductHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteFailure(w, http.StatusBadRequest, service.MsgInvalidPageSize)
		return
	}

	page, err := h.service.GetProductReviews(r.Context(), chi.URLParam(r, "productId"), params)
	if err != nil {
		h.writeListingError(w, r, err)
		return
	}
	if page.TotalElements == 0 {
		httputil.WriteSuccess(w, http.StatusOK, msgNoReviews, nil)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ReviewPage{
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
		CurrentPage:   page.CurrentPage,
		Reviews:       page.Items,
	})
}

// writeListingError renders page rule violations as is. Anything else is
// reported as invalid paging input.
func (h *ProductHandler) writeListingError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && (appErr.Status == http.StatusBadRequest || appErr.Status == http.StatusNotFound) {
		httputil.WriteFailure(w, appErr.Status, appErr.Message)
		return
	}

	h.logger.ErrorContext(r.Context(), "listing failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	httputil.WriteFailure(w, http.StatusBadRequest, service.MsgInvalidPageSize)
}
