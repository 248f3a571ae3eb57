package http

import (
	"log/slog"
	"net/http"

	"github.com/Benitta1729/Product-application/internal/service"
	"github.com/Benitta1729/Product-application/pkg/httputil"
)

const msgPopulated = "Products created successfully"

// PopulateHandler triggers the demo data generator.
type PopulateHandler struct {
	generator *service.Generator
	logger    *slog.Logger
}

// NewPopulateHandler creates a populate handler.
func NewPopulateHandler(generator *service.Generator, logger *slog.Logger) *PopulateHandler {
	return &PopulateHandler{generator: generator, logger: logger}
}

// Populate handles POST /populate-data. Individual candidate failures never
// change the response.
func (h *PopulateHandler) Populate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.generator.Populate(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "product population interrupted",
			slog.String("error", err.Error()),
		)
	}
	httputil.WriteText(w, http.StatusOK, msgPopulated)
}
