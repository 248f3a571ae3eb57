// Package docs serves the catalog's OpenAPI descriptor and a Redoc page for it.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/go-openapi/runtime/middleware"
)

// SpecPath is where the OpenAPI descriptor is served.
const SpecPath = "/swagger/doc.json"

// Title is the API title shown by Redoc.
const Title = "Swagger_Product"

//go:embed openapi.json
var spec []byte

// Spec returns the raw OpenAPI descriptor.
func Spec() []byte { return spec }

// ServeSpec writes the OpenAPI descriptor.
func ServeSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec)
}

// Redoc returns a handler rendering the descriptor at /docs.
func Redoc() http.Handler {
	return middleware.Redoc(middleware.RedocOpts{
		BasePath: "/",
		Path:     "docs",
		SpecURL:  SpecPath,
		Title:    Title,
	}, http.NotFoundHandler())
}
