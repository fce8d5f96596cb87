package handlers

import (
	"fmt"
	"net/http"

	"github.com/alfagnish/userdir/internal/openapi"
	"github.com/go-chi/chi/v5"
)

const swaggerUI = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.ui = SwaggerUIBundle({ url: "/api-docs/openapi.json", dom_id: "#swagger-ui" });
  </script>
</body>
</html>
`

// DocsHandler serves the OpenAPI document and an interactive Swagger UI.
// The document is rendered once at construction.
type DocsHandler struct {
	jsonDoc []byte
	yamlDoc []byte
}

// NewDocsHandler renders doc in both formats.
func NewDocsHandler(doc *openapi.Document) (*DocsHandler, error) {
	j, err := doc.JSON()
	if err != nil {
		return nil, fmt.Errorf("rendering openapi json: %w", err)
	}
	y, err := doc.YAML()
	if err != nil {
		return nil, fmt.Errorf("rendering openapi yaml: %w", err)
	}
	return &DocsHandler{jsonDoc: j, yamlDoc: y}, nil
}

// Routes registers the documentation routes on the given chi router.
func (h *DocsHandler) Routes(r chi.Router) {
	r.Get("/", h.UI)
	r.Get("/openapi.json", h.JSON)
	r.Get("/openapi.yaml", h.YAML)
}

// UI serves the Swagger UI page.
func (h *DocsHandler) UI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, swaggerUI, openapi.Title)
}

// JSON serves the OpenAPI document as JSON.
func (h *DocsHandler) JSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(h.jsonDoc)
}

// YAML serves the OpenAPI document as YAML.
func (h *DocsHandler) YAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(h.yamlDoc)
}
