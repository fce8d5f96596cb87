package handlers

import (
	"fmt"
	"net/http"

	"github.com/alfagnish/userdir/internal/directory"
	"github.com/alfagnish/userdir/internal/openapi"
	"github.com/go-chi/chi/v5"
)

const greeting = `<!DOCTYPE html>
<html>
<head><title>%[1]s</title></head>
<body>
<h1>%[1]s</h1>
<p>Browse and try the API at <a href="/api-docs">/api-docs</a>.</p>
</body>
</html>
`

// SystemHandler serves the landing page and the health check.
type SystemHandler struct {
	dir *directory.Directory
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(dir *directory.Directory) *SystemHandler {
	return &SystemHandler{dir: dir}
}

// Routes registers the system routes on the given chi router.
func (h *SystemHandler) Routes(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/healthz", h.Health)
}

// Home greets the caller and links to the API documentation.
func (h *SystemHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, greeting, openapi.Title)
}

// Health reports that the service is up along with the directory size.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"users":  h.dir.Len(),
	})
}
