package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alfagnish/userdir/internal/directory"
	"github.com/go-chi/chi/v5"
)

// UsersHandler serves the user directory endpoints.
type UsersHandler struct {
	dir *directory.Directory
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(dir *directory.Directory) *UsersHandler {
	return &UsersHandler{dir: dir}
}

// Routes registers user routes on the given chi router.
func (h *UsersHandler) Routes(r chi.Router) {
	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	r.Get("/{id}", h.GetUser)
	r.Put("/{id}", h.UpdateUser)
}

// ListUsers returns every user in insertion order.
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dir.List())
}

// GetUser returns a single user by id.
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, directory.ErrNotFound.Error())
		return
	}

	u, err := h.dir.Get(id)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// CreateUser appends the body to the directory as sent and echoes it back.
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body directory.Record
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.dir.Create(body))
}

// UpdateUser merges every field of the body into an existing user. The
// name may be repeated but not changed.
func (h *UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, directory.ErrNotFound.Error())
		return
	}

	var p directory.Record
	if err := decodeJSON(r, &p); err != nil {
		writeDecodeError(w, err)
		return
	}

	u, err := h.dir.Update(id, p)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func writeDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, directory.ErrNameImmutable):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// parseID reads the leading integer of s, so "12abc" yields 12. It reports
// false when s has no leading digits or the value overflows; such ids match
// no user.
func parseID(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
