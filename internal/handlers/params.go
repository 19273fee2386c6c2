package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func brandIDParam(r *http.Request) string {
	return chi.URLParam(r, "brandID")
}

func idParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// pagination parses limit/offset query parameters with sane defaults
func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
