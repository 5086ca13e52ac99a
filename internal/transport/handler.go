// Package transport exposes the data access layer over HTTP. Every response
// body is a result object: {"success", "data", "error", "count"}.
package transport

import (
	"net/http"
	"strconv"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// parsePage reads the inclusive from/to range of a listing. Missing values
// fall back to the first page; the accessor clamps the rest.
func parsePage(r *http.Request) (domain.Page, bool) {
	page := domain.FirstPage()
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		from, err := strconv.Atoi(v)
		if err != nil {
			return page, false
		}
		page.From = from
		if q.Get("to") == "" {
			page.To = from + domain.DefaultPageSize - 1
		}
	}
	if v := q.Get("to"); v != "" {
		to, err := strconv.Atoi(v)
		if err != nil {
			return page, false
		}
		page.To = to
	}
	return page, true
}

// pageOrFail writes a 400 and returns false when the range is not numeric
func pageOrFail(w http.ResponseWriter, r *http.Request) (domain.Page, bool) {
	page, ok := parsePage(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "from and to must be integers")
	}
	return page, ok
}

// idParam parses the {id} route parameter, answering 400 when it is not a uuid
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// decode reads a JSON body into v and validates it, answering 400 on failure
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return false
	}
	return true
}
