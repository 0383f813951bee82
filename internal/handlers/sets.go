// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taxonomy/internal/models"
	"taxonomy/internal/normalize"
)

type createSetRequest struct {
	Name     string `json:"name"`
	Key      string `json:"key"`
	Editable *bool  `json:"editable"`
}

type editableRequest struct {
	Editable *bool `json:"editable"`
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Locale      string `json:"locale"`
}

// ListSets returns the sets whose name contains ?text=.
func (a *API) ListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := a.svc.FilterSets(r.Context(), models.Filters{"text": r.URL.Query().Get("text")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sets": sets})
}

// CreateSet creates a category set. Sets are editable unless the body
// says otherwise.
func (a *API) CreateSet(w http.ResponseWriter, r *http.Request) {
	var req createSetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateSet(req.Name, req.Key); err != nil {
		writeError(w, r, err)
		return
	}
	editable := true
	if req.Editable != nil {
		editable = *req.Editable
	}

	set, err := a.svc.CreateSet(r.Context(), req.Name, req.Key, editable)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

// GetSet returns one set by key.
func (a *API) GetSet(w http.ResponseWriter, r *http.Request) {
	set, err := a.svc.FindSetByKey(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// SetEditable toggles implicit category creation in a set.
func (a *API) SetEditable(w http.ResponseWriter, r *http.Request) {
	var req editableRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Editable == nil {
		writeError(w, r, models.Validation("editable", "is required"))
		return
	}

	set, err := a.svc.SetEditable(r.Context(), chi.URLParam(r, "key"), *req.Editable)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// DeleteSet removes a set with everything in it.
func (a *API) DeleteSet(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.DeleteSet(r.Context(), chi.URLParam(r, "key")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSetCategories returns a set's categories for ?locale=, narrowed to
// names containing ?text=. It feeds autocomplete pickers.
func (a *API) ListSetCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	set, err := a.svc.FindSetByKey(ctx, chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	cats, err := a.svc.ListCategories(ctx, set, r.URL.Query().Get("locale"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if text := normalize.Key(r.URL.Query().Get("text")); text != "" {
		matched := make([]models.Category, 0, len(cats))
		for _, c := range cats {
			if containsKey(c.Name, text) {
				matched = append(matched, c)
			}
		}
		cats = matched
	}
	writeJSON(w, http.StatusOK, map[string]any{"set": set, "categories": cats})
}

// CreateCategory explicitly adds a category to a set. This works on
// non-editable sets too.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateCategory(req.Name, req.Description, req.Locale); err != nil {
		writeError(w, r, err)
		return
	}

	set, err := a.svc.FindSetByKey(ctx, chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := a.svc.CreateCategory(ctx, set, req.Name, req.Description, req.Locale)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// FilterCategories searches categories across sets with ?text=,
// ?category_set_id= and ?locale=.
func (a *API) FilterCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.Filters{}
	for key := range q {
		filters[key] = q.Get(key)
	}

	cats, err := a.svc.FilterCategories(r.Context(), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// DeleteCategory removes a category and its relations.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.svc.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseID parses a UUID path or body value.
func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, models.Validation(field, "invalid id %q", raw)
	}
	return id, nil
}

// containsKey reports whether the normalized name contains key.
func containsKey(name, key string) bool {
	return strings.Contains(normalize.Key(name), key)
}
