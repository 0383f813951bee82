// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"taxonomy/internal/models"
	"taxonomy/internal/normalize"
	"taxonomy/internal/taxonomy"
)

// assignRequest is the body of POST and PUT on an entity field. Either
// text (split on separator) or names/category_ids may be given.
type assignRequest struct {
	Names       []string `json:"names"`
	CategoryIDs []string `json:"category_ids"`
	Text        string   `json:"text"`
	Separator   string   `json:"separator"`
	Locale      string   `json:"locale"`
}

// fieldResponse describes the content of an entity field. Category is
// set only for single-valued fields.
type fieldResponse struct {
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Field      string            `json:"field"`
	Size       models.Size       `json:"size"`
	Full       bool              `json:"full"`
	Categories []models.Category `json:"categories"`
	Category   *models.Category  `json:"category,omitempty"`
}

// entityRef reads the entity reference from the path.
func entityRef(r *http.Request) models.EntityRef {
	return models.EntityRef{Type: chi.URLParam(r, "type"), ID: chi.URLParam(r, "id")}
}

// items converts the request into assignment items. Category ids are
// resolved by the service, which checks they exist and belong to the
// field's set.
func (req assignRequest) items() ([]taxonomy.Item, error) {
	if err := validateNames(req.Names); err != nil {
		return nil, err
	}
	out := taxonomy.Names(req.Names...)
	for _, raw := range req.CategoryIDs {
		id, err := parseID(raw, "category_ids")
		if err != nil {
			return nil, err
		}
		out = append(out, taxonomy.ByCategory(&models.Category{ID: id}))
	}
	return out, nil
}

func (req assignRequest) hasItems() bool {
	return len(req.Names) > 0 || len(req.CategoryIDs) > 0
}

// writeField responds with the field content after a change.
func (a *API) writeField(w http.ResponseWriter, r *http.Request, status int, ref models.EntityRef, field string, cats []models.Category) {
	c, err := a.svc.Categorization(ref.Type, field)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	resp := fieldResponse{
		EntityType: ref.Type,
		EntityID:   ref.ID,
		Field:      c.Field,
		Size:       c.Size,
		Full:       c.IsFull(len(cats)),
		Categories: cats,
	}
	if c.Single() && len(cats) > 0 {
		resp.Category = &cats[0]
	}
	writeJSON(w, status, resp)
}

// GetField returns the categories of an entity field.
func (a *API) GetField(w http.ResponseWriter, r *http.Request) {
	ref, field := entityRef(r), chi.URLParam(r, "field")
	cats, err := a.svc.GetMany(r.Context(), ref, field)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.writeField(w, r, http.StatusOK, ref, field, cats)
}

// AddToField appends categories to an entity field.
func (a *API) AddToField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref, field := entityRef(r), chi.URLParam(r, "field")

	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateLocale(req.Locale); err != nil {
		writeError(w, r, err)
		return
	}
	opts := []taxonomy.AssignOption{taxonomy.InLocale(req.Locale)}

	var (
		cats []models.Category
		err  error
	)
	switch {
	case req.Text != "" && req.hasItems():
		err = models.Validation("text", "cannot be combined with names or category_ids")
	case req.Text != "":
		cats, err = a.svc.SetFromSeparatedString(ctx, ref, field, req.Text, req.Separator, opts...)
	case req.hasItems():
		var items []taxonomy.Item
		if items, err = req.items(); err == nil {
			cats, err = a.svc.AddCategories(ctx, ref, field, items, opts...)
		}
	default:
		err = models.Validation("names", "nothing to add")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.writeField(w, r, http.StatusOK, ref, field, cats)
}

// ReplaceField makes the request the exact content of an entity field.
// An empty request clears it.
func (a *API) ReplaceField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref, field := entityRef(r), chi.URLParam(r, "field")

	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateLocale(req.Locale); err != nil {
		writeError(w, r, err)
		return
	}

	if req.Text != "" {
		if req.hasItems() {
			writeError(w, r, models.Validation("text", "cannot be combined with names or category_ids"))
			return
		}
		sep := req.Separator
		if sep == "" {
			c, err := a.svc.Categorization(ref.Type, field)
			if err != nil {
				writeError(w, r, err)
				return
			}
			sep = c.Separator
		}
		req.Names = normalize.Split(req.Text, sep)
	}

	items, err := req.items()
	if err != nil {
		writeError(w, r, err)
		return
	}
	cats, err := a.svc.ReplaceCategories(ctx, ref, field, items, taxonomy.InLocale(req.Locale))
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.writeField(w, r, http.StatusOK, ref, field, cats)
}

// ClearField removes every category of an entity field.
func (a *API) ClearField(w http.ResponseWriter, r *http.Request) {
	n, err := a.svc.RemoveAll(r.Context(), entityRef(r), chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}

// RemoveFromField detaches one category from an entity field.
func (a *API) RemoveFromField(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "categoryID"), "category_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.svc.RemoveCategory(r.Context(), entityRef(r), chi.URLParam(r, "field"), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEntity drops every relation of an entity. Hosts call it when the
// entity is destroyed.
func (a *API) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	n, err := a.svc.DeleteEntity(r.Context(), entityRef(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}

// Selector returns the picker payload of an entity field.
func (a *API) Selector(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payload, err := a.svc.Selector(r.Context(), entityRef(r), chi.URLParam(r, "field"), q.Get("type"), q.Get("locale"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// HasCategory reports whether an entity field carries ?name=.
func (a *API) HasCategory(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, r, models.Validation("name", "is required"))
		return
	}
	ok, err := a.svc.HasCategory(r.Context(), entityRef(r), chi.URLParam(r, "field"), taxonomy.ByName(name))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"has": ok})
}

// IsFull reports whether an entity field reached its size. With one or
// more ?name= values it instead reports whether adding them would overflow.
func (a *API) IsFull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref, field := entityRef(r), chi.URLParam(r, "field")

	if names := r.URL.Query()["name"]; len(names) > 0 {
		over, err := a.svc.WouldOverflow(ctx, ref, field, names)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"would_overflow": over})
		return
	}

	full, err := a.svc.IsFull(ctx, ref, field)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"full": full})
}

// TaggedWith lists the ids of entities whose field carries any ?name=.
func (a *API) TaggedWith(w http.ResponseWriter, r *http.Request) {
	ids, err := a.svc.EntitiesTaggedWith(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "field"), r.URL.Query()["name"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}
