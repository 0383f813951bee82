// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API over the taxonomy service.
package handlers

import (
	"net/http"

	"taxonomy/internal/fields"
	"taxonomy/internal/taxonomy"
)

// API groups the HTTP handlers. Routes are wired in internal/router.
type API struct {
	svc    *taxonomy.Service
	fields *fields.Registry
}

// NewAPI creates the handler group.
func NewAPI(svc *taxonomy.Service, registry *fields.Registry) *API {
	return &API{svc: svc, fields: registry}
}

// fieldInfo describes one categorized field in GET /api/fields.
type fieldInfo struct {
	EntityType  string `json:"entity_type"`
	Field       string `json:"field"`
	From        string `json:"from"`
	Size        string `json:"size"`
	Separator   string `json:"separator"`
	Association string `json:"association"`
}

// ListFields returns every registered categorized field.
func (a *API) ListFields(w http.ResponseWriter, r *http.Request) {
	out := []fieldInfo{}
	for _, typ := range a.fields.EntityTypes() {
		for _, c := range a.fields.Fields(typ) {
			out = append(out, fieldInfo{
				EntityType:  c.EntityType,
				Field:       c.Field,
				From:        c.From,
				Size:        c.Size.String(),
				Separator:   c.Separator,
				Association: fields.AssociationName(c.Field),
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": out})
}
