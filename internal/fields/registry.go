// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fields holds the categorization descriptors of every categorized
// field, keyed by entity type and field name. Descriptors are configuration
// loaded from YAML at startup; they are never persisted.
//
// Field names are stored in their plural form ("city" becomes "cities") and
// that form is also the default set key, so a field declared as "city"
// feeds from the "cities" set unless "from" says otherwise.
package fields

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"taxonomy/internal/models"
)

// fileFormat is the YAML layout:
//
//	entities:
//	  article:
//	    city: {}
//	    tags:
//	      size: many
//	      separator: ","
type fileFormat struct {
	Entities map[string]map[string]fieldOptions `yaml:"entities"`
}

type fieldOptions struct {
	From      string    `yaml:"from"`
	Size      fieldSize `yaml:"size"`
	Separator string    `yaml:"separator"`
}

// fieldSize decodes either an integer or "many".
type fieldSize struct {
	set  bool
	size models.Size
}

func (f *fieldSize) UnmarshalYAML(value *yaml.Node) error {
	s, err := models.ParseSize(value.Value)
	if err != nil {
		return err
	}
	f.set = true
	f.size = s
	return nil
}

// Registry maps (entity type, field) to its categorization.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]map[string]models.Categorization
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]map[string]models.Categorization)}
}

// LoadFile reads descriptors from a YAML file. A missing file yields an
// empty registry so the service can start before any field is declared.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		slog.Warn("fields file not found, no categorized fields registered", "path", path)
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open fields file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads descriptors in the YAML layout documented on fileFormat.
func Load(r io.Reader) (*Registry, error) {
	var doc fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fields: %w", err)
	}

	reg := NewRegistry()
	for entityType, fieldsByName := range doc.Entities {
		for field, opts := range fieldsByName {
			c := models.Categorization{
				EntityType: entityType,
				Field:      field,
				From:       opts.From,
				Separator:  opts.Separator,
			}
			if opts.Size.set {
				c.Size = opts.Size.size
			}
			if _, err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}

// Register declares a categorized field, filling defaults: the field name
// is pluralized, From defaults to that plural, Size to 1 and Separator
// to "##". It returns the stored descriptor.
func (r *Registry) Register(c models.Categorization) (models.Categorization, error) {
	c.EntityType = strings.TrimSpace(c.EntityType)
	c.Field = strings.TrimSpace(c.Field)
	if c.EntityType == "" {
		return c, fmt.Errorf("register field: entity type is required")
	}
	if c.Field == "" {
		return c, fmt.Errorf("register field %s: field name is required", c.EntityType)
	}

	c.Field = AssociationName(c.Field)
	if c.From == "" {
		c.From = c.Field
	}
	if c.Size == 0 {
		c.Size = models.DefaultSize
	}
	if c.Size < 1 && !c.Size.Unlimited() {
		return c, fmt.Errorf("register field %s.%s: invalid size %d", c.EntityType, c.Field, int(c.Size))
	}
	if c.Separator == "" {
		c.Separator = models.DefaultSeparator
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	byField, ok := r.entries[c.EntityType]
	if !ok {
		byField = make(map[string]models.Categorization)
		r.entries[c.EntityType] = byField
	}
	if _, dup := byField[c.Field]; dup {
		return c, fmt.Errorf("register field %s.%s: already registered", c.EntityType, c.Field)
	}
	byField[c.Field] = c
	return c, nil
}

// Lookup returns the descriptor for a field given in singular or plural form.
func (r *Registry) Lookup(entityType, field string) (models.Categorization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byField := r.entries[entityType]
	if c, ok := byField[field]; ok {
		return c, nil
	}
	if c, ok := byField[AssociationName(field)]; ok {
		return c, nil
	}
	return models.Categorization{}, models.NotFound("no categorized field %q on %q", field, entityType)
}

// Fields lists the descriptors of an entity type ordered by field name.
func (r *Registry) Fields(entityType string) []models.Categorization {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Categorization, 0, len(r.entries[entityType]))
	for _, c := range r.entries[entityType] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// EntityTypes lists every entity type with at least one categorized field.
func (r *Registry) EntityTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// AssociationName returns the plural form under which a field's relations
// are stored.
func AssociationName(field string) string {
	return inflect.Pluralize(field)
}
