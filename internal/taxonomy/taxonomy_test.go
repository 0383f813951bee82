// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"taxonomy/internal/fields"
	"taxonomy/internal/models"
	"taxonomy/internal/store/memstore"
	"taxonomy/internal/taxonomy"
)

const testFields = `
entities:
  article:
    tag:
      size: many
      separator: ","
    city: {}
    genre:
      size: 2
    topic:
      from: tags
      size: 3
`

var article = models.EntityRef{Type: "article", ID: "1"}

// fixture is a service over a fresh in-memory store with the editable
// "tags" and "genres" sets and the non-editable "cities" set.
type fixture struct {
	store  *memstore.Store
	svc    *taxonomy.Service
	tags   *models.CategorySet
	genres *models.CategorySet
	cities *models.CategorySet
}

func newFixture(t *testing.T, opts ...taxonomy.Option) *fixture {
	t.Helper()

	reg, err := fields.Load(strings.NewReader(testFields))
	if err != nil {
		t.Fatalf("fields.Load: %v", err)
	}
	st := memstore.New()
	f := &fixture{store: st, svc: taxonomy.New(st, reg, opts...)}

	ctx := context.Background()
	if f.tags, err = f.svc.CreateSet(ctx, "Tags", "tags", true); err != nil {
		t.Fatalf("CreateSet tags: %v", err)
	}
	if f.genres, err = f.svc.CreateSet(ctx, "Genres", "genres", true); err != nil {
		t.Fatalf("CreateSet genres: %v", err)
	}
	if f.cities, err = f.svc.CreateSet(ctx, "Cities", "cities", false); err != nil {
		t.Fatalf("CreateSet cities: %v", err)
	}
	return f
}

func (f *fixture) category(t *testing.T, set *models.CategorySet, name, locale string) *models.Category {
	t.Helper()
	c, err := f.svc.CreateCategory(context.Background(), set, name, "", locale)
	if err != nil {
		t.Fatalf("CreateCategory(%q, %q): %v", name, locale, err)
	}
	return c
}

func names(cats []models.Category) string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return strings.Join(out, ",")
}

func expectKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want %v", err, kind)
	}
}

// fakeCache records cache traffic for a single process.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]models.Category
	hits        int
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]models.Category)}
}

func (c *fakeCache) key(setID uuid.UUID, locale string) string {
	return setID.String() + ":" + locale
}

func (c *fakeCache) Categories(_ context.Context, setID uuid.UUID, locale string) ([]models.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cats, ok := c.entries[c.key(setID, locale)]
	if ok {
		c.hits++
	}
	return cats, ok
}

func (c *fakeCache) StoreCategories(_ context.Context, setID uuid.UUID, locale string, cats []models.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(setID, locale)] = cats
}

func (c *fakeCache) InvalidateSet(_ context.Context, setID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := setID.String() + ":"
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.invalidated = append(c.invalidated, setID)
}
