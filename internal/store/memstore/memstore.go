// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memstore is an in-memory implementation of the taxonomy
// repository. It backs development runs without PostgreSQL and the service
// and handler tests. Atomic snapshots the whole state and restores it when
// the callback fails.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taxonomy/internal/models"
	"taxonomy/internal/normalize"
	"taxonomy/internal/taxonomy"
)

// Store guards a state with a mutex. Each call is serialized.
type Store struct {
	mu sync.Mutex
	st *state
}

// New returns an empty store.
func New() *Store {
	return &Store{st: newState()}
}

type relationKey struct {
	entity     models.EntityRef
	categoryID uuid.UUID
	field      string
}

type state struct {
	sets       map[uuid.UUID]models.CategorySet
	categories map[uuid.UUID]models.Category
	relations  map[relationKey]models.CategoryRelation

	// order records category insertion so "oldest first" is stable
	// even when timestamps tie.
	order map[uuid.UUID]int64
	seq   int64
}

func newState() *state {
	return &state{
		sets:       make(map[uuid.UUID]models.CategorySet),
		categories: make(map[uuid.UUID]models.Category),
		relations:  make(map[relationKey]models.CategoryRelation),
		order:      make(map[uuid.UUID]int64),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.sets {
		c.sets[k] = v
	}
	for k, v := range st.categories {
		c.categories[k] = v
	}
	for k, v := range st.relations {
		c.relations[k] = v
	}
	for k, v := range st.order {
		c.order[k] = v
	}
	c.seq = st.seq
	return c
}

// tx is the repository handed to Atomic callbacks. The store lock is
// already held, so it talks to the state directly.
type tx struct {
	*state
}

func (t tx) Atomic(ctx context.Context, fn func(repo taxonomy.Repository) error) error {
	return fn(t)
}

// Atomic runs fn against a snapshot-protected view of the store.
func (s *Store) Atomic(ctx context.Context, fn func(repo taxonomy.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(tx{s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Counts returns the number of sets, categories and relations held.
func (s *Store) Counts() (sets, categories, relations int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.sets), len(s.st.categories), len(s.st.relations)
}

// --- category sets ---

func (st *state) CreateSet(_ context.Context, set *models.CategorySet) (*models.CategorySet, error) {
	for _, existing := range st.sets {
		if existing.Key == set.Key {
			return nil, models.Duplicate("key", "category set %q already exists", set.Key)
		}
	}
	now := time.Now()
	out := *set
	out.ID = uuid.New()
	out.CreatedAt, out.UpdatedAt = now, now
	st.sets[out.ID] = out
	return &out, nil
}

func (st *state) FindSetByID(_ context.Context, id uuid.UUID) (*models.CategorySet, error) {
	set, ok := st.sets[id]
	if !ok {
		return nil, nil
	}
	return &set, nil
}

func (st *state) FindSetByKey(_ context.Context, key string) (*models.CategorySet, error) {
	for _, set := range st.sets {
		if set.Key == key {
			return &set, nil
		}
	}
	return nil, nil
}

func (st *state) UpdateSetEditable(_ context.Context, id uuid.UUID, editable bool) error {
	set, ok := st.sets[id]
	if !ok {
		return nil
	}
	set.IsEditable = editable
	set.UpdatedAt = time.Now()
	st.sets[id] = set
	return nil
}

func (st *state) DeleteSet(ctx context.Context, id uuid.UUID) error {
	for catID, c := range st.categories {
		if c.CategorySetID == id {
			st.DeleteCategory(ctx, catID)
		}
	}
	delete(st.sets, id)
	return nil
}

func (st *state) FilterSets(_ context.Context, filters models.Filters) ([]models.CategorySet, error) {
	preds, err := setPredicates(filters)
	if err != nil {
		return nil, err
	}
	out := []models.CategorySet{}
	for _, set := range st.sets {
		if matchAll(preds, set) {
			out = append(out, set)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- categories ---

func (st *state) CreateCategory(_ context.Context, c *models.Category) (*models.Category, error) {
	key := c.NameKey
	if key == "" {
		key = normalize.Key(c.Name)
	}
	for _, existing := range st.categories {
		if existing.CategorySetID == c.CategorySetID && existing.NameKey == key && existing.Locale == c.Locale {
			return nil, models.Duplicate("name", "category %q already exists", c.Name)
		}
	}
	now := time.Now()
	out := *c
	out.ID = uuid.New()
	out.NameKey = key
	out.CreatedAt, out.UpdatedAt = now, now
	st.categories[out.ID] = out
	st.seq++
	st.order[out.ID] = st.seq
	return &out, nil
}

func (st *state) FindCategoryByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := st.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (st *state) FindCategoriesByKey(_ context.Context, setID uuid.UUID, nameKey string) ([]models.Category, error) {
	var out []models.Category
	for _, c := range st.categories {
		if c.CategorySetID == setID && c.NameKey == nameKey {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return st.order[out[i].ID] < st.order[out[j].ID] })
	return out, nil
}

func (st *state) ListCategories(_ context.Context, setID uuid.UUID, locale string) ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range st.categories {
		if c.CategorySetID != setID {
			continue
		}
		if locale != "" && c.Locale != "" && c.Locale != locale {
			continue
		}
		out = append(out, c)
	}
	sortCategories(out)
	return out, nil
}

func (st *state) DeleteCategory(_ context.Context, id uuid.UUID) error {
	for k := range st.relations {
		if k.categoryID == id {
			delete(st.relations, k)
		}
	}
	delete(st.categories, id)
	delete(st.order, id)
	return nil
}

func (st *state) FilterCategories(_ context.Context, filters models.Filters) ([]models.Category, error) {
	preds, err := categoryPredicates(filters)
	if err != nil {
		return nil, err
	}
	out := []models.Category{}
	for _, c := range st.categories {
		if matchAll(preds, c) {
			out = append(out, c)
		}
	}
	sortCategories(out)
	return out, nil
}

func sortCategories(cats []models.Category) {
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Name != cats[j].Name {
			return cats[i].Name < cats[j].Name
		}
		return cats[i].Locale < cats[j].Locale
	})
}

// --- relations ---

func (st *state) fieldRelations(ref models.EntityRef, field string) []models.CategoryRelation {
	var out []models.CategoryRelation
	for k, rel := range st.relations {
		if k.entity == ref && k.field == field {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (st *state) FieldCategories(_ context.Context, ref models.EntityRef, field string) ([]models.Category, error) {
	out := []models.Category{}
	for _, rel := range st.fieldRelations(ref, field) {
		if c, ok := st.categories[rel.CategoryID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// LockField is a no-op: the store mutex already serializes writers.
func (st *state) LockField(context.Context, models.EntityRef, string) error {
	return nil
}

func (st *state) NextPosition(_ context.Context, ref models.EntityRef, field string) (int, error) {
	rels := st.fieldRelations(ref, field)
	if len(rels) == 0 {
		return 0, nil
	}
	return rels[len(rels)-1].Position + 1, nil
}

func (st *state) CreateRelation(_ context.Context, rel *models.CategoryRelation) (*models.CategoryRelation, error) {
	k := relationKey{entity: rel.Entity, categoryID: rel.CategoryID, field: rel.FieldName}
	if _, dup := st.relations[k]; dup {
		return nil, models.Duplicate("category_id", "category already assigned to %s", rel.FieldName)
	}
	if _, ok := st.categories[rel.CategoryID]; !ok {
		return nil, models.NotFound("category %s not found", rel.CategoryID)
	}
	out := *rel
	out.ID = uuid.New()
	out.CreatedAt = time.Now()
	st.relations[k] = out
	return &out, nil
}

func (st *state) DeleteRelation(_ context.Context, ref models.EntityRef, field string, categoryID uuid.UUID) (bool, error) {
	k := relationKey{entity: ref, categoryID: categoryID, field: field}
	if _, ok := st.relations[k]; !ok {
		return false, nil
	}
	delete(st.relations, k)
	return true, nil
}

func (st *state) DeleteFieldRelations(_ context.Context, ref models.EntityRef, field string) (int64, error) {
	var n int64
	for k := range st.relations {
		if k.entity == ref && k.field == field {
			delete(st.relations, k)
			n++
		}
	}
	return n, nil
}

func (st *state) DeleteEntityRelations(_ context.Context, ref models.EntityRef) (int64, error) {
	var n int64
	for k := range st.relations {
		if k.entity == ref {
			delete(st.relations, k)
			n++
		}
	}
	return n, nil
}

func (st *state) EntityIDsWithCategories(_ context.Context, entityType, field string, categoryIDs []uuid.UUID) ([]string, error) {
	wanted := make(map[uuid.UUID]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = true
	}
	seen := make(map[string]bool)
	out := []string{}
	for k := range st.relations {
		if k.entity.Type != entityType || k.field != field || !wanted[k.categoryID] || seen[k.entity.ID] {
			continue
		}
		seen[k.entity.ID] = true
		out = append(out, k.entity.ID)
	}
	sort.Strings(out)
	return out, nil
}
