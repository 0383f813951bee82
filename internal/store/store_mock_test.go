// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"taxonomy/internal/models"
	"taxonomy/internal/taxonomy"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return New(db), mock
}

var setCols = []string{"id", "name", "key", "is_editable", "created_at", "updated_at"}

var categoryCols = []string{
	"id", "category_set_id", "name", "name_key", "description", "locale", "created_at", "updated_at",
}

func TestCreateSetDuplicate(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO category_sets`).
		WithArgs("Tags", "tags", true).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := s.CreateSet(context.Background(), &models.CategorySet{Name: "Tags", Key: "tags", IsEditable: true})
	if !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("got %v, want ErrDuplicate", err)
	}
}

func TestCreateSetOtherError(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO category_sets`).WillReturnError(errors.New("connection reset"))

	_, err := s.CreateSet(context.Background(), &models.CategorySet{Name: "Tags", Key: "tags"})
	if err == nil || errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("got %v, want a wrapped non-duplicate error", err)
	}
}

func TestFindSetByKeyNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(`FROM category_sets WHERE key = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(setCols))

	set, err := s.FindSetByKey(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindSetByKey: %v", err)
	}
	if set != nil {
		t.Errorf("got %+v, want nil", set)
	}
}

func TestFindSetByKey(t *testing.T) {
	s, mock := newMock(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM category_sets WHERE key = \$1`).
		WithArgs("tags").
		WillReturnRows(sqlmock.NewRows(setCols).AddRow(id.String(), "Tags", "tags", true, now, now))

	set, err := s.FindSetByKey(context.Background(), "tags")
	if err != nil {
		t.Fatalf("FindSetByKey: %v", err)
	}
	if set == nil || set.ID != id || !set.IsEditable {
		t.Errorf("got %+v", set)
	}
}

func TestFilterSetsNoFilters(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()

	// No WHERE clause at all when nothing filters.
	mock.ExpectQuery(`^SELECT id, name, key, is_editable, created_at, updated_at FROM category_sets ORDER BY name$`).
		WillReturnRows(sqlmock.NewRows(setCols).
			AddRow(uuid.NewString(), "Cities", "cities", false, now, now).
			AddRow(uuid.NewString(), "Tags", "tags", true, now, now))

	sets, err := s.FilterSets(context.Background(), models.Filters{"unknown": "x"})
	if err != nil {
		t.Fatalf("FilterSets: %v", err)
	}
	if len(sets) != 2 {
		t.Errorf("got %d sets, want 2", len(sets))
	}
}

func TestFilterSetsText(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(`WHERE \(upper\(name\) LIKE upper\(\$1\)\)`).
		WithArgs("%ta%").
		WillReturnRows(sqlmock.NewRows(setCols))

	sets, err := s.FilterSets(context.Background(), models.Filters{"text": "ta"})
	if err != nil {
		t.Fatalf("FilterSets: %v", err)
	}
	if sets == nil || len(sets) != 0 {
		t.Errorf("got %v, want empty non-nil slice", sets)
	}
}

func TestFilterCategoriesInvalidSetID(t *testing.T) {
	s, _ := newMock(t)

	_, err := s.FilterCategories(context.Background(), models.Filters{"category_set_id": "nope"})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestFilterCategoriesCombined(t *testing.T) {
	s, mock := newMock(t)
	setID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`WHERE \(category_set_id = \$1 AND locale = \$2 AND upper\(name\) LIKE upper\(\$3\)\) ORDER BY name, locale`).
		WithArgs(setID.String(), "fr", "%ur%").
		WillReturnRows(sqlmock.NewRows(categoryCols).
			AddRow(uuid.NewString(), setID.String(), "Urbain", "urbain", "", "fr", now, now))

	cats, err := s.FilterCategories(context.Background(), models.Filters{
		"categorySetId": setID.String(),
		"locale":        "fr",
		"text":          "ur",
	})
	if err != nil {
		t.Fatalf("FilterCategories: %v", err)
	}
	if len(cats) != 1 || cats[0].CategorySetID != setID || cats[0].Locale != "fr" {
		t.Errorf("got %+v", cats)
	}
}

func TestNextPositionEmpty(t *testing.T) {
	s, mock := newMock(t)
	ref := models.EntityRef{Type: "article", ID: "1"}

	mock.ExpectQuery(`SELECT MAX\(position\) FROM category_relations`).
		WithArgs("article", "1", "tags").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	pos, err := s.NextPosition(context.Background(), ref, "tags")
	if err != nil {
		t.Fatalf("NextPosition: %v", err)
	}
	if pos != 0 {
		t.Errorf("got %d, want 0", pos)
	}
}

func TestNextPosition(t *testing.T) {
	s, mock := newMock(t)
	ref := models.EntityRef{Type: "article", ID: "1"}

	mock.ExpectQuery(`SELECT MAX\(position\) FROM category_relations`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(3)))

	pos, err := s.NextPosition(context.Background(), ref, "tags")
	if err != nil {
		t.Fatalf("NextPosition: %v", err)
	}
	if pos != 4 {
		t.Errorf("got %d, want 4", pos)
	}
}

func TestCreateRelationDuplicate(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO category_relations`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := s.CreateRelation(context.Background(), &models.CategoryRelation{
		Entity:     models.EntityRef{Type: "article", ID: "1"},
		CategoryID: uuid.New(),
		FieldName:  "tags",
	})
	if !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("got %v, want ErrDuplicate", err)
	}
}

func TestDeleteRelationReportsExistence(t *testing.T) {
	s, mock := newMock(t)
	ref := models.EntityRef{Type: "article", ID: "1"}
	catID := uuid.New()

	mock.ExpectExec(`DELETE FROM category_relations`).
		WithArgs("article", "1", "tags", catID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM category_relations`).
		WithArgs("article", "1", "tags", catID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.DeleteRelation(context.Background(), ref, "tags", catID)
	if err != nil || !ok {
		t.Errorf("first delete: ok=%v err=%v", ok, err)
	}
	ok, err = s.DeleteRelation(context.Background(), ref, "tags", catID)
	if err != nil || ok {
		t.Errorf("second delete: ok=%v err=%v", ok, err)
	}
}

func TestLockField(t *testing.T) {
	s, mock := newMock(t)
	ref := models.EntityRef{Type: "article", ID: "1"}

	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs("article\x001\x00tags").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`pg_advisory_xact_lock`).
		WillReturnError(errors.New("connection reset"))

	if err := s.LockField(context.Background(), ref, "tags"); err != nil {
		t.Fatalf("LockField: %v", err)
	}
	if err := s.LockField(context.Background(), ref, "tags"); err == nil || !strings.Contains(err.Error(), "lock entity field") {
		t.Errorf("got %v, want wrapped lock error", err)
	}
}

func TestDeleteRelationsWrapRowsAffected(t *testing.T) {
	s, mock := newMock(t)
	ref := models.EntityRef{Type: "article", ID: "1"}
	broken := errors.New("driver lost the count")

	mock.ExpectExec(`DELETE FROM category_relations`).
		WithArgs("article", "1", "tags").
		WillReturnResult(sqlmock.NewErrorResult(broken))
	mock.ExpectExec(`DELETE FROM category_relations`).
		WithArgs("article", "1").
		WillReturnResult(sqlmock.NewErrorResult(broken))

	_, err := s.DeleteFieldRelations(context.Background(), ref, "tags")
	if !errors.Is(err, broken) || !strings.HasPrefix(err.Error(), "delete field relations: ") {
		t.Errorf("DeleteFieldRelations: got %v", err)
	}
	_, err = s.DeleteEntityRelations(context.Background(), ref)
	if !errors.Is(err, broken) || !strings.HasPrefix(err.Error(), "delete entity relations: ") {
		t.Errorf("DeleteEntityRelations: got %v", err)
	}
}

func TestEntityIDsWithCategories(t *testing.T) {
	s, mock := newMock(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT DISTINCT related_object_id FROM category_relations WHERE .*category_id IN \(\$1,\$2\)`).
		WillReturnRows(sqlmock.NewRows([]string{"related_object_id"}).AddRow("1").AddRow("7"))

	ids, err := s.EntityIDsWithCategories(context.Background(), "article", "tags", []uuid.UUID{a, b})
	if err != nil {
		t.Fatalf("EntityIDsWithCategories: %v", err)
	}
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "7" {
		t.Errorf("got %v, want [1 7]", ids)
	}
}

func TestAtomicCommit(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE category_sets SET is_editable`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Atomic(context.Background(), func(repo taxonomy.Repository) error {
		// A nested Atomic joins the outer transaction.
		return repo.Atomic(context.Background(), func(inner taxonomy.Repository) error {
			return inner.UpdateSetEditable(context.Background(), uuid.New(), false)
		})
	})
	if err != nil {
		t.Fatalf("Atomic: %v", err)
	}
}

func TestAtomicRollback(t *testing.T) {
	s, mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.Atomic(context.Background(), func(taxonomy.Repository) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
}
