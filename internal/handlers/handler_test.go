// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the API tests.
// The service runs on the in-memory store, so no database is needed.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taxonomy/internal/fields"
	"taxonomy/internal/handlers"
	"taxonomy/internal/router"
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
`

// testEnv holds the dependencies of an API test.
type testEnv struct {
	Store   *memstore.Store
	Service *taxonomy.Service
	Handler http.Handler
}

// newTestEnv builds the full router over a fresh store holding the
// editable "tags" and "genres" sets and the non-editable "cities" set.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	reg, err := fields.Load(strings.NewReader(testFields))
	if err != nil {
		t.Fatalf("fields.Load: %v", err)
	}
	st := memstore.New()
	svc := taxonomy.New(st, reg)

	ctx := context.Background()
	for _, s := range []struct {
		name, key string
		editable  bool
	}{
		{"Tags", "tags", true},
		{"Genres", "genres", true},
		{"Cities", "cities", false},
	} {
		if _, err := svc.CreateSet(ctx, s.name, s.key, s.editable); err != nil {
			t.Fatalf("CreateSet %s: %v", s.key, err)
		}
	}

	return &testEnv{
		Store:   st,
		Service: svc,
		Handler: router.New(handlers.NewAPI(svc, reg), ""),
	}
}

// do sends a request with an optional JSON body and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.Handler.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a response body into v.
func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

// expectStatus fails the test when the response status differs.
func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}

// expectKind checks the error kind of a failed response.
func expectKind(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	var body struct {
		Kind string `json:"kind"`
	}
	decode(t, rr, &body)
	if body.Kind != want {
		t.Errorf("kind: got %q, want %q", body.Kind, want)
	}
}

type categoryJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

type fieldJSON struct {
	Field      string         `json:"field"`
	Size       string         `json:"size"`
	Full       bool           `json:"full"`
	Categories []categoryJSON `json:"categories"`
	Category   *categoryJSON  `json:"category"`
}

func names(cats []categoryJSON) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return out
}
