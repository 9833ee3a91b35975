package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avantolog/avanto/pkg/domain"
)

func TestListIceBaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/avanto" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q, want %q", got, "2")
		}
		if got := r.URL.Query().Get("per_page"); got != "5" {
			t.Errorf("per_page = %q, want %q", got, "5")
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"data": []domain.IceBath{
				{ID: 11, Date: "2026-01-15", Location: "Sompasauna"},
				{ID: 10, Date: "2026-01-12", Location: "Kuusijärvi"},
			},
			"meta": domain.PageMeta{CurrentPage: 2, LastPage: 4, PerPage: 5, Total: 17},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	page, err := c.ListIceBaths(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("ListIceBaths() error: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(page.Items))
	}
	if page.Items[0].Location != "Sompasauna" {
		t.Errorf("Items[0].Location = %q, want %q", page.Items[0].Location, "Sompasauna")
	}
	if page.Meta.LastPage != 4 || page.Meta.Total != 17 {
		t.Errorf("Meta = %+v, want LastPage 4, Total 17", page.Meta)
	}
}

func TestListIceBaths_BeyondLastPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"data": []domain.IceBath{},
			"meta": domain.PageMeta{CurrentPage: 99, LastPage: 4, PerPage: 10, Total: 37},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	page, err := c.ListIceBaths(context.Background(), 99, 10)
	if err != nil {
		t.Fatalf("a page past the end must not be an error, got: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("got %d items, want 0", len(page.Items))
	}
	if page.Items == nil {
		t.Error("Items is nil, want empty slice")
	}
}

func TestListIceBaths_MissingMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Older backend shape: bare data, no meta object.
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"data": []domain.IceBath{{ID: 1, Date: "2026-01-02"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	page, err := c.ListIceBaths(context.Background(), 3, 7)
	if err != nil {
		t.Fatalf("ListIceBaths() error: %v", err)
	}
	if page.Meta.CurrentPage != 3 {
		t.Errorf("Meta.CurrentPage = %d, want 3", page.Meta.CurrentPage)
	}
	if page.Meta.LastPage != 1 {
		t.Errorf("Meta.LastPage = %d, want 1", page.Meta.LastPage)
	}
	if page.Meta.PerPage != 7 {
		t.Errorf("Meta.PerPage = %d, want 7", page.Meta.PerPage)
	}
}

func TestListIceBaths_ClampsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("page = %q, want clamp to %q", got, "1")
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []domain.IceBath{}}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	if _, err := c.ListIceBaths(context.Background(), 0, 10); err != nil {
		t.Fatalf("ListIceBaths() error: %v", err)
	}
}

func TestGetIceBath_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	_, err := c.GetIceBath(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(err, ErrNotFound) = false, err = %v", err)
	}
}

func TestCreateIceBath_NullsForEmptyOptionals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		raw := string(body)
		// Unset optionals must go over the wire as explicit null, never 0.
		for _, field := range []string{"water_temperature", "feeling_before", "sauna"} {
			if !strings.Contains(raw, `"`+field+`":null`) {
				t.Errorf("body missing %q:null, body = %s", field, raw)
			}
		}
		if strings.Contains(raw, `"water_temperature":0`) {
			t.Errorf("unset temperature serialized as 0: %s", raw)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.IceBath{ID: 1, Date: "2026-02-01"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	created, err := c.CreateIceBath(context.Background(), CreateIceBathRequest{
		Date:     "2026-02-01",
		Location: "Rastila",
	})
	if err != nil {
		t.Fatalf("CreateIceBath() error: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("created.ID = %d, want 1", created.ID)
	}
}

func TestCreateIceBath_RejectsBadRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("out-of-range payload must not reach the server")
	}))
	defer srv.Close()

	feeling := 11
	c := New(srv.URL, &memTokens{token: "tok"})
	_, err := c.CreateIceBath(context.Background(), CreateIceBathRequest{
		Date:          "2026-02-01",
		FeelingBefore: &feeling,
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, err = %v", err)
	}
}

func TestCreateIceBath_RequiresDate(t *testing.T) {
	c := New("http://unused.invalid", &memTokens{})
	_, err := c.CreateIceBath(context.Background(), CreateIceBathRequest{Location: "Rastila"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, err = %v", err)
	}
}

func TestUpdateIceBath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/v1/avanto/7" {
			t.Errorf("%s %s, want PUT /v1/avanto/7", r.Method, r.URL.Path)
		}
		var req CreateIceBathRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(domain.IceBath{ID: 7, Date: req.Date, Location: req.Location}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	updated, err := c.UpdateIceBath(context.Background(), 7, CreateIceBathRequest{
		Date: "2026-02-02", Location: "Kuusijärvi",
	})
	if err != nil {
		t.Fatalf("UpdateIceBath() error: %v", err)
	}
	if updated.Location != "Kuusijärvi" {
		t.Errorf("Location = %q, want %q", updated.Location, "Kuusijärvi")
	}
}

func TestDeleteIceBath(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	if err := c.DeleteIceBath(context.Background(), 9); err != nil {
		t.Fatalf("DeleteIceBath() error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/v1/avanto/9" {
		t.Errorf("%s %s, want DELETE /v1/avanto/9", gotMethod, gotPath)
	}
}

func TestStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/stats" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"data": domain.Stats{TotalVisits: 12, TotalDuration: 3630},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	stats, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.TotalVisits != 12 {
		t.Errorf("TotalVisits = %d, want 12", stats.TotalVisits)
	}
	if stats.TotalDuration != 3630 {
		t.Errorf("TotalDuration = %d, want 3630", stats.TotalDuration)
	}
}
