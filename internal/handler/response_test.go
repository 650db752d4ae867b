package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/forgo/clanhub/api/internal/model"
)

// ============================================================================
// WriteJSON / WritePage / WriteNoContent
// ============================================================================

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "user:1"})

	if rec.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json content type, got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["id"] != "user:1" {
		t.Errorf("expected id user:1, got %q", body["id"])
	}
}

func TestWriteJSON_NilBody(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, nil)

	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestWritePage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WritePage(rec, &model.PagedResult{Total: 7, Count: 2, Items: []string{"a", "b"}})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var page struct {
		Total int      `json:"total"`
		Count int      `json:"count"`
		Items []string `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if page.Total != 7 || page.Count != 2 || len(page.Items) != 2 {
		t.Errorf("unexpected page envelope: %+v", page)
	}
}

func TestWriteNoContent(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteNoContent(rec)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

// ============================================================================
// DecodeJSON
// ============================================================================

func TestDecodeJSON_StrictMode(t *testing.T) {
	defer SetStrictDecoding(true)

	body := `{"email": "a@b.test", "bogus": true}`

	t.Run("strict rejects unknown fields", func(t *testing.T) {
		SetStrictDecoding(true)
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

		var target struct {
			Email string `json:"email"`
		}
		if err := DecodeJSON(req, &target); err == nil {
			t.Error("expected decode error for unknown field")
		}
	})

	t.Run("lenient ignores unknown fields", func(t *testing.T) {
		SetStrictDecoding(false)
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

		var target struct {
			Email string `json:"email"`
		}
		if err := DecodeJSON(req, &target); err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if target.Email != "a@b.test" {
			t.Errorf("expected email a@b.test, got %q", target.Email)
		}
	})
}

func TestDecodeJSON_MalformedBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))

	var target struct{}
	if err := DecodeJSON(req, &target); err == nil {
		t.Error("expected decode error for malformed JSON")
	}
}

// ============================================================================
// Query Parameter Helpers
// ============================================================================

func TestQueryInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		def  int
		want int
	}{
		{"present", "/?depth=3", 1, 3},
		{"absent", "/", 1, 1},
		{"malformed", "/?depth=abc", 1, 1},
		{"negative", "/?depth=-2", 1, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if got := queryInt(req, "depth", tt.def); got != tt.want {
				t.Errorf("queryInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQueryBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"true", "/?force=true", true},
		{"one", "/?force=1", true},
		{"false", "/?force=false", false},
		{"absent", "/", false},
		{"malformed", "/?force=yes", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if got := queryBool(req, "force"); got != tt.want {
				t.Errorf("queryBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
