package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/startupcopilot/copilot/internal/api/ctxkeys"
)

func TestOwnerMiddleware_InjectsOwnerID(t *testing.T) {
	t.Parallel()

	var gotOwner string
	handler := OwnerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner, _ = r.Context().Value(ctxkeys.OwnerID).(string)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set(OwnerHeader, "owner-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if gotOwner != "owner-42" {
		t.Errorf("owner in context = %q; want owner-42", gotOwner)
	}
}

func TestOwnerMiddleware_MissingHeader(t *testing.T) {
	t.Parallel()

	called := false
	handler := OwnerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401", rec.Code)
	}
	if called {
		t.Error("next handler called despite missing owner header")
	}
}

func TestOwnerMiddleware_BlankHeader(t *testing.T) {
	t.Parallel()

	handler := OwnerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil)
	req.Header.Set(OwnerHeader, "   ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401 for blank header", rec.Code)
	}
}
