package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type alwaysFail struct{}

func (alwaysFail) Delay() time.Duration  { return 0 }
func (alwaysFail) MaybeFail(OpKind) bool { return true }

func TestFaultsNopPolicyPassesThrough(t *testing.T) {
	called := false
	h := Faults(NopPolicy{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	if !called || rec.Code != http.StatusNoContent {
		t.Fatalf("called=%v code=%d", called, rec.Code)
	}
}

func TestFaultsInjectedFailureSkipsHandler(t *testing.T) {
	called := false
	h := Faults(alwaysFail{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs", nil))
	if called {
		t.Fatal("handler ran despite injected failure")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Server error" {
		t.Fatalf("body = %v", body)
	}
}

func TestRandomPolicyDelayBounds(t *testing.T) {
	p := NewRandomPolicy(10*time.Millisecond, 50*time.Millisecond, 0, 0, 42)
	for i := 0; i < 100; i++ {
		d := p.Delay()
		if d < 10*time.Millisecond || d >= 50*time.Millisecond {
			t.Fatalf("delay %v outside [10ms, 50ms)", d)
		}
	}
}

func TestRandomPolicyRatesPerKind(t *testing.T) {
	p := NewRandomPolicy(0, 0, 0, 1, 7)
	for i := 0; i < 20; i++ {
		if p.MaybeFail(OpRead) {
			t.Fatal("read failed with zero read rate")
		}
		if !p.MaybeFail(OpWrite) {
			t.Fatal("write passed with writeRate=1")
		}
	}
}

func TestFaultsReadWriteClassification(t *testing.T) {
	// Fails writes only; a GET must reach the handler.
	p := NewRandomPolicy(0, 0, 0, 1, 7)
	called := false
	h := Faults(p)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/candidates", nil))
	if !called {
		t.Fatal("GET blocked by write-only failure rate")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/candidates/1", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("PATCH code = %d, want 500", rec.Code)
	}
}
