package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fixedToken string

func (f fixedToken) Verify(tok string) error {
	if tok != string(f) {
		return errors.New("bad token")
	}
	return nil
}

func TestAdminAuth(t *testing.T) {
	h := AdminAuth(fixedToken("tok"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"nope", http.StatusUnauthorized},
		{"tok", http.StatusNoContent},
		{"Bearer tok", http.StatusNoContent},
		{"bearer tok", http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/history", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tc.want {
			t.Fatalf("header %q: status %d, want %d", tc.header, rr.Code, tc.want)
		}
		if tc.want == http.StatusUnauthorized {
			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			_ = json.NewDecoder(rr.Body).Decode(&body)
			if body.Success || body.Message != "Unauthorized access" {
				t.Fatalf("unexpected body %+v", body)
			}
		}
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get("X-Request-Id") != seen {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rr.Header().Get("X-Request-Id"))
	}
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestTokenBucket(t *testing.T) {
	now := time.Now()
	tb := &tokenBucket{tokens: 2, last: now, rate: 2, burst: 2}
	if !tb.allow(now) || !tb.allow(now) {
		t.Fatal("burst should be allowed")
	}
	if tb.allow(now) {
		t.Fatal("bucket should be empty")
	}
	if !tb.allow(now.Add(600 * time.Millisecond)) {
		t.Fatal("bucket should refill")
	}
}
