package adapthttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"storefront/internal/domain"
)

func newObservedServer() (*Server, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return New(Deps{Log: zap.New(core)}), logs
}

func TestLoggingMiddleware(t *testing.T) {
	s, logs := newObservedServer()
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})
	handler := s.loggingMiddleware(nextHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
	}

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "GET" || fields["path"] != "/test-path" || fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("Log output missing expected fields. Got: %v", fields)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	s, logs := newObservedServer()
	handler := s.recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != genericServerError {
		t.Errorf("expected generic message, got %q", body["error"])
	}
	if logs.FilterMessage("panic serving request").Len() != 1 {
		t.Error("expected the panic to be logged")
	}
}

func TestWriteErr_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"bad request", domain.BadRequest("quantity must be between 0 and 100"), http.StatusBadRequest, "quantity must be between 0 and 100"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusForbidden, "invalid username or password"},
		{"bad token", domain.ErrInvalidToken, http.StatusForbidden, "invalid or expired token"},
		{"not found", domain.ErrItemNotFound, http.StatusNotFound, "item not found"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, genericServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, logs := newObservedServer()
			w := httptest.NewRecorder()
			s.writeErr(w, httptest.NewRequest("GET", "/x", nil), tc.err)

			if w.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, w.Code)
			}
			var body map[string]string
			_ = json.NewDecoder(w.Body).Decode(&body)
			if body["error"] != tc.wantMsg {
				t.Errorf("expected %q, got %q", tc.wantMsg, body["error"])
			}

			logged := logs.FilterMessage("request failed").Len()
			if tc.wantStatus == http.StatusInternalServerError && logged != 1 {
				t.Error("internal errors must be logged")
			}
			if tc.wantStatus != http.StatusInternalServerError && logged != 0 {
				t.Error("client errors must not be logged as failures")
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, ok := bearerToken(r)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%q: expected (%q, %v), got (%q, %v)", tc.header, tc.want, tc.ok, got, ok)
		}
	}
}
