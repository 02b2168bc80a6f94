package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flemzord/rtmtail/internal/cron"
)

type fakeStatus struct {
	stats     cron.Stats
	streaming bool
}

func (f *fakeStatus) Stats() cron.Stats { return f.stats }
func (f *fakeStatus) Streaming() bool   { return f.streaming }

func testRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "rtmtail_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Add(3)
	return reg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     StatusSource
		wantCode   int
		wantStatus string
		wantDir    int
	}{
		{"streaming", &fakeStatus{stats: cron.Stats{Directory: 7, Processed: 3}, streaming: true}, http.StatusOK, "ok", 7},
		{"starting", &fakeStatus{}, http.StatusServiceUnavailable, "starting", 0},
		{"no source", nil, http.StatusServiceUnavailable, "starting", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New(Config{}, nil, tt.status, quietLogger())

			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rr.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rr.Code, tt.wantCode)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatus || resp.Directory != tt.wantDir {
				t.Errorf("resp = %+v", resp)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	s := New(Config{}, testRegistry(t), &fakeStatus{}, quietLogger())
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("code = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "rtmtail_test_total 3") {
		t.Errorf("metrics body missing counter:\n%s", rr.Body.String())
	}
}

func TestMetrics_NotMountedWithoutRegistry(t *testing.T) {
	t.Parallel()

	s := New(Config{}, nil, nil, quietLogger())
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rr.Code)
	}
}

func TestMetrics_BearerAuth(t *testing.T) {
	t.Parallel()

	s := New(Config{BearerToken: "scrape-token"}, testRegistry(t), nil, quietLogger())
	h := s.Handler()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "Bearer nope", http.StatusUnauthorized},
		{"basic scheme", "Basic c2NyYXBlLXRva2Vu", http.StatusUnauthorized},
		{"valid", "Bearer scrape-token", http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tt.want {
			t.Errorf("%s: code = %d, want %d", tt.name, rr.Code, tt.want)
		}
	}

	// Health stays public.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code == http.StatusUnauthorized {
		t.Error("/health should not require auth")
	}
}

func TestServer_StartStop(t *testing.T) {
	t.Parallel()

	s := New(Config{Listen: "127.0.0.1:0"}, testRegistry(t), &fakeStatus{streaming: true}, quietLogger())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestServer_StopWithoutStart(t *testing.T) {
	t.Parallel()

	s := New(Config{}, nil, nil, nil)
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
}
