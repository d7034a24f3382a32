package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"autosales-dashboard/internal/config"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/services"
)

func testServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	data := services.NewDataset([]models.SalesRecord{
		{Year: 1980, Month: "Jan", Recession: 1, VehicleType: "Sedan", AutomobileSales: 10, AdvertisingExpenditure: 100},
	})
	dashboard := services.NewDashboard(data, logger)
	return NewServer(dashboard, logger, &TemplateHandlers{
		Dashboard: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		},
	})
}

func TestServer_Routes(t *testing.T) {
	srv := testServer()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusTeapot},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/admin/stats", http.StatusOK},
		{http.MethodGet, "/api/year-selector?report=Yearly+Statistics", http.StatusOK},
		{http.MethodGet, "/api/charts", http.StatusOK},
		{http.MethodGet, "/api/charts/0/image?report=Recession+Period+Statistics", http.StatusOK},
		{http.MethodGet, "/api/export", http.StatusOK},
		{http.MethodGet, "/sse/year-selector", http.StatusOK},
		{http.MethodGet, "/sse/charts", http.StatusOK},
		{http.MethodGet, "/nonexistent", http.StatusNotFound},
		{http.MethodPost, "/api/charts", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestGracefulServer_RunStopsOnCancel(t *testing.T) {
	cfg := config.Defaults()
	cfg.Server.ShutdownTimeout = 2 * time.Second

	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)

	var hookCalls atomic.Int32
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		hookCalls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if hookCalls.Load() != 1 {
		t.Errorf("expected shutdown hook to run once, ran %d times", hookCalls.Load())
	}
}

func TestGracefulServer_HookError(t *testing.T) {
	cfg := config.Defaults()
	httpServer := &http.Server{Addr: "127.0.0.1:0"}
	gs := NewGracefulServer(httpServer, slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)

	hookErr := errors.New("flush failed")
	gs.RegisterShutdownHook(func(ctx context.Context) error { return hookErr })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := gs.shutdown(ctx); !errors.Is(err, hookErr) {
		t.Errorf("expected hook error, got %v", err)
	}
}
