package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DMarby/cdnstyle/internal/handler"
	"github.com/DMarby/cdnstyle/internal/health"
	"github.com/DMarby/cdnstyle/internal/logger"
	"go.uber.org/zap"

	memoryCache "github.com/DMarby/cdnstyle/internal/cache/memory"
	mockDatabase "github.com/DMarby/cdnstyle/internal/database/mock"
)

func TestHealth(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tests := []struct {
		Name           string
		Checker        *health.Checker
		ExpectedStatus int
		Healthy        bool
	}{
		{"healthy", &health.Checker{Ctx: ctx, Cache: memoryCache.New(0), Log: log}, http.StatusOK, true},
		{"unhealthy", &health.Checker{Ctx: ctx, Database: &mockDatabase.Provider{}, Log: log}, http.StatusInternalServerError, false},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			test.Checker.Run()

			w := httptest.NewRecorder()
			handler.Health(test.Checker).ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

			if w.Code != test.ExpectedStatus {
				t.Errorf("wrong status code %d", w.Code)
			}

			if contentType := w.Header().Get("Content-Type"); contentType != "application/json" {
				t.Errorf("wrong content type %q", contentType)
			}

			var status health.Status
			if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
				t.Fatal(err)
			}

			if status.Healthy != test.Healthy {
				t.Errorf("wrong health status %+v", status)
			}
		})
	}
}
