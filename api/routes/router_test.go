package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	clientsvc "github.com/adolfosa/feria-manager/internal/clients"
	pkgauth "github.com/adolfosa/feria-manager/pkg/auth"
	"github.com/adolfosa/feria-manager/pkg/config"
	"github.com/adolfosa/feria-manager/pkg/db/models"
	"github.com/adolfosa/feria-manager/pkg/metrics"
)

type allowAllChecker struct{}

func (allowAllChecker) HasSession(context.Context, string) (bool, error) { return true, nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10, SessionTTLMinutes: 20},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dsn := "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Client{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	clientService, err := clientsvc.NewService(clientsvc.NewRepository(conn))
	if err != nil {
		t.Fatalf("new client service: %v", err)
	}

	registry := prometheus.NewRegistry()
	return NewRouter(Deps{
		Config:          testConfig(),
		Logger:          nil,
		SessionChecker:  allowAllChecker{},
		Metrics:         metrics.NewHTTPMetrics(registry),
		MetricsGatherer: registry,
		ClientService:   clientService,
	})
}

func TestHealthIsPublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestMetricsIsPublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, target := range []string{"/api/v1/clients/", "/api/v1/products/", "/api/v1/orders/"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", target, rec.Code)
		}
	}
}

func TestAuthedRequestReachesHandler(t *testing.T) {
	router := newTestRouter(t)

	token, err := pkgauth.MintSessionToken(testConfig().JWT, time.Now(), pkgauth.SessionTokenPayload{
		UserID: uuid.New(),
		Email:  "rosa@feria.cl",
		Name:   "Rosa",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}
