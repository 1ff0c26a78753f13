package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/app"
	"github.com/spec-kit/staff-registry/internal/config"
	"github.com/spec-kit/staff-registry/internal/observability"
	"github.com/spec-kit/staff-registry/internal/repository/memory"
	"github.com/spec-kit/staff-registry/internal/service"
)

const (
	testAPIKey   = "test-api-key"
	testPassword = "correct horse"
)

type server struct {
	app   *fiber.App
	store *memory.Store
}

func newServer(t *testing.T, today string) *server {
	t.Helper()
	day, err := time.Parse("2006-01-02", today)
	require.NoError(t, err)

	cfg := config.Config{
		App:   config.AppConfig{Name: "staff-registry", Version: "test", RequestTimeoutSeconds: 5},
		Auth:  config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4},
		Admin: config.AdminConfig{Password: testPassword, APIKey: testAPIKey},
	}
	store := memory.NewStore()
	metrics := observability.NewMetrics()
	services := app.NewServices(app.MemoryStores(store), service.FixedClock(day), zap.NewNop(), metrics)

	fiberApp, err := app.NewHTTPApp(app.HTTPDependencies{
		Config:   cfg,
		Services: services,
		Logger:   zap.NewNop(),
		Metrics:  metrics,
	})
	require.NoError(t, err)
	return &server{app: fiberApp, store: store}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) json(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.body, &out), string(r.body))
	return out
}

func (r response) data(t *testing.T) map[string]any {
	t.Helper()
	return r.json(t)["data"].(map[string]any)
}

func (r response) errorCode(t *testing.T) string {
	t.Helper()
	return r.json(t)["error"].(map[string]any)["code"].(string)
}

func (s *server) do(t *testing.T, method, path string, body any, headers map[string]string) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: raw}
}

// admin calls an admin route with the API key.
func (s *server) admin(t *testing.T, method, path string, body any) response {
	t.Helper()
	return s.do(t, method, path, body, map[string]string{"X-API-Key": testAPIKey})
}

func (s *server) createStaff(t *testing.T, given, family, mobile, role, location string) string {
	t.Helper()
	resp := s.admin(t, fiber.MethodPost, "/admin/staff", map[string]any{
		"given_name":    given,
		"family_name":   family,
		"mobile":        mobile,
		"start_date":    "2024-01-01",
		"role_code":     role,
		"location_code": location,
	})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.body))
	return resp.data(t)["staff"].(map[string]any)["id"].(string)
}
