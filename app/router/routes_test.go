package router

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/mushola/app/handlers"
	"github.com/amirphl/mushola/app/services"
	businessflow "github.com/amirphl/mushola/business_flow"
	"github.com/amirphl/mushola/config"
	"github.com/amirphl/mushola/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BodyLimit:    60 * 1024 * 1024,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
		Security: config.SecurityConfig{
			AllowedOrigins:  []string{"*"},
			AllowedMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:  []string{"Content-Type", "X-Request-ID"},
			CORSMaxAge:      utils.CORSMaxAge,
			GlobalRateLimit: 1000,
			UploadRateLimit: 1000,
			RateLimitWindow: time.Minute,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Upload: config.UploadConfig{
			MaxFileSize:  utils.MaxUploadSize,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/gif"},
		},
		Content:    config.ContentConfig{AudioPath: "/audio"},
		Deployment: config.DeploymentConfig{Environment: env, Version: "test"},
	}
}

func newTestRouter(cfg *config.Config, probes HealthProbes) *fiber.App {
	uploadFlow := businessflow.NewUploadFlow(services.NewMockPinningProvider(), nil, cfg.Upload, utils.FilebaseGatewayURL)
	chunkFlow := businessflow.NewChunkUploadFlow(nil, nil, utils.FilebaseGatewayURL)
	contentFlow := businessflow.NewContentFlow(cfg.Content)

	r := NewFiberRouter(
		cfg,
		handlers.NewUploadHandler(uploadFlow, chunkFlow, cfg.IsProduction(), 5*time.Second),
		handlers.NewContentHandler(contentFlow, cfg.IsProduction()),
		probes,
		io.Discard,
	)
	r.SetupRoutes()
	return r.GetApp()
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestContentRouteHeaders(t *testing.T) {
	app := newTestRouter(testConfig(utils.EnvProduction), HealthProbes{})

	req := httptest.NewRequest(http.MethodGet, "/api/adzan", nil)
	req.Header.Set("Origin", "https://somewhere.example")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, utils.ContentCacheControl, resp.Header.Get("Cache-Control"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestUploadPreflight(t *testing.T) {
	app := newTestRouter(testConfig(utils.EnvProduction), HealthProbes{})

	for _, path := range []string{"/api/upload", "/api/upload/chunk"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://somewhere.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")

		resp, err := app.Test(req)
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode, path)
		assert.Empty(t, raw)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	}
}

func TestHealthCheck(t *testing.T) {
	t.Run("optional services disabled", func(t *testing.T) {
		app := newTestRouter(testConfig(utils.EnvProduction), HealthProbes{})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data := decode(t, resp)["data"].(map[string]any)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "disabled", data["cache"])
		assert.Equal(t, "disabled", data["database"])
	})

	t.Run("cache down", func(t *testing.T) {
		probes := HealthProbes{
			Cache:    func(ctx context.Context) error { return errors.New("connection refused") },
			Database: func(ctx context.Context) error { return nil },
		}
		app := newTestRouter(testConfig(utils.EnvProduction), probes)
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		data := decode(t, resp)["data"].(map[string]any)
		assert.Equal(t, "degraded", data["status"])
		assert.Equal(t, "down", data["cache"])
		assert.Equal(t, "up", data["database"])
	})
}

func TestDocsOnlyOutsideProduction(t *testing.T) {
	prod := newTestRouter(testConfig(utils.EnvProduction), HealthProbes{})
	resp, err := prod.Test(httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	dev := newTestRouter(testConfig(utils.EnvDevelopment), HealthProbes{})
	resp, err = dev.Test(httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, true, body["success"])

	resp, err = dev.Test(httptest.NewRequest(http.MethodGet, "/api/swagger.json", nil))
	require.NoError(t, err)
	swagger := decode(t, resp)
	paths := swagger["paths"].(map[string]any)
	assert.Contains(t, paths, "/api/upload")
	assert.Contains(t, paths, "/api/upload/chunk")
}

func TestNotFound(t *testing.T) {
	app := newTestRouter(testConfig(utils.EnvProduction), HealthProbes{})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/khutbah", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestRouter(testConfig(utils.EnvProduction), HealthProbes{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/doa", nil))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "http_requests_total")
}

func TestErrorHandlerDetail(t *testing.T) {
	boom := errors.New("disk on fire")

	for _, env := range []string{utils.EnvProduction, utils.EnvDevelopment} {
		r := NewFiberRouter(testConfig(env), nil, nil, HealthProbes{}, io.Discard).(*FiberRouter)
		r.app.Get("/boom", func(c fiber.Ctx) error { return boom })

		resp, err := r.app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		body := decode(t, resp)
		assert.Equal(t, "Internal server error", body["error"])
		if env == utils.EnvProduction {
			assert.NotContains(t, body, "detail")
		} else {
			assert.Equal(t, "disk on fire", body["detail"])
		}
	}
}

func TestErrorHandlerOversizedUpload(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantError  string
		wantCode   any
	}{
		{"upload", "/api/upload", http.StatusBadRequest, "File too large. Maximum size is 50MB.", businessflow.CodeFileTooLarge},
		{"chunk", "/api/upload/chunk", http.StatusBadRequest, "File too large. Maximum size is 50MB.", businessflow.CodeFileTooLarge},
		{"other route", "/api/other", http.StatusRequestEntityTooLarge, "Request Entity Too Large", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFiberRouter(testConfig(utils.EnvProduction), nil, nil, HealthProbes{}, io.Discard).(*FiberRouter)
			r.app.Post(tt.path, func(c fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })

			resp, err := r.app.Test(httptest.NewRequest(http.MethodPost, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decode(t, resp)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

// The server rejects bodies above BodyLimit before any handler runs, so this goes over a real connection.
func TestUploadAboveBodyLimit(t *testing.T) {
	cfg := testConfig(utils.EnvDevelopment)
	cfg.Server.BodyLimit = 4 * 1024
	app := newTestRouter(cfg, HealthProbes{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	defer func() { _ = app.Shutdown() }()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	// Only the headers are sent; the declared length alone exceeds the limit.
	_, err = fmt.Fprintf(conn, "POST /api/upload HTTP/1.1\r\nHost: mushola.example\r\n"+
		"Content-Type: multipart/form-data; boundary=xyz\r\nContent-Length: %d\r\n\r\n", cfg.Server.BodyLimit+1)
	require.NoError(t, err)

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "File too large. Maximum size is 50MB.", body["error"])
	assert.Equal(t, businessflow.CodeFileTooLarge, body["code"])
	assert.Contains(t, body["detail"], "Request Entity Too Large")
}

func TestSwaggerCoversAPIRoutes(t *testing.T) {
	app := newTestRouter(testConfig(utils.EnvDevelopment), HealthProbes{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/swagger.json", nil))
	require.NoError(t, err)
	paths := decode(t, resp)["paths"].(map[string]any)

	undocumented := map[string]bool{healthPath: true, "/api/docs": true, "/api/swagger.json": true}
	for _, route := range app.GetRoutes(true) {
		if !strings.HasPrefix(route.Path, "/api/") || undocumented[route.Path] || route.Method == fiber.MethodHead {
			continue
		}
		ops, ok := paths[route.Path].(map[string]any)
		require.True(t, ok, "path %s is not documented", route.Path)
		assert.Contains(t, ops, strings.ToLower(route.Method), "%s %s is not documented", route.Method, route.Path)
	}
}
