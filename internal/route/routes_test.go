package route

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"overspeed/internal/config"
	"overspeed/internal/logger"
	"overspeed/internal/metrics"
	"overspeed/internal/service"
	"overspeed/internal/service/ai"
	"overspeed/internal/service/camera"
	wshub "overspeed/internal/service/websocket"
)

func newTestRouter(t *testing.T, password string) http.Handler {
	t.Helper()
	l, err := logger.New(t.TempDir(), nil, nil)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(l.Close)

	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>index</h1>"), 0644); err != nil {
		t.Fatalf("Failed to write index: %v", err)
	}
	if err := os.WriteFile(filepath.Join(staticDir, "login.html"), []byte("<h1>login</h1>"), 0644); err != nil {
		t.Fatalf("Failed to write login: %v", err)
	}

	cfg := &config.Config{
		Password:        password,
		StaticDirectory: staticDir,
		FrameWidth:      320,
		FrameHeight:     240,
		TickInterval:    time.Hour,
		PreviewInterval: 10 * time.Millisecond,
		JPEGQuality:     75,
		SpeedLimit:      50,
		ViolationLimit:  10,
	}
	m := metrics.New()
	hub := wshub.NewHubService(l)
	mng := service.NewManager(cfg, camera.SyntheticOpener{}, ai.NewRandomSource(1), hub, m, l)
	t.Cleanup(mng.Close)

	return SetupRoutes(mng, hub, m, cfg, l)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSetupRoutes(t *testing.T) {
	h := newTestRouter(t, "")

	tests := []struct {
		path     string
		expected int
		contains string
	}{
		{"/", http.StatusOK, "index"},
		{"/login", http.StatusOK, "login"},
		{"/missing", http.StatusNotFound, ""},
		{"/api/state", http.StatusOK, `"speedLimit":50`},
		{"/metrics", http.StatusOK, "overspeed_speed_limit 50"},
		{"/logs/info", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(h, tt.path)
			if rec.Code != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, rec.Code)
			}
			if tt.contains != "" && !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("Expected body to contain %q, got %q", tt.contains, rec.Body.String())
			}
		})
	}
}

func TestSetupRoutes_IntentsRequirePost(t *testing.T) {
	h := newTestRouter(t, "")

	for _, path := range []string{"/api/camera/toggle", "/api/detection/toggle", "/api/settings/speed-limit", "/logs/info/clear"} {
		if rec := get(h, path); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s: expected 405, got %d", path, rec.Code)
		}
	}
}

func TestSetupRoutes_AuthEnabled(t *testing.T) {
	h := newTestRouter(t, "secret")

	if rec := get(h, "/"); rec.Code != http.StatusSeeOther {
		t.Errorf("Expected redirect to login, got %d", rec.Code)
	}
	if rec := get(h, "/api/state"); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for API without cookie, got %d", rec.Code)
	}
	if rec := get(h, "/login"); rec.Code != http.StatusOK {
		t.Errorf("Expected login page to be public, got %d", rec.Code)
	}
}
