package route

import (
	"net/http"
	"os"
	"path/filepath"

	"overspeed/internal/config"
	"overspeed/internal/handler"
	"overspeed/internal/logger"
	"overspeed/internal/metrics"
	"overspeed/internal/middleware"
	"overspeed/internal/service"
	wshub "overspeed/internal/service/websocket"
)

// logFiles maps the /logs/{level} path segment to the logger's file.
var logFiles = map[string]string{
	"info":    logger.InfoFile,
	"warning": logger.WarningFile,
	"error":   logger.ErrorFile,
}

// dynamicHTMLHandler serves /path as <staticDir>/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+path)+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers HTTP routes, static file serving, API endpoints,
// and wraps the mux with the authentication middleware.
func SetupRoutes(manager *service.Manager, hub *wshub.HubService, m *metrics.Metrics,
	cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	// Session state and viewer feeds
	mux.HandleFunc("/api/state", handler.StateHandler(manager))
	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(hub, logger))
	mux.HandleFunc("/api/stream", handler.StreamHandler(manager, cfg.PreviewInterval, logger))

	// Intents
	mux.HandleFunc("/api/camera/start", handler.StartCameraHandler(manager, logger))
	mux.HandleFunc("/api/camera/stop", handler.StopCameraHandler(manager, logger))
	mux.HandleFunc("/api/camera/toggle", handler.ToggleCameraHandler(manager, logger))
	mux.HandleFunc("/api/detection/start", handler.StartDetectionHandler(manager, logger))
	mux.HandleFunc("/api/detection/stop", handler.StopDetectionHandler(manager, logger))
	mux.HandleFunc("/api/detection/toggle", handler.ToggleDetectionHandler(manager, logger))
	mux.HandleFunc("/api/settings/speed-limit", handler.SpeedLimitHandler(manager, logger))

	// Metrics
	mux.Handle("/metrics", m.Handler())

	// Log endpoints
	for level, file := range logFiles {
		mux.HandleFunc("/logs/"+level, handler.ShowLogsHandler(logger, file))
		mux.HandleFunc("/logs/"+level+"/clear", handler.ClearLogsHandler(logger, file))
	}

	// Auth endpoints
	mux.HandleFunc("/auth/login", handler.LoginHandler(cfg, logger))
	mux.HandleFunc("/auth/logout", handler.LogoutHandler)

	// Automatic HTML handler mapping for example: /login -> /static/login.html
	mux.HandleFunc("/", dynamicHTMLHandler(cfg.StaticDirectory))

	// Apply middleware
	return middleware.AuthMiddleware(cfg.Password, mux)
}
