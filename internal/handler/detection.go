package handler

import (
	"errors"
	"net/http"

	"overspeed/internal/logger"
	"overspeed/internal/service"
)

// StartDetectionHandler handles POST /api/detection/start.
func StartDetectionHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return detectionIntent(manager, logger, manager.StartDetection)
}

// StopDetectionHandler handles POST /api/detection/stop.
func StopDetectionHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return detectionIntent(manager, logger, func() error {
		manager.StopDetection()
		return nil
	})
}

// ToggleDetectionHandler handles POST /api/detection/toggle.
func ToggleDetectionHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return detectionIntent(manager, logger, manager.ToggleDetection)
}

func detectionIntent(manager *service.Manager, logger *logger.Logger, action func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		if err := action(); err != nil {
			if errors.Is(err, service.ErrNotReady) {
				writeError(w, service.ErrNotReady.Error(), http.StatusConflict)
				return
			}
			logger.Error("Detection request failed: %v", err)
			writeError(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, manager.Snapshot())
	}
}
