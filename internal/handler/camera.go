package handler

import (
	"context"
	"errors"
	"net/http"

	"overspeed/internal/logger"
	"overspeed/internal/service"
	"overspeed/internal/service/camera"
)

// CameraUnavailableMessage is shown to the user when the capture device cannot be acquired.
const CameraUnavailableMessage = "Unable to access camera. Please check permissions."

// StartCameraHandler handles POST /api/camera/start.
func StartCameraHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return cameraIntent(manager, logger, manager.StartCamera)
}

// StopCameraHandler handles POST /api/camera/stop. Stopping the camera also stops detection.
func StopCameraHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return cameraIntent(manager, logger, func(context.Context) error {
		manager.StopCamera()
		return nil
	})
}

// ToggleCameraHandler handles POST /api/camera/toggle.
func ToggleCameraHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return cameraIntent(manager, logger, manager.ToggleCamera)
}

func cameraIntent(manager *service.Manager, logger *logger.Logger, action func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		if err := action(r.Context()); err != nil {
			if errors.Is(err, camera.ErrCaptureUnavailable) {
				writeError(w, CameraUnavailableMessage, http.StatusServiceUnavailable)
				return
			}
			logger.Error("Camera request failed: %v", err)
			writeError(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, manager.Snapshot())
	}
}
