package handler

import (
	"image"
	"image/color"
	"image/draw"
	"net/http"
	"sync"
	"time"

	"overspeed/internal/logger"
	"overspeed/internal/service"
	"overspeed/internal/service/overlay"
)

var (
	placeholderOnce sync.Once
	placeholderJPEG []byte
)

// placeholderFrame is the dark frame streamed while the camera is off.
func placeholderFrame() []byte {
	placeholderOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 640, 360))
		draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 15, G: 23, B: 42, A: 255}), image.Point{}, draw.Src)
		placeholderJPEG, _ = overlay.EncodeJPEG(img, 75)
	})
	return placeholderJPEG
}

// StreamHandler serves the live preview with the detection overlay as MJPEG.
func StreamHandler(manager *service.Manager, interval time.Duration, logger *logger.Logger) http.HandlerFunc {
	if interval <= 0 {
		interval = 66 * time.Millisecond
	}
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			frame, ok := manager.Preview()
			if !ok {
				frame = placeholderFrame()
			}

			if _, err := w.Write([]byte("--frame\r\nContent-Type: image/jpeg\r\n\r\n")); err != nil {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			if _, err := w.Write([]byte("\r\n")); err != nil {
				return
			}
			flusher.Flush()

			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
			}
		}
	}
}
