package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"overspeed/internal/model"
)

// Camera sources accepted by CAMERA_SOURCE.
const (
	SourceSynthetic = "synthetic"
	SourceWebcam    = "webcam"
)

// MaxViolationLimit is the largest number of violations the session keeps.
const MaxViolationLimit = 10

type Config struct {
	Port            int
	Password        string
	LogDirectory    string
	StaticDirectory string

	CameraSource string
	CameraDevice string
	FrameWidth   int
	FrameHeight  int
	FacingMode   string

	ModelLoadDelay  time.Duration
	TickInterval    time.Duration // one display refresh
	PreviewInterval time.Duration // MJPEG frame pacing
	JPEGQuality     int

	SpeedLimit        int
	ViolationLimit    int
	ViolationLocation string
	CameraLocation    string
}

// Load reads configuration from the environment. Values from an optional .env file in the
// working directory are applied first; variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8080),
		Password:        getEnv("PASSWORD", ""),
		LogDirectory:    getEnv("LOG_DIR", filepath.Join(".", "logs")),
		StaticDirectory: getEnv("STATIC_DIR", filepath.Join(".", "static")),

		CameraSource: getEnv("CAMERA_SOURCE", SourceSynthetic),
		CameraDevice: getEnv("CAMERA_DEVICE", "0"),
		FrameWidth:   getEnvAsInt("FRAME_WIDTH", 1280),
		FrameHeight:  getEnvAsInt("FRAME_HEIGHT", 720),
		FacingMode:   getEnv("FACING_MODE", "environment"),

		ModelLoadDelay:  getEnvAsDuration("MODEL_LOAD_DELAY", 2*time.Second),
		TickInterval:    getEnvAsDuration("TICK_INTERVAL", 16*time.Millisecond),
		PreviewInterval: getEnvAsDuration("PREVIEW_INTERVAL", 66*time.Millisecond),
		JPEGQuality:     getEnvAsInt("JPEG_QUALITY", 75),

		SpeedLimit:        getEnvAsInt("SPEED_LIMIT", model.DefaultSpeedLimit),
		ViolationLimit:    getEnvAsInt("VIOLATION_LIMIT", MaxViolationLimit),
		ViolationLocation: getEnv("VIOLATION_LOCATION", "Camera View"),
		CameraLocation:    getEnv("CAMERA_LOCATION", "Main Road"),
	}

	if model.ValidateSpeedLimit(cfg.SpeedLimit) != nil {
		cfg.SpeedLimit = model.DefaultSpeedLimit
	}
	// VIOLATION_LIMIT can only shorten the list, never grow it past ten
	if cfg.ViolationLimit <= 0 || cfg.ViolationLimit > MaxViolationLimit {
		cfg.ViolationLimit = MaxViolationLimit
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 16 * time.Millisecond
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = 75
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("250ms", "2s").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
