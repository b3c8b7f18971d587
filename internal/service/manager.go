package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"overspeed/internal/config"
	"overspeed/internal/dto"
	"overspeed/internal/logger"
	"overspeed/internal/metrics"
	"overspeed/internal/model"
	"overspeed/internal/service/ai"
	"overspeed/internal/service/camera"
	"overspeed/internal/service/overlay"
	"overspeed/internal/service/scheduler"
	"overspeed/internal/service/storage"
)

// ErrNotReady is returned when detection is requested before the camera is on and the model is loaded.
var ErrNotReady = errors.New("Please start camera and wait for model to load")

// labelOffset is the gap in pixels between a box's top edge and its label baseline.
const labelOffset = 5

// Publisher delivers serialized session state to viewers.
type Publisher interface {
	Broadcast(message []byte)
}

// Manager owns the camera session, the model loader and the detection loop, and serializes
// every state change behind a single mutex.
type Manager struct {
	session    *camera.Session
	loader     *ai.Loader
	source     ai.ObservationSource
	surface    overlay.Surface
	violations *storage.ViolationBuffer
	publisher  Publisher
	metrics    *metrics.Metrics
	logger     *logger.Logger

	tickInterval   time.Duration
	jpegQuality    int
	location       string
	cameraLocation string

	mu        sync.Mutex
	detecting bool
	fps       int
	lastTick  time.Time
	current   []model.Detection
	boxes     []model.BoundingBox
	settings  model.Settings
	task      *scheduler.Task
	closed    bool
}

// NewManager wires a Manager. The model is not loaded until InitializeModel is called.
func NewManager(cfg *config.Config, opener camera.Opener, source ai.ObservationSource, publisher Publisher,
	m *metrics.Metrics, logger *logger.Logger) *Manager {
	settings := model.DefaultSettings()
	if model.ValidateSpeedLimit(cfg.SpeedLimit) == nil {
		settings.SpeedLimit = cfg.SpeedLimit
	}

	manager := &Manager{
		source:         source,
		surface:        overlay.NewRGBASurface(cfg.FrameWidth, cfg.FrameHeight),
		violations:     storage.NewViolationBuffer(cfg.ViolationLimit),
		publisher:      publisher,
		metrics:        m,
		logger:         logger,
		tickInterval:   cfg.TickInterval,
		jpegQuality:    cfg.JPEGQuality,
		location:       cfg.ViolationLocation,
		cameraLocation: cfg.CameraLocation,
		settings:       settings,
	}

	constraints := camera.Constraints{Width: cfg.FrameWidth, Height: cfg.FrameHeight, FacingMode: cfg.FacingMode}
	manager.session = camera.NewSession(opener, constraints, logger, m.FramesCaptured.Inc)
	manager.loader = ai.NewLoader(cfg.ModelLoadDelay, logger, manager.modelChanged)

	m.SpeedLimit.Set(float64(settings.SpeedLimit))
	return manager
}

// InitializeModel starts the simulated model load.
func (m *Manager) InitializeModel() {
	m.loader.Initialize()
}

func (m *Manager) modelChanged() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishLocked()
}

// ========================================
// Camera
// ========================================

// StartCamera acquires the capture stream. Failures wrap camera.ErrCaptureUnavailable and leave
// the session unchanged.
func (m *Manager) StartCamera(ctx context.Context) error {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return fmt.Errorf("%w: manager closed", camera.ErrCaptureUnavailable)
	}

	if err := m.session.Start(ctx); err != nil {
		m.metrics.CameraFailures.Inc()
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	metrics.SetBool(m.metrics.CameraOn, true)
	m.publishLocked()
	return nil
}

// StopCamera stops detection and releases the capture stream. Both happen under the state
// lock, so detection cannot be restarted in between.
func (m *Manager) StopCamera() {
	m.mu.Lock()
	task := m.haltLocked()
	m.session.Stop()
	m.surface.Clear()
	metrics.SetBool(m.metrics.CameraOn, false)
	m.publishLocked()
	m.mu.Unlock()

	m.awaitStopped(task)
}

// ToggleCamera starts the camera when it is off and stops it when it is on.
func (m *Manager) ToggleCamera(ctx context.Context) error {
	if m.session.On() {
		m.StopCamera()
		return nil
	}
	return m.StartCamera(ctx)
}

// ========================================
// Detection
// ========================================

// StartDetection schedules the detection loop. It returns ErrNotReady, changing nothing, unless
// the camera is on and the model is loaded.
func (m *Manager) StartDetection() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.detecting {
		return nil
	}
	if m.closed || !m.session.On() || !m.loader.Loaded() {
		return ErrNotReady
	}

	m.detecting = true
	m.lastTick = time.Time{}
	m.task = scheduler.Every(m.tickInterval, m.tick, scheduler.OnPanic(func(err error) {
		m.logger.Error("Detection error: %v", err)
		m.metrics.TickErrors.Inc()
	}))

	metrics.SetBool(m.metrics.Detecting, true)
	m.logger.Info("🎯 Detection started (limit %d km/h)", m.settings.SpeedLimit)
	m.publishLocked()
	return nil
}

// StopDetection cancels the loop and waits until no further tick can run.
func (m *Manager) StopDetection() {
	m.mu.Lock()
	task := m.haltLocked()
	m.mu.Unlock()

	m.awaitStopped(task)
}

// awaitStopped waits for a halted task's last tick. The tick takes m.mu, so callers must not
// hold it.
func (m *Manager) awaitStopped(task *scheduler.Task) {
	if task != nil {
		task.Cancel()
		m.logger.Info("🎯 Detection stopped")
	}
}

// ToggleDetection starts detection when idle and stops it when running.
func (m *Manager) ToggleDetection() error {
	m.mu.Lock()
	detecting := m.detecting
	m.mu.Unlock()

	if detecting {
		m.StopDetection()
		return nil
	}
	return m.StartDetection()
}

// haltLocked marks detection stopped, clears the per-tick state and signals the task.
// It returns the signalled task so callers outside the task goroutine can wait for it.
func (m *Manager) haltLocked() *scheduler.Task {
	if !m.detecting {
		return nil
	}
	task := m.task
	m.task = nil
	m.detecting = false
	m.fps = 0
	m.lastTick = time.Time{}
	m.current = nil
	m.boxes = nil
	m.surface.Clear()
	if task != nil {
		task.Stop()
	}

	metrics.SetBool(m.metrics.Detecting, false)
	m.metrics.FPS.Set(0)
	m.publishLocked()
	return task
}

func (m *Manager) tick(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.detecting {
		return
	}
	if !m.session.On() || !m.loader.Loaded() {
		m.logger.Warning("Detection halted: camera or model no longer ready")
		m.haltLocked()
		return
	}

	m.metrics.Ticks.Inc()
	if err := m.detectLocked(now); err != nil {
		m.logger.Error("Detection error: %v", err)
		m.metrics.TickErrors.Inc()
		return
	}
	m.publishLocked()
}

// detectLocked runs one detection step: rate estimate, observation, overlay, violation check.
func (m *Manager) detectLocked(now time.Time) error {
	if !m.lastTick.IsZero() {
		if delta := now.Sub(m.lastTick); delta > 0 {
			m.fps = int(math.Round(float64(time.Second) / float64(delta)))
			m.metrics.FPS.Set(float64(m.fps))
		}
	}
	m.lastTick = now

	w, h := m.session.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("frame size unavailable (%dx%d)", w, h)
	}
	frame := image.Rect(0, 0, w, h)

	detection, box, err := m.source.Observe(frame, now)
	if err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	m.metrics.Detections.Inc()
	m.metrics.DetectedSpeed.Observe(float64(detection.Speed))

	m.surface.Resize(w, h)
	m.surface.Clear()
	m.surface.StrokeRect(box)
	m.surface.FillText(fmt.Sprintf("%s - %d km/h", detection.VehicleType, detection.Speed), box.Min.X, box.Min.Y-labelOffset)

	if model.Exceeds(detection, m.settings.SpeedLimit) {
		if m.violations.Add(model.NewViolation(detection, m.settings.SpeedLimit, m.location, now)) {
			m.metrics.Evicted.Inc()
		}
		m.metrics.Violations.Inc()
	}

	m.current = []model.Detection{detection}
	m.boxes = []model.BoundingBox{model.NewBoundingBox(box)}
	return nil
}

// ========================================
// Settings and state
// ========================================

// SetSpeedLimit changes the limit applied from the next tick on. Recorded violations keep the
// limit they were created with.
func (m *Manager) SetSpeedLimit(v int) error {
	if err := model.ValidateSpeedLimit(v); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings.SpeedLimit == v {
		return nil
	}
	m.settings.SpeedLimit = v
	m.metrics.SpeedLimit.Set(float64(v))
	m.logger.Info("⚙️  Speed limit set to %d km/h", v)
	m.publishLocked()
	return nil
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() dto.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// SnapshotJSON returns the current session state encoded as JSON.
func (m *Manager) SnapshotJSON() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := json.Marshal(m.snapshotLocked())
	if err != nil {
		m.logger.Error("Failed to encode session state: %v", err)
		return nil
	}
	return data
}

func (m *Manager) snapshotLocked() dto.SessionState {
	current := make([]model.Detection, len(m.current))
	copy(current, m.current)
	boxes := make([]model.BoundingBox, len(m.boxes))
	copy(boxes, m.boxes)
	violations := m.violations.List()
	w, h := m.session.Size()

	return dto.SessionState{
		CameraOn:          m.session.On(),
		Detecting:         m.detecting,
		ModelLoaded:       m.loader.Loaded(),
		Loading:           m.loader.Loading(),
		FPS:               m.fps,
		SpeedLimit:        m.settings.SpeedLimit,
		CurrentDetections: current,
		Boxes:             boxes,
		Violations:        violations,
		Stats: dto.Stats{
			TotalViolations: len(violations),
			ActiveVehicles:  len(current),
			DetectionRate:   m.fps,
		},
		CameraLocation: m.cameraLocation,
		Frame:          dto.FrameSize{Width: w, Height: h},
	}
}

func (m *Manager) publishLocked() {
	if m.publisher == nil {
		return
	}
	data, err := json.Marshal(m.snapshotLocked())
	if err != nil {
		m.logger.Error("Failed to encode session state: %v", err)
		return
	}
	m.publisher.Broadcast(data)
}

// Preview returns the latest camera frame with the overlay drawn over it, JPEG-encoded.
// It reports false while the camera is off or before the first frame arrives.
func (m *Manager) Preview() ([]byte, bool) {
	frame, ok := m.session.Latest()
	if !ok {
		return nil, false
	}

	m.mu.Lock()
	layer := m.surface.Snapshot()
	m.mu.Unlock()

	data, err := overlay.EncodeJPEG(overlay.Compose(frame, layer), m.jpegQuality)
	if err != nil {
		m.logger.Warning("Error encoding preview: %v", err)
		return nil, false
	}
	return data, true
}

// Close stops detection, releases the camera and cancels a pending model load. After Close the
// manager no longer changes state.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.loader.Close()
	m.StopDetection()
	m.session.Stop()
	metrics.SetBool(m.metrics.CameraOn, false)
	m.logger.Info("🛑 Session closed")
}
