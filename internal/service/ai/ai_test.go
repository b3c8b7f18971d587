package ai

import (
	"image"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"overspeed/internal/logger"
	"overspeed/internal/model"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(t.TempDir(), nil, nil)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(l.Close)
	return l
}

// ========================================
// Loader
// ========================================

func TestLoader_LoadsAfterDelay(t *testing.T) {
	var changes atomic.Int32
	l := NewLoader(20*time.Millisecond, newTestLogger(t), func() { changes.Add(1) })
	defer l.Close()

	l.Initialize()

	if !l.Loading() {
		t.Error("Expected loading immediately after Initialize")
	}
	if l.Loaded() {
		t.Error("Model must not be loaded before the delay elapses")
	}

	deadline := time.Now().Add(2 * time.Second)
	for !l.Loaded() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if !l.Loaded() {
		t.Fatal("Expected model loaded after delay")
	}
	if l.Loading() {
		t.Error("Expected loading cleared after load")
	}
	if got := changes.Load(); got != 2 {
		t.Errorf("Expected 2 state notifications, got %d", got)
	}
}

func TestLoader_CloseCancelsCompletion(t *testing.T) {
	var changes atomic.Int32
	l := NewLoader(30*time.Millisecond, newTestLogger(t), func() { changes.Add(1) })

	l.Initialize()
	l.Close()

	time.Sleep(80 * time.Millisecond)

	if l.Loaded() {
		t.Error("Loader must not complete after Close")
	}
	if got := changes.Load(); got != 1 {
		t.Errorf("Expected only the loading notification, got %d", got)
	}
}

func TestLoader_InitializeTwiceIsNoop(t *testing.T) {
	var changes atomic.Int32
	l := NewLoader(time.Hour, newTestLogger(t), func() { changes.Add(1) })
	defer l.Close()

	l.Initialize()
	l.Initialize()

	if got := changes.Load(); got != 1 {
		t.Errorf("Expected 1 notification, got %d", got)
	}
}

func TestLoader_InitializeAfterCloseIsNoop(t *testing.T) {
	l := NewLoader(time.Millisecond, newTestLogger(t), nil)
	l.Close()
	l.Initialize()

	if l.Loading() || l.Loaded() {
		t.Error("Closed loader must stay idle")
	}
}

// ========================================
// RandomSource
// ========================================

func TestRandomSource_ValueRanges(t *testing.T) {
	src := NewRandomSource(42)
	frame := image.Rect(0, 0, 1280, 720)
	now := time.Now()

	seenTypes := make(map[model.VehicleType]bool)
	for i := 0; i < 2000; i++ {
		det, box, err := src.Observe(frame, now)
		if err != nil {
			t.Fatalf("Observe failed: %v", err)
		}

		if det.Speed < MinSpeed || det.Speed >= MaxSpeed {
			t.Fatalf("Speed %d outside [%d,%d)", det.Speed, MinSpeed, MaxSpeed)
		}
		if det.Confidence < 0.7 || det.Confidence >= 1.0 {
			t.Fatalf("Confidence %f outside [0.7,1.0)", det.Confidence)
		}
		if box.Dx() != BoxWidth || box.Dy() != BoxHeight {
			t.Fatalf("Box size %dx%d, expected %dx%d", box.Dx(), box.Dy(), BoxWidth, BoxHeight)
		}
		if !box.In(frame) {
			t.Fatalf("Box %v does not fit in frame %v", box, frame)
		}
		if !det.Timestamp.Equal(now) {
			t.Fatalf("Expected timestamp %v, got %v", now, det.Timestamp)
		}
		if !strings.HasPrefix(det.ID, "car-") {
			t.Fatalf("Expected car- prefix, got %s", det.ID)
		}
		seenTypes[det.VehicleType] = true
	}

	for _, vt := range model.VehicleTypes {
		if !seenTypes[vt] {
			t.Errorf("Vehicle type %s never generated", vt)
		}
	}
}

func TestRandomSource_FreshIDs(t *testing.T) {
	src := NewRandomSource(1)
	frame := image.Rect(0, 0, 640, 480)

	a, _, _ := src.Observe(frame, time.Now())
	b, _, _ := src.Observe(frame, time.Now())
	if a.ID == b.ID {
		t.Errorf("Expected distinct IDs, both %s", a.ID)
	}
}

func TestRandomSource_SmallFramePinsBox(t *testing.T) {
	src := NewRandomSource(7)
	_, box, err := src.Observe(image.Rect(0, 0, 100, 100), time.Now())
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if box.Min != image.Pt(0, 0) {
		t.Errorf("Expected box at origin for undersized frame, got %v", box.Min)
	}
}
