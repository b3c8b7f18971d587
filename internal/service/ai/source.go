package ai

import (
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"overspeed/internal/model"
)

// Box dimensions drawn around every synthetic observation.
const (
	BoxWidth  = 200
	BoxHeight = 150
)

// Synthetic speed range in km/h, [MinSpeed, MaxSpeed).
const (
	MinSpeed = 20
	MaxSpeed = 100
)

// ObservationSource produces one vehicle observation for a frame. A real model can replace
// RandomSource without touching the detection loop.
type ObservationSource interface {
	Observe(frame image.Rectangle, now time.Time) (model.Detection, image.Rectangle, error)
}

// RandomSource generates synthetic detections with uniformly random speed, confidence,
// vehicle type and box placement.
type RandomSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource creates a RandomSource seeded with seed.
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{rnd: rand.New(rand.NewSource(seed))}
}

// Observe returns a detection and the box it occupies inside frame.
func (s *RandomSource) Observe(frame image.Rectangle, now time.Time) (model.Detection, image.Rectangle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	det := model.Detection{
		ID:          "car-" + uuid.NewString(),
		Timestamp:   now,
		Speed:       s.rnd.Intn(MaxSpeed-MinSpeed) + MinSpeed,
		Confidence:  s.rnd.Float64()*0.3 + 0.7,
		VehicleType: model.VehicleTypes[s.rnd.Intn(len(model.VehicleTypes))],
	}

	return det, s.place(frame), nil
}

// place picks a BoxWidth x BoxHeight box whose top-left corner lies in
// [0, w-BoxWidth) x [0, h-BoxHeight). Frames smaller than the box pin it to the origin.
func (s *RandomSource) place(frame image.Rectangle) image.Rectangle {
	x := frame.Min.X + s.randBelow(frame.Dx()-BoxWidth)
	y := frame.Min.Y + s.randBelow(frame.Dy()-BoxHeight)
	return image.Rect(x, y, x+BoxWidth, y+BoxHeight)
}

func (s *RandomSource) randBelow(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rnd.Intn(n)
}
