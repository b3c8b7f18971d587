package camera

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"
)

var barColors = []color.RGBA{
	{R: 255, G: 255, B: 255, A: 255}, // White
	{R: 255, G: 255, B: 0, A: 255},   // Yellow
	{R: 0, G: 255, B: 255, A: 255},   // Cyan
	{R: 0, G: 255, B: 0, A: 255},     // Green
	{R: 255, G: 0, B: 255, A: 255},   // Magenta
	{R: 255, G: 0, B: 0, A: 255},     // Red
	{R: 0, G: 0, B: 255, A: 255},     // Blue
	{R: 0, G: 0, B: 0, A: 255},       // Black
}

// SyntheticOpener opens test-pattern devices that honour the requested size. It stands in for
// a webcam on machines without one.
type SyntheticOpener struct {
	FrameInterval time.Duration
}

// Open returns a colour-bar device, or ctx.Err() if the context is already done.
func (o SyntheticOpener) Open(ctx context.Context, c Constraints) (Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	interval := o.FrameInterval
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	w, h := c.Width, c.Height
	if w <= 0 || h <= 0 {
		w, h = DefaultConstraints().Width, DefaultConstraints().Height
	}
	return newSyntheticDevice(w, h, interval), nil
}

type syntheticDevice struct {
	width, height int
	interval      time.Duration
	base          *image.RGBA

	mu     sync.Mutex
	line   int
	closed bool
	done   chan struct{}
}

func newSyntheticDevice(width, height int, interval time.Duration) *syntheticDevice {
	base := image.NewRGBA(image.Rect(0, 0, width, height))
	barWidth := max(width/len(barColors), 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			barIndex := min(x/barWidth, len(barColors)-1)
			base.SetRGBA(x, y, barColors[barIndex])
		}
	}
	return &syntheticDevice{
		width:    width,
		height:   height,
		interval: interval,
		base:     base,
		done:     make(chan struct{}),
	}
}

// Frame paces itself to the configured interval and draws a moving scan line so the preview
// visibly updates.
func (d *syntheticDevice) Frame() (image.Image, error) {
	select {
	case <-d.done:
		return nil, ErrClosed
	case <-time.After(d.interval):
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}

	frame := image.NewRGBA(d.base.Bounds())
	copy(frame.Pix, d.base.Pix)
	gray := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	for x := 0; x < d.width; x++ {
		frame.SetRGBA(x, d.line, gray)
	}
	d.line = (d.line + 4) % d.height
	return frame, nil
}

func (d *syntheticDevice) Size() (int, int) {
	return d.width, d.height
}

func (d *syntheticDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.done)
	}
	return nil
}
