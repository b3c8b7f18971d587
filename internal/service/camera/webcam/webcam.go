// Package webcam opens local capture devices through OpenCV.
package webcam

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"sync"

	"gocv.io/x/gocv"

	"overspeed/internal/logger"
	"overspeed/internal/service/camera"
)

// Opener opens the capture device identified by Device: a numeric index ("0") or a path or
// URL understood by OpenCV.
type Opener struct {
	Device string
	Logger *logger.Logger
}

// Open requests the ideal frame size from the driver. OpenCV has no notion of facing mode, so it
// is logged and otherwise ignored.
func (o Opener) Open(ctx context.Context, c camera.Constraints) (camera.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var id interface{} = o.Device
	if index, err := strconv.Atoi(o.Device); err == nil {
		id = index
	}

	capture, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.Device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open %s: device not opened", o.Device)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.Height))

	if c.FacingMode != "" && o.Logger != nil {
		o.Logger.Info("Facing mode %q requested; local devices have no facing, using %s", c.FacingMode, o.Device)
	}

	d := &device{
		capture: capture,
		mat:     gocv.NewMat(),
		width:   int(capture.Get(gocv.VideoCaptureFrameWidth)),
		height:  int(capture.Get(gocv.VideoCaptureFrameHeight)),
	}
	if d.width <= 0 || d.height <= 0 {
		d.width, d.height = c.Width, c.Height
	}
	return d, nil
}

type device struct {
	width, height int

	// mu serializes Read against Close; OpenCV capture handles are not safe for concurrent use.
	mu      sync.Mutex
	capture *gocv.VideoCapture
	mat     gocv.Mat
	closed  bool
}

func (d *device) Frame() (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, camera.ErrClosed
	}
	if ok := d.capture.Read(&d.mat); !ok || d.mat.Empty() {
		return nil, fmt.Errorf("failed to read frame")
	}

	img, err := d.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %v", err)
	}
	return img, nil
}

func (d *device) Size() (int, int) {
	return d.width, d.height
}

func (d *device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.mat.Close()
	return d.capture.Close()
}
