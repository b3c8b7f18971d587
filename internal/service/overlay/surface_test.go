package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func isGreen(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return r == 0 && g == 0xffff && b == 0 && a == 0xffff
}

func isTransparent(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a == 0
}

func TestRGBASurface_StrokeRect(t *testing.T) {
	s := NewRGBASurface(400, 300)
	s.StrokeRect(image.Rect(50, 40, 250, 190))

	img := s.Snapshot()
	borderPoints := []image.Point{
		{50, 40},   // top-left corner
		{150, 41},  // top edge, second row
		{249, 100}, // right edge
		{150, 189}, // bottom edge
		{51, 120},  // left edge, second column
	}
	for _, p := range borderPoints {
		if !isGreen(img.At(p.X, p.Y)) {
			t.Errorf("Expected green at %v, got %v", p, img.At(p.X, p.Y))
		}
	}

	interior := []image.Point{{150, 100}, {52, 42}, {247, 187}}
	for _, p := range interior {
		if !isTransparent(img.At(p.X, p.Y)) {
			t.Errorf("Expected transparent interior at %v, got %v", p, img.At(p.X, p.Y))
		}
	}
	if !isTransparent(img.At(10, 10)) {
		t.Error("Expected transparent outside the box")
	}
}

func TestRGBASurface_StrokeRectClipsToBounds(t *testing.T) {
	s := NewRGBASurface(100, 100)
	s.StrokeRect(image.Rect(80, 80, 280, 230))

	if !isGreen(s.Snapshot().At(80, 90)) {
		t.Error("Expected visible part of the box to be drawn")
	}
}

func TestRGBASurface_Clear(t *testing.T) {
	s := NewRGBASurface(300, 200)
	s.StrokeRect(image.Rect(0, 0, 200, 150))
	s.FillText("car - 75 km/h", 10, 20)
	s.Clear()

	img := s.Snapshot()
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			t.Fatalf("Expected fully transparent surface after Clear, alpha %d at byte %d", img.Pix[i], i)
		}
	}
}

func TestRGBASurface_FillTextDrawsAboveBaseline(t *testing.T) {
	s := NewRGBASurface(300, 100)
	s.FillText("truck - 88 km/h", 10, 50)

	img := s.Snapshot()
	drawn := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 300; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				drawn++
				if y > 54 {
					t.Fatalf("Glyph pixel at y=%d is well below baseline 50", y)
				}
				if x < 10 {
					t.Fatalf("Glyph pixel at x=%d is left of the origin", x)
				}
			}
		}
	}
	if drawn == 0 {
		t.Error("Expected text pixels to be drawn")
	}
}

func TestRGBASurface_ResizeClears(t *testing.T) {
	s := NewRGBASurface(100, 100)
	s.StrokeRect(image.Rect(0, 0, 50, 50))

	s.Resize(100, 100)
	if !isGreen(s.Snapshot().At(0, 0)) {
		t.Error("Resize to the same size must keep contents")
	}

	s.Resize(640, 480)
	if w, h := s.Size(); w != 640 || h != 480 {
		t.Errorf("Expected 640x480, got %dx%d", w, h)
	}
	if !isTransparent(s.Snapshot().At(0, 0)) {
		t.Error("Resize to a new size must clear the surface")
	}
}

func TestRGBASurface_SnapshotIsCopy(t *testing.T) {
	s := NewRGBASurface(50, 50)
	snap := s.Snapshot()
	s.StrokeRect(image.Rect(0, 0, 50, 50))

	if !isTransparent(snap.At(0, 0)) {
		t.Error("Snapshot must not follow later draws")
	}
}

func TestCompose(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for i := range frame.Pix {
		frame.Pix[i] = 0xff // white, opaque
	}
	s := NewRGBASurface(100, 100)
	s.StrokeRect(image.Rect(10, 10, 60, 60))

	out := Compose(frame, s.Snapshot())

	if !isGreen(out.At(10, 10)) {
		t.Errorf("Expected overlay stroke on composite, got %v", out.At(10, 10))
	}
	if r, g, b, _ := out.At(30, 30).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("Expected frame pixel to show through, got %v", out.At(30, 30))
	}
}

func TestEncodeJPEG(t *testing.T) {
	img := Compose(image.NewRGBA(image.Rect(0, 0, 64, 48)), nil)
	data, err := EncodeJPEG(img, 75)
	if err != nil {
		t.Fatalf("EncodeJPEG failed: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not a JPEG: %v", err)
	}
	if decoded.Bounds().Dx() != 64 || decoded.Bounds().Dy() != 48 {
		t.Errorf("Expected 64x48, got %v", decoded.Bounds())
	}
}
