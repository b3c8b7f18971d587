// Package overlay draws detection boxes and labels on a transparent layer the size of the
// camera frame.
package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Green is the stroke and text colour (#00ff00).
var Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// LineWidth is the stroke width of bounding boxes in pixels.
const LineWidth = 2

// Surface is a 2D drawing target that supports the primitives the detection loop needs.
type Surface interface {
	Resize(width, height int)
	Size() (width, height int)
	Clear()
	StrokeRect(r image.Rectangle)
	FillText(text string, x, y int)
	Snapshot() *image.RGBA
}

// RGBASurface is a Surface backed by an in-memory RGBA image.
type RGBASurface struct {
	img  *image.RGBA
	face font.Face
}

// NewRGBASurface creates a transparent surface of the given size.
func NewRGBASurface(width, height int) *RGBASurface {
	return &RGBASurface{
		img:  image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		face: basicfont.Face7x13,
	}
}

// Resize reallocates the surface when the size changes. Resizing clears it, as with a canvas.
func (s *RGBASurface) Resize(width, height int) {
	if w, h := s.Size(); w == width && h == height {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// Size returns the surface dimensions.
func (s *RGBASurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear makes every pixel transparent.
func (s *RGBASurface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// StrokeRect outlines r with LineWidth pixels drawn inside its edges.
func (s *RGBASurface) StrokeRect(r image.Rectangle) {
	r = r.Canon()
	src := image.NewUniform(Green)
	lw := min(LineWidth, r.Dx(), r.Dy())

	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+lw), // top
		image.Rect(r.Min.X, r.Max.Y-lw, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+lw, r.Max.Y), // left
		image.Rect(r.Max.X-lw, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, e := range edges {
		draw.Draw(s.img, e.Intersect(s.img.Bounds()), src, image.Point{}, draw.Src)
	}
}

// FillText draws text with its baseline at y. Glyphs outside the surface are clipped.
func (s *RGBASurface) FillText(text string, x, y int) {
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(Green),
		Face: s.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Snapshot returns a copy of the current surface contents.
func (s *RGBASurface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Compose draws overlay over frame and returns the result as a new image the size of frame.
// A nil overlay yields a plain copy of the frame.
func Compose(frame image.Image, overlay image.Image) *image.RGBA {
	bounds := frame.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), frame, bounds.Min, draw.Src)
	if overlay != nil {
		draw.Draw(out, out.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	}
	return out
}

// EncodeJPEG encodes img with the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
