package model

import (
	"image"
	"time"
)

// VehicleType is the class assigned to an observed vehicle.
type VehicleType string

const (
	Car   VehicleType = "car"
	Truck VehicleType = "truck"
	Bus   VehicleType = "bus"
)

// VehicleTypes lists every vehicle class an observation may carry.
var VehicleTypes = []VehicleType{Car, Truck, Bus}

// Detection is a single vehicle observation produced by one tick of the detection loop.
type Detection struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Speed       int         `json:"speed"`
	Confidence  float64     `json:"confidence"`
	VehicleType VehicleType `json:"vehicleType"`
}

// BoundingBox is the placement of a detection on the overlay.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewBoundingBox converts an image rectangle to a BoundingBox.
func NewBoundingBox(r image.Rectangle) BoundingBox {
	r = r.Canon()
	return BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
