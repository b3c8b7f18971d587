package model

import (
	"time"

	"github.com/google/uuid"
)

// Violation records a detection whose speed exceeded the limit in effect when it was observed.
type Violation struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Speed       int         `json:"speed"`
	SpeedLimit  int         `json:"speedLimit"`
	VehicleType VehicleType `json:"vehicleType"`
	Location    string      `json:"location"`
}

// NewViolation builds a violation from a detection, copying the limit by value.
func NewViolation(d Detection, speedLimit int, location string, at time.Time) Violation {
	return Violation{
		ID:          "violation-" + uuid.NewString(),
		Timestamp:   at,
		Speed:       d.Speed,
		SpeedLimit:  speedLimit,
		VehicleType: d.VehicleType,
		Location:    location,
	}
}

// Exceeds reports whether a detection is over the given limit. Equal speed is not a violation.
func Exceeds(d Detection, speedLimit int) bool {
	return d.Speed > speedLimit
}
