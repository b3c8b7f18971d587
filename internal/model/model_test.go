package model

import (
	"errors"
	"image"
	"strings"
	"testing"
	"time"
)

func TestValidateSpeedLimit(t *testing.T) {
	tests := []struct {
		value int
		valid bool
	}{
		{20, true},
		{25, true},
		{50, true},
		{120, true},
		{15, false},
		{125, false},
		{52, false},
		{0, false},
		{-5, false},
	}

	for _, tt := range tests {
		err := ValidateSpeedLimit(tt.value)
		if tt.valid && err != nil {
			t.Errorf("ValidateSpeedLimit(%d) = %v, expected nil", tt.value, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidSpeedLimit) {
			t.Errorf("ValidateSpeedLimit(%d) = %v, expected ErrInvalidSpeedLimit", tt.value, err)
		}
	}
}

func TestNewViolation_SnapshotsLimit(t *testing.T) {
	at := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	det := Detection{ID: "car-1", Speed: 75, Confidence: 0.8, VehicleType: Truck}

	v := NewViolation(det, 50, "Camera View", at)

	if v.SpeedLimit != 50 {
		t.Errorf("Expected speed limit snapshot 50, got %d", v.SpeedLimit)
	}
	if v.Speed != 75 {
		t.Errorf("Expected speed 75, got %d", v.Speed)
	}
	if v.VehicleType != Truck {
		t.Errorf("Expected vehicle type truck, got %s", v.VehicleType)
	}
	if v.Location != "Camera View" {
		t.Errorf("Expected location 'Camera View', got %s", v.Location)
	}
	if !v.Timestamp.Equal(at) {
		t.Errorf("Expected timestamp %v, got %v", at, v.Timestamp)
	}
	if !strings.HasPrefix(v.ID, "violation-") {
		t.Errorf("Expected violation- prefix, got %s", v.ID)
	}
}

func TestNewViolation_UniqueIDs(t *testing.T) {
	det := Detection{Speed: 80, VehicleType: Car}
	a := NewViolation(det, 50, "Camera View", time.Now())
	b := NewViolation(det, 50, "Camera View", time.Now())
	if a.ID == b.ID {
		t.Errorf("Expected distinct IDs, both were %s", a.ID)
	}
}

func TestExceeds(t *testing.T) {
	tests := []struct {
		speed    int
		limit    int
		expected bool
	}{
		{75, 50, true},
		{40, 90, false},
		{50, 50, false},
		{51, 50, true},
	}

	for _, tt := range tests {
		result := Exceeds(Detection{Speed: tt.speed}, tt.limit)
		if result != tt.expected {
			t.Errorf("Exceeds(speed=%d, limit=%d) = %v, expected %v", tt.speed, tt.limit, result, tt.expected)
		}
	}
}

func TestNewBoundingBox(t *testing.T) {
	got := NewBoundingBox(image.Rect(210, 170, 10, 20))
	want := BoundingBox{X: 10, Y: 20, Width: 200, Height: 150}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}
