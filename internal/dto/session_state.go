package dto

import "overspeed/internal/model"

// SessionState is the read-only view of the controller pushed to viewers.
type SessionState struct {
	CameraOn          bool                `json:"cameraOn"`
	Detecting         bool                `json:"detecting"`
	ModelLoaded       bool                `json:"modelLoaded"`
	Loading           bool                `json:"loading"`
	FPS               int                 `json:"fps"`
	SpeedLimit        int                 `json:"speedLimit"`
	CurrentDetections []model.Detection   `json:"currentDetections"`
	Boxes             []model.BoundingBox `json:"boxes"` // overlay placement, index-aligned with CurrentDetections
	Violations        []model.Violation   `json:"violations"`
	Stats             Stats               `json:"stats"`
	CameraLocation    string              `json:"cameraLocation"`
	Frame             FrameSize           `json:"frame"`
}

// Stats summarizes the session for the statistics panel.
type Stats struct {
	TotalViolations int `json:"totalViolations"`
	ActiveVehicles  int `json:"activeVehicles"`
	DetectionRate   int `json:"detectionRate"`
}

type FrameSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
