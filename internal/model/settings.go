package model

import (
	"errors"
	"fmt"
)

const (
	MinSpeedLimit     = 20
	MaxSpeedLimit     = 120
	SpeedLimitStep    = 5
	DefaultSpeedLimit = 50
)

// ErrInvalidSpeedLimit is returned for limits outside [MinSpeedLimit, MaxSpeedLimit] or off the step grid.
var ErrInvalidSpeedLimit = errors.New("invalid speed limit")

// Settings holds the user-adjustable detection settings.
type Settings struct {
	SpeedLimit int `json:"speedLimit"`
}

// DefaultSettings returns the settings used at startup.
func DefaultSettings() Settings {
	return Settings{SpeedLimit: DefaultSpeedLimit}
}

// ValidateSpeedLimit checks that v is in range and a multiple of the slider step.
func ValidateSpeedLimit(v int) error {
	if v < MinSpeedLimit || v > MaxSpeedLimit || (v-MinSpeedLimit)%SpeedLimitStep != 0 {
		return fmt.Errorf("%w: %d (allowed %d-%d, step %d)", ErrInvalidSpeedLimit, v, MinSpeedLimit, MaxSpeedLimit, SpeedLimitStep)
	}
	return nil
}
