package location

import (
	"time"
)

// Position is a single location sample reported by the device.
type Position struct {
	Latitude  float64
	Longitude float64
	// Accuracy is the reported horizontal accuracy in meters, when known.
	Accuracy   *float64
	RecordedAt time.Time
}

// Office is the fixed reference point and acceptance radius.
type Office struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}
