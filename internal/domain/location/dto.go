package location

import (
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/validator"
)

// ReportPositionRequest is a position sample pushed by the device.
type ReportPositionRequest struct {
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
	RecordedAt *string  `json:"recorded_at,omitempty"` // RFC3339, defaults to now
}

func (r *ReportPositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Accuracy != nil && *r.Accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy must not be negative",
		})
	}

	if r.RecordedAt != nil && *r.RecordedAt != "" {
		if _, valid := validator.IsValidDateTime(*r.RecordedAt); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "recorded_at",
				Message: "recorded_at must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToPosition builds a Position, using now when RecordedAt is absent.
func (r *ReportPositionRequest) ToPosition(now time.Time) Position {
	recordedAt := now
	if r.RecordedAt != nil && *r.RecordedAt != "" {
		if t, ok := validator.IsValidDateTime(*r.RecordedAt); ok {
			recordedAt = t
		}
	}
	return Position{
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Accuracy:   r.Accuracy,
		RecordedAt: recordedAt,
	}
}

type PositionResponse struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Accuracy       *float64 `json:"accuracy,omitempty"`
	RecordedAt     string   `json:"recorded_at"`
	DistanceMeters float64  `json:"distance_meters"`
	WithinRadius   bool     `json:"within_radius"`
}
