package attendance

import (
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/validator"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// MarkAttendanceRequest is a manual WFO/WFH/LEAVE selection for a date.
type MarkAttendanceRequest struct {
	Date     string  `json:"-"` // YYYY-MM-DD, from the path
	WorkMode string  `json:"work_mode"`
	Note     *string `json:"note,omitempty"`
	Location *string `json:"location,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if _, err := ParseWorkMode(r.WorkMode); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "work_mode",
			Message: "work_mode must be one of: WFO, WFH, LEAVE",
		})
	}

	if r.Note != nil && len(*r.Note) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 500 characters",
		})
	}

	if r.Location != nil && len(*r.Location) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DetectRequest asks for one auto-detection pass.
type DetectRequest struct {
	// Force lets a WFH verdict replace an existing WFH record. WFO and LEAVE
	// records are never replaced by auto-detection.
	Force bool `json:"force"`
	// IgnoreWindow skips the workday and work-hours precondition, for user
	// initiated checks.
	IgnoreWindow bool `json:"ignore_window"`
}

type AttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	Date       string  `json:"date"`
	IsPresent  bool    `json:"is_present"`
	RecordType string  `json:"record_type"`
	WorkMode   string  `json:"work_mode"`
	Location   *string `json:"location,omitempty"`
	Note       *string `json:"note,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type ListAttendanceResponse struct {
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	TotalCount  int                  `json:"total_count"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type DetectionResponse struct {
	Status         string              `json:"status"`
	Reason         string              `json:"reason,omitempty"`
	Date           string              `json:"date"`
	WorkMode       string              `json:"work_mode,omitempty"`
	DistanceMeters *float64            `json:"distance_meters,omitempty"`
	Written        bool                `json:"written"`
	Attendance     *AttendanceResponse `json:"attendance,omitempty"`
}

// ToResponse converts a record to its API representation.
func ToResponse(r AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		Date:       workday.Key(r.Date),
		IsPresent:  r.IsPresent,
		RecordType: string(r.RecordType),
		WorkMode:   string(r.WorkMode),
		Location:   r.Location,
		Note:       r.Note,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
}

// ToDetectionResponse converts a detection result to its API representation.
func ToDetectionResponse(r DetectionResult) DetectionResponse {
	resp := DetectionResponse{
		Status:         string(r.Status),
		Reason:         string(r.Reason),
		Date:           workday.Key(r.Date),
		WorkMode:       string(r.WorkMode),
		DistanceMeters: r.DistanceMeters,
		Written:        r.Written,
	}
	if r.Record != nil {
		att := ToResponse(*r.Record)
		resp.Attendance = &att
	}
	return resp
}
