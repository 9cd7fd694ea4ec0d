package attendance

import "errors"

// Attendance domain errors
var (
	ErrRecordNotFound  = errors.New("attendance record not found")
	ErrInvalidWorkMode = errors.New("work mode must be one of: WFO, WFH, LEAVE")
	ErrInvalidDate     = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidRange    = errors.New("start_date must not be after end_date")
)
