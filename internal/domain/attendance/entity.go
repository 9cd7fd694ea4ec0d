package attendance

import (
	"strings"
	"time"
)

// WorkMode is where the day was worked.
type WorkMode string

const (
	WorkModeWFO   WorkMode = "WFO"
	WorkModeWFH   WorkMode = "WFH"
	WorkModeLeave WorkMode = "LEAVE"
)

// ParseWorkMode accepts wfo, wfh or leave in any case.
func ParseWorkMode(s string) (WorkMode, error) {
	switch WorkMode(strings.ToUpper(strings.TrimSpace(s))) {
	case WorkModeWFO:
		return WorkModeWFO, nil
	case WorkModeWFH:
		return WorkModeWFH, nil
	case WorkModeLeave:
		return WorkModeLeave, nil
	}
	return "", ErrInvalidWorkMode
}

func (m WorkMode) Valid() bool {
	return m == WorkModeWFO || m == WorkModeWFH || m == WorkModeLeave
}

// RecordType is the provenance of a record.
type RecordType string

const (
	RecordTypeAuto   RecordType = "AUTO"
	RecordTypeManual RecordType = "MANUAL"
)

// AttendanceRecord is the single record kept for a calendar date.
type AttendanceRecord struct {
	// Date is the start of the day in the configured time zone and is the
	// record's identity.
	Date       time.Time
	IsPresent  bool
	RecordType RecordType
	WorkMode   WorkMode
	Location   *string
	Note       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsTerminalForAuto reports whether auto-detection must leave the record alone.
// WFO and LEAVE records are final for the day.
func (r AttendanceRecord) IsTerminalForAuto() bool {
	return r.WorkMode == WorkModeWFO || r.WorkMode == WorkModeLeave
}

// DetectionStatus is the outcome class of a detection pass. Storage failures
// are returned as errors, not as a status.
type DetectionStatus string

const (
	DetectionSuccess DetectionStatus = "success"
	DetectionSkipped DetectionStatus = "skipped"
)

// SkipReason explains a skipped detection.
type SkipReason string

const (
	SkipNoFix           SkipReason = "no_fix"
	SkipOutsideHours    SkipReason = "outside_work_hours"
	SkipNotWorkday      SkipReason = "not_workday"
	SkipAlreadyRecorded SkipReason = "already_recorded"
)

// DetectionResult is what a detection pass produced.
type DetectionResult struct {
	Status         DetectionStatus
	Reason         SkipReason
	Date           time.Time
	WorkMode       WorkMode
	DistanceMeters *float64
	Written        bool
	Record         *AttendanceRecord
}

func (r DetectionResult) Skipped() bool {
	return r.Status == DetectionSkipped
}
