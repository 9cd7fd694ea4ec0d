package statistics

import "errors"

var (
	ErrInvalidMonth       = errors.New("month must be in YYYY-MM format")
	ErrInvalidMonthsCount = errors.New("months must be between 1 and 36")
)
