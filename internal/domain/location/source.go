package location

import (
	"context"
	"time"
)

// Source hands out one best-effort position sample.
type Source interface {
	// RequestPosition waits at most timeout for a fix. It returns ErrNoFix
	// when none arrives and ctx.Err() when ctx is cancelled first.
	RequestPosition(ctx context.Context, timeout time.Duration) (Position, error)
}

// Reporter accepts positions pushed by the device.
type Reporter interface {
	Report(pos Position)
}

// LocationService records device positions and reports them relative to the office.
type LocationService interface {
	ReportPosition(ctx context.Context, req ReportPositionRequest) (PositionResponse, error)
	LatestPosition(ctx context.Context) (PositionResponse, error)
}
