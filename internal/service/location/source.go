package location

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/location"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/clock"
)

// LatestSource keeps the most recent reported position. A request is answered
// from it when it is fresh enough, otherwise the caller waits for the next report.
type LatestSource struct {
	clock  clock.Clock
	maxAge time.Duration

	mu     sync.Mutex
	latest *location.Position
	// arrived is closed and replaced on every Report.
	arrived chan struct{}
}

func NewLatestSource(clk clock.Clock, maxAge time.Duration) *LatestSource {
	if clk == nil {
		clk = clock.System()
	}
	return &LatestSource{
		clock:   clk,
		maxAge:  maxAge,
		arrived: make(chan struct{}),
	}
}

// Report implements location.Reporter.
func (s *LatestSource) Report(pos location.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = &pos
	close(s.arrived)
	s.arrived = make(chan struct{})
}

// Latest returns the last reported position regardless of age.
func (s *LatestSource) Latest() (location.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == nil {
		return location.Position{}, false
	}
	return *s.latest, true
}

// RequestPosition implements location.Source.
func (s *LatestSource) RequestPosition(ctx context.Context, timeout time.Duration) (location.Position, error) {
	s.mu.Lock()
	if s.latest != nil && s.clock.Now().Sub(s.latest.RecordedAt) <= s.maxAge {
		pos := *s.latest
		s.mu.Unlock()
		return pos, nil
	}
	arrived := s.arrived
	s.mu.Unlock()

	if timeout <= 0 {
		return location.Position{}, location.ErrNoFix
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-arrived:
		s.mu.Lock()
		pos := *s.latest
		s.mu.Unlock()
		return pos, nil
	case <-timer.C:
		return location.Position{}, location.ErrNoFix
	case <-ctx.Done():
		return location.Position{}, ctx.Err()
	}
}

// StaticSource always answers with the same position, or ErrNoFix when it has none.
type StaticSource struct {
	pos *location.Position
}

func NewStaticSource(pos *location.Position) StaticSource {
	return StaticSource{pos: pos}
}

// RequestPosition implements location.Source.
func (s StaticSource) RequestPosition(ctx context.Context, _ time.Duration) (location.Position, error) {
	if err := ctx.Err(); err != nil {
		return location.Position{}, err
	}
	if s.pos == nil {
		return location.Position{}, location.ErrNoFix
	}
	return *s.pos, nil
}
