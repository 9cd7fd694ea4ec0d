package location

import (
	"context"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/location"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/clock"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/utils"
)

type LocationServiceImpl struct {
	source *LatestSource
	office location.Office
	clock  clock.Clock
}

func NewLocationService(source *LatestSource, office location.Office, clk clock.Clock) location.LocationService {
	if clk == nil {
		clk = clock.System()
	}
	return &LocationServiceImpl{
		source: source,
		office: office,
		clock:  clk,
	}
}

// ReportPosition implements location.LocationService.
func (s *LocationServiceImpl) ReportPosition(ctx context.Context, req location.ReportPositionRequest) (location.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return location.PositionResponse{}, err
	}

	pos := req.ToPosition(s.clock.Now())
	s.source.Report(pos)

	return s.toResponse(pos), nil
}

// LatestPosition implements location.LocationService.
func (s *LocationServiceImpl) LatestPosition(ctx context.Context) (location.PositionResponse, error) {
	pos, ok := s.source.Latest()
	if !ok {
		return location.PositionResponse{}, location.ErrNoPositionReported
	}
	return s.toResponse(pos), nil
}

func (s *LocationServiceImpl) toResponse(pos location.Position) location.PositionResponse {
	within, distance := utils.IsWithinRadius(
		pos.Latitude, pos.Longitude,
		s.office.Latitude, s.office.Longitude,
		s.office.RadiusMeters,
	)
	return location.PositionResponse{
		Latitude:       pos.Latitude,
		Longitude:      pos.Longitude,
		Accuracy:       pos.Accuracy,
		RecordedAt:     pos.RecordedAt.Format(time.RFC3339),
		DistanceMeters: distance,
		WithinRadius:   within,
	}
}
