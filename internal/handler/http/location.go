package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/location"
	"github.com/cmlabs-hris/wfo-tracker/internal/handler/http/response"
)

type LocationHandler interface {
	Report(w http.ResponseWriter, r *http.Request)
	Latest(w http.ResponseWriter, r *http.Request)
}

type locationHandlerImpl struct {
	locationService location.LocationService
}

func NewLocationHandler(locationService location.LocationService) LocationHandler {
	return &locationHandlerImpl{locationService: locationService}
}

// Report implements LocationHandler.
func (h *locationHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	var req location.ReportPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.locationService.ReportPosition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Position recorded", resp)
}

// Latest implements LocationHandler.
func (h *locationHandlerImpl) Latest(w http.ResponseWriter, r *http.Request) {
	resp, err := h.locationService.LatestPosition(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
