package http

import (
	"net/http"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/statistics"
	"github.com/cmlabs-hris/wfo-tracker/internal/handler/http/response"
)

type StatisticsHandler interface {
	Monthly(w http.ResponseWriter, r *http.Request)
	Trailing(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
}

type statisticsHandlerImpl struct {
	statisticsService statistics.StatisticsService
}

func NewStatisticsHandler(statisticsService statistics.StatisticsService) StatisticsHandler {
	return &statisticsHandlerImpl{statisticsService: statisticsService}
}

// Monthly implements StatisticsHandler.
func (h *statisticsHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	result, err := h.statisticsService.Monthly(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Trailing implements StatisticsHandler.
func (h *statisticsHandlerImpl) Trailing(w http.ResponseWriter, r *http.Request) {
	months, ok := getIntQueryParam(r, "months", 0)
	if !ok {
		response.HandleError(w, statistics.ErrInvalidMonthsCount)
		return
	}

	result, err := h.statisticsService.Trailing(r.Context(), months)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Today implements StatisticsHandler.
func (h *statisticsHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.statisticsService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
