package handler

import (
	"net/http"
	"strconv"

	"resultboard/internal/model"
)

type ResultService interface {
	ListResults(page, limit int, sortBy, sortOrder, seatNumber, reportID string, sgpaMin, sgpaMax float64) ([]model.Result, int64, int, error)
}

type ResultHandler struct {
	resultService ResultService
}

func NewResultHandler(resultService ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

func (h *ResultHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	sortBy := query.Get("sort_by")
	if sortBy == "" {
		sortBy = "seat_number"
	}
	sortOrder := query.Get("sort_order")
	if sortOrder == "" {
		sortOrder = "asc"
	}
	seatNumber := query.Get("seat_number")
	reportID := query.Get("report_id")
	sgpaMin, _ := strconv.ParseFloat(query.Get("sgpa_min"), 64)
	sgpaMax, _ := strconv.ParseFloat(query.Get("sgpa_max"), 64)

	results, totalCount, totalPages, err := h.resultService.ListResults(page, limit, sortBy, sortOrder, seatNumber, reportID, sgpaMin, sgpaMax)
	if err != nil {
		writeError(w, err)
		return
	}

	response := map[string]interface{}{
		"data":       results,
		"page":       page,
		"limit":      limit,
		"total":      totalCount,
		"totalPages": totalPages,
	}
	writeJSON(w, http.StatusOK, response)
}
