package service

import (
	"math"
	"strings"

	"gorm.io/gorm"

	"resultboard/internal/model"
)

var sortColumns = map[string]string{
	"seat_number":   "seat_number",
	"sgpa":          "sgpa",
	"total_credits": "total_credits",
	"report_id":     "report_id",
	"position":      "position",
	"id":            "id",
}

type ResultService struct {
	db *gorm.DB
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db}
}

// ListResults pages through stored results. Unknown sort columns fall back
// to seat_number; sgpaMin and sgpaMax of zero mean no bound.
func (s *ResultService) ListResults(page, limit int, sortBy, sortOrder, seatNumber, reportID string, sgpaMin, sgpaMax float64) ([]model.Result, int64, int, error) {
	results := []model.Result{}
	dbQuery := s.db.Model(&model.Result{})

	// Apply filters
	if seatNumber != "" {
		dbQuery = dbQuery.Where("LOWER(seat_number) LIKE ?", "%"+strings.ToLower(seatNumber)+"%")
	}
	if reportID != "" {
		dbQuery = dbQuery.Where("report_id = ?", reportID)
	}
	if sgpaMin > 0 {
		dbQuery = dbQuery.Where("sgpa >= ?", sgpaMin)
	}
	if sgpaMax > 0 {
		dbQuery = dbQuery.Where("sgpa <= ?", sgpaMax)
	}

	var totalCount int64
	if err := dbQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, 0, err
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		column = "seat_number"
	}
	direction := "asc"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "desc"
	}

	err := dbQuery.Preload("Marks").
		Order(column + " " + direction).
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, 0, err
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))

	return results, totalCount, totalPages, nil
}
