package grading

import (
	"math"
	"sort"

	"github.com/volatiletech/null/v8"

	"resultboard/internal/model"
)

const (
	StatusAllClear = "All Clear"
	StatusFail     = "Fail"
)

// TopN returns up to n records by SGPA descending; missing SGPA sorts last.
func TopN(table model.ReportTable, n int) []model.StudentRecord {
	records := append([]model.StudentRecord(nil), table.Records...)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].SGPA, records[j].SGPA
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Valid && a.Float64 > b.Float64
	})
	if n >= 0 && n < len(records) {
		records = records[:n]
	}
	return records
}

// Status is "All Clear" for a positive SGPA and "Fail" otherwise.
func Status(sgpa null.Float64) string {
	if sgpa.Valid && sgpa.Float64 > 0 {
		return StatusAllClear
	}
	return StatusFail
}

func Statuses(table model.ReportTable) []string {
	out := make([]string, len(table.Records))
	for i, rec := range table.Records {
		out[i] = Status(rec.SGPA)
	}
	return out
}

func StatusCounts(statuses []string) []BandCount {
	counts := []BandCount{{Band: StatusAllClear}, {Band: StatusFail}}
	for _, s := range statuses {
		if s == StatusAllClear {
			counts[0].Count++
		} else {
			counts[1].Count++
		}
	}
	return counts
}

type Topper struct {
	SeatNumber string  `json:"seatNumber"`
	Mark       float64 `json:"mark"`
}

// Toppers returns every record holding the highest mark in subject.
func Toppers(table model.ReportTable, subject string) []Topper {
	best := math.Inf(-1)
	for _, rec := range table.Records {
		if m := rec.SubjectMarks[subject]; m.Valid && m.Value > best {
			best = m.Value
		}
	}
	var out []Topper
	if math.IsInf(best, -1) {
		return out
	}
	for _, rec := range table.Records {
		if m := rec.SubjectMarks[subject]; m.Valid && m.Value == best {
			out = append(out, Topper{SeatNumber: rec.SeatNumber, Mark: m.Value})
		}
	}
	return out
}
