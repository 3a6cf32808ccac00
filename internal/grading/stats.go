package grading

import (
	"math"

	"github.com/volatiletech/null/v8"

	"resultboard/internal/model"
)

// SummaryStats is recomputed from the table on every request.
type SummaryStats struct {
	Count       int          `json:"count"`
	MeanSGPA    null.Float64 `json:"meanSgpa"`
	MaxSGPA     null.Float64 `json:"maxSgpa"`
	MinSGPA     null.Float64 `json:"minSgpa"`
	MeanCredits null.Float64 `json:"meanCredits"`
}

type StatRow struct {
	Metric string       `json:"metric"`
	Value  null.Float64 `json:"value"`
}

// Summarize skips missing values; a statistic over no values is invalid.
func Summarize(table model.ReportTable) SummaryStats {
	var sgpa, credits []float64
	for _, rec := range table.Records {
		if rec.SGPA.Valid {
			sgpa = append(sgpa, rec.SGPA.Float64)
		}
		if rec.TotalCredits.Valid {
			credits = append(credits, float64(rec.TotalCredits.Int))
		}
	}

	stats := SummaryStats{Count: len(table.Records)}
	if len(sgpa) > 0 {
		stats.MeanSGPA = null.Float64From(round2(mean(sgpa)))
		lo, hi := minMax(sgpa)
		stats.MinSGPA = null.Float64From(lo)
		stats.MaxSGPA = null.Float64From(hi)
	}
	if len(credits) > 0 {
		stats.MeanCredits = null.Float64From(round2(mean(credits)))
	}
	return stats
}

// Rows is the statistics table in display order.
func (s SummaryStats) Rows() []StatRow {
	return []StatRow{
		{Metric: "Class Average SGPA", Value: s.MeanSGPA},
		{Metric: "Highest SGPA", Value: s.MaxSGPA},
		{Metric: "Lowest SGPA", Value: s.MinSGPA},
		{Metric: "Average Total Credits Earned", Value: s.MeanCredits},
	}
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func minMax(xs []float64) (float64, float64) {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
