package grading

import (
	"math"

	"github.com/volatiletech/null/v8"

	"resultboard/internal/model"
)

// ColumnSummary describes one numeric column. Std is the sample deviation.
type ColumnSummary struct {
	Name  string       `json:"name"`
	Count int          `json:"count"`
	Mean  null.Float64 `json:"mean"`
	Std   null.Float64 `json:"std"`
	Min   null.Float64 `json:"min"`
	Max   null.Float64 `json:"max"`
}

// Describe summarises SGPA, credits and each subject column.
func Describe(table model.ReportTable) []ColumnSummary {
	var sgpa, credits []float64
	subjects := make([][]float64, len(table.Subjects))
	for _, rec := range table.Records {
		if rec.SGPA.Valid {
			sgpa = append(sgpa, rec.SGPA.Float64)
		}
		if rec.TotalCredits.Valid {
			credits = append(credits, float64(rec.TotalCredits.Int))
		}
		for i, subject := range table.Subjects {
			if m := rec.SubjectMarks[subject]; m.Valid {
				subjects[i] = append(subjects[i], m.Value)
			}
		}
	}

	out := []ColumnSummary{summarizeColumn("SGPA", sgpa), summarizeColumn("Total Credits Earned", credits)}
	for i, subject := range table.Subjects {
		out = append(out, summarizeColumn(subject, subjects[i]))
	}
	return out
}

func summarizeColumn(name string, xs []float64) ColumnSummary {
	cs := ColumnSummary{Name: name, Count: len(xs)}
	if len(xs) == 0 {
		return cs
	}
	m := mean(xs)
	lo, hi := minMax(xs)
	cs.Mean = null.Float64From(m)
	cs.Min = null.Float64From(lo)
	cs.Max = null.Float64From(hi)
	if len(xs) > 1 {
		var ss float64
		for _, x := range xs {
			ss += (x - m) * (x - m)
		}
		cs.Std = null.Float64From(math.Sqrt(ss / float64(len(xs)-1)))
	}
	return cs
}
