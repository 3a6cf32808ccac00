package presenter

import (
	"fmt"
	"math"

	"resultboard/internal/model"
)

// HistogramBins is the fixed bucket count of the SGPA histogram.
const HistogramBins = 10

type Bucket struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

func (b Bucket) Label() string {
	return fmt.Sprintf("%.2f-%.2f", b.Lower, b.Upper)
}

// Histogram buckets values into equal-width bins over [min, max]. Every bin
// is half-open except the last, which also takes max. A single distinct
// value is widened by 0.5 either side and no values give the range [0, 1].
func Histogram(values []float64, bins int) []Bucket {
	if bins < 1 {
		bins = 1
	}
	lo, hi := 0.0, 1.0
	if len(values) > 0 {
		lo, hi = values[0], values[0]
		for _, v := range values[1:] {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if lo == hi {
			lo, hi = lo-0.5, hi+0.5
		}
	}

	width := (hi - lo) / float64(bins)
	buckets := make([]Bucket, bins)
	for i := range buckets {
		buckets[i].Lower = lo + float64(i)*width
		buckets[i].Upper = lo + float64(i+1)*width
	}
	buckets[bins-1].Upper = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		buckets[i].Count++
	}
	return buckets
}

// SGPAValues returns the present SGPA values in record order.
func SGPAValues(table model.ReportTable) []float64 {
	out := make([]float64, 0, len(table.Records))
	for _, rec := range table.Records {
		if rec.SGPA.Valid {
			out = append(out, rec.SGPA.Float64)
		}
	}
	return out
}

type Point struct {
	Index      int     `json:"index"`
	SeatNumber string  `json:"seatNumber"`
	SGPA       float64 `json:"sgpa"`
}

// IndexSeries pairs each present SGPA with its record position.
func IndexSeries(table model.ReportTable) []Point {
	out := make([]Point, 0, len(table.Records))
	for i, rec := range table.Records {
		if rec.SGPA.Valid {
			out = append(out, Point{Index: i, SeatNumber: rec.SeatNumber, SGPA: rec.SGPA.Float64})
		}
	}
	return out
}
