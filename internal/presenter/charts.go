package presenter

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"resultboard/internal/grading"
)

func histogramChart(buckets []Bucket) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Distribution of SGPA"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "SGPA"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frequency"}),
		charts.WithColorsOpts(opts.Colors{"purple"}),
	)
	labels := make([]string, len(buckets))
	data := make([]opts.BarData, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label()
		data[i] = opts.BarData{Name: labels[i], Value: b.Count}
	}
	bar.SetXAxis(labels).AddSeries("SGPA", data)
	return bar
}

func countsChart(title, axis, series, color string, counts []grading.BandCount) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: axis}),
		charts.WithYAxisOpts(opts.YAxis{Name: series}),
		charts.WithColorsOpts(opts.Colors{color}),
	)
	labels := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		labels[i] = c.Band
		data[i] = opts.BarData{Name: c.Band, Value: c.Count}
	}
	bar.SetXAxis(labels).AddSeries(series, data)
	return bar
}

func scatterChart(points []Point) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Scatter Plot: SGPA Distribution"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Student Index", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "SGPA"}),
		charts.WithColorsOpts(opts.Colors{"blue"}),
	)
	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		data[i] = opts.ScatterData{Name: p.SeatNumber, Value: []interface{}{p.Index, p.SGPA}}
	}
	scatter.AddSeries("SGPA", data)
	return scatter
}

func statusPie(counts []grading.BandCount) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "All Clear vs Fail"}),
		charts.WithColorsOpts(opts.Colors{"green", "red"}),
	)
	data := make([]opts.PieData, len(counts))
	for i, c := range counts {
		data[i] = opts.PieData{Name: c.Band, Value: c.Count}
	}
	pie.AddSeries("Status", data)
	return pie
}
