// Package presenter renders a ReportTable as a browser dashboard.
package presenter

import (
	"html/template"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/volatiletech/null/v8"

	"resultboard/internal/grading"
	"resultboard/internal/model"
)

const topCount = 10

// Dashboard holds everything shown for one report. Build it with New.
type Dashboard struct {
	Title      string
	ChartsURL  string
	Table      model.ReportTable
	Stats      grading.SummaryStats
	Policy     grading.Policy
	Bands      []null.String
	BandCounts []grading.BandCount
	Statuses   []string
	Histogram  []Bucket
	Points     []Point

	TopStudents  []model.StudentRecord
	StatusCounts []grading.BandCount
	Columns      []grading.ColumnSummary

	// only filled when the table has subject columns
	Marks       []map[string]null.String
	MarksCounts []grading.BandCount
	Subjects    []SubjectView
}

// SubjectView is the marks breakdown of one subject column.
type SubjectView struct {
	Name         string
	Distribution []grading.BandCount
	Toppers      []grading.Topper
}

// New derives the dashboard from a table. Stats are computed here, never reused.
func New(title string, table model.ReportTable, policy grading.Policy) Dashboard {
	d := Dashboard{
		Title:     title,
		Table:     table,
		Stats:     grading.Summarize(table),
		Policy:    policy,
		Bands:     grading.Classify(policy, table),
		Statuses:  grading.Statuses(table),
		Histogram: Histogram(SGPAValues(table), HistogramBins),
		Points:    IndexSeries(table),
	}
	d.BandCounts = grading.BandCounts(policy, d.Bands)
	d.StatusCounts = grading.StatusCounts(d.Statuses)
	d.TopStudents = grading.TopN(table, topCount)
	d.Columns = grading.Describe(table)
	if len(table.Subjects) > 0 {
		d.Marks = grading.ClassifyMarks(grading.MarksPolicy, table)
		d.MarksCounts = grading.MarksDistribution(grading.MarksPolicy, d.Marks)
		for _, subject := range table.Subjects {
			d.Subjects = append(d.Subjects, SubjectView{
				Name:         subject,
				Distribution: grading.SubjectDistribution(grading.MarksPolicy, d.Marks, subject),
				Toppers:      grading.Toppers(table, subject),
			})
		}
	}
	return d
}

// RenderCharts writes a standalone go-echarts page.
func (d Dashboard) RenderCharts(w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = d.Title
	page.AddCharts(
		histogramChart(d.Histogram),
		countsChart("Grade Distribution", "Grade", "Number of Students", "orange", d.BandCounts),
		scatterChart(d.Points),
		statusPie(d.StatusCounts),
	)
	if len(d.MarksCounts) > 0 {
		page.AddCharts(countsChart("Overall Grade Distribution", "Grade Category", "Number of Instances", "teal", d.MarksCounts))
	}
	for _, subject := range d.Subjects {
		page.AddCharts(countsChart("Grade Distribution for "+subject.Name, "Grade Category", "Number of Students", "steelblue", subject.Distribution))
	}
	return page.Render(w)
}

// RenderHTML writes the tables page, embedding the charts page when ChartsURL is set.
func (d Dashboard) RenderHTML(w io.Writer) error {
	return dashboardTemplate.Execute(w, d)
}

func (d Dashboard) Rows() []Row {
	rows := make([]Row, len(d.Table.Records))
	for i, rec := range d.Table.Records {
		row := Row{
			Index:   i,
			Seat:    rec.SeatNumber,
			SGPA:    formatFloat(rec.SGPA),
			Credits: "NaN",
			Band:    d.Bands[i].String,
			Status:  d.Statuses[i],
		}
		if rec.TotalCredits.Valid {
			row.Credits = strconv.Itoa(rec.TotalCredits.Int)
		}
		for _, subject := range d.Table.Subjects {
			row.Marks = append(row.Marks, rec.SubjectMarks[subject].String())
		}
		rows[i] = row
	}
	return rows
}

type Row struct {
	Index   int
	Seat    string
	SGPA    string
	Credits string
	Band    string
	Status  string
	Marks   []string
}

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"num": formatFloat,
}).Parse(dashboardHTML))
