package grading

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"resultboard/internal/model"
)

func sgpaTable(values ...null.Float64) model.ReportTable {
	var table model.ReportTable
	for i, v := range values {
		table.Records = append(table.Records, model.StudentRecord{
			SeatNumber: string(rune('A' + i)),
			SGPA:       v,
		})
	}
	return table
}

func TestSummarizeScenario(t *testing.T) {
	table := sgpaTable(null.Float64From(8.5), null.Float64From(9.2))
	table.Records[0].TotalCredits = null.IntFrom(20)
	table.Records[1].TotalCredits = null.IntFrom(25)

	stats := Summarize(table)

	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 8.85, stats.MeanSGPA.Float64, 1e-9)
	assert.Equal(t, 9.2, stats.MaxSGPA.Float64)
	assert.Equal(t, 8.5, stats.MinSGPA.Float64)
	assert.InDelta(t, 22.5, stats.MeanCredits.Float64, 1e-9)
}

func TestSummarizeSkipsMissing(t *testing.T) {
	stats := Summarize(sgpaTable(null.Float64From(6), null.Float64{}, null.Float64From(9)))

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 7.5, stats.MeanSGPA.Float64)
	assert.Equal(t, 6.0, stats.MinSGPA.Float64)
	assert.False(t, stats.MeanCredits.Valid)
}

func TestSummarizeAllMissingIsUndefined(t *testing.T) {
	for _, table := range []model.ReportTable{{}, sgpaTable(null.Float64{}, null.Float64{})} {
		stats := Summarize(table)
		assert.False(t, stats.MeanSGPA.Valid, "mean must be undefined, not zero")
		assert.False(t, stats.MaxSGPA.Valid)
		assert.False(t, stats.MinSGPA.Valid)
	}
}

func TestSummaryRowsOrder(t *testing.T) {
	rows := Summarize(sgpaTable(null.Float64From(7))).Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "Class Average SGPA", rows[0].Metric)
	assert.Equal(t, "Average Total Credits Earned", rows[3].Metric)
}

func TestSGPAPolicyBoundaries(t *testing.T) {
	tests := []struct {
		sgpa float64
		want string
	}{
		{0, "C"},
		{6.99, "C"},
		{7.0, "C"},
		{7.01, "B"},
		{8.0, "B"},
		{8.5, "A"},
		{9.0, "A"},
		{9.01, "O"},
		{10.0, "O"},
	}
	for _, tt := range tests {
		got := SGPAPolicy.Band(null.Float64From(tt.sgpa))
		require.True(t, got.Valid, "sgpa %v", tt.sgpa)
		assert.Equal(t, tt.want, got.String, "sgpa %v", tt.sgpa)
	}

	for _, v := range []null.Float64{{}, null.Float64From(-0.1), null.Float64From(10.5), null.Float64From(math.NaN())} {
		assert.False(t, SGPAPolicy.Band(v).Valid)
	}
}

func TestSGPAPolicyIsTotalOnRange(t *testing.T) {
	for x := 0.0; x <= 10.0; x += 0.01 {
		hits := 0
		for _, iv := range SGPAPolicy.Intervals {
			if iv.contains(x) {
				hits++
			}
		}
		assert.Equal(t, 1, hits, "sgpa %v", x)
	}
}

func TestMarksPolicy(t *testing.T) {
	tests := []struct {
		mark float64
		want string
	}{
		{0, "Fail"},
		{49.9, "Fail"},
		{50, "Second Class"},
		{59, "Second Class"},
		{60, "First Class"},
		{74.5, "First Class"},
		{75, "Distinction"},
		{100, "Distinction"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MarksPolicy.Band(null.Float64From(tt.mark)).String, "mark %v", tt.mark)
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup(" SGPA ")
	require.NoError(t, err)
	assert.Equal(t, "sgpa", p.Name)

	_, err = Lookup("curve")
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	assert.Equal(t, []string{"marks", "sgpa"}, PolicyNames())
}

func TestClassifyAndBandCounts(t *testing.T) {
	table := sgpaTable(null.Float64From(6.5), null.Float64{}, null.Float64From(9.5), null.Float64From(8.0))

	labels := Classify(SGPAPolicy, table)

	require.Len(t, labels, 4)
	assert.Equal(t, "C", labels[0].String)
	assert.False(t, labels[1].Valid)
	assert.Equal(t, []BandCount{{"C", 1}, {"B", 1}, {"A", 0}, {"O", 1}}, BandCounts(SGPAPolicy, labels))
}

func marksTable() model.ReportTable {
	return model.ReportTable{
		Subjects: []string{"Maths", "Physics"},
		Records: []model.StudentRecord{
			{SeatNumber: "S1", SGPA: null.Float64From(8.2), SubjectMarks: map[string]model.Mark{"Maths": model.MarkFrom(90), "Physics": model.MarkFrom(55)}},
			{SeatNumber: "S2", SGPA: null.Float64From(0), SubjectMarks: map[string]model.Mark{"Maths": model.MarkFrom(40), "Physics": {}}},
			{SeatNumber: "S3", SGPA: null.Float64From(9.4), SubjectMarks: map[string]model.Mark{"Maths": model.MarkFrom(90), "Physics": model.MarkFrom(61)}},
		},
	}
}

func TestClassifyMarks(t *testing.T) {
	marks := ClassifyMarks(MarksPolicy, marksTable())

	assert.Equal(t, "Distinction", marks[0]["Maths"].String)
	assert.Equal(t, "Second Class", marks[0]["Physics"].String)
	assert.False(t, marks[1]["Physics"].Valid)

	assert.Equal(t,
		[]BandCount{{"Fail", 1}, {"Second Class", 1}, {"First Class", 1}, {"Distinction", 2}},
		MarksDistribution(MarksPolicy, marks))
	assert.Equal(t,
		[]BandCount{{"Fail", 0}, {"Second Class", 1}, {"First Class", 1}, {"Distinction", 0}},
		SubjectDistribution(MarksPolicy, marks, "Physics"))
}

func TestTopN(t *testing.T) {
	table := sgpaTable(null.Float64From(7), null.Float64{}, null.Float64From(9), null.Float64From(7))

	top := TopN(table, 3)

	require.Len(t, top, 3)
	assert.Equal(t, "C", top[0].SeatNumber)
	assert.Equal(t, "A", top[1].SeatNumber)
	assert.Equal(t, "D", top[2].SeatNumber)
	assert.Len(t, TopN(table, 10), 4)
	assert.Equal(t, "B", TopN(table, 10)[3].SeatNumber)
}

func TestStatuses(t *testing.T) {
	statuses := Statuses(marksTable())
	assert.Equal(t, []string{StatusAllClear, StatusFail, StatusAllClear}, statuses)
	assert.Equal(t, []BandCount{{StatusAllClear, 2}, {StatusFail, 1}}, StatusCounts(statuses))
	assert.Equal(t, StatusFail, Status(null.Float64{}))
}

func TestToppers(t *testing.T) {
	toppers := Toppers(marksTable(), "Maths")
	assert.Equal(t, []Topper{{"S1", 90}, {"S3", 90}}, toppers)
	assert.Empty(t, Toppers(marksTable(), "Chemistry"))
}

func TestDescribe(t *testing.T) {
	cols := Describe(marksTable())

	require.Len(t, cols, 4)
	assert.Equal(t, "SGPA", cols[0].Name)
	assert.Equal(t, 3, cols[0].Count)
	assert.Equal(t, 0, cols[1].Count)
	assert.False(t, cols[1].Mean.Valid)

	physics := cols[3]
	assert.Equal(t, "Physics", physics.Name)
	assert.Equal(t, 2, physics.Count)
	assert.Equal(t, 58.0, physics.Mean.Float64)
	assert.InDelta(t, math.Sqrt(18), physics.Std.Float64, 1e-9)
}
