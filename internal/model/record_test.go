package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestParseMark(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
		value float64
	}{
		{"85", true, 85},
		{" 72.5 ", true, 72.5},
		{"", false, 0},
		{"NA", false, 0},
		{"na", false, 0},
		{"AB", false, 0},
		{"inf", false, 0},
		{"-Infinity", false, 0},
		{"NaN", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m := ParseMark(tt.in)
			assert.Equal(t, tt.valid, m.Valid)
			assert.Equal(t, tt.value, m.Value)
		})
	}
}

func TestMarkJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Mark{"a": MarkFrom(85), "b": {}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":85,"b":"NA"}`, string(data))

	var got map[string]Mark
	require.NoError(t, json.Unmarshal([]byte(`{"a":85,"b":"NA","c":"70","d":null}`), &got))
	assert.Equal(t, MarkFrom(85), got["a"])
	assert.False(t, got["b"].Valid)
	assert.Equal(t, MarkFrom(70), got["c"])
	assert.False(t, got["d"].Valid)
}

func TestMarkJSONNeverHoldsInfinity(t *testing.T) {
	rec := StudentRecord{SeatNumber: "B1", SubjectMarks: map[string]Mark{"Maths": ParseMark("inf"), "Physics": MarkFrom(math.Inf(-1))}}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"seatNumber":"B1","sgpa":null,"totalCredits":null,"subjectMarks":{"Maths":"NA","Physics":"NA"}}`, string(data))
}

func TestParseSGPAAndCredits(t *testing.T) {
	assert.Equal(t, null.Float64From(8.5), ParseSGPA("8.5"))
	assert.False(t, ParseSGPA("8.5.1").Valid)
	assert.False(t, ParseSGPA("NaN").Valid)
	assert.Equal(t, null.IntFrom(24), ParseCredits("24"))
	assert.Equal(t, null.IntFrom(24), ParseCredits("24.0"))
	assert.False(t, ParseCredits("24.5").Valid)
	assert.False(t, ParseCredits("").Valid)
}

func TestStudentRecordJSONUsesNullForMissing(t *testing.T) {
	rec := StudentRecord{SeatNumber: "T001", SGPA: ParseSGPA("x"), TotalCredits: null.IntFrom(20)}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"seatNumber":"T001","sgpa":null,"totalCredits":20}`, string(data))
}

func TestReportRoundTrip(t *testing.T) {
	table := ReportTable{
		Subjects: []string{"Maths", "Physics"},
		Records: []StudentRecord{
			{SeatNumber: "S2", SGPA: null.Float64From(9.1), SubjectMarks: map[string]Mark{"Maths": MarkFrom(90), "Physics": {}}},
			{SeatNumber: "S1", SGPA: null.Float64{}, SubjectMarks: map[string]Mark{"Maths": MarkFrom(40), "Physics": MarkFrom(55)}},
		},
	}

	report := NewReport("r1", "a.csv", "csv", table)
	require.Len(t, report.Results, 2)
	assert.Equal(t, 1, report.Results[1].Position)

	// reverse to prove Table restores document order
	report.Results[0], report.Results[1] = report.Results[1], report.Results[0]
	got := report.Table()
	assert.Equal(t, table, got)
}

func TestReportKeepsSubjectsWithoutRows(t *testing.T) {
	table := ReportTable{Subjects: []string{"Physics", "Maths"}, Records: []StudentRecord{}}

	report := NewReport("r2", "empty.csv", "csv", table)
	assert.Empty(t, report.Results)
	assert.Equal(t, []string{"Physics", "Maths"}, report.Table().Subjects)
}

func TestSubjectListValueScan(t *testing.T) {
	v, err := SubjectList{"Maths", "Physics"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Maths","Physics"]`, v)

	empty, err := SubjectList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	var l SubjectList
	require.NoError(t, l.Scan([]byte(`["Maths"]`)))
	assert.Equal(t, SubjectList{"Maths"}, l)
	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)
	assert.Error(t, l.Scan(42))
}
