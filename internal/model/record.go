package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
)

// NA is the textual form of a missing mark.
const NA = "NA"

// Mark is a subject score that may be missing.
type Mark struct {
	Value float64
	Valid bool
}

// MarkFrom treats NaN and infinities as missing.
func MarkFrom(v float64) Mark {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Mark{}
	}
	return Mark{Value: v, Valid: true}
}

// ParseMark coerces s to a Mark; blank, "NA" and unparseable values are missing.
func ParseMark(s string) Mark {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, NA) {
		return Mark{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Mark{}
	}
	return MarkFrom(v)
}

func (m Mark) Float64() null.Float64 {
	return null.NewFloat64(m.Value, m.Valid)
}

func (m Mark) String() string {
	if !m.Valid {
		return NA
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

func (m Mark) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte(`"` + NA + `"`), nil
	}
	return json.Marshal(m.Value)
}

func (m *Mark) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Mark{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = ParseMark(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = MarkFrom(v)
	return nil
}

// StudentRecord is one student's row of a grade report.
// Missing numerics are invalid null values rather than rejected records.
type StudentRecord struct {
	SeatNumber   string          `json:"seatNumber"`
	SGPA         null.Float64    `json:"sgpa"`
	TotalCredits null.Int        `json:"totalCredits"`
	SubjectMarks map[string]Mark `json:"subjectMarks,omitempty"`
}

// ParseSGPA coerces s to an SGPA; failures yield an invalid value.
func ParseSGPA(s string) null.Float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float64{}
	}
	return null.Float64From(v)
}

// ParseCredits coerces s to an integer credit total; failures yield an invalid value.
func ParseCredits(s string) null.Int {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return null.IntFrom(v)
	}
	// spreadsheets often hand back "24.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return null.IntFrom(int(f))
	}
	return null.Int{}
}

// ReportTable is the ordered set of records from one document.
// Subjects lists subject columns in source order; it is empty for PDF reports.
type ReportTable struct {
	Records  []StudentRecord `json:"records"`
	Subjects []string        `json:"subjects,omitempty"`
}

func (t ReportTable) Len() int { return len(t.Records) }
