package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"
)

// Report is one analysed upload.
type Report struct {
	ID        string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FileName  string      `json:"fileName"`
	Format    string      `json:"format"`
	Subjects  SubjectList `gorm:"type:text" json:"subjects,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	Results   []Result    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// SubjectList is stored as a JSON array so a report keeps its subject
// columns even when it has no rows.
type SubjectList []string

func (l SubjectList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *SubjectList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("subject list: unsupported type %T", src)
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// Result is a persisted StudentRecord. Position keeps document order.
type Result struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	ReportID     string        `gorm:"index;type:varchar(36)" json:"reportId"`
	Position     int           `json:"position"`
	SeatNumber   string        `gorm:"index" json:"seatNumber"`
	SGPA         null.Float64  `gorm:"type:double precision" json:"sgpa"`
	TotalCredits null.Int      `gorm:"type:integer" json:"totalCredits"`
	Marks        []SubjectMark `gorm:"constraint:OnDelete:CASCADE" json:"marks,omitempty"`
}

type SubjectMark struct {
	ID       uint         `gorm:"primaryKey" json:"-"`
	ResultID uint         `gorm:"index" json:"-"`
	Subject  string       `json:"subject"`
	Column   int          `json:"-"`
	Score    null.Float64 `gorm:"type:double precision" json:"score"`
}

// NewReport converts a table into its persisted form.
func NewReport(id, fileName, format string, table ReportTable) Report {
	report := Report{ID: id, FileName: fileName, Format: format}
	if len(table.Subjects) > 0 {
		report.Subjects = append(SubjectList(nil), table.Subjects...)
	}
	report.Results = make([]Result, 0, len(table.Records))
	for i, rec := range table.Records {
		res := Result{
			ReportID:     id,
			Position:     i,
			SeatNumber:   rec.SeatNumber,
			SGPA:         rec.SGPA,
			TotalCredits: rec.TotalCredits,
		}
		for col, subject := range table.Subjects {
			mark, ok := rec.SubjectMarks[subject]
			if !ok {
				continue
			}
			res.Marks = append(res.Marks, SubjectMark{
				Subject: subject,
				Column:  col,
				Score:   mark.Float64(),
			})
		}
		report.Results = append(report.Results, res)
	}
	return report
}

// Table rebuilds the ReportTable in document order.
func (r Report) Table() ReportTable {
	results := append([]Result(nil), r.Results...)
	sort.SliceStable(results, func(i, j int) bool { return results[i].Position < results[j].Position })

	columns := map[string]int{}
	table := ReportTable{Records: make([]StudentRecord, 0, len(results))}
	for _, res := range results {
		rec := StudentRecord{
			SeatNumber:   res.SeatNumber,
			SGPA:         res.SGPA,
			TotalCredits: res.TotalCredits,
		}
		if len(res.Marks) > 0 {
			rec.SubjectMarks = make(map[string]Mark, len(res.Marks))
		}
		for _, m := range res.Marks {
			rec.SubjectMarks[m.Subject] = Mark{Value: m.Score.Float64, Valid: m.Score.Valid}
			if _, seen := columns[m.Subject]; !seen {
				columns[m.Subject] = m.Column
			}
		}
		table.Records = append(table.Records, rec)
	}

	if len(r.Subjects) > 0 {
		table.Subjects = append([]string(nil), r.Subjects...)
		return table
	}
	// no stored list: fall back to the columns seen in the marks
	for subject := range columns {
		table.Subjects = append(table.Subjects, subject)
	}
	sort.Slice(table.Subjects, func(i, j int) bool {
		return columns[table.Subjects[i]] < columns[table.Subjects[j]]
	})
	return table
}
