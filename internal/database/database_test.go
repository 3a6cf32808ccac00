package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"resultboard/internal/config"
	"resultboard/internal/model"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestReportRoundTrip(t *testing.T) {
	db, err := Open(&config.Config{DBDriver: "sqlite", SQLitePath: "file:" + t.Name() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	table := model.ReportTable{
		Subjects: []string{"Maths", "Physics"},
		Records: []model.StudentRecord{
			{SeatNumber: "B2", SGPA: null.Float64From(7.5), SubjectMarks: map[string]model.Mark{"Maths": model.MarkFrom(70), "Physics": {}}},
			{SeatNumber: "B1", SGPA: null.Float64{}, TotalCredits: null.IntFrom(20), SubjectMarks: map[string]model.Mark{"Maths": model.MarkFrom(40), "Physics": model.MarkFrom(55)}},
		},
	}
	report := model.NewReport("0b6f7c1e-0000-4000-8000-000000000001", "marks.csv", "csv", table)
	require.NoError(t, db.Create(&report).Error)

	var stored model.Report
	require.NoError(t, db.Preload("Results.Marks").First(&stored, "id = ?", report.ID).Error)

	got := stored.Table()
	assert.Equal(t, table.Subjects, got.Subjects)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "B2", got.Records[0].SeatNumber)
	assert.False(t, got.Records[1].SGPA.Valid)
	assert.Equal(t, null.IntFrom(20), got.Records[1].TotalCredits)
	assert.Equal(t, "NA", got.Records[0].SubjectMarks["Physics"].String())
}
