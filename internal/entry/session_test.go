package entry

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAddSeatSuffix(t *testing.T) {
	tests := []struct {
		name    string
		suffix  string
		wantErr bool
	}{
		{"three digits", "012", false},
		{"surrounding space", " 345 ", false},
		{"two digits", "12", true},
		{"four digits", "1234", true},
		{"letters", "1a2", true},
		{"signed", "-12", true},
		{"decimal", "1.5", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("")
			seat, err := s.Add(Input{SeatSuffix: tt.suffix, SGPA: "8.5"})
			if tt.wantErr {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "got %v", err)
				assert.Contains(t, verr.Fields, "seatSuffix")
				assert.Equal(t, 0, s.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultSeatPrefix+strings.TrimSpace(tt.suffix), seat)
		})
	}
}

func TestAddSGPA(t *testing.T) {
	s := NewSession("B1903103")

	for _, bad := range []string{"", "  ", "abc", "8,5", "inf", "NaN", "1_0"} {
		_, err := s.Add(Input{SeatSuffix: "001", SGPA: bad})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "sgpa %q", bad)
		assert.Contains(t, verr.Fields, "sgpa")
	}
	assert.Equal(t, 0, s.Len())

	seat, err := s.Add(Input{SeatSuffix: "001", SGPA: "9"})
	require.NoError(t, err)
	st, ok := s.Get(seat)
	require.True(t, ok)
	assert.Equal(t, 9.0, st.SGPA)

	for in, want := range map[string]float64{".5": 0.5, "8.": 8, "1e1": 10} {
		seat, err := s.Add(Input{SeatSuffix: "002", SGPA: in})
		require.NoError(t, err, "sgpa %q", in)
		st, _ := s.Get(seat)
		assert.Equal(t, want, st.SGPA, "sgpa %q", in)
	}
}

func TestAddMarks(t *testing.T) {
	s := NewSession("")

	seat, err := s.Add(Input{
		SeatSuffix: "007",
		SGPA:       "8.25",
		Marks:      map[string]string{"418541": " 85 ", "418546": ""},
	})
	require.NoError(t, err)

	st, _ := s.Get(seat)
	require.Len(t, st.Marks, len(Subjects))
	assert.Equal(t, "85", st.Marks["418541"])
	assert.Equal(t, NA, st.Marks["418546"])
	assert.Equal(t, NA, st.Marks["418549A"])

	_, err = s.Add(Input{SeatSuffix: "008", SGPA: "7", Marks: map[string]string{"999999": "50"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Error(), "999999")
	assert.Equal(t, 1, s.Len())
}

func TestAddReplacesSameSeat(t *testing.T) {
	s := NewSession("")
	_, err := s.Add(Input{SeatSuffix: "001", SGPA: "6"})
	require.NoError(t, err)
	_, err = s.Add(Input{SeatSuffix: "001", SGPA: "7"})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	st, _ := s.Get(DefaultSeatPrefix + "001")
	assert.Equal(t, 7.0, st.SGPA)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewSession("")
	_, err := s.Add(Input{SeatSuffix: "002", SGPA: "8.5", Marks: map[string]string{"418542": "70"}})
	require.NoError(t, err)
	_, err = s.Add(Input{SeatSuffix: "001", SGPA: "9.12"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "students.json")
	require.NoError(t, s.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n    \"B1903103001\": {\n        \"SGPA\": 9.12,")
	assert.Contains(t, string(raw), `"418541": "NA"`)

	loaded := NewSession("")
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, s.students, loaded.students)
}

func TestLoadReplacesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"B1903103500": {"SGPA": 7.5, "Marks": {"418541": "60"}}}`), 0o644))

	s := NewSession("")
	_, err := s.Add(Input{SeatSuffix: "001", SGPA: "9"})
	require.NoError(t, err)

	require.NoError(t, s.Load(path))
	assert.Equal(t, []string{"B1903103500"}, s.Seats())
}

func TestLoadNullDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	s := NewSession("")
	_, err := s.Add(Input{SeatSuffix: "001", SGPA: "9"})
	require.NoError(t, err)

	require.NoError(t, s.Load(path))
	assert.Equal(t, 0, s.Len())

	_, err = s.Add(Input{SeatSuffix: "002", SGPA: "8"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B1903103002"}, s.Seats())
}

func TestLoadErrorKeepsSession(t *testing.T) {
	dir := t.TempDir()
	s := NewSession("")
	_, err := s.Add(Input{SeatSuffix: "001", SGPA: "9"})
	require.NoError(t, err)

	assert.Error(t, s.Load(filepath.Join(dir, "missing.json")))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"B1903103500": `), 0o644))
	assert.Error(t, s.Load(bad))

	assert.Equal(t, []string{"B1903103001"}, s.Seats())
}

func TestExportCSV(t *testing.T) {
	s := NewSession("")
	assert.ErrorIs(t, s.ExportCSV(&bytes.Buffer{}), ErrNoData)

	_, err := s.Add(Input{SeatSuffix: "010", SGPA: "7.5", Marks: map[string]string{"418541": "55"}})
	require.NoError(t, err)
	_, err = s.Add(Input{SeatSuffix: "003", SGPA: "8"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"Seat Number", "SGPA",
		"Information Retrieval in AI", "Cloud Computing", "Deep Learning for AI",
		"Block Chain", "DevOps in Machine Learning", "Lab Practice III",
		"Lab Practice IV", "Project Stage I", "Copyrights and Patents",
	}, records[0])
	assert.Equal(t, []string{"B1903103003", "8", "NA", "NA", "NA", "NA", "NA", "NA", "NA", "NA", "NA"}, records[1])
	assert.Equal(t, "B1903103010", records[2][0])
	assert.Equal(t, "55", records[2][2])
}

func TestExportFillsMarksMissingFromLoadedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"B1903103500": {"SGPA": 7.5}}`), 0o644))
	s := NewSession("")
	require.NoError(t, s.Load(path))

	rows := s.Rows()
	require.Len(t, rows, 1)
	for _, mark := range rows[0][2:] {
		assert.Equal(t, NA, mark)
	}
}

func TestExportXLSX(t *testing.T) {
	s := NewSession("")
	assert.ErrorIs(t, s.ExportXLSX(&bytes.Buffer{}), ErrNoData)

	_, err := s.Add(Input{SeatSuffix: "001", SGPA: "8.5", Marks: map[string]string{"418541": "90"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Header(), rows[0])
	assert.Equal(t, "B1903103001", rows[1][0])
	assert.Equal(t, "8.5", rows[1][1])
	assert.Equal(t, "90", rows[1][2])
	assert.Equal(t, NA, rows[1][3])
}
