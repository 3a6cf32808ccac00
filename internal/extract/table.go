package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"resultboard/internal/model"
)

// ReadTable reads the header row and data rows of a tabular upload.
func ReadTable(format Format, r io.Reader) ([]string, [][]string, error) {
	var rows [][]string
	var err error
	switch format {
	case CSV:
		rows, err = readDelimited(r, ',')
	case TXT:
		rows, err = readDelimited(r, 0)
	case XLSX:
		rows, err = readSheet(r)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: no header row", ErrUnreadableDocument)
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}
	return header, rows[1:], nil
}

// readDelimited parses CSV-style text. A zero comma sniffs the header line.
func readDelimited(r io.Reader, comma rune) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	if comma == 0 {
		comma = sniffDelimiter(string(data))
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func sniffDelimiter(data string) rune {
	line := data
	if i := strings.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', 0
	for _, c := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// readSheet returns the rows of the first sheet.
func readSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableDocument)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %s: %v", ErrUnreadableDocument, sheetName, err)
	}
	return rows, nil
}

// Schema names the columns of a tabular grade report. Every column not
// named here is treated as a subject.
type Schema struct {
	Seat    string
	SGPA    string
	Credits string // optional
	Ignore  []string
}

var DefaultSchema = Schema{
	Seat:    "Seat Number",
	SGPA:    "SGPA",
	Credits: "Total Credits Earned",
	Ignore:  []string{"Status"},
}

// Table maps rows onto records. Seat and SGPA columns are required; a
// missing one fails the whole table.
func (s Schema) Table(header []string, rows [][]string) (model.ReportTable, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup && name != "" {
			index[name] = i
		}
	}
	for _, required := range []string{s.Seat, s.SGPA} {
		if _, ok := index[required]; !ok {
			return model.ReportTable{}, fmt.Errorf("%w: file must contain a %q column", ErrMissingColumn, required)
		}
	}

	skip := map[string]bool{s.Seat: true, s.SGPA: true, s.Credits: true}
	for _, name := range s.Ignore {
		skip[name] = true
	}
	var subjects []string
	for i, name := range header {
		if name == "" || skip[name] || index[name] != i {
			continue
		}
		subjects = append(subjects, name)
	}

	cell := func(row []string, name string) (string, bool) {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	table := model.ReportTable{Subjects: subjects, Records: make([]model.StudentRecord, 0, len(rows))}
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		seat, _ := cell(row, s.Seat)
		sgpa, _ := cell(row, s.SGPA)
		rec := model.StudentRecord{
			SeatNumber: strings.TrimSpace(seat),
			SGPA:       model.ParseSGPA(sgpa),
		}
		if credits, ok := cell(row, s.Credits); ok {
			rec.TotalCredits = model.ParseCredits(credits)
		}
		if len(subjects) > 0 {
			rec.SubjectMarks = make(map[string]model.Mark, len(subjects))
			for _, subject := range subjects {
				v, _ := cell(row, subject)
				rec.SubjectMarks[subject] = model.ParseMark(v)
			}
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
