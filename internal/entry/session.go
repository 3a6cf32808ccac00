// Package entry keeps manually entered student results in a caller-owned
// Session that is saved to and loaded from a JSON file and exported as a
// flat CSV or XLSX table.
package entry

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	DefaultSeatPrefix = "B1903103"
	NA                = "NA"
)

var ErrNoData = errors.New("no student data to export")

type Subject struct {
	Code string
	Name string
}

// Subjects is the fixed subject table in column order.
var Subjects = []Subject{
	{"418541", "Information Retrieval in AI"},
	{"418542", "Cloud Computing"},
	{"418543", "Deep Learning for AI"},
	{"418544B", "Block Chain"},
	{"418545C", "DevOps in Machine Learning"},
	{"418546", "Lab Practice III"},
	{"418547", "Lab Practice IV"},
	{"418548", "Project Stage I"},
	{"418549A", "Copyrights and Patents"},
}

var subjectIndex = func() map[string]int {
	idx := make(map[string]int, len(Subjects))
	for i, s := range Subjects {
		idx[s.Code] = i
	}
	return idx
}()

// Student is one stored entry. Marks are kept as entered, "NA" when blank.
type Student struct {
	SGPA  float64           `json:"SGPA"`
	Marks map[string]string `json:"Marks"`
}

// Input is one unvalidated form submission.
type Input struct {
	SeatSuffix string            `json:"seatSuffix" validate:"required,len=3,number"`
	SGPA       string            `json:"sgpa" validate:"required,sgpa_number"`
	Marks      map[string]string `json:"marks" validate:"dive,keys,subject_code,endkeys"`
}

// Session maps full seat numbers to students. It is not safe for
// concurrent use.
type Session struct {
	Prefix   string
	students map[string]Student
}

func NewSession(prefix string) *Session {
	if prefix == "" {
		prefix = DefaultSeatPrefix
	}
	return &Session{Prefix: prefix, students: map[string]Student{}}
}

// Add validates in and stores it under Prefix+SeatSuffix, replacing any
// previous entry for that seat. The session is untouched on error.
func (s *Session) Add(in Input) (string, error) {
	in.SeatSuffix = strings.TrimSpace(in.SeatSuffix)
	in.SGPA = strings.TrimSpace(in.SGPA)
	if err := validate.Struct(in); err != nil {
		return "", validationError(err)
	}
	sgpa, _ := strconv.ParseFloat(in.SGPA, 64)

	marks := make(map[string]string, len(Subjects))
	for _, subject := range Subjects {
		mark := strings.TrimSpace(in.Marks[subject.Code])
		if mark == "" {
			mark = NA
		}
		marks[subject.Code] = mark
	}

	seat := s.Prefix + in.SeatSuffix
	s.students[seat] = Student{SGPA: sgpa, Marks: marks}
	return seat, nil
}

func (s *Session) Get(seat string) (Student, bool) {
	st, ok := s.students[seat]
	return st, ok
}

func (s *Session) Len() int { return len(s.students) }

// Seats returns the stored seat numbers in sorted order.
func (s *Session) Seats() []string {
	seats := make([]string, 0, len(s.students))
	for seat := range s.students {
		seats = append(seats, seat)
	}
	sort.Strings(seats)
	return seats
}

// Save writes every entry to path as indented JSON.
func (s *Session) Save(path string) error {
	data, err := json.MarshalIndent(s.students, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load replaces every entry with the contents of path. Nothing is merged,
// and the session is untouched on error.
func (s *Session) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	var students map[string]Student
	if err := json.Unmarshal(data, &students); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if students == nil {
		students = map[string]Student{}
	}
	for seat, st := range students {
		if st.Marks == nil {
			st.Marks = map[string]string{}
			students[seat] = st
		}
	}
	s.students = students
	return nil
}

// Header is the flat export header.
func Header() []string {
	header := []string{"Seat Number", "SGPA"}
	for _, subject := range Subjects {
		header = append(header, subject.Name)
	}
	return header
}

// Rows projects the session onto the export columns, sorted by seat.
func (s *Session) Rows() [][]string {
	rows := make([][]string, 0, len(s.students))
	for _, seat := range s.Seats() {
		st := s.students[seat]
		row := []string{seat, strconv.FormatFloat(st.SGPA, 'f', -1, 64)}
		for _, subject := range Subjects {
			mark, ok := st.Marks[subject.Code]
			if !ok || mark == "" {
				mark = NA
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Session) ExportCSV(w io.Writer) error {
	if s.Len() == 0 {
		return ErrNoData
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(s.Rows()); err != nil {
		return err
	}
	return cw.Error()
}

// ExportXLSX writes the same projection as ExportCSV to a single sheet.
// SGPA and numeric marks are stored as numbers.
func (s *Session) ExportXLSX(w io.Writer) error {
	if s.Len() == 0 {
		return ErrNoData
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", toCells(Header())); err != nil {
		return err
	}
	for i, row := range s.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, toCells(row)); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func toCells(row []string) *[]interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		if n, err := strconv.ParseFloat(v, 64); err == nil && i > 0 {
			cells[i] = n
			continue
		}
		cells[i] = v
	}
	return &cells
}
