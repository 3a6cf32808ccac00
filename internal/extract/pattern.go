package extract

import (
	"regexp"

	"resultboard/internal/model"
)

// recordPattern may span line breaks between the seat number and the SGPA line.
var recordPattern = regexp.MustCompile(`(?s)SEAT NO\.: (T\d+).*?SGPA\s+:\s+([\d.]+),\s+TOTAL CREDITS EARNED\s+:\s+(\d+)`)

// ExtractRecords returns one record per pattern match, in document order.
// Text without matches yields an empty slice.
func ExtractRecords(text string) []model.StudentRecord {
	matches := recordPattern.FindAllStringSubmatch(text, -1)
	records := make([]model.StudentRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, model.StudentRecord{
			SeatNumber:   m[1],
			SGPA:         model.ParseSGPA(m[2]),
			TotalCredits: model.ParseCredits(m[3]),
		})
	}
	return records
}
