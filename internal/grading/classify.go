package grading

import (
	"github.com/volatiletech/null/v8"

	"resultboard/internal/model"
)

type BandCount struct {
	Band  string `json:"band"`
	Count int    `json:"count"`
}

// Classify labels every record's SGPA; the result has one entry per record.
func Classify(policy Policy, table model.ReportTable) []null.String {
	labels := make([]null.String, len(table.Records))
	for i, rec := range table.Records {
		labels[i] = policy.Band(rec.SGPA)
	}
	return labels
}

// ClassifyMarks labels every subject mark of every record.
func ClassifyMarks(policy Policy, table model.ReportTable) []map[string]null.String {
	out := make([]map[string]null.String, len(table.Records))
	for i, rec := range table.Records {
		row := make(map[string]null.String, len(table.Subjects))
		for _, subject := range table.Subjects {
			row[subject] = policy.Band(rec.SubjectMarks[subject].Float64())
		}
		out[i] = row
	}
	return out
}

// BandCounts counts labels in policy order, zero counts included.
// Missing labels are not counted.
func BandCounts(policy Policy, labels []null.String) []BandCount {
	idx := make(map[string]int, len(policy.Intervals))
	counts := make([]BandCount, len(policy.Intervals))
	for i, label := range policy.Labels() {
		idx[label] = i
		counts[i].Band = label
	}
	for _, l := range labels {
		if !l.Valid {
			continue
		}
		if i, ok := idx[l.String]; ok {
			counts[i].Count++
		}
	}
	return counts
}

// MarksDistribution counts mark bands across all subjects.
func MarksDistribution(policy Policy, marks []map[string]null.String) []BandCount {
	var all []null.String
	for _, row := range marks {
		for _, l := range row {
			all = append(all, l)
		}
	}
	return BandCounts(policy, all)
}

// SubjectDistribution counts mark bands for one subject.
func SubjectDistribution(policy Policy, marks []map[string]null.String, subject string) []BandCount {
	labels := make([]null.String, 0, len(marks))
	for _, row := range marks {
		labels = append(labels, row[subject])
	}
	return BandCounts(policy, labels)
}
