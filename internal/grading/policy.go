// Package grading derives statistics and grade bands from a ReportTable.
//
// Two threshold tables are in use and are kept apart as named policies:
// "sgpa" bins an SGPA into C/B/A/O, "marks" bins a subject mark into
// Fail/Second Class/First Class/Distinction.
package grading

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/volatiletech/null/v8"
)

var ErrUnknownPolicy = errors.New("unknown grading policy")

// Interval is one band of a policy.
type Interval struct {
	Label       string
	Lower       float64
	Upper       float64
	LowerClosed bool
	UpperClosed bool
}

func (iv Interval) contains(v float64) bool {
	if v < iv.Lower || (v == iv.Lower && !iv.LowerClosed) {
		return false
	}
	if v > iv.Upper || (v == iv.Upper && !iv.UpperClosed) {
		return false
	}
	return true
}

// Policy maps a score to at most one band. Intervals are in band order and
// must not overlap.
type Policy struct {
	Name        string
	Description string
	Intervals   []Interval
}

// SGPAPolicy uses right-closed bins (0,7], (7,8], (8,9], (9,10].
// 0 itself is put in C so every SGPA in [0,10] gets a band.
var SGPAPolicy = Policy{
	Name:        "sgpa",
	Description: "SGPA bands C (0-7], B (7-8], A (8-9], O (9-10]",
	Intervals: []Interval{
		{Label: "C", Lower: 0, Upper: 7, LowerClosed: true, UpperClosed: true},
		{Label: "B", Lower: 7, Upper: 8, UpperClosed: true},
		{Label: "A", Lower: 8, Upper: 9, UpperClosed: true},
		{Label: "O", Lower: 9, Upper: 10, UpperClosed: true},
	},
}

// MarksPolicy classifies a subject mark.
var MarksPolicy = Policy{
	Name:        "marks",
	Description: "Marks bands Fail <50, Second Class >=50, First Class >=60, Distinction >=75",
	Intervals: []Interval{
		{Label: "Fail", Lower: math.Inf(-1), Upper: 50, LowerClosed: true},
		{Label: "Second Class", Lower: 50, Upper: 60, LowerClosed: true},
		{Label: "First Class", Lower: 60, Upper: 75, LowerClosed: true},
		{Label: "Distinction", Lower: 75, Upper: math.Inf(1), LowerClosed: true, UpperClosed: true},
	},
}

var policies = map[string]Policy{
	SGPAPolicy.Name:  SGPAPolicy,
	MarksPolicy.Name: MarksPolicy,
}

// Lookup returns the named policy.
func Lookup(name string) (Policy, error) {
	p, ok := policies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPolicy, name, strings.Join(PolicyNames(), ", "))
	}
	return p, nil
}

// PolicyNames lists the registered policies, sorted.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p Policy) Labels() []string {
	labels := make([]string, len(p.Intervals))
	for i, iv := range p.Intervals {
		labels[i] = iv.Label
	}
	return labels
}

// Band returns the label for v, or an invalid value when no band applies.
func (p Policy) Band(v null.Float64) null.String {
	if !v.Valid || math.IsNaN(v.Float64) {
		return null.String{}
	}
	for _, iv := range p.Intervals {
		if iv.contains(v.Float64) {
			return null.StringFrom(iv.Label)
		}
	}
	return null.String{}
}
