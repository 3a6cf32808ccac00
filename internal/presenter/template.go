package presenter

import (
	"strconv"

	"github.com/volatiletech/null/v8"
)

func formatFloat(v null.Float64) string {
	if !v.Valid {
		return "NaN"
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: right; }
th { background: #f3f3f3; }
iframe { border: none; width: 100%; height: 2600px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if not .Table.Records}}<p class="empty">No student records were found in this document.</p>{{end}}

<h2>Class-Wide SGPA and Credit Analysis</h2>
<table id="stats">
<tr><th>Metric</th><th>Value</th></tr>
{{range .Stats.Rows}}<tr><td>{{.Metric}}</td><td>{{num .Value}}</td></tr>
{{end}}</table>

<h2>Grade Distribution ({{.Policy.Name}})</h2>
<table id="bands">
<tr>{{range .BandCounts}}<th>{{.Band}}</th>{{end}}</tr>
<tr>{{range .BandCounts}}<td>{{.Count}}</td>{{end}}</tr>
</table>

<h2>Top {{len .TopStudents}} Students (Based on SGPA)</h2>
<table id="top">
<tr><th>Seat Number</th><th>SGPA</th></tr>
{{range .TopStudents}}<tr><td>{{.SeatNumber}}</td><td>{{num .SGPA}}</td></tr>
{{end}}</table>

<h2>Extracted Results Data</h2>
<table id="records">
<tr><th>#</th><th>Seat Number</th><th>SGPA</th><th>Total Credits Earned</th><th>Grade</th><th>Status</th>{{range .Table.Subjects}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><td>{{.Index}}</td><td>{{.Seat}}</td><td>{{.SGPA}}</td><td>{{.Credits}}</td><td>{{.Band}}</td><td>{{.Status}}</td>{{range .Marks}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>

<h2>Summary</h2>
<table id="describe">
<tr><th>Column</th><th>count</th><th>mean</th><th>std</th><th>min</th><th>max</th></tr>
{{range .Columns}}<tr><td>{{.Name}}</td><td>{{.Count}}</td><td>{{num .Mean}}</td><td>{{num .Std}}</td><td>{{num .Min}}</td><td>{{num .Max}}</td></tr>
{{end}}</table>

{{if .Subjects}}<h2>Subject Toppers</h2>
<table id="toppers">
<tr><th>Subject</th><th>Highest Mark</th><th>Seat Numbers</th></tr>
{{range .Subjects}}<tr><td>{{.Name}}</td>{{if .Toppers}}<td>{{(index .Toppers 0).Mark}}</td><td>{{range $i, $t := .Toppers}}{{if $i}}, {{end}}{{$t.SeatNumber}}{{end}}</td>{{else}}<td>NA</td><td></td>{{end}}</tr>
{{end}}</table>

<h2>Subject Grade Distribution</h2>
<table id="subject-bands">
<tr><th>Subject</th>{{range .MarksCounts}}<th>{{.Band}}</th>{{end}}</tr>
{{range .Subjects}}<tr><td>{{.Name}}</td>{{range .Distribution}}<td>{{.Count}}</td>{{end}}</tr>
{{end}}</table>
{{end}}

{{if .ChartsURL}}<iframe src="{{.ChartsURL}}" title="charts"></iframe>{{end}}
</body>
</html>
`
