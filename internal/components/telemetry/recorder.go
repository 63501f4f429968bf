package telemetry

import "strings"

// Report is a single call made against a RecorderAPI.
type Report struct {
	Level  string
	Id     string
	Params []any
}

// RecorderAPI is an API that keeps every report in memory, it exists so tests
// can assert that something was (or was not) reported.
type RecorderAPI struct {
	Reports []Report
	Counts  map[string]int64
}

func NewRecorderAPI() *RecorderAPI {
	return &RecorderAPI{Counts: map[string]int64{}}
}

func (r *RecorderAPI) ReportBroken(id string, params ...any) {
	r.Reports = append(r.Reports, Report{Level: "broken", Id: id, Params: params})
}

func (r *RecorderAPI) ReportWarning(id string, params ...any) {
	r.Reports = append(r.Reports, Report{Level: "warning", Id: id, Params: params})
}

func (r *RecorderAPI) ReportDebug(msg string, params ...any) {
	r.Reports = append(r.Reports, Report{Level: "debug", Id: msg, Params: params})
}

func (r *RecorderAPI) ReportCount(id string, count int64) {
	r.Counts[id] = count
}

// Find returns all reports of the given level whose id contains `substr`.
func (r *RecorderAPI) Find(level, substr string) []Report {
	var out []Report
	for _, report := range r.Reports {
		if report.Level == level && strings.Contains(report.Id, substr) {
			out = append(out, report)
		}
	}
	return out
}
