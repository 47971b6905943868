package telemetry

import (
	"strings"
	"sync"
)

type ReportKind int

const (
	KindBroken ReportKind = iota
	KindWarning
	KindDebug
	KindCount
)

type Report struct {
	Kind   ReportKind
	ID     string
	Params []any
	Count  int64
}

// Recorder implements API by keeping every report in memory, it is safe for
// concurrent use. Tests use it to assert what a component reported.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *Recorder) add(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Kind: KindBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Kind: KindWarning, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Kind: KindDebug, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Kind: KindCount, ID: id, Count: count})
}

// Reports returns a copy of every report with the given kind.
func (r *Recorder) Reports(kind ReportKind) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// Has returns true if a report of the given kind has an id ending in suffix.
func (r *Recorder) Has(kind ReportKind, suffix string) bool {
	for _, report := range r.Reports(kind) {
		if strings.HasSuffix(report.ID, suffix) {
			return true
		}
	}
	return false
}
