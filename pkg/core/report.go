package core

import "fmt"

// Report summarizes one stage run.
// A failure on one item is recorded as a warning and never aborts the batch.
type Report struct {
	Stage     string   `json:"stage"`
	Attempted int      `json:"attempted"`
	Succeeded int      `json:"succeeded"`
	Skipped   int      `json:"skipped"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Warnf records a per-item warning.
func (r *Report) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge adds the counters and warnings of o into r.
func (r *Report) Merge(o Report) {
	r.Attempted += o.Attempted
	r.Succeeded += o.Succeeded
	r.Skipped += o.Skipped
	r.Warnings = append(r.Warnings, o.Warnings...)
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %d/%d succeeded, %d skipped, %d warnings",
		r.Stage, r.Succeeded, r.Attempted, r.Skipped, len(r.Warnings))
}
