package pipeline

import (
	"time"

	"asn856/internal/enrich"
	"asn856/internal/x12"
)

// Status is the outcome of one shipment.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusDuplicate Status = "duplicate"
	StatusFailed    Status = "failed"
)

// Result records what happened to one shipment of a batch.
type Result struct {
	Index      int            `json:"index"`
	StartLine  int            `json:"start_line"`
	CustomerPO string         `json:"customer_po"`
	FileName   string         `json:"file_name,omitempty"`
	OutputPath string         `json:"output_path,omitempty"`
	Status     Status         `json:"status"`
	Err        error          `json:"-"`
	Error      string         `json:"error,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
	Lots       enrich.Summary `json:"lots"`
	Document   *x12.Document  `json:"-"`
}

func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *Result) fail(err error) {
	r.Status = StatusFailed
	r.Err = err
	r.Error = err.Error()
}

// Report summarizes one Generate run.
type Report struct {
	RunID      string        `json:"run_id"`
	Source     string        `json:"source,omitempty"`
	DryRun     bool          `json:"dry_run"`
	ArchivedTo string        `json:"archived_to,omitempty"`
	Duration   time.Duration `json:"duration"`
	Results    []Result      `json:"results"`
}

// Count returns how many results have status.
func (r *Report) Count(status Status) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any shipment failed to encode.
func (r *Report) Failed() bool {
	return r.Count(StatusFailed) > 0
}

// Clean reports whether every shipment encoded without warnings.
func (r *Report) Clean() bool {
	if r == nil {
		return false
	}
	for _, res := range r.Results {
		if res.Status != StatusGenerated || len(res.Warnings) > 0 {
			return false
		}
	}
	return true
}
