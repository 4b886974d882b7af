package heal

import "sync"

// Counts aggregates healing results for one entry type.
type Counts struct {
	Valid    int `json:"valid"`
	Migrated int `json:"migrated"`
	Degraded int `json:"degraded"`
	Failed   int `json:"failed"`
	NotFound int `json:"not_found"`
}

// Total returns the number of healing calls counted.
func (c Counts) Total() int {
	return c.Valid + c.Migrated + c.Degraded + c.Failed + c.NotFound
}

// Report accumulates healing counts per entry type across the lifetime of
// an orchestrator. Safe for concurrent use.
type Report struct {
	mu     sync.Mutex
	counts map[string]*Counts
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{counts: make(map[string]*Counts)}
}

func (r *Report) bucket(entryType string) *Counts {
	c, ok := r.counts[entryType]
	if !ok {
		c = &Counts{}
		r.counts[entryType] = c
	}
	return c
}

func (r *Report) record(entryType string, status ValidationStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.bucket(entryType)
	switch status {
	case StatusValid:
		c.Valid++
	case StatusMigrated:
		c.Migrated++
	case StatusDegraded:
		c.Degraded++
	case StatusFailed:
		c.Failed++
	}
}

func (r *Report) recordNotFound(entryType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bucket(entryType).NotFound++
}

// Snapshot returns a copy of the per-type counts.
func (r *Report) Snapshot() map[string]Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Counts, len(r.counts))
	for entryType, c := range r.counts {
		out[entryType] = *c
	}
	return out
}

// Totals returns counts summed across all entry types.
func (r *Report) Totals() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total Counts
	for _, c := range r.counts {
		total.Valid += c.Valid
		total.Migrated += c.Migrated
		total.Degraded += c.Degraded
		total.Failed += c.Failed
		total.NotFound += c.NotFound
	}
	return total
}
