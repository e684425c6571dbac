package model

// Summary holds the whole-batch counts shown at the top of a report.
type Summary struct {
	TotalApplications int     `json:"total_applications"`
	CompletedVisits   int     `json:"completed_visits"`
	Cancellations     int     `json:"cancellations"`
	CompletionRate    float64 `json:"completion_rate"` // always in [0,1], 0 when total is 0
}

// StaffStat is one row of the per-staff rollup.
type StaffStat struct {
	Staff          string  `json:"staff"`
	Applications   int     `json:"applications"`
	Completions    int     `json:"completions"`
	CompletionRate float64 `json:"completion_rate"`
}

// DailyStat is one row of the per-day rollup.
type DailyStat struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	Applications   int     `json:"applications"`
	Completions    int     `json:"completions"`
	Cancellations  int     `json:"cancellations"`
	CompletionRate float64 `json:"completion_rate"`
}

// MonthlyStat is one row of the per-month rollup. RateChange is the
// completion-rate delta against the previous month in the batch; nil
// for the first month.
type MonthlyStat struct {
	Month          string   `json:"month"` // YYYY-MM
	Applications   int      `json:"applications"`
	Completions    int      `json:"completions"`
	Cancellations  int      `json:"cancellations"`
	CompletionRate float64  `json:"completion_rate"`
	RateChange     *float64 `json:"rate_change,omitempty"`
}

// AggregationResult bundles every rollup computed for a run. All views
// are derived from the classified batch alone and recomputed in full on
// every run; nothing here reads or writes the history store.
type AggregationResult struct {
	Summary      Summary       `json:"summary"`
	Staff        []StaffStat   `json:"staff"`
	AutoAssigned StaffStat     `json:"auto_assigned"`
	Daily        []DailyStat   `json:"daily"`
	Monthly      []MonthlyStat `json:"monthly"`
}
