// Package ingest turns raw appointment exports (CSV or JSON files)
// into validated records. It recognizes header synonyms, trims
// whitespace, rejects empty files and files missing required columns,
// and generates surrogate caller IDs when no natural one is present.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"go-visit-pipeline/internal/model"
	"go-visit-pipeline/pkg/utils"
)

// Canonical column names after header normalization.
const (
	colCallerID   = "caller_id"
	colCallerName = "caller_name"
	colDate       = "date"
	colStatus     = "status"
	colOutcome    = "outcome"
	colAppliedAt  = "applied_at"
	colStaff      = "staff"
)

// headerSynonyms maps normalized exported column names onto canonical
// ones. Exports from different booking systems disagree on naming; the
// pipeline only ever sees the canonical form.
var headerSynonyms = map[string]string{
	"caller_id":        colCallerID,
	"customer_id":      colCallerID,
	"client_id":        colCallerID,
	"member_id":        colCallerID,
	"caller_name":      colCallerName,
	"customer_name":    colCallerName,
	"client_name":      colCallerName,
	"name":             colCallerName,
	"date":             colDate,
	"appointment_date": colDate,
	"visit_date":       colDate,
	"reserved_date":    colDate,
	"status":           colStatus,
	"state":            colStatus,
	"reservation_status": colStatus,
	"outcome":          colOutcome,
	"visit_outcome":    colOutcome,
	"attendance":       colOutcome,
	"visited":          colOutcome,
	"applied_at":       colAppliedAt,
	"created_at":       colAppliedAt,
	"application_time": colAppliedAt,
	"staff":            colStaff,
	"staff_label":      colStaff,
	"slot":             colStaff,
	"nominated_staff":  colStaff,
	"assignee":         colStaff,
}

// requiredColumns must be present in a CSV header for the file to be
// accepted. Caller ID is not required: a surrogate is generated.
var requiredColumns = []string{colDate, colStatus}

// LoadFile reads an exported batch from path, dispatching on extension.
// Row-level problems become warnings; file-level problems are errors.
func LoadFile(path string) ([]model.Record, []model.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f)
	case ".json":
		return LoadJSON(f)
	default:
		return nil, nil, fmt.Errorf("unsupported batch file type: %s", filepath.Ext(path))
	}
}

// LoadCSV reads an exported batch in CSV form.
func LoadCSV(r io.Reader) ([]model.Record, []model.Warning, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	rawHeader, err := csvReader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty export file: %w", model.ErrEmptyBatch)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	header := make([]string, len(rawHeader))
	seen := map[string]bool{}
	for i, h := range rawHeader {
		name := utils.NormalizeHeader(h)
		if canonical, ok := headerSynonyms[name]; ok {
			name = canonical
		}
		header[i] = name
		seen[name] = true
	}
	for _, req := range requiredColumns {
		if !seen[req] {
			return nil, nil, fmt.Errorf("export file is missing required column %q", req)
		}
	}

	var records []model.Record
	var warnings []model.Warning
	rowNum := 1
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			warnings = append(warnings, model.Warning{Row: rowNum, Reason: fmt.Sprintf("unreadable row: %v", err)})
			continue
		}
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				fields[name] = strings.TrimSpace(row[i])
			}
		}
		rec, ws := buildRecord(fields, rowNum)
		warnings = append(warnings, ws...)
		if rec != nil {
			records = append(records, *rec)
		}
	}

	if len(records) == 0 && len(warnings) == 0 {
		return nil, nil, fmt.Errorf("empty export file: %w", model.ErrEmptyBatch)
	}
	return records, warnings, nil
}

// LoadJSON reads an exported batch in JSON form: an array of objects
// keyed by the same (synonym-tolerant) column names as CSV.
func LoadJSON(r io.Reader) ([]model.Record, []model.Warning, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("failed to decode JSON batch: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("empty export file: %w", model.ErrEmptyBatch)
	}

	var records []model.Record
	var warnings []model.Warning
	for i, obj := range raw {
		fields := make(map[string]string, len(obj))
		for k, v := range obj {
			name := utils.NormalizeHeader(k)
			if canonical, ok := headerSynonyms[name]; ok {
				name = canonical
			}
			fields[name] = strings.TrimSpace(fmt.Sprintf("%v", v))
		}
		rec, ws := buildRecord(fields, i+1)
		warnings = append(warnings, ws...)
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, warnings, nil
}

// buildRecord assembles one validated record from normalized fields.
// A nil record means the row was dropped; the warnings say why.
func buildRecord(fields map[string]string, rowNum int) (*model.Record, []model.Warning) {
	var warnings []model.Warning

	dateStr := fields[colDate]
	if dateStr == "" {
		warnings = append(warnings, model.Warning{Row: rowNum, Reason: "row dropped: missing appointment date"})
		return nil, warnings
	}
	date, err := utils.ParseDate(dateStr)
	if err != nil {
		warnings = append(warnings, model.Warning{Row: rowNum, Reason: fmt.Sprintf("row dropped: %v", err)})
		return nil, warnings
	}

	callerID := fields[colCallerID]
	if callerID == "" {
		// No natural identifier in this export; generate a surrogate so
		// the row still flows through classification. It will never
		// match existing history, which is the best we can do.
		callerID = "anon-" + uuid.New().String()
		warnings = append(warnings, model.Warning{Row: rowNum, CallerID: callerID, Reason: "missing caller identifier, surrogate generated"})
	}

	rawStatus := fields[colStatus]
	status, known := model.ParseStatus(rawStatus)
	if !known {
		warnings = append(warnings, model.Warning{Row: rowNum, CallerID: callerID, Reason: fmt.Sprintf("unrecognized status %q preserved verbatim", rawStatus)})
	}

	outcome, known := model.ParseOutcome(fields[colOutcome])
	if !known {
		warnings = append(warnings, model.Warning{Row: rowNum, CallerID: callerID, Reason: fmt.Sprintf("unrecognized outcome %q treated as unknown", fields[colOutcome])})
	}

	rec := model.Record{
		CallerID:   callerID,
		CallerName: fields[colCallerName],
		Date:       date,
		Status:     status,
		RawStatus:  rawStatus,
		Outcome:    outcome,
		StaffLabel: fields[colStaff],
	}
	if applied := fields[colAppliedAt]; applied != "" {
		if t, err := utils.ParseDate(applied); err == nil {
			rec.AppliedAt = t
		}
	}

	// Preserve unrecognized columns for export.
	for k, v := range fields {
		switch k {
		case colCallerID, colCallerName, colDate, colStatus, colOutcome, colAppliedAt, colStaff:
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[k] = v
		}
	}

	return &rec, warnings
}
