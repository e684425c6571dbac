package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"go-visit-pipeline/internal/model"
	"go-visit-pipeline/pkg/utils"
)

// BuildExportRows projects the classified batch plus its review flags
// into the fixed eight-column export layout. Every row carries all
// eight fields; anything absent is an explicit empty string so
// downstream column placement never shifts.
func BuildExportRows(records []model.ClassifiedRecord, flags []model.ReviewFlag) []model.ExportRow {
	flagByIndex := make(map[int]model.ReviewPattern, len(flags))
	for _, f := range flags {
		flagByIndex[f.Index] = f.Pattern
	}

	rows := make([]model.ExportRow, 0, len(records))
	for i, rec := range records {
		var row model.ExportRow
		row[0] = rec.CallerID
		row[1] = rec.CallerName
		row[2] = rec.Date.Format("2006-01-02")
		row[3] = string(rec.Status)
		// Unrecognized statuses keep their original wording end to end.
		if rec.Status == model.StatusOther && rec.RawStatus != "" {
			row[3] = rec.RawStatus
		}
		row[4] = string(rec.Outcome)
		row[5] = rec.OrdinalLabel()
		row[6] = rec.StaffLabel
		row[7] = string(flagByIndex[i])
		rows = append(rows, row)
	}
	return rows
}

// ExportWriter serializes run output to files under a per-run
// directory. Spreadsheet rendering itself stays downstream; these are
// the interchange files it consumes.
type ExportWriter struct {
	out *utils.OutputManager
}

func NewExportWriter(baseDir string) *ExportWriter {
	return &ExportWriter{out: utils.NewOutputManager(baseDir)}
}

// Write emits the aggregation result and export rows in the requested
// format ("csv", "json", or "yaml") and returns the file path.
func (w *ExportWriter) Write(runID, format string, result model.AggregationResult, rows []model.ExportRow) (string, error) {
	switch format {
	case "", "csv":
		return w.writeCSV(runID, rows)
	case "json":
		return w.writeJSON(runID, result, rows)
	case "yaml":
		return w.writeYAML(runID, result, rows)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

func (w *ExportWriter) writeCSV(runID string, rows []model.ExportRow) (string, error) {
	path, err := w.out.FilePath(runID, "report.csv")
	if err != nil {
		return "", err
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(model.ExportHeader[:]); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row[:]); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}
	return path, nil
}

type exportDocument struct {
	ExportInfo struct {
		RunID      string    `json:"run_id" yaml:"run_id"`
		ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
		RowCount   int       `json:"row_count" yaml:"row_count"`
	} `json:"export_info" yaml:"export_info"`
	Aggregation model.AggregationResult `json:"aggregation" yaml:"aggregation"`
	Rows        []model.ExportRow       `json:"rows" yaml:"rows"`
}

func buildDocument(runID string, result model.AggregationResult, rows []model.ExportRow) exportDocument {
	var doc exportDocument
	doc.ExportInfo.RunID = runID
	doc.ExportInfo.ExportedAt = time.Now().UTC()
	doc.ExportInfo.RowCount = len(rows)
	doc.Aggregation = result
	doc.Rows = rows
	return doc
}

func (w *ExportWriter) writeJSON(runID string, result model.AggregationResult, rows []model.ExportRow) (string, error) {
	path, err := w.out.FilePath(runID, "report.json")
	if err != nil {
		return "", err
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(buildDocument(runID, result, rows)); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return path, nil
}

func (w *ExportWriter) writeYAML(runID string, result model.AggregationResult, rows []model.ExportRow) (string, error) {
	path, err := w.out.FilePath(runID, "report.yaml")
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(buildDocument(runID, result, rows))
	if err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
