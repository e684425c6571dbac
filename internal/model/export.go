package model

// ExportFieldCount is the number of positional fields per exported row.
// Downstream spreadsheets rely on column positions never shifting, so
// this is a compatibility contract, not a convenience.
const ExportFieldCount = 8

// ExportHeader lists the export columns in their fixed order.
var ExportHeader = [ExportFieldCount]string{
	"caller_id",
	"caller_name",
	"date",
	"status",
	"outcome",
	"visit_ordinal",
	"staff",
	"review_flag",
}

// ExportRow is one fixed-width export record. Absent values are explicit
// empty strings, never omitted, to preserve column alignment.
type ExportRow [ExportFieldCount]string
