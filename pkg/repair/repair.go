// Package repair defines the repair pass over Appwrite-style configuration
// documents.
//
// A document keeps its tables under the top-level "tables" array, every
// table may carry a "columns" array. A column that is "required": true
// must not also carry a "default" value, the repair pass removes such
// defaults and leaves everything else of the document as it was.
package repair

import (
	"context"
	"fmt"
)

// Placeholder is used in notices instead of a missing table name or
// column key.
const Placeholder = "(unknown)"

// Repairer removes defaults from required columns of configuration
// documents.
type Repairer interface {
	// Repair runs the repair pass on one document. The document is written
	// back only if something was removed and dry run is off. A document
	// that was repaired but could not be written comes back with its
	// Result and the error, other failures return a nil Result.
	Repair(path string) (*Result, error)

	// RepairFiles runs Repair on several documents concurrently. Results
	// keep the order of paths, per-file failures are kept in Result.Err.
	// The returned error is not nil only if ctx was cancelled.
	RepairFiles(ctx context.Context, paths []string) ([]Result, error)
}

// Result is the outcome of a repair pass on one document.
type Result struct {
	// Path of the document.
	Path string `json:"path" yaml:"path"`

	// Removals lists removed defaults in document order.
	Removals []Removal `json:"removals,omitempty" yaml:"removals,omitempty"`

	// Changed is true if at least one default was removed.
	Changed bool `json:"changed" yaml:"changed"`

	// Written is true if the repaired document replaced the file.
	Written bool `json:"written" yaml:"written"`

	// DryRun is true if the pass was not allowed to write.
	DryRun bool `json:"dryRun,omitempty" yaml:"dry_run,omitempty"`

	// Err keeps the failure of the document.
	Err error `json:"-" yaml:"-"`
}

// Removal describes one default removed from a required column.
type Removal struct {
	// Table is the name of the table, or Placeholder.
	Table string `json:"table" yaml:"table"`

	// Column is the key of the column, or Placeholder.
	Column string `json:"column" yaml:"column"`

	// TableIndex is the position of the table in "tables".
	TableIndex int `json:"tableIndex" yaml:"table_index"`

	// ColumnIndex is the position of the column in "columns".
	ColumnIndex int `json:"columnIndex" yaml:"column_index"`

	// Default is the removed value as raw JSON.
	Default string `json:"default" yaml:"default"`
}

// String returns the notice printed for the removal.
func (r Removal) String() string {
	return fmt.Sprintf(
		"Removed default from required column %s in table %s",
		r.Column, r.Table,
	)
}
