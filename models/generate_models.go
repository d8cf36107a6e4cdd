package models

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Column mismatch report

Compares the live tables with the Go models and lists, per table, the
columns that exist in the database but have no model field, and the model
fields the table is missing. Run it with `sitectl db report`.

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: leads ---
Found 1 columns not accounted for in model:
  - legacy_notes

--- Table: products ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// GenerateQueries writes gorm/gen typed query helpers for every model to outPath.
func GenerateQueries(db *gorm.DB, outPath string) {
	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()
}

// TableReport is the column comparison for one model.
type TableReport struct {
	Table string
	// Exists is false when the table has not been created yet.
	Exists bool
	// Unmapped are database columns with no model field.
	Unmapped []string
	// Missing are model columns the table does not have.
	Missing []string
}

// ColumnMismatchReport compares every model with its table.
func ColumnMismatchReport(db *gorm.DB) ([]TableReport, error) {
	cache := &sync.Map{}
	var reports []TableReport

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parsing model %T: %w", model, err)
		}
		report := TableReport{Table: s.Table}

		if !db.Migrator().HasTable(model) {
			reports = append(reports, report)
			continue
		}
		report.Exists = true

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("reading columns of %s: %w", s.Table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		report.Unmapped = difference(dbColumns, s.DBNames)
		report.Missing = difference(s.DBNames, dbColumns)
		reports = append(reports, report)
	}
	return reports, nil
}

// WriteColumnReport prints reports in the format shown at the top of this file.
func WriteColumnReport(w io.Writer, reports []TableReport) int {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	total := 0
	for _, r := range reports {
		fmt.Fprintf(w, "--- Table: %s ---\n", r.Table)
		if !r.Exists {
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
			fmt.Fprintln(w)
			continue
		}
		if len(r.Unmapped) == 0 && len(r.Missing) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
		}
		if len(r.Unmapped) > 0 {
			fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(r.Unmapped))
			for _, col := range r.Unmapped {
				fmt.Fprintf(w, "  - %s\n", col)
			}
		}
		if len(r.Missing) > 0 {
			fmt.Fprintf(w, "Found %d model fields missing from the table:\n", len(r.Missing))
			for _, col := range r.Missing {
				fmt.Fprintf(w, "  - %s\n", col)
			}
		}
		total += len(r.Unmapped) + len(r.Missing)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "=== SUMMARY ===")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
	return total
}

// difference returns the entries of a that are not in b, sorted.
func difference(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	var out []string
	for _, v := range a {
		if !set[v] {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
