// Package results persists evaluated moves into the tabular results
// file. Index-mode runs append one aggregated row per process run;
// board-mode runs rewrite the table from scratch.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// snippetLimit caps the amount of raw simulator output carried into a
// result row.
const snippetLimit = 400

// Record is one evaluated (source board, move) pair in board mode.
type Record struct {
	Source   string
	MoveIdx  int
	DestRow  int
	DestCol  int
	WinRate  string // empty when no rate was extracted
	Snippet  string
	Artifact string
}

// FormatRate renders an extracted win rate for a results row. An
// unknown rate becomes an explicit empty field so it stays
// distinguishable from a genuine 0% rate.
func FormatRate(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Snippet flattens raw simulator output into a single-line excerpt
// suitable for a CSV field, capped at snippetLimit characters.
func Snippet(out string) string {
	truncated := out
	if len(out) > snippetLimit {
		truncated = out[:snippetLimit] + "..."
	}
	return strings.TrimSpace(strings.ReplaceAll(truncated, "\n", " "))
}

// AppendRun appends one aggregated row to the results table: one
// win-rate column per catalog move, aligned with a header that names
// each move by its destination coordinates. The header is written only
// when the file is new, so successive runs stack comparable rows.
func AppendRun(path string, destinations [][2]int, values []string) error {
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if isNew {
		header := make([]string, len(destinations))
		for i, dest := range destinations {
			header[i] = fmt.Sprintf("(%d,%d)", dest[0], dest[1])
		}
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write results header: %w", err)
		}
	}

	if err := writer.Write(values); err != nil {
		return fmt.Errorf("failed to write results row: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush results file: %w", err)
	}
	return nil
}

// WriteRecords truncates the results table and writes the fixed header
// followed by one row per record. Board-mode runs always produce the
// table from scratch.
func WriteRecords(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{
		"source_csv", "move_idx", "dest_row", "dest_col",
		"winrate", "sim_stdout_snippet", "modified_csv_path",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.Source,
			strconv.Itoa(record.MoveIdx),
			strconv.Itoa(record.DestRow),
			strconv.Itoa(record.DestCol),
			record.WinRate,
			record.Snippet,
			record.Artifact,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush results file: %w", err)
	}
	return nil
}
