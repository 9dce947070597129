package board

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Cell states on a board. Obstacle cells on a base board are immutable:
// no move may overwrite them.
const (
	Empty     = 0
	PlayerOne = 1
	PlayerTwo = 2
	Obstacle  = 3
)

// Board is a rectangular grid of cell states.
type Board [][]int

// Shape returns the board dimensions as (rows, cols).
func (b Board) Shape() (int, int) {
	if len(b) == 0 {
		return 0, 0
	}
	return len(b), len(b[0])
}

// Load reads a comma-delimited integer grid from path. Cells written in
// float form ("1.0") are accepted and truncated, since some tools save
// integer boards through a float writer.
func Load(path string) (Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open board file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read board file %s: %w", path, err)
	}

	b := make(Board, 0, len(rows))
	for _, row := range rows {
		cells := make([]int, 0, len(row))
		for _, field := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("bad cell %q in %s: %w", field, path, err)
			}
			cells = append(cells, int(v))
		}
		b = append(b, cells)
	}
	return b, nil
}

// Save writes the board to path as comma-delimited integers.
func (b Board) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create board file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	for _, row := range b {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.Itoa(v)
		}
		if err := writer.Write(fields); err != nil {
			return fmt.Errorf("failed to write board row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush board file: %w", err)
	}
	return nil
}
