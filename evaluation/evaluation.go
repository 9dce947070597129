// Package evaluation runs the opening-move harness: for each base board
// and each catalog move it drives one external simulator invocation,
// extracts the reported win rate, and persists a comparable results
// row. Per-move failures are logged and skipped; only setup-time
// filesystem failures abort a run.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Slash-4/COMP424-Fall2025/board"
	"github.com/Slash-4/COMP424-Fall2025/results"
	"github.com/Slash-4/COMP424-Fall2025/simulator"
	"github.com/Slash-4/COMP424-Fall2025/winrate"
)

// Win rates are always extracted for the first player, the one whose
// opening move is under evaluation.
const evaluatedPlayer = 1

const defaultResultsFile = "move_evals.csv"

// MoveRunConfig configures an index-mode run: the catalog is evaluated
// against one implicit board, with the move index passed to the
// simulator via the command template and the side-channel move file.
type MoveRunConfig struct {
	OutputDir   string
	SimCmd      string // command template with a `{move}` placeholder
	ResultsFile string // defaults to "move_evals.csv"
	Timeout     time.Duration
	Delay       time.Duration
	MoveFile    string // side-channel override, mostly for tests
}

// BoardRunConfig configures a board-mode run: every move is overlaid on
// every board file in InputDir, materialized as an artifact, and the
// artifact path is passed to the simulator via `{input}`.
type BoardRunConfig struct {
	InputDir    string
	OutputDir   string
	SimCmd      string // command template with an `{input}` placeholder
	ResultsFile string
	Timeout     time.Duration
	Delay       time.Duration
}

func resultsPath(outputDir, name string) string {
	if name == "" {
		name = defaultResultsFile
	}
	return filepath.Join(outputDir, name)
}

// EvaluateMoves runs every catalog move through the simulator by index
// and appends one aggregated win-rate row to the results table.
func EvaluateMoves(ctx context.Context, cfg MoveRunConfig, catalog []board.Move) error {
	logger := log.With().Str("run", uuid.NewString()).Logger()

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	inv := &simulator.Invoker{
		Template: cfg.SimCmd,
		Timeout:  cfg.Timeout,
		Delay:    cfg.Delay,
		MoveFile: cfg.MoveFile,
	}

	destinations := make([][2]int, len(catalog))
	values := make([]string, len(catalog))
	for i, m := range catalog {
		r, c := m.Destination()
		destinations[i] = [2]int{r, c}

		out := inv.RunMove(ctx, i)
		rate, ok := winrate.Extract(out, evaluatedPlayer)
		values[i] = results.FormatRate(rate, ok)

		logger.Info().Msgf("move %d: dest (%d,%d) winrate=%q", i, r, c, values[i])
	}

	path := resultsPath(cfg.OutputDir, cfg.ResultsFile)
	if err := results.AppendRun(path, destinations, values); err != nil {
		return err
	}
	logger.Info().Msgf("appended %d move evaluations to %s", len(catalog), path)
	return nil
}

// EvaluateBoards overlays every catalog move onto every board file in
// the input directory, runs the simulator against each materialized
// board, and rewrites the results table with one row per evaluated
// pair. Moves that do not fit a board (wrong shape, obstacle collision)
// are logged and skipped without a row.
func EvaluateBoards(ctx context.Context, cfg BoardRunConfig, catalog []board.Move) error {
	logger := log.With().Str("run", uuid.NewString()).Logger()

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	sources, err := filepath.Glob(filepath.Join(cfg.InputDir, "*.csv"))
	if err != nil {
		return fmt.Errorf("failed to list input boards: %w", err)
	}
	sort.Strings(sources)
	if len(sources) == 0 {
		logger.Info().Msgf("no csv boards found in %s", cfg.InputDir)
		return nil
	}

	inv := &simulator.Invoker{
		Template: cfg.SimCmd,
		Timeout:  cfg.Timeout,
		Delay:    cfg.Delay,
	}

	records := []results.Record{}
	for _, src := range sources {
		name := filepath.Base(src)

		b, err := board.Load(src)
		if err != nil {
			logger.Warn().Err(err).Msgf("skipping unreadable board %s", name)
			continue
		}

		for i, m := range catalog {
			modified, err := board.Overlay(b, m)
			switch {
			case errors.Is(err, board.ErrShapeMismatch):
				mr, mc := m.Shape()
				br, bc := b.Shape()
				logger.Info().Msgf("skipping %s move %d: shape mismatch %dx%d vs %dx%d",
					name, i, mr, mc, br, bc)
				continue
			case errors.Is(err, board.ErrObstructed):
				logger.Info().Msgf("skipping %s move %d: attempts to modify obstacle cell(s)", name, i)
				continue
			case err != nil:
				logger.Warn().Err(err).Msgf("skipping %s move %d", name, i)
				continue
			}

			artifact, reused, err := board.Materialize(modified, cfg.OutputDir, src, i)
			if err != nil {
				logger.Warn().Err(err).Msgf("skipping %s move %d: could not materialize board", name, i)
				continue
			}
			if reused {
				logger.Info().Msgf("reusing existing modified csv: %s", filepath.Base(artifact))
			}

			out := inv.RunBoard(ctx, artifact)
			rate, ok := winrate.Extract(out, evaluatedPlayer)

			dr, dc := m.Destination()
			records = append(records, results.Record{
				Source:   name,
				MoveIdx:  i,
				DestRow:  dr,
				DestCol:  dc,
				WinRate:  results.FormatRate(rate, ok),
				Snippet:  results.Snippet(out),
				Artifact: artifact,
			})
		}
	}

	path := resultsPath(cfg.OutputDir, cfg.ResultsFile)
	if err := results.WriteRecords(path, records); err != nil {
		return err
	}
	logger.Info().Msgf("wrote %d rows to %s", len(records), path)
	return nil
}
