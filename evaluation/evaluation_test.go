package evaluation

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Slash-4/COMP424-Fall2025/board"
)

func readTable(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestEvaluateMoves(t *testing.T) {
	t.Run("appends one aggregated row per run", func(t *testing.T) {
		dir := t.TempDir()
		outDir := filepath.Join(dir, "out")
		moveFile := filepath.Join(dir, "agents", "move.txt")

		// Move 0 reports a win rate; move 1 hangs until killed.
		script := filepath.Join(dir, "sim.sh")
		require.NoError(t, os.WriteFile(script, []byte(
			"#!/bin/sh\n"+
				"idx=$(cat \"$1\")\n"+
				"if [ \"$idx\" = \"0\" ]; then\n"+
				"  echo \"Player 1 win percentage: 60%\"\n"+
				"else\n"+
				"  sleep 30\n"+
				"fi\n"), 0755))

		cfg := MoveRunConfig{
			OutputDir: outDir,
			SimCmd:    "sh " + script + " " + moveFile,
			Timeout:   time.Second,
			MoveFile:  moveFile,
		}
		catalog := board.OpeningMoves()[:2]

		require.NoError(t, EvaluateMoves(context.Background(), cfg, catalog))

		rows := readTable(t, filepath.Join(outDir, "move_evals.csv"))
		require.Equal(t, [][]string{
			{"(1,0)", "(0,1)"},
			{"0.6", ""},
		}, rows, "Timed-out move must record an empty field, not a number")
	})

	t.Run("fatal when the output directory cannot be created", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		cfg := MoveRunConfig{
			OutputDir: filepath.Join(blocker, "out"),
			SimCmd:    "true",
		}
		err := EvaluateMoves(context.Background(), cfg, board.OpeningMoves()[:1])
		require.Error(t, err)
	})
}

func TestEvaluateBoards(t *testing.T) {
	writeBoard := func(t *testing.T, path, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	t.Run("evaluates each fitting board and move pair", func(t *testing.T) {
		dir := t.TempDir()
		inDir := filepath.Join(dir, "in")
		outDir := filepath.Join(dir, "out")
		require.NoError(t, os.MkdirAll(inDir, 0755))

		writeBoard(t, filepath.Join(inDir, "a.csv"), "0,0,0\n0,0,0\n0,0,0\n")
		// Obstacle at (1,0) blocks catalog move 0.
		writeBoard(t, filepath.Join(inDir, "b.csv"), "0,0,0\n3,0,0\n0,0,0\n")
		// Wrong shape: every move is skipped.
		writeBoard(t, filepath.Join(inDir, "c.csv"), "0,0\n0,0\n")

		cfg := BoardRunConfig{
			InputDir:  inDir,
			OutputDir: outDir,
			SimCmd:    "echo Player 1 win percentage: 73%",
		}
		catalog := board.OpeningMoves()[:2]

		require.NoError(t, EvaluateBoards(context.Background(), cfg, catalog))

		rows := readTable(t, filepath.Join(outDir, "move_evals.csv"))
		require.Len(t, rows, 4, "Header plus a.csv x2 and b.csv move 1 only")

		require.Equal(t, []string{
			"a.csv", "0", "1", "0", "0.73",
			"Player 1 win percentage: 73%",
			filepath.Join(outDir, "a_move0.csv"),
		}, rows[1])
		require.Equal(t, "a.csv", rows[2][0])
		require.Equal(t, "1", rows[2][1])
		require.Equal(t, []string{"b.csv", "1"}, rows[3][:2],
			"b.csv move 0 targets the obstacle and must be skipped")

		// The materialized board carries the overlaid stone.
		modified, err := board.Load(filepath.Join(outDir, "a_move0.csv"))
		require.NoError(t, err)
		require.Equal(t, board.Board{{0, 0, 0}, {1, 0, 0}, {0, 0, 0}}, modified)
	})

	t.Run("reuses artifacts byte-for-byte across runs", func(t *testing.T) {
		dir := t.TempDir()
		inDir := filepath.Join(dir, "in")
		outDir := filepath.Join(dir, "out")
		require.NoError(t, os.MkdirAll(inDir, 0755))
		writeBoard(t, filepath.Join(inDir, "a.csv"), "0,0,0\n0,0,0\n0,0,0\n")

		cfg := BoardRunConfig{
			InputDir:  inDir,
			OutputDir: outDir,
			SimCmd:    "echo win percentage: 50%",
		}
		catalog := board.OpeningMoves()[:1]

		require.NoError(t, EvaluateBoards(context.Background(), cfg, catalog))

		artifact := filepath.Join(outDir, "a_move0.csv")
		require.NoError(t, os.WriteFile(artifact, []byte("MARKER"), 0644))

		require.NoError(t, EvaluateBoards(context.Background(), cfg, catalog))

		content, err := os.ReadFile(artifact)
		require.NoError(t, err)
		require.Equal(t, "MARKER", string(content),
			"A rerun must reuse the existing artifact, not regenerate it")

		rows := readTable(t, filepath.Join(outDir, "move_evals.csv"))
		require.Len(t, rows, 2, "The table is rewritten, never appended")
	})

	t.Run("empty input directory is not an error", func(t *testing.T) {
		dir := t.TempDir()
		inDir := filepath.Join(dir, "in")
		outDir := filepath.Join(dir, "out")
		require.NoError(t, os.MkdirAll(inDir, 0755))

		cfg := BoardRunConfig{InputDir: inDir, OutputDir: outDir, SimCmd: "true"}
		require.NoError(t, EvaluateBoards(context.Background(), cfg, board.OpeningMoves()))

		_, err := os.Stat(filepath.Join(outDir, "move_evals.csv"))
		require.True(t, os.IsNotExist(err), "No boards means no results table")
	})

	t.Run("a misbehaving simulator never aborts the run", func(t *testing.T) {
		dir := t.TempDir()
		inDir := filepath.Join(dir, "in")
		outDir := filepath.Join(dir, "out")
		require.NoError(t, os.MkdirAll(inDir, 0755))
		writeBoard(t, filepath.Join(inDir, "a.csv"), "0,0,0\n0,0,0\n0,0,0\n")

		cfg := BoardRunConfig{
			InputDir:  inDir,
			OutputDir: outDir,
			SimCmd:    "/no/such/simulator {input}",
		}
		catalog := board.OpeningMoves()[:2]

		require.NoError(t, EvaluateBoards(context.Background(), cfg, catalog))

		rows := readTable(t, filepath.Join(outDir, "move_evals.csv"))
		require.Len(t, rows, 3)
		for _, row := range rows[1:] {
			require.Equal(t, "", row[4], "Failed invocations record an unknown rate")
			require.Contains(t, row[5], "SIMULATOR_ERROR:")
		}
	})
}
