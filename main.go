package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Slash-4/COMP424-Fall2025/board"
	"github.com/Slash-4/COMP424-Fall2025/evaluation"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "moves":
		runMoves(os.Args[2:])
	case "boards":
		runBoards(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: evaluate-moves <moves|boards> [flags]")
	fmt.Fprintln(os.Stderr, "  moves   evaluate the opening catalog by move index against one implicit board")
	fmt.Fprintln(os.Stderr, "  boards  overlay the catalog onto every CSV board in a directory")
}

func runMoves(args []string) {
	fs := flag.NewFlagSet("moves", flag.ExitOnError)
	outputDir := fs.String("output-dir", "", "Folder to write the results CSV")
	simCmd := fs.String("sim-cmd", "", "Simulator command template; use '{move}' where the move index should be inserted")
	resultsFile := fs.String("results-file", "move_evals.csv", "CSV filename for results (written into output-dir)")
	timeout := fs.Int("timeout", 60, "Per-simulation timeout in seconds")
	delay := fs.Float64("delay", 0, "Optional delay in seconds between simulator runs")
	fs.Parse(args)

	if *outputDir == "" || *simCmd == "" {
		fs.Usage()
		os.Exit(2)
	}

	cfg := evaluation.MoveRunConfig{
		OutputDir:   *outputDir,
		SimCmd:      *simCmd,
		ResultsFile: *resultsFile,
		Timeout:     time.Duration(*timeout) * time.Second,
		Delay:       time.Duration(*delay * float64(time.Second)),
	}
	if err := evaluation.EvaluateMoves(context.Background(), cfg, board.OpeningMoves()); err != nil {
		log.Fatal().Err(err).Msg("move evaluation failed")
	}
}

func runBoards(args []string) {
	fs := flag.NewFlagSet("boards", flag.ExitOnError)
	inputDir := fs.String("input-dir", "", "Folder containing source CSV boards")
	outputDir := fs.String("output-dir", "", "Folder to write modified CSVs and results")
	simCmd := fs.String("sim-cmd", "", "Simulator command template; use '{input}' where the modified CSV path should be inserted")
	resultsFile := fs.String("results-file", "move_evals.csv", "CSV filename for results (written into output-dir)")
	timeout := fs.Int("timeout", 60, "Per-simulation timeout in seconds")
	delay := fs.Float64("delay", 0, "Optional delay in seconds between simulator runs")
	fs.Parse(args)

	if *inputDir == "" || *outputDir == "" || *simCmd == "" {
		fs.Usage()
		os.Exit(2)
	}

	cfg := evaluation.BoardRunConfig{
		InputDir:    *inputDir,
		OutputDir:   *outputDir,
		SimCmd:      *simCmd,
		ResultsFile: *resultsFile,
		Timeout:     time.Duration(*timeout) * time.Second,
		Delay:       time.Duration(*delay * float64(time.Second)),
	}
	if err := evaluation.EvaluateBoards(context.Background(), cfg, board.OpeningMoves()); err != nil {
		log.Fatal().Err(err).Msg("board evaluation failed")
	}
}
