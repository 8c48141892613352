package main

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gitrdm/gocsp/pkg/csp"
	"github.com/gitrdm/gocsp/pkg/sudoku"
)

//go:embed sudokus/*.txt
var bundled embed.FS

// difficulties lists the bundled boards in ascending order of pain.
var difficulties = []string{"easy", "medium", "hard", "veryhard"}

var (
	flagBoard      string
	flagDifficulty string
	flagStrategy   string
	flagSeed       int64
	flagIterative  bool
	flagWorkers    int
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a 9x9 Sudoku board",
	Long: `Solve a Sudoku board with AC-3 propagation and backtracking search.

Without flags, an interactive prompt offers the four bundled boards
(easy, medium, hard, veryhard). Use --difficulty to skip the prompt or
--board to read a board file: nine lines of nine characters, 0 for an
empty cell.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&flagBoard, "board", "", "path to a board file")
	solveCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "bundled board: easy, medium, hard, veryhard")
	solveCmd.Flags().StringVar(&flagStrategy, "strategy", "", "variable selection: random, mrv, degree")
	solveCmd.Flags().Int64Var(&flagSeed, "seed", 0, "seed for the random strategy")
	solveCmd.Flags().BoolVar(&flagIterative, "iterative", false, "use the explicit-stack search variant")
	solveCmd.Flags().IntVar(&flagWorkers, "workers", 0, "solve root branches in parallel with this many workers")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	board, err := loadBoard()
	if err != nil {
		return err
	}

	fmt.Println("Puzzle:")
	fmt.Println(board)

	graph, err := board.Graph()
	if err != nil {
		return fmt.Errorf("building constraint graph: %w", err)
	}

	solver, err := newSolver(graph)
	if err != nil {
		return err
	}

	workers := flagWorkers
	if workers == 0 {
		workers = config.Workers
	}

	start := time.Now()
	var result *csp.Result[int]
	switch {
	case workers > 0:
		result, err = solver.SolveParallel(cmd.Context(), workers)
	case flagIterative:
		result, err = solver.SolveIterative(cmd.Context())
	default:
		result, err = solver.Solve(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("search aborted: %w", err)
	}
	elapsed := time.Since(start)

	if !result.Satisfiable {
		fmt.Println(renderUnsatisfiable())
		fmt.Printf("search nodes: %d, dead ends: %d (%v)\n",
			result.Stats.Calls, result.Stats.Failures, elapsed)
		return nil
	}

	solved, err := sudoku.FromAssignment(result.Solution)
	if err != nil {
		return fmt.Errorf("reading solution: %w", err)
	}
	fmt.Println(renderBoard(solved))
	fmt.Printf("search nodes: %d, dead ends: %d (%v)\n",
		result.Stats.Calls, result.Stats.Failures, elapsed)
	return nil
}

// loadBoard resolves the board source: explicit file, named bundled
// difficulty, or the interactive prompt.
func loadBoard() (*sudoku.Board, error) {
	if flagBoard != "" {
		f, err := os.Open(flagBoard)
		if err != nil {
			return nil, fmt.Errorf("opening board: %w", err)
		}
		defer f.Close()
		return sudoku.Parse(f)
	}

	name := flagDifficulty
	if name == "" {
		var err error
		name, err = askDifficulty()
		if err != nil {
			return nil, err
		}
	}
	if !validDifficulty(name) {
		return nil, fmt.Errorf("unknown difficulty %q (want one of %v)", name, difficulties)
	}

	data, err := bundled.ReadFile("sudokus/" + name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("reading bundled board %q: %w", name, err)
	}
	slog.Debug("loaded bundled board", "difficulty", name)
	return sudoku.ParseString(string(data))
}

func validDifficulty(name string) bool {
	for _, d := range difficulties {
		if d == name {
			return true
		}
	}
	return false
}

// askDifficulty prompts for one of the bundled boards.
func askDifficulty() (string, error) {
	options := make([]huh.Option[string], len(difficulties))
	for i, d := range difficulties {
		options[i] = huh.NewOption(d, d)
	}
	var choice string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Pick a board").
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("difficulty prompt: %w", err)
	}
	return choice, nil
}

// newSolver builds a solver from flags with config-file fallbacks.
func newSolver(graph *csp.Graph[int]) (*csp.Solver[int], error) {
	strategy := flagStrategy
	if strategy == "" {
		strategy = config.Strategy
	}
	seed := flagSeed
	if seed == 0 {
		seed = config.Seed
	}

	var opts []csp.Option[int]
	if seed != 0 {
		opts = append(opts, csp.WithSeed[int](seed))
	}
	switch strategy {
	case "", "random":
		// Default uniform-random selection.
	case "mrv":
		opts = append(opts, csp.WithStrategy(csp.NewMinRemainingValues[int]()))
	case "degree":
		opts = append(opts, csp.WithStrategy(csp.NewDegreeStrategy(graph)))
	default:
		return nil, fmt.Errorf("unknown strategy %q (want random, mrv, or degree)", strategy)
	}
	return csp.NewSolver(graph, opts...), nil
}
