package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gitrdm/gocsp/pkg/csp"
)

// The textbook seven-region Australia instance: color every region
// with one of three colors so that bordering regions differ.
var (
	mapRegions = []string{"WA", "NT", "Q", "NSW", "V", "SA", "T"}
	mapBorders = map[string][]string{
		"SA":  {"WA", "NT", "Q", "NSW", "V"},
		"NT":  {"WA", "Q"},
		"NSW": {"Q", "V"},
	}
	mapColors = []string{"red", "green", "blue"}

	swatches = map[string]lipgloss.Style{
		"red":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		"green": lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		"blue":  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
)

var mapcolorCmd = &cobra.Command{
	Use:   "mapcolor",
	Short: "Color the map of Australia with three colors",
	RunE: func(cmd *cobra.Command, args []string) error {
		graph, err := buildMapGraph()
		if err != nil {
			return err
		}
		solver, err := newSolverForStrings(graph)
		if err != nil {
			return err
		}
		result, err := solver.Solve(cmd.Context())
		if err != nil {
			return fmt.Errorf("search aborted: %w", err)
		}
		if !result.Satisfiable {
			fmt.Println(renderUnsatisfiable())
			return nil
		}
		for _, region := range mapRegions {
			color := result.Solution.MustValue(region)
			fmt.Printf("  %-3s %s\n", region, swatches[color].Render(color))
		}
		fmt.Printf("search nodes: %d, dead ends: %d\n",
			result.Stats.Calls, result.Stats.Failures)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mapcolorCmd)
}

func buildMapGraph() (*csp.Graph[string], error) {
	g := csp.NewGraph[string]()
	for _, region := range mapRegions {
		if err := g.AddVariable(region, mapColors); err != nil {
			return nil, err
		}
	}
	differ := func(a, b string) bool { return a != b }
	for region, neighbors := range mapBorders {
		for _, neighbor := range neighbors {
			if err := g.AddConstraint(region, neighbor, differ); err != nil {
				return nil, err
			}
			if err := g.AddConstraint(neighbor, region, differ); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func newSolverForStrings(graph *csp.Graph[string]) (*csp.Solver[string], error) {
	strategy := flagStrategy
	if strategy == "" {
		strategy = config.Strategy
	}
	var opts []csp.Option[string]
	if config.Seed != 0 {
		opts = append(opts, csp.WithSeed[string](config.Seed))
	}
	switch strategy {
	case "", "random":
	case "mrv":
		opts = append(opts, csp.WithStrategy(csp.NewMinRemainingValues[string]()))
	case "degree":
		opts = append(opts, csp.WithStrategy(csp.NewDegreeStrategy(graph)))
	default:
		return nil, fmt.Errorf("unknown strategy %q (want random, mrv, or degree)", strategy)
	}
	return csp.NewSolver(graph, opts...), nil
}
