package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"schemroute/core"
	"schemroute/obstacles"
	"schemroute/pathfinding"
	"schemroute/rerrors"
)

type benchOpts struct {
	size          int
	density       float64
	seed          uint32
	maxIterations int
	strategies    string
	showMap       bool
}

func (c *CLI) benchCommand() *cobra.Command {
	opts := benchOpts{size: 40, density: 0.25, seed: 1}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare the strategies on a generated obstacle field",
		Long: `Bench scatters obstacles over a square grid and routes from the top-left
corner to the bottom-right corner with each strategy. The field depends only
on --size, --density and --seed, so runs are repeatable.`,
		Example: `  wireroute bench --size 60 --density 0.3
  wireroute bench --size 12 --seed 7 --map`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBench(opts)
		},
	}

	cmd.Flags().IntVar(&opts.size, "size", opts.size, "grid width and height in cells")
	cmd.Flags().Float64Var(&opts.density, "density", opts.density, "fraction of blocked cells (0-1)")
	cmd.Flags().Uint32Var(&opts.seed, "seed", opts.seed, "obstacle field seed")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", 0, "iteration cap per strategy (default from config)")
	cmd.Flags().StringVar(&opts.strategies, "strategies", "astar,idastar,dijkstra", "comma-separated strategies to run")
	cmd.Flags().BoolVar(&opts.showMap, "map", false, "print the field with each found path")

	return cmd
}

func (c *CLI) runBench(opts benchOpts) error {
	if opts.size < 2 {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, "size must be at least 2, got %d", opts.size)
	}
	if opts.density < 0 || opts.density >= 1 {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, "density must be in [0, 1), got %v", opts.density)
	}
	ids, err := parseStrategies(opts.strategies)
	if err != nil {
		return err
	}

	search := c.cfg.SearchOptions()
	if opts.maxIterations > 0 {
		search.MaxIterations = opts.maxIterations
	}

	bounds := core.Rect{Max: core.Cell{Col: opts.size, Row: opts.size}}
	start := bounds.Min
	goal := core.Cell{Col: opts.size - 1, Row: opts.size - 1}
	field := obstacles.Scatter(bounds, opts.density, opts.seed, start, goal)
	c.Logger.Debug("generated field", "size", opts.size, "blocked", field.Len(), "seed", opts.seed)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		s, err := pathfinding.New(id, search)
		if err != nil {
			return err
		}
		res := s.FindPath(start, goal, field.Blocked, bounds)
		row := []string{id.String(), "no", "-", "-", fmt.Sprintf("%d", res.Iterations), formatDuration(res.Elapsed)}
		if res.Found {
			row[1] = "yes"
			row[2] = fmt.Sprintf("%d", res.Path.Len())
			row[3] = fmt.Sprintf("%d", pathfinding.Bends(res.Path))
			if opts.showMap {
				fmt.Fprintf(c.out, "%s\n%s\n", styleTitle.Render(id.String()), obstacles.Render(field, bounds, res.Path))
			}
		}
		rows = append(rows, row)
	}

	c.printTitle(fmt.Sprintf("%dx%d grid, %d blocked cells, seed %d", opts.size, opts.size, field.Len(), opts.seed))
	fmt.Fprintln(c.out, renderTable([]string{"Strategy", "Found", "Cells", "Bends", "Iterations", "Elapsed"}, rows))
	return nil
}
