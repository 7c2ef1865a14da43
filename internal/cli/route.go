package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"schemroute/circuit"
	"schemroute/core"
	"schemroute/pathfinding"
	"schemroute/preview"
	"schemroute/rerrors"
	"schemroute/routing"
)

type routeOpts struct {
	connect  []string
	compare  string
	strategy string
	save     string
	preview  bool
	text     bool
	ascii    bool
}

func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route [board.json]",
		Short: "Route the wires of a board and report strategy metrics",
		Long: `Route loads a board, reroutes every stored wire, adds the wires given
with --connect and prints the per-strategy performance report.

Terminals are written as COMPONENT:INDEX and connections as FROM=TO.`,
		Example: `  wireroute route board.json --compare astar,idastar,dijkstra
  wireroute route board.json --connect R1:1=R2:0 --save routed.json
  wireroute route board.json --text --ascii
  wireroute route board.json --preview`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.connect, "connect", "c", nil, "connect two terminals (FROM=TO, repeatable)")
	cmd.Flags().StringVar(&opts.compare, "compare", "", "comma-separated comparison strategies (overrides config)")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "default routing strategy (overrides config)")
	cmd.Flags().StringVarP(&opts.save, "save", "o", "", "write the routed board to this file")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show the routed board in the terminal")
	cmd.Flags().BoolVar(&opts.text, "text", false, "print the routed board as text")
	cmd.Flags().BoolVar(&opts.ascii, "ascii", false, "draw text with ASCII instead of box characters")

	return cmd
}

func (c *CLI) runRoute(path string, opts routeOpts) error {
	board, err := loadBoard(path)
	if err != nil {
		return err
	}

	h, err := routing.FromConfig(board, c.cfg, c.Logger)
	if err != nil {
		return err
	}
	if err := applyStrategyFlags(h, opts); err != nil {
		return err
	}

	start := time.Now()
	routed, failed := 0, 0
	for _, w := range board.Wires() {
		if _, err := h.Reroute(w.ID); err != nil {
			if !rerrors.IsNotFound(err) {
				return err
			}
			failed++
			c.printWarning("%s: %s", w.ID, rerrors.UserMessage(err))
			continue
		}
		routed++
	}
	for _, pair := range opts.connect {
		from, to, err := parseConnection(pair)
		if err != nil {
			return err
		}
		w, err := h.Connect(from, to)
		if err != nil {
			if !rerrors.IsNotFound(err) {
				return err
			}
			failed++
			c.printWarning("%s: %s", pair, rerrors.UserMessage(err))
			continue
		}
		routed++
		c.Logger.Debug("connected", "wire", w.ID, "from", from, "to", to)
	}
	c.Logger.Infof("Routed %d wires (%s)", routed, time.Since(start).Round(time.Millisecond))

	c.printTitle(fmt.Sprintf("%d wires routed, %d failed", routed, failed))
	fmt.Fprintln(c.out, reportTable(h.Report()))

	if opts.save != "" {
		if err := saveBoard(opts.save, board); err != nil {
			return err
		}
		c.printSuccess("saved board")
		c.printFile(opts.save)
	}
	if opts.text {
		p := preview.New(h)
		if opts.ascii {
			p.SetLines(preview.ASCIILines())
		}
		text, err := p.Text()
		if err != nil {
			return err
		}
		fmt.Fprint(c.out, text)
	}
	if opts.preview {
		return preview.Show(h)
	}
	return nil
}

func applyStrategyFlags(h *routing.Harness, opts routeOpts) error {
	if opts.strategy != "" {
		id, err := pathfinding.ParseStrategy(opts.strategy)
		if err != nil {
			return err
		}
		if err := h.SetDefaultStrategy(id); err != nil {
			return err
		}
	}
	if opts.compare != "" {
		ids, err := parseStrategies(opts.compare)
		if err != nil {
			return err
		}
		if err := h.SetActiveStrategies(ids); err != nil {
			return err
		}
	}
	return nil
}

func loadBoard(path string) (*circuit.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board: %w", err)
	}
	defer f.Close()
	return circuit.Load(f)
}

func saveBoard(path string, b *circuit.Board) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := b.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseTerminal reads "R1:1" as terminal 1 of component R1. A missing
// index means terminal 0.
func parseTerminal(s string) (core.TerminalRef, error) {
	s = strings.TrimSpace(s)
	id, idx, hasIdx := strings.Cut(s, ":")
	if id == "" {
		return core.TerminalRef{}, rerrors.New(rerrors.ErrCodeInvalidRequest, "terminal %q has no component", s)
	}
	ref := core.TerminalRef{Component: core.ComponentID(id)}
	if hasIdx {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			return core.TerminalRef{}, rerrors.New(rerrors.ErrCodeInvalidRequest, "terminal %q has a bad index", s)
		}
		ref.Index = n
	}
	return ref, nil
}

// parseConnection reads "FROM=TO".
func parseConnection(s string) (core.TerminalRef, core.TerminalRef, error) {
	a, b, ok := strings.Cut(s, "=")
	if !ok {
		return core.TerminalRef{}, core.TerminalRef{}, rerrors.New(rerrors.ErrCodeInvalidRequest, "connection %q must look like FROM=TO", s)
	}
	from, err := parseTerminal(a)
	if err != nil {
		return core.TerminalRef{}, core.TerminalRef{}, err
	}
	to, err := parseTerminal(b)
	if err != nil {
		return core.TerminalRef{}, core.TerminalRef{}, err
	}
	return from, to, nil
}

// parseStrategies reads a comma-separated strategy list. "none" clears it.
func parseStrategies(s string) ([]pathfinding.StrategyID, error) {
	if strings.EqualFold(strings.TrimSpace(s), "none") {
		return nil, nil
	}
	var ids []pathfinding.StrategyID
	for _, name := range strings.Split(s, ",") {
		id, err := pathfinding.ParseStrategy(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
