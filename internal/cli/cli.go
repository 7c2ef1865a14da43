// Package cli implements the wireroute command-line interface.
//
// Commands:
//   - route: load a board, route its wires and report per-strategy metrics
//   - bench: compare the strategies on a generated obstacle field
//   - check: verify stored routes against the board without rerouting
//
// All commands accept --verbose (-v) for debug logging and --config for a
// TOML settings file.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"schemroute/config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	cfg        config.Config
}

// New creates a CLI that logs to logw and prints results to out.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(logw, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		out: out,
		cfg: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "wireroute",
		Short:        "wireroute routes schematic wires and compares search strategies",
		Long:         `wireroute places orthogonal, obstacle-avoiding wires between component terminals on a snapped grid and reports how A*, IDA* and Dijkstra compare on the same requests.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML settings file")

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.checkCommand())
	return root
}

func (c *CLI) loadConfig() error {
	if c.configPath == "" {
		c.cfg = config.Default()
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	c.cfg = cfg
	return nil
}
