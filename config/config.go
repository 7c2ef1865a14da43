// Package config loads the router settings from TOML.
//
// Example:
//
//	[grid]
//	unit = 10
//	margin = 20
//
//	[search]
//	default = "astar"
//	compare = ["astar", "idastar", "dijkstra"]
//
//	[layers.dijkstra]
//	color = "#30a46c"
//	z_order = 1
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"schemroute/core"
	"schemroute/grid"
	"schemroute/layers"
	"schemroute/pathfinding"
	"schemroute/rerrors"
)

// Config is the full router configuration.
type Config struct {
	Grid   GridConfig             `toml:"grid"`
	Search SearchConfig           `toml:"search"`
	Layers map[string]LayerConfig `toml:"layers"`
}

// GridConfig sets up the snap grid and the search region.
type GridConfig struct {
	Unit      float64 `toml:"unit"`
	Margin    int     `toml:"margin"`    // cells of slack around the component extent
	Clearance int     `toml:"clearance"` // cells blocked around each footprint
	// Canvas fixes the routable area as [x0, y0, x1, y1] in canvas units.
	// Empty means the area follows the components.
	Canvas []float64 `toml:"canvas"`
}

// SearchConfig selects strategies and limits.
type SearchConfig struct {
	MaxIterations int      `toml:"max_iterations"`
	Default       string   `toml:"default"`
	Compare       []string `toml:"compare"`
}

// LayerConfig overrides parts of one layer's style.
type LayerConfig struct {
	Color   string `toml:"color"`
	ZOrder  *int   `toml:"z_order"`
	Visible *bool  `toml:"visible"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid: GridConfig{
			Unit:   grid.DefaultUnit,
			Margin: 20,
		},
		Search: SearchConfig{
			MaxIterations: pathfinding.DefaultMaxIterations,
			Default:       pathfinding.AStar.Key(),
		},
	}
}

// Load reads and validates a TOML file. Settings missing from the file keep
// their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates TOML. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, rerrors.New(rerrors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and strategy names.
func (c Config) Validate() error {
	if c.Grid.Unit <= 0 {
		return rerrors.New(rerrors.ErrCodeInvalidConfig, "grid.unit must be positive, got %v", c.Grid.Unit)
	}
	if c.Grid.Margin < 0 || c.Grid.Clearance < 0 {
		return rerrors.New(rerrors.ErrCodeInvalidConfig, "grid.margin and grid.clearance cannot be negative")
	}
	if n := len(c.Grid.Canvas); n != 0 {
		if n != 4 {
			return rerrors.New(rerrors.ErrCodeInvalidConfig, "grid.canvas needs 4 values, got %d", n)
		}
		if c.Grid.Canvas[2] <= c.Grid.Canvas[0] || c.Grid.Canvas[3] <= c.Grid.Canvas[1] {
			return rerrors.New(rerrors.ErrCodeInvalidConfig, "grid.canvas must have x1 > x0 and y1 > y0")
		}
	}
	if c.Search.MaxIterations <= 0 {
		return rerrors.New(rerrors.ErrCodeInvalidConfig, "search.max_iterations must be positive")
	}
	if _, err := pathfinding.ParseStrategy(c.Search.Default); err != nil {
		return rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "search.default")
	}
	for _, name := range c.Search.Compare {
		if _, err := pathfinding.ParseStrategy(name); err != nil {
			return rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "search.compare")
		}
	}
	for name, l := range c.Layers {
		if _, err := pathfinding.ParseStrategy(name); err != nil {
			return rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "layers.%s", name)
		}
		if l.Color != "" && !isHexColor(l.Color) {
			return rerrors.New(rerrors.ErrCodeInvalidConfig, "layers.%s.color %q is not a #rrggbb color", name, l.Color)
		}
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// GridModel returns the snap grid.
func (c Config) GridModel() grid.Grid {
	return grid.New(c.Grid.Unit)
}

// CanvasRect returns the fixed routable cell rect, if one is configured.
func (c Config) CanvasRect() (core.Rect, bool) {
	if len(c.Grid.Canvas) != 4 {
		return core.Rect{}, false
	}
	g := c.GridModel()
	lo := g.ToCell(core.Point{X: c.Grid.Canvas[0], Y: c.Grid.Canvas[1]})
	hi := g.ToCell(core.Point{X: c.Grid.Canvas[2], Y: c.Grid.Canvas[3]})
	return core.Rect{Min: lo, Max: core.Cell{Col: hi.Col + 1, Row: hi.Row + 1}}, true
}

// SearchOptions returns the limits passed to every strategy.
func (c Config) SearchOptions() pathfinding.Options {
	return pathfinding.Options{MaxIterations: c.Search.MaxIterations}
}

// DefaultStrategy returns the routing strategy. Call Validate first.
func (c Config) DefaultStrategy() pathfinding.StrategyID {
	id, err := pathfinding.ParseStrategy(c.Search.Default)
	if err != nil {
		return pathfinding.AStar
	}
	return id
}

// CompareStrategies returns the comparison strategies, skipping unknown names.
func (c Config) CompareStrategies() []pathfinding.StrategyID {
	var ids []pathfinding.StrategyID
	for _, name := range c.Search.Compare {
		if id, err := pathfinding.ParseStrategy(name); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Styles merges the layer overrides onto the default styles.
func (c Config) Styles() map[pathfinding.StrategyID]layers.Style {
	styles := layers.DefaultStyles()
	for name, l := range c.Layers {
		id, err := pathfinding.ParseStrategy(name)
		if err != nil {
			continue
		}
		s := styles[id]
		if l.Color != "" {
			s.Color = l.Color
		}
		if l.ZOrder != nil {
			s.ZOrder = *l.ZOrder
		}
		if l.Visible != nil {
			s.Visible = *l.Visible
		}
		styles[id] = s
	}
	return styles
}
