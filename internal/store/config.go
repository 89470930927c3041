package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"postgrid/internal/grid"
)

const configFileName = "grid.toml"

// GridConfig is the user-tunable grid appearance and scheduling config,
// loaded from <workspace>/grid.toml when present.
type GridConfig struct {
	Columns        int     `toml:"columns"`
	Gap            float64 `toml:"gap"`
	AspectRatio    string  `toml:"aspect_ratio"` // "standard" (4:5) or "reel" (9:16)
	SpacingMinutes int     `toml:"default_spacing_minutes"`
}

// DefaultGridConfig matches the reference dashboard: 3 columns, 4:5 cells,
// 30 minute end-insertion spacing.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Columns:        3,
		Gap:            1,
		AspectRatio:    "standard",
		SpacingMinutes: 30,
	}
}

// LoadGridConfig reads grid.toml from dir, filling unset fields with
// defaults. A missing file is not an error.
func LoadGridConfig(dir string) (GridConfig, error) {
	cfg := DefaultGridConfig()

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultGridConfig(), fmt.Errorf("parse %s: %w", configFileName, err)
	}
	if cfg.Columns <= 0 {
		cfg.Columns = 3
	}
	if cfg.Gap < 0 {
		cfg.Gap = 0
	}
	if cfg.SpacingMinutes <= 0 {
		cfg.SpacingMinutes = 30
	}
	switch cfg.AspectRatio {
	case "", "standard", "reel":
	default:
		return cfg, fmt.Errorf("unknown aspect_ratio %q (want standard or reel)", cfg.AspectRatio)
	}
	return cfg, nil
}

// Grid converts the stored config into grid geometry inputs.
func (c GridConfig) Grid() grid.Config {
	ratio := grid.AspectStandard
	if c.AspectRatio == "reel" {
		ratio = grid.AspectReel
	}
	return grid.Config{Columns: c.Columns, Gap: c.Gap, AspectRatio: ratio}
}

// Spacing returns the configured end-insertion interval.
func (c GridConfig) Spacing() time.Duration {
	return time.Duration(c.SpacingMinutes) * time.Minute
}
