// Copyright (C) 2022-2025, VigilantDoomer
//
// This file is part of VigilantBSP program.
//
// VigilantBSP is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantBSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantBSP.  If not, see <https://www.gnu.org/licenses/>.
package glbsp

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

const VERSION = "0.1.0"

// Recursion guard: deeper than this, a node is turned into a forced leaf
const DEFAULT_MAX_DEPTH = 512

var ErrInvalidConfig = errors.New("invalid configuration")

// Config tunes the builder. The zero value is not usable as is, start from
// DefaultConfig
type Config struct {
	// Multiplier applied to every seg a partition would split
	SplitCostFactor int `yaml:"split_cost_factor"`
	MaxDepth        int `yaml:"max_depth"`
	VerbosityLevel  int `yaml:"verbosity"`
	// Write seg listings of every leaf to the log (see MyLogger.GetDumpedSegs)
	DumpSegs bool `yaml:"dump_segs"`
	// Called with the location of every gap along a partition that is open
	// on one side only
	OnUnclosedSector func(orb.Point) `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		SplitCostFactor: DEFAULT_SPLIT_COST_FACTOR,
		MaxDepth:        DEFAULT_MAX_DEPTH,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are
// rejected
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the serializable part of the config as YAML
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.SplitCostFactor < 0 {
		errs = append(errs, fmt.Errorf("%w: split_cost_factor must not be negative, got %d",
			ErrInvalidConfig, c.SplitCostFactor))
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_depth must be positive, got %d",
			ErrInvalidConfig, c.MaxDepth))
	}
	if c.VerbosityLevel < 0 {
		errs = append(errs, fmt.Errorf("%w: verbosity must not be negative, got %d",
			ErrInvalidConfig, c.VerbosityLevel))
	}
	return errors.Join(errs...)
}
