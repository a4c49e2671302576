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
package main

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"github.com/vigilantdoomer/glbsp"
)

var (
	configPath      string
	splitCostFactor int
	maxDepth        int
	verbosity       int
	dumpSegs        bool
)

var rootCmd = &cobra.Command{
	Use:   "bspbuild",
	Short: "bspbuild - BSP tree builder for 2D map geometry",
	Long: `bspbuild builds a binary space partition tree out of the lines of a
level described in YAML, and reports on it, plots it or locates points in it.`,
	Version:           glbsp.VERSION,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.IntVar(&splitCostFactor, "split-cost", glbsp.DEFAULT_SPLIT_COST_FACTOR, "Cost of splitting a seg, relative to one seg of imbalance")
	pf.IntVar(&maxDepth, "max-depth", glbsp.DEFAULT_MAX_DEPTH, "Depth at which leaves are forced")
	pf.CountVarP(&verbosity, "verbose", "v", "Verbosity, repeat for more")
	pf.BoolVar(&dumpSegs, "dump-segs", false, "Dump segs of every leaf")
}

// loadConfig reads the config file, if any, then applies the flags the user
// set explicitly
func loadConfig(cmd *cobra.Command) (glbsp.Config, error) {
	cfg := glbsp.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = glbsp.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("split-cost") {
		cfg.SplitCostFactor = splitCostFactor
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if flags.Changed("verbose") {
		cfg.VerbosityLevel = verbosity
	}
	if flags.Changed("dump-segs") {
		cfg.DumpSegs = dumpSegs
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildLevel loads the level at path and builds its tree, with the log
// going to the command's output
func buildLevel(cmd *cobra.Command, path string) (*glbsp.Tree, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	lvl, err := glbsp.LoadLevel(path)
	if err != nil {
		return nil, fmt.Errorf("loading level: %w", err)
	}
	glbsp.Log.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	glbsp.Log.SetVerbosity(cfg.VerbosityLevel)
	cfg.OnUnclosedSector = func(p orb.Point) {
		glbsp.Log.Error("Warning: unclosed sector near (%1.1f, %1.1f)\n", p[0], p[1])
	}
	tree := glbsp.NewBuilder(cfg).Build(lvl.MapLines(), lvl.BoundingBox())
	if cfg.VerbosityLevel >= glbsp.SLOT_VERBOSITY {
		glbsp.Log.Flush()
	}
	if cfg.DumpSegs {
		fmt.Fprint(cmd.OutOrStdout(), glbsp.Log.TakeDumpedSegs())
	}
	return tree, nil
}
