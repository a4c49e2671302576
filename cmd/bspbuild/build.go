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

	"github.com/spf13/cobra"
	"github.com/vigilantdoomer/glbsp"
)

var validateTree bool

var buildCmd = &cobra.Command{
	Use:   "build LEVEL.yaml",
	Short: "Build the tree of a level and print statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := buildLevel(cmd, args[0])
		if err != nil {
			return err
		}
		printStats(cmd, &tree.Stats, tree.Height())
		if validateTree {
			if err := tree.Validate(); err != nil {
				return fmt.Errorf("tree failed validation: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tree is valid")
		}
		return nil
	},
}

func printStats(cmd *cobra.Command, st *glbsp.BuildStats, height int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:              %s\n", st.RunID)
	fmt.Fprintf(out, "Nodes:            %d\n", st.Nodes)
	fmt.Fprintf(out, "Leaves:           %d\n", st.Leaves)
	fmt.Fprintf(out, "Segs:             %d (%d minisegs)\n", st.Segs, st.MiniSegs)
	fmt.Fprintf(out, "Splits:           %d\n", st.Splits)
	fmt.Fprintf(out, "Vertices:         %d\n", st.Vertices)
	fmt.Fprintf(out, "Height:           %d\n", height)
	fmt.Fprintf(out, "Leaf depth:       %.2f mean, %.2f stddev, %d max\n",
		st.MeanLeafDepth, st.LeafDepthStdDev, st.MaxDepth)
	if st.ForcedLeaves > 0 {
		fmt.Fprintf(out, "Forced leaves:    %d\n", st.ForcedLeaves)
	}
	if st.UnclosedSectors > 0 {
		fmt.Fprintf(out, "Unclosed sectors: %d\n", st.UnclosedSectors)
	}
	if st.SkippedLines > 0 {
		fmt.Fprintf(out, "Skipped lines:    %d\n", st.SkippedLines)
	}
	fmt.Fprintf(out, "Took:             %v\n", st.Duration)
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVar(&validateTree, "validate", false, "Check convexity of leaves and containment of segs")
}
