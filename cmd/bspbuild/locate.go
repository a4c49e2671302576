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
	"strconv"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate LEVEL.yaml X Y",
	Short: "Print the leaf containing a point",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid X: %w", err)
		}
		y, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid Y: %w", err)
		}
		tree, err := buildLevel(cmd, args[0])
		if err != nil {
			return err
		}
		leaf := tree.LocatePoint(orb.Point{x, y})
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Leaf #%d at depth %d, %d segs\n", leaf.LeafIndex(), leaf.Depth, len(leaf.Segs))
		for _, s := range leaf.Segs {
			if line := tree.LineOf(s); line != nil {
				fmt.Fprintf(out, "  line %d side %d (%v, %v) - (%v, %v) %v\n", s.Line, s.Side,
					s.Start.X, s.Start.Y, s.End.X, s.End.Y, line.Ref)
			} else {
				fmt.Fprintf(out, "  miniseg (%v, %v) - (%v, %v)\n",
					s.Start.X, s.Start.Y, s.End.X, s.End.Y)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
