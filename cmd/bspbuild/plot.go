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
	"gonum.org/v1/plot/vg"
)

var (
	plotOutput string
	plotSize   float64
)

var plotCmd = &cobra.Command{
	Use:   "plot LEVEL.yaml",
	Short: "Render the tree of a level to an image",
	Long:  `Renders segs, minisegs and partitions. Image format follows the extension of the output file (png, svg, pdf).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := buildLevel(cmd, args[0])
		if err != nil {
			return err
		}
		size := vg.Length(plotSize) * vg.Inch
		if err := glbsp.PlotTree(tree, plotOutput, size, size); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d leaves)\n", plotOutput, tree.Stats.Leaves)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "tree.png", "Output image file")
	plotCmd.Flags().Float64Var(&plotSize, "size", 8, "Image width and height, in inches")
}
