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
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	segColor       = color.RGBA{A: 255}
	minisegColor   = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	partitionColor = color.RGBA{R: 200, G: 40, B: 40, A: 160}
)

// PlotTree renders the tree for debugging: map segs in black, minisegs
// dashed gray, partitions (clipped to their node's box) in red. The image
// format follows the extension of path (.png, .svg, .pdf...)
func PlotTree(t *Tree, path string, w, h vg.Length) error {
	p, err := NewTreePlot(t)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// NewTreePlot builds the plot PlotTree saves
func NewTreePlot(t *Tree) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("BSP tree: %d leaves, %d segs, height %d",
		t.Stats.Leaves, t.Stats.Segs, t.Height())
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	var addErr error
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			for _, s := range n.Segs {
				if err := addSegment(p, s.Start.Point(), s.End.Point(), s.HasMapSide()); err != nil {
					addErr = err
					return false
				}
			}
			return true
		}
		from, to, ok := clipPartition(&n.Partition, n.Box)
		if !ok {
			return true
		}
		line, err := plotter.NewLine(plotter.XYs{{X: from[0], Y: from[1]}, {X: to[0], Y: to[1]}})
		if err != nil {
			addErr = err
			return false
		}
		line.Color = partitionColor
		line.Width = vg.Points(0.5)
		p.Add(line)
		return true
	})
	if addErr != nil {
		return nil, fmt.Errorf("failed to plot tree: %w", addErr)
	}

	p.X.Min, p.X.Max = t.Bounds.Min[0], t.Bounds.Max[0]
	p.Y.Min, p.Y.Max = t.Bounds.Min[1], t.Bounds.Max[1]
	return p, nil
}

func addSegment(p *plot.Plot, from, to orb.Point, mapSide bool) error {
	line, err := plotter.NewLine(plotter.XYs{{X: from[0], Y: from[1]}, {X: to[0], Y: to[1]}})
	if err != nil {
		return err
	}
	if mapSide {
		line.Color = segColor
		line.Width = vg.Points(1)
	} else {
		line.Color = minisegColor
		line.Width = vg.Points(0.75)
		line.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	}
	p.Add(line)
	return nil
}

// clipPartition returns the stretch of the partition line inside box. ok is
// false if the line misses the box
func clipPartition(part *Partition, box orb.Bound) (from, to orb.Point, ok bool) {
	o, d := part.Origin, part.Direction
	l := d.Length()
	if l == 0 {
		return from, to, false
	}
	// a chord as long as the box diagonal on both sides of the point of
	// the line closest to the box centre always reaches past the box
	c := box.Center()
	mid := o.Add(d.Scale(Vec2{c[0], c[1]}.Sub(o).Dot(d) / (l * l)))
	reach := d.Scale(math.Hypot(box.Max[0]-box.Min[0], box.Max[1]-box.Min[1])/l + 1)
	a, b := mid.Sub(reach), mid.Add(reach)
	pieces := clip.LineString(box, orb.LineString{{a.X, a.Y}, {b.X, b.Y}})
	if len(pieces) == 0 || len(pieces[0]) < 2 {
		return from, to, false
	}
	return pieces[0][0], pieces[0][len(pieces[0])-1], true
}
