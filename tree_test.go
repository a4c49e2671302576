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
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cwUnitSquare = [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

func TestTreeWalk(t *testing.T) {
	tree := buildLines(t, DefaultConfig(), polygonLines(lShape...))
	var order []*Node
	tree.Walk(func(n *Node) bool {
		order = append(order, n)
		return true
	})
	require.Len(t, order, 3)
	assert.Same(t, tree.Root, order[0])
	assert.Same(t, tree.Root.Children[RIGHT], order[1])
	assert.Same(t, tree.Root.Children[LEFT], order[2])

	visited := 0
	tree.Walk(func(n *Node) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestTreeWalkWithoutStats(t *testing.T) {
	leaf1, leaf2 := &Node{Depth: 1}, &Node{Depth: 1}
	tree := &Tree{Root: &Node{Children: [2]*Node{leaf1, leaf2}}}
	assert.Equal(t, []*Node{leaf1, leaf2}, tree.Leaves())
	assert.Equal(t, 2, tree.Height())
}

func TestLocatePoint(t *testing.T) {
	tree := buildLines(t, DefaultConfig(), polygonLines(lShape...))
	right := tree.Root.Children[RIGHT]
	left := tree.Root.Children[LEFT]
	assert.Same(t, right, tree.LocatePoint(orb.Point{1.5, 0.5}))
	assert.Same(t, left, tree.LocatePoint(orb.Point{0.5, 1.5}))
	assert.Same(t, left, tree.LocatePoint(orb.Point{0.5, 1}), "on the partition")
	assert.Nil(t, (&Tree{}).LocatePoint(orb.Point{0, 0}))
}

func TestTreeStats(t *testing.T) {
	tree := buildLines(t, DefaultConfig(), polygonLines(lShape...))
	assert.NotEmpty(t, tree.Stats.RunID)
	assert.Equal(t, 1, tree.Stats.MaxDepth)
	assert.InDelta(t, 1.0, tree.Stats.MeanLeafDepth, 1e-12)
	assert.Equal(t, 0.0, tree.Stats.LeafDepthStdDev)
	assert.Equal(t, 2, tree.Height())

	other := buildLines(t, DefaultConfig(), polygonLines(lShape...))
	assert.NotEqual(t, tree.Stats.RunID, other.Stats.RunID)
}

func TestLineOf(t *testing.T) {
	lines := polygonLines(lShape...)
	tree := buildLines(t, DefaultConfig(), lines)
	for _, s := range tree.Segs {
		line := tree.LineOf(s)
		if !s.HasMapSide() {
			assert.Nil(t, line)
			continue
		}
		require.NotNil(t, line)
		assert.Equal(t, lines[s.Line], *line)
	}
}

func TestValidateCatchesMisplacedSeg(t *testing.T) {
	tree := buildLines(t, DefaultConfig(), polygonLines(lShape...))
	require.NoError(t, tree.Validate())
	right := tree.Root.Children[RIGHT]
	// belongs to the upper arm, left of the partition
	right.Segs = append(right.Segs, &Seg{
		Start: &Vertex{X: 0, Y: 1.8},
		End:   &Vertex{X: 0, Y: 1.5},
		Line:  0,
		Index: 100,
	})
	err := tree.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crosses partition")
}

func TestValidateCatchesNonConvexLeaf(t *testing.T) {
	tree := &Tree{Root: &Node{Segs: makeSegs(polygonLines(lShape...))}}
	err := tree.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not convex")

	tree.Root.Forced = true
	assert.NoError(t, tree.Validate())
}

func TestSortClockwise(t *testing.T) {
	tree := buildLines(t, DefaultConfig(), polygonLines(cwUnitSquare...))
	require.True(t, tree.Root.IsLeaf())
	var starts []orb.Point
	for _, s := range tree.Root.Segs {
		starts = append(starts, s.Start.Point())
	}
	assert.Equal(t, []orb.Point{{1, 0}, {0, 0}, {0, 1}, {1, 1}}, starts)
}

func TestIsConvex(t *testing.T) {
	assert.True(t, IsConvex(makeSegs(polygonLines(cwUnitSquare...))))
	assert.True(t, IsConvex(nil))
	assert.False(t, IsConvex(makeSegs(polygonLines(lShape...))))
	// the two sides of a lone two-sided line face each other
	twoSided := makeSegs([]MapLine{{From: pt(0, 0), To: pt(4, 0), Front: true, Back: true}})
	require.Len(t, twoSided, 2)
	assert.False(t, IsConvex(twoSided))
	assert.True(t, IsConvex(twoSided[:1]))
}
