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
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"
)

// Child slots of an internal node
const (
	RIGHT = 0
	LEFT  = 1
)

// Node is either an internal node (Children set) or a leaf (Segs set, which
// may be empty for a tree built from nothing)
type Node struct {
	Partition Partition
	Box       orb.Bound    // bounds of everything under this node
	Bounds    [2]orb.Bound // bounds of each child, indexed by RIGHT/LEFT
	Children  [2]*Node
	Segs      []*Seg
	Depth     int
	// Leaf was made because of the depth limit or a division that made no
	// progress, and may be non-convex
	Forced  bool
	leafIdx int
}

func (n *Node) IsLeaf() bool {
	return n.Children[RIGHT] == nil && n.Children[LEFT] == nil
}

// LeafIndex is the order in which the leaf was created. Meaningless for
// internal nodes
func (n *Node) LeafIndex() int {
	return n.leafIdx
}

type BuildStats struct {
	RunID           string
	Nodes           int // internal nodes
	Leaves          int
	Segs            int
	MiniSegs        int
	Splits          int // seg cuts, partners included
	Vertices        int
	MaxDepth        int // deepest leaf
	ForcedLeaves    int
	UnclosedSectors int
	SkippedLines    int
	Duration        time.Duration
	MeanLeafDepth   float64
	LeafDepthStdDev float64
}

// Tree is the result of a build. It is never modified afterwards and may be
// read from many goroutines
type Tree struct {
	Root     *Node
	Bounds   orb.Bound
	Lines    []MapLine
	Vertices []*Vertex
	Segs     []*Seg // every seg in any leaf
	Stats    BuildStats
}

// LineOf returns the map line seg came from, nil for minisegs
func (t *Tree) LineOf(s *Seg) *MapLine {
	if !s.HasMapSide() || s.Line >= len(t.Lines) {
		return nil
	}
	return &t.Lines[s.Line]
}

// Walk visits nodes breadth-first, right child before left. Returning false
// from fn stops the walk
func (t *Tree) Walk(fn func(n *Node) bool) {
	if t.Root == nil {
		return
	}
	total := t.Stats.Nodes + t.Stats.Leaves
	if total == 0 {
		total = countNodes(t.Root)
	}
	ring := CreateNodeRing(uint32(total))
	ring.Enqueue(t.Root)
	for !ring.Empty() {
		n := ring.Dequeue()
		if !fn(n) {
			ring.Reset()
			return
		}
		for _, c := range n.Children {
			if c != nil {
				ring.Enqueue(c)
			}
		}
	}
}

func countNodes(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + countNodes(n.Children[RIGHT]) + countNodes(n.Children[LEFT])
}

func (t *Tree) Leaves() []*Node {
	res := make([]*Node, 0, t.Stats.Leaves)
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			res = append(res, n)
		}
		return true
	})
	return res
}

// LocatePoint descends to the leaf containing p. Points on a partition go
// left
func (t *Tree) LocatePoint(p orb.Point) *Node {
	n := t.Root
	if n == nil {
		return nil
	}
	v := Vec2{p[0], p[1]}
	for !n.IsLeaf() {
		if n.Partition.PointOnSide(v) > 0 {
			n = n.Children[RIGHT]
		} else {
			n = n.Children[LEFT]
		}
	}
	return n
}

// Height is the number of levels in the tree, 1 for a lone leaf
func (t *Tree) Height() int {
	return HeightOfNodes(t.Root)
}

func HeightOfNodes(node *Node) int {
	if node == nil {
		return 0
	}
	lHeight := HeightOfNodes(node.Children[LEFT])
	rHeight := HeightOfNodes(node.Children[RIGHT])
	if lHeight > rHeight {
		return lHeight + 1
	}
	return rHeight + 1
}

// Validate checks that every leaf that was not forced is convex, and that no
// seg ends up on the wrong side of a partition above it
func (t *Tree) Validate() error {
	var errs []error
	var check func(n *Node, ancestors []sidedPartition)
	check = func(n *Node, ancestors []sidedPartition) {
		if n == nil {
			return
		}
		if !n.IsLeaf() {
			check(n.Children[RIGHT], append(ancestors, sidedPartition{n.Partition, RIGHT, n.Depth}))
			check(n.Children[LEFT], append(ancestors, sidedPartition{n.Partition, LEFT, n.Depth}))
			return
		}
		for _, s := range n.Segs {
			for _, a := range ancestors {
				if !a.holds(s) {
					errs = append(errs, fmt.Errorf("leaf %d: seg %d (%v,%v)-(%v,%v) crosses partition %s at depth %d",
						n.leafIdx, s.Index, s.Start.X, s.Start.Y, s.End.X, s.End.Y,
						a.part.String(), a.depth))
				}
			}
		}
		if !n.Forced && isItConvex(n.Segs) != CONVEX_SUBSECTOR {
			errs = append(errs, fmt.Errorf("leaf %d at depth %d is not convex", n.leafIdx, n.Depth))
		}
	}
	check(t.Root, nil)
	return errors.Join(errs...)
}

type sidedPartition struct {
	part  Partition
	side  int
	depth int
}

// holds reports whether seg lies on its side of the partition, within
// DIST_EPSILON
func (a sidedPartition) holds(s *Seg) bool {
	for _, v := range [2]*Vertex{s.Start, s.End} {
		d := a.part.Distance(v.Vec())
		if a.side == RIGHT && d < -DIST_EPSILON {
			return false
		}
		if a.side == LEFT && d > DIST_EPSILON {
			return false
		}
	}
	return true
}

// finish puts leaf segs in clockwise order, fills in the stats and dumps
// leaves if asked to
func (b *Builder) finish(t *Tree) {
	t.Stats = b.stats
	t.Stats.Segs = len(t.Segs)
	t.Stats.Vertices = len(t.Vertices)

	leaves := t.Leaves()
	depths := make([]float64, 0, len(leaves))
	for _, leaf := range leaves {
		sortClockwise(leaf)
		depths = append(depths, float64(leaf.Depth))
		if leaf.Depth > t.Stats.MaxDepth {
			t.Stats.MaxDepth = leaf.Depth
		}
		b.mlog.DumpSegs(leaf.leafIdx, leaf.Segs)
	}
	if len(depths) > 0 {
		t.Stats.MeanLeafDepth, t.Stats.LeafDepthStdDev = stat.MeanStdDev(depths, nil)
		if len(depths) < 2 || math.IsNaN(t.Stats.LeafDepthStdDev) {
			t.Stats.LeafDepthStdDev = 0
		}
	}
}

// sortClockwise orders leaf segs by the angle of their start vertex around
// the middle of the leaf, going clockwise. Ties go by creation order
func sortClockwise(leaf *Node) {
	if len(leaf.Segs) < 2 {
		return
	}
	c := FindLimits(leaf.Segs).Center()
	angles := make(map[*Seg]float64, len(leaf.Segs))
	for _, s := range leaf.Segs {
		angles[s] = computeAngle(Vec2{s.Start.X - c[0], s.Start.Y - c[1]})
	}
	sort.SliceStable(leaf.Segs, func(i, j int) bool {
		a1, a2 := angles[leaf.Segs[i]], angles[leaf.Segs[j]]
		if a1 != a2 {
			return a1 > a2
		}
		return leaf.Segs[i].Index < leaf.Segs[j].Index
	})
}
