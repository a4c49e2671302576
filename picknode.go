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
	"math"
)

// To be able to divide the nodes down, this routine must decide which is the
// best Seg to use as a nodeline. Credit to Raphael Quinet and DEU for the
// original implementation, Lee Killough for the pruning idea.
// Superblocks, partner segs and aliases come from AJ-BSP and Zennode.

// Split cost factor used when none (or a non-positive one) is configured
const DEFAULT_SPLIT_COST_FACTOR = 7

const INITIAL_BIG_COST = 2147483647 // 32-bit signed positive max for compatibility with 32-bit executable

// Where a seg (or a block) lies relative to a partition
const (
	SIDENESS_COLLINEAR = uint8(iota)
	SIDENESS_INTERSECT
	SIDENESS_LEFT
	SIDENESS_RIGHT
)

// PartitionCost is what a partition would do to the segs in scope
type PartitionCost struct {
	Splits int
	Left   int // segs going wholly to the left, collinear ones included
	Right  int // segs going wholly to the right, collinear ones included
	Cost   int
}

// Viable is false when a side would end up with no segs at all
func (c PartitionCost) Viable() bool {
	return c.Left+c.Splits > 0 && c.Right+c.Splits > 0
}

type PartitionEvaluator struct {
	splitCostFactor int
	aliases         *SegAliasHolder
}

func NewPartitionEvaluator(splitCostFactor int) *PartitionEvaluator {
	if splitCostFactor <= 0 {
		splitCostFactor = DEFAULT_SPLIT_COST_FACTOR
	}
	return &PartitionEvaluator{
		splitCostFactor: splitCostFactor,
		aliases:         NewSegAliasHolder(),
	}
}

func (e *PartitionEvaluator) SplitCostFactor() int {
	return e.splitCostFactor
}

// Choose picks the seg whose line divides the segs of node at the lowest cost
// (split count times split cost factor, plus the imbalance between sides).
// Returns nil when there is nothing worth dividing: one seg or less in scope,
// or no candidate puts segs on both sides. Ties go to the candidate seen first
// in drain order
func (e *PartitionEvaluator) Choose(node *BlockmapNode) *Seg {
	if node == nil || node.Total() <= 1 {
		return nil
	}
	var best *Seg
	bestcost := int(INITIAL_BIG_COST)

	e.aliases.UnvisitAll() // remove marks from previous Choose calls

	for _, part := range node.Collect() { // Use each Seg as partition
		if !isCandidate(part) {
			continue
		}
		if part.alias != 0 {
			if e.aliases.MarkAndRecall(part.alias) {
				// a collinear seg was already tried, same nodeline
				continue
			}
		} else {
			part.alias = e.aliases.Generate()
			if part.Partner != nil && part.Partner.alias == 0 {
				part.Partner.alias = part.alias
			}
			// Aliases get copied in the counting loop: when a seg is
			// collinear to the partition, it inherits the alias
		}

		p := part.Partition()
		c := PartitionCost{}
		if e.evalPartitionWorker(node, part, &p, &c, bestcost) {
			continue // pruned
		}
		if !c.Viable() {
			continue
		}
		c.Cost = e.costOf(c)
		if c.Cost < bestcost {
			// We have a new better choice
			bestcost = c.Cost
			best = part
		}
	}
	return best
}

// Evaluate computes the cost of dividing the segs of node with part, without
// pruning. The bool is false when the partition is not viable (degenerate, or
// one side ends up empty)
func (e *PartitionEvaluator) Evaluate(part *Partition, node *BlockmapNode) (PartitionCost, bool) {
	c := PartitionCost{}
	if node == nil || part.Direction.Length() < DIST_EPSILON ||
		!part.Origin.IsFinite() || !part.Direction.IsFinite() {
		return c, false
	}
	e.evalPartitionWorker(node, nil, part, &c, INITIAL_BIG_COST)
	c.Cost = e.costOf(c)
	return c, c.Viable()
}

func (e *PartitionEvaluator) costOf(c PartitionCost) int {
	diff := c.Left - c.Right
	if diff < 0 {
		diff = -diff
	}
	return c.Splits*e.splitCostFactor + diff
}

// If returns true, the partition must be skipped, because it produced so many
// splits that cost exceeds bestcost. partSeg may be nil, then no aliases are
// propagated
func (e *PartitionEvaluator) evalPartitionWorker(block *BlockmapNode,
	partSeg *Seg, part *Partition, c *PartitionCost, bestcost int) bool {

	// -AJA- this is the heart of the superblock idea, it tests the
	//       _whole_ block against the partition line to quickly handle
	//       all the segs within it at once.  Only when the partition
	//       line intercepts the box do we need to go deeper into it.
	switch BoxOnLineSide(block.Bounds(), part) {
	case SIDENESS_LEFT:
		c.Left += block.Total()
		return false
	case SIDENESS_RIGHT:
		c.Right += block.Total()
		return false
	}

	for check := block.block.segs; check != nil; check = check.nextInBlock {
		switch classifySeg(part, check) {
		case SIDENESS_INTERSECT:
			c.Splits++
			if c.Splits*e.splitCostFactor > bestcost {
				// This is the heart of the pruning idea, it catches bad
				// segs early on. Killough
				return true
			}
		case SIDENESS_LEFT:
			c.Left++
		case SIDENESS_RIGHT:
			c.Right++
		case SIDENESS_COLLINEAR:
			if partSeg != nil {
				// co-linear, must share alias
				check.alias = partSeg.alias
			}
			if collinearGoesRight(part, check) {
				c.Right++
			} else {
				c.Left++
			}
		}
	}

	// handle sub-blocks recursively
	for num := 0; num < 2; num++ {
		sub := block.subs[num]
		if sub == nil || sub.Total() == 0 {
			continue
		}
		if e.evalPartitionWorker(sub, partSeg, part, c, bestcost) {
			return true
		}
	}

	// no "bad seg" was found
	return false
}

// Only segs from map lines, with finite coordinates and length, may become
// partitions
func isCandidate(seg *Seg) bool {
	if !seg.HasMapSide() {
		return false
	}
	p := seg.Partition()
	if !p.Origin.IsFinite() || !p.Direction.IsFinite() {
		return false
	}
	return p.Direction.Length() >= DIST_EPSILON
}

// classifySeg tells where seg goes relative to part. An endpoint within
// DIST_EPSILON of the line counts as on it, and then the other endpoint
// decides
func classifySeg(part *Partition, seg *Seg) uint8 {
	a := part.Distance(seg.Start.Vec())
	b := part.Distance(seg.End.Vec())
	onA := math.Abs(a) <= DIST_EPSILON
	onB := math.Abs(b) <= DIST_EPSILON
	switch {
	case onA && onB:
		return SIDENESS_COLLINEAR
	case onA:
		return sideOf(b)
	case onB:
		return sideOf(a)
	case a < 0 && b < 0:
		return SIDENESS_LEFT
	case a > 0 && b > 0:
		return SIDENESS_RIGHT
	}
	return SIDENESS_INTERSECT
}

func sideOf(dist float64) uint8 {
	if dist < 0 {
		return SIDENESS_LEFT
	}
	return SIDENESS_RIGHT
}

// Collinear segs running the same way as the partition go right, segs running
// against it go left
func collinearGoesRight(part *Partition, seg *Seg) bool {
	d := seg.End.Vec().Sub(seg.Start.Vec())
	return d.Dot(part.Direction) > 0
}
