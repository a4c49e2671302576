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

	"github.com/paulmach/orb"
)

// The grand nodebuilding speed-up technique from AJ-BSP by Andrew Apted:
// superblocks. Here a superblock is a BlockmapNode, the bucket of segs it
// directly holds is a LineSegmentBlock.

// smallest distance between two points before being considered equal
const DIST_EPSILON float64 = 1.0 / 128.0

// segs shorter than this are hard to classify reliably
const IFFY_LEN = 4.0

// blocks are grown by this much on every side before testing them against a
// partition, so that iffy segs near the block edge are never misjudged
const MARGIN_LEN = IFFY_LEN * 3 / 2

// Granularity of blockmap bounds: root extent is a power-of-two multiple of it
const BLOCK_SIZE = 128

// Blocks no bigger than this in both dimensions are not subdivided
const LEAF_BLOCK_SIZE = 256

// LineSegmentBlock is a bucket of segs whose extent lies within bounds. It
// doesn't own the segs, the builder does.
// mapCount and partCount always equal the classification of what is
// currently linked (segs from map lines vs partition-only segs)
type LineSegmentBlock struct {
	bounds    orb.Bound
	segs      *Seg // head of list, linked through Seg.nextInBlock
	mapCount  int
	partCount int
}

func (b *LineSegmentBlock) Bounds() orb.Bound {
	return b.bounds
}

// Link prepends seg to the list. Prepending is the fixed policy, so that
// drain order is reproducible
func (b *LineSegmentBlock) Link(seg *Seg) {
	seg.nextInBlock = b.segs
	b.segs = seg
	b.AddRef(seg)
}

func (b *LineSegmentBlock) AddRef(seg *Seg) {
	if seg.HasMapSide() {
		b.mapCount++
	} else {
		b.partCount++
	}
}

func (b *LineSegmentBlock) DecRef(seg *Seg) {
	if seg.HasMapSide() {
		b.mapCount--
	} else {
		b.partCount--
	}
}

// Pop removes and returns the first seg, or nil if block is empty
func (b *LineSegmentBlock) Pop() *Seg {
	seg := b.segs
	if seg == nil {
		return nil
	}
	b.segs = seg.nextInBlock
	seg.nextInBlock = nil
	b.DecRef(seg)
	return seg
}

// unlink removes seg from anywhere in the list. Returns false if it wasn't
// there
func (b *LineSegmentBlock) unlink(seg *Seg) bool {
	var prev *Seg
	for cur := b.segs; cur != nil; cur = cur.nextInBlock {
		if cur == seg {
			if prev == nil {
				b.segs = cur.nextInBlock
			} else {
				prev.nextInBlock = cur.nextInBlock
			}
			seg.nextInBlock = nil
			b.DecRef(seg)
			return true
		}
		prev = cur
	}
	return false
}

func (b *LineSegmentBlock) MapCount() int {
	return b.mapCount
}

func (b *LineSegmentBlock) PartCount() int {
	return b.partCount
}

func (b *LineSegmentBlock) TotalCount() int {
	return b.mapCount + b.partCount
}

// All returns the linked segs, in list order
func (b *LineSegmentBlock) All() []*Seg {
	res := make([]*Seg, 0, b.TotalCount())
	for seg := b.segs; seg != nil; seg = seg.nextInBlock {
		res = append(res, seg)
	}
	return res
}

// BlockmapNode is a node of the kd-tree of blocks. A seg is linked into the
// deepest block that contains it without straddling the block's midline.
type BlockmapNode struct {
	// parent of this block, or nil for a top-level block
	parent *BlockmapNode
	block  LineSegmentBlock
	// sub-blocks. Nil when empty. [0] has the lower coordinates, and
	// [1] has the higher coordinates. Division of a square always
	// occurs horizontally (e.g. 512x512 -> 256x512 -> 256x256).
	subs [2]*BlockmapNode
	// running totals of segs at or under this node
	mapTotal  int
	partTotal int
}

// NewBlockmap creates an empty top-level block covering box, with extent
// rounded up to power-of-two multiples of BLOCK_SIZE
func NewBlockmap(box orb.Bound) *BlockmapNode {
	res := &BlockmapNode{}
	res.SetBounds(box)
	return res
}

func (s *BlockmapNode) SetBounds(box orb.Bound) {
	x1 := math.Floor(box.Min[0])
	y1 := math.Floor(box.Min[1])
	dx := int(math.Ceil((box.Max[0] - x1) / BLOCK_SIZE))
	dy := int(math.Ceil((box.Max[1] - y1) / BLOCK_SIZE))
	if dx < 1 {
		dx = 1
	}
	if dy < 1 {
		dy = 1
	}
	s.block.bounds = orb.Bound{
		Min: orb.Point{x1, y1},
		Max: orb.Point{x1 + float64(RoundPOW2(dx)*BLOCK_SIZE),
			y1 + float64(RoundPOW2(dy)*BLOCK_SIZE)},
	}
}

// rounds the value _up_ to the nearest power of two.
func RoundPOW2(x int) int {
	if x <= 2 {
		return x
	}

	x--

	for tmp := x >> 1; tmp != 0; tmp >>= 1 {
		x |= tmp
	}

	return x + 1
}

func (s *BlockmapNode) Block() *LineSegmentBlock {
	return &s.block
}

func (s *BlockmapNode) Bounds() orb.Bound {
	return s.block.bounds
}

// Child returns sub-block 0 (lower coordinates) or 1 (higher), possibly nil
func (s *BlockmapNode) Child(num int) *BlockmapNode {
	return s.subs[num]
}

func (s *BlockmapNode) Parent() *BlockmapNode {
	return s.parent
}

func (s *BlockmapNode) MapTotal() int {
	return s.mapTotal
}

func (s *BlockmapNode) PartTotal() int {
	return s.partTotal
}

func (s *BlockmapNode) Total() int {
	return s.mapTotal + s.partTotal
}

// IsLeaf == true defines when block is no longer divisible into sub-blocks
func (s *BlockmapNode) IsLeaf() bool {
	b := s.block.bounds
	return (b.Max[0]-b.Min[0]) <= LEAF_BLOCK_SIZE &&
		(b.Max[1]-b.Min[1]) <= LEAF_BLOCK_SIZE
}

func (s *BlockmapNode) tally(seg *Seg, delta int) {
	if seg.HasMapSide() {
		s.mapTotal += delta
	} else {
		s.partTotal += delta
	}
}

// Push adds seg to the deepest block able to hold it
func (s *BlockmapNode) Push(seg *Seg) {
	if seg == nil {
		return
	}
	block := s
	for {
		var p1, p2 bool
		var child int
		b := block.block.bounds
		xMid := (b.Min[0] + b.Max[0]) / 2
		yMid := (b.Min[1] + b.Max[1]) / 2

		block.tally(seg, +1)

		if block.IsLeaf() {
			// block is not allowed to be subdivised any further
			block.linkSeg(seg)
			return
		}

		wide := b.Max[0]-b.Min[0] >= b.Max[1]-b.Min[1]
		if wide {
			// block is wider than it is high, or square
			p1 = seg.Start.X >= xMid
			p2 = seg.End.X >= xMid
		} else {
			// block is higher than it is wide
			p1 = seg.Start.Y >= yMid
			p2 = seg.End.Y >= yMid
		}

		if p1 && p2 {
			child = 1
		} else if !p1 && !p2 {
			child = 0
		} else {
			// line crosses midpoint -- link it in and return
			block.linkSeg(seg)
			return
		}

		// OK, the seg lies in one half of this block.  Create the block
		// if it doesn't already exist, and loop back to add the seg.
		if block.subs[child] == nil {
			sub := &BlockmapNode{parent: block}
			sb := b
			if wide {
				if child == 1 {
					sb.Min[0] = xMid
				} else {
					sb.Max[0] = xMid
				}
			} else {
				if child == 1 {
					sb.Min[1] = yMid
				} else {
					sb.Max[1] = yMid
				}
			}
			sub.block.bounds = sb
			block.subs[child] = sub
		}
		block = block.subs[child]
	}
}

func (s *BlockmapNode) linkSeg(seg *Seg) {
	s.block.Link(seg)
	seg.block = s
}

// Top returns the top-level block of the tree s belongs to
func (s *BlockmapNode) Top() *BlockmapNode {
	n := s
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Pop removes a seg from this block or, if it has none linked directly, from
// the sub-blocks (lower first). Returns nil when the whole subtree is empty
func (s *BlockmapNode) Pop() *Seg {
	if seg := s.block.Pop(); seg != nil {
		seg.block = nil
		s.tally(seg, -1)
		return seg
	}
	for num := 0; num < 2; num++ {
		sub := s.subs[num]
		if sub == nil || sub.Total() == 0 {
			continue
		}
		if seg := sub.Pop(); seg != nil {
			s.tally(seg, -1)
			return seg
		}
	}
	return nil
}

// Unlink removes seg from whichever block of the tree holds it. Used when a
// seg waiting in another blockmap gets cut, so that the pieces can be pushed
// anew
func Unlink(seg *Seg) bool {
	holder := seg.block
	if holder == nil || !holder.block.unlink(seg) {
		return false
	}
	seg.block = nil
	for n := holder; n != nil; n = n.parent {
		n.tally(seg, -1)
	}
	return true
}

// Collect returns all segs in the subtree in the order Pop would yield them,
// without removing anything
func (s *BlockmapNode) Collect() []*Seg {
	res := make([]*Seg, 0, s.Total())
	return s.collect(res)
}

func (s *BlockmapNode) collect(res []*Seg) []*Seg {
	for seg := s.block.segs; seg != nil; seg = seg.nextInBlock {
		res = append(res, seg)
	}
	for num := 0; num < 2; num++ {
		if s.subs[num] != nil {
			res = s.subs[num].collect(res)
		}
	}
	return res
}

// Drain pops everything
func (s *BlockmapNode) Drain() []*Seg {
	res := make([]*Seg, 0, s.Total())
	for seg := s.Pop(); seg != nil; seg = s.Pop() {
		res = append(res, seg)
	}
	return res
}

// Which side of partition line is the block?
// Returns SIDENESS_LEFT, SIDENESS_RIGHT, or SIDENESS_INTERSECT when the
// partition passes through the block (grown by MARGIN_LEN on all sides)
func BoxOnLineSide(box orb.Bound, part *Partition) uint8 {
	x1 := box.Min[0] - MARGIN_LEN
	y1 := box.Min[1] - MARGIN_LEN
	x2 := box.Max[0] + MARGIN_LEN
	y2 := box.Max[1] + MARGIN_LEN

	left, right := 0, 0
	for _, corner := range [4]Vec2{{x1, y1}, {x1, y2}, {x2, y1}, {x2, y2}} {
		d := part.Distance(corner)
		if d < -DIST_EPSILON {
			left++
		} else if d > DIST_EPSILON {
			right++
		}
	}
	if left == 4 {
		return SIDENESS_LEFT
	}
	if right == 4 {
		return SIDENESS_RIGHT
	}
	return SIDENESS_INTERSECT
}
