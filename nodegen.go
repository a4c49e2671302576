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
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Sides of a map line a seg may come from
const (
	SIDE_FRONT = uint8(0)
	SIDE_BACK  = uint8(1)
)

// MapLine is one line of the level as handed over by whoever loaded it. The
// front side is on the right of From->To, the back side on its left. Ref is
// never interpreted here
type MapLine struct {
	From, To orb.Point
	Front    bool
	Back     bool
	Ref      any
}

type Vertex struct {
	X, Y  float64
	Index int
	tips  []wallTip
}

func (v *Vertex) Vec() Vec2 {
	return Vec2{v.X, v.Y}
}

func (v *Vertex) Point() orb.Point {
	return orb.Point{v.X, v.Y}
}

// Seg is a directed piece of one side of a map line, or a miniseg. Open space
// is always on its right
type Seg struct {
	Start, End *Vertex
	Line       int   // index into input lines, -1 for minisegs
	Side       uint8 // SIDE_FRONT or SIDE_BACK, meaningless for minisegs
	// The seg on the other side of the same stretch of a two-sided line
	// (or the twin miniseg). Nil for one-sided lines
	Partner *Seg
	// Set when seg was produced by cutting a longer one
	Split bool
	Index int // creation order

	alias       int
	block       *BlockmapNode // block holding the seg, while it is in one
	nextInBlock *Seg
	leaf        *Node // leaf holding the seg, once it is in one
}

// HasMapSide is false for minisegs
func (s *Seg) HasMapSide() bool {
	return s.Line >= 0
}

// Partition returns the line through the seg, from Start towards End
func (s *Seg) Partition() Partition {
	return Partition{
		Origin:    s.Start.Vec(),
		Direction: s.End.Vec().Sub(s.Start.Vec()),
	}
}

func (s *Seg) Length() float64 {
	return s.End.Vec().Sub(s.Start.Vec()).Length()
}

// Is the space on the left of the seg open too? True for two-sided lines and
// minisegs
func (s *Seg) leftOpen() bool {
	return s.Partner != nil
}

type Builder struct {
	cfg  Config
	eval *PartitionEvaluator
	mlog *MiniLogger

	lines    []MapLine
	vertices []*Vertex
	vertMap  map[orb.Point]*Vertex
	segs     []*Seg
	leaves   int
	stats    BuildStats
}

func NewBuilder(cfg Config) *Builder {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DEFAULT_MAX_DEPTH
	}
	return &Builder{
		cfg:  cfg,
		eval: NewPartitionEvaluator(cfg.SplitCostFactor),
	}
}

// Build turns lines into a BSP tree. bounds is the extent of the whole level,
// it is grown to fit the lines if needed. Lines of zero length or with
// non-finite coordinates produce no segs and are counted in
// BuildStats.SkippedLines. The builder may be reused for another Build
// afterwards, no state is carried over
func (b *Builder) Build(lines []MapLine, bounds orb.Bound) *Tree {
	start := time.Now()
	b.reset(lines)
	b.mlog.Verbose(1, "Build %s: %d lines, split cost factor %d\n",
		b.stats.RunID, len(lines), b.eval.SplitCostFactor())

	b.createSegs()

	root := new(Node)
	box := bounds
	if len(b.segs) > 0 {
		limits := FindLimits(b.segs)
		if bounds.IsZero() {
			box = limits
		} else {
			box = bounds.Union(limits)
		}
		bm := NewBlockmap(box)
		for _, seg := range b.segs {
			bm.Push(seg)
		}
		b.createNode(root, bm, box, 0)
	} else {
		root.Box = box
		b.stats.Leaves++
	}

	tree := &Tree{
		Root:     root,
		Bounds:   box,
		Lines:    lines,
		Vertices: b.vertices,
		Segs:     b.segs,
	}
	b.finish(tree)
	tree.Stats.Duration = time.Since(start)
	b.mlog.Verbose(1, "Build %s done in %v: %d nodes, %d leaves, %d segs (%d minisegs), %d splits\n",
		tree.Stats.RunID, tree.Stats.Duration, tree.Stats.Nodes, tree.Stats.Leaves,
		tree.Stats.Segs, tree.Stats.MiniSegs, tree.Stats.Splits)
	Log.Merge(b.mlog, "")
	b.release()
	return tree
}

func (b *Builder) reset(lines []MapLine) {
	b.mlog = CreateMiniLogger(b.cfg.VerbosityLevel, b.cfg.DumpSegs)
	b.lines = lines
	b.vertices = make([]*Vertex, 0, len(lines)*2)
	b.vertMap = make(map[orb.Point]*Vertex, len(lines)*2)
	b.segs = make([]*Seg, 0, len(lines)*2)
	b.leaves = 0
	b.stats = BuildStats{RunID: uuid.NewString()}
	b.eval = NewPartitionEvaluator(b.cfg.SplitCostFactor)
}

// drops working state, so that the finished tree is the only thing holding
// on to segs and vertices
func (b *Builder) release() {
	b.lines = nil
	b.vertices = nil
	b.vertMap = nil
	b.segs = nil
	b.mlog = nil
}

// createSegs makes a front seg (From->To) and/or a back seg (To->From) for
// every usable line. Both sides of a two-sided line become partners
func (b *Builder) createSegs() {
	for i, line := range b.lines {
		from := Vec2{line.From[0], line.From[1]}
		to := Vec2{line.To[0], line.To[1]}
		if !from.IsFinite() || !to.IsFinite() {
			b.stats.SkippedLines++
			b.mlog.Verbose(2, "Line %d skipped: non-finite coordinates\n", i)
			continue
		}
		if to.Sub(from).Length() < DIST_EPSILON {
			b.stats.SkippedLines++
			b.mlog.Verbose(2, "Line %d skipped: zero length\n", i)
			continue
		}
		if !line.Front && !line.Back {
			b.stats.SkippedLines++
			b.mlog.Verbose(2, "Line %d skipped: has no sides\n", i)
			continue
		}
		v1 := b.addVertex(from.X, from.Y)
		v2 := b.addVertex(to.X, to.Y)
		dir := to.Sub(from)
		v1.addTip(dir, line.Back, line.Front)
		v2.addTip(dir.Scale(-1), line.Front, line.Back)

		var front, back *Seg
		if line.Front {
			front = b.newSeg(v1, v2, i, SIDE_FRONT)
		}
		if line.Back {
			back = b.newSeg(v2, v1, i, SIDE_BACK)
		}
		if front != nil && back != nil {
			front.Partner = back
			back.Partner = front
		}
	}
}

// addVertex interns vertices by exact coordinates
func (b *Builder) addVertex(x, y float64) *Vertex {
	key := orb.Point{x, y}
	if v, ok := b.vertMap[key]; ok {
		return v
	}
	v := &Vertex{X: x, Y: y, Index: len(b.vertices)}
	b.vertices = append(b.vertices, v)
	b.vertMap[key] = v
	return v
}

func (b *Builder) newSeg(start, end *Vertex, line int, side uint8) *Seg {
	s := &Seg{
		Start: start,
		End:   end,
		Line:  line,
		Side:  side,
		Index: len(b.segs),
	}
	b.segs = append(b.segs, s)
	return s
}

// FindLimits scans all segs in a list to find a minimal bounding box within
// which they all fit
func FindLimits(segs []*Seg) orb.Bound {
	if len(segs) == 0 {
		return orb.Bound{}
	}
	r := orb.Bound{Min: segs[0].Start.Point(), Max: segs[0].Start.Point()}
	for _, s := range segs {
		r = r.Extend(s.Start.Point()).Extend(s.End.Point())
	}
	return r
}

// createNode either turns the segs of bm into a leaf stored in res, or divides
// them with the best partition and recurses into both halves (right first)
func (b *Builder) createNode(res *Node, bm *BlockmapNode, box orb.Bound, depth int) {
	res.Box = box
	res.Depth = depth
	part := b.eval.Choose(bm)
	if part == nil {
		b.createLeaf(res, bm.Drain(), false)
		return
	}
	if depth >= b.cfg.MaxDepth {
		b.mlog.Verbose(1, "Depth %d reached at (%v, %v), forcing a leaf of %d segs\n",
			depth, part.Start.X, part.Start.Y, bm.Total())
		b.createLeaf(res, bm.Drain(), true)
		return
	}

	p := part.Partition()
	if b.cfg.VerbosityLevel >= SLOT_VERBOSITY {
		// one slot per depth: what remains is the last partition chosen
		// at each depth
		b.mlog.Push(depth, "Depth %d: partition %s over %d segs\n", depth, p.String(), bm.Total())
	}
	rights, lefts, ok := b.DivideSegs(bm, &p)
	if !ok {
		// nothing moved to one of the sides, division made no progress
		b.mlog.Verbose(1, "Partition %s made no progress, forcing a leaf\n", p.String())
		b.createLeaf(res, append(rights, lefts...), true)
		return
	}
	b.stats.Nodes++
	res.Partition = p

	// These will form the right box
	rightBox := FindLimits(rights)
	// These will form the left box
	leftBox := FindLimits(lefts)
	res.Bounds[RIGHT] = rightBox
	res.Bounds[LEFT] = leftBox

	rightBm := NewBlockmap(rightBox)
	for _, s := range rights {
		rightBm.Push(s)
	}
	leftBm := NewBlockmap(leftBox)
	for _, s := range lefts {
		leftBm.Push(s)
	}

	res.Children[RIGHT] = new(Node)
	b.createNode(res.Children[RIGHT], rightBm, rightBox, depth+1)
	res.Children[LEFT] = new(Node)
	b.createNode(res.Children[LEFT], leftBm, leftBox, depth+1)
}

func (b *Builder) createLeaf(res *Node, segs []*Seg, forced bool) {
	res.Segs = segs
	res.Forced = forced
	res.leafIdx = b.leaves
	b.leaves++
	for _, s := range segs {
		s.leaf = res
	}
	b.stats.Leaves++
	if forced {
		b.stats.ForcedLeaves++
	}
}

// DivideSegs drains bm and distributes its segs to the sides of part, cutting
// those that cross it. Minisegs closing the open stretches along part are
// added to both sides. ok is false when one side got nothing, then nothing was
// cut and rights+lefts is everything that was drained
func (b *Builder) DivideSegs(bm *BlockmapNode, part *Partition) (rights, lefts []*Seg, ok bool) {
	work := bm.Drain()
	sides := make([]uint8, len(work))
	nr, nl := 0, 0
	for i, s := range work {
		sides[i] = classifySeg(part, s)
		switch sides[i] {
		case SIDENESS_INTERSECT:
			nr++
			nl++
		case SIDENESS_LEFT:
			nl++
		case SIDENESS_RIGHT:
			nr++
		case SIDENESS_COLLINEAR:
			if collinearGoesRight(part, s) {
				nr++
			} else {
				nl++
			}
		}
	}
	if nr == 0 || nl == 0 {
		return work, nil, false
	}

	rights = make([]*Seg, 0, nr+1)
	lefts = make([]*Seg, 0, nl+1)
	ic := newInterceptList(part)
	w := &divideWork{
		splitVerts:  make(map[*Seg]*Vertex),
		splitPieces: make(map[*Seg]*Seg),
	}
	for i, s := range work {
		switch sides[i] {
		case SIDENESS_RIGHT:
			rights = append(rights, s)
		case SIDENESS_LEFT:
			lefts = append(lefts, s)
		case SIDENESS_COLLINEAR:
			if collinearGoesRight(part, s) {
				rights = append(rights, s)
			} else {
				lefts = append(lefts, s)
			}
		case SIDENESS_INTERSECT:
			ns := b.splitSeg(w, s, part)
			ic.add(s.End)
			if part.Distance(s.Start.Vec()) < 0 {
				lefts = append(lefts, s)
				rights = append(rights, ns)
			} else {
				rights = append(rights, s)
				lefts = append(lefts, ns)
			}
			continue
		}
		// vertices lying on the partition
		if math.Abs(part.Distance(s.Start.Vec())) <= DIST_EPSILON {
			ic.add(s.Start)
		}
		if math.Abs(part.Distance(s.End.Vec())) <= DIST_EPSILON {
			ic.add(s.End)
		}
	}

	rMinis, lMinis := b.addMinisegs(ic)
	rights = append(rights, rMinis...)
	lefts = append(lefts, lMinis...)
	return rights, lefts, true
}

// Bookkeeping of one DivideSegs call, so that a seg and its partner are cut
// at the very same vertex
type divideWork struct {
	// vertex a seg is to be cut at, set when its partner was cut first
	splitVerts map[*Seg]*Vertex
	// second piece of a seg that was already cut
	splitPieces map[*Seg]*Seg
}

// splitSeg cuts s where it crosses part. s keeps the piece from its start to
// the new vertex, the returned seg runs from the new vertex to the old end.
// The partner, wherever it is, is cut at the same vertex
func (b *Builder) splitSeg(w *divideWork, s *Seg, part *Partition) *Seg {
	v, ok := w.splitVerts[s]
	if !ok {
		v = b.intersectionVertex(s, part)
		// new vertex lies on the seg, it gets the seg's wall tips
		dir := s.End.Vec().Sub(s.Start.Vec())
		v.addTip(dir, s.leftOpen(), true)
		v.addTip(dir.Scale(-1), true, s.leftOpen())
	}
	ns := b.cutAt(s, v)

	partner := s.Partner
	if partner == nil {
		return ns
	}
	if np, done := w.splitPieces[partner]; done {
		// partner was cut earlier in this same division
		relinkPartners(s, ns, partner, np)
		return ns
	}
	w.splitPieces[s] = ns
	if partner.block == nil && partner.leaf == nil {
		// partner is in the current work set, will be cut in its turn
		w.splitVerts[partner] = v
		return ns
	}

	// partner lives in a pending sibling blockmap or an already finished
	// leaf. Cut it right away. In a blockmap, both pieces are pushed again
	// from the top, as each may now fit a smaller block
	if holder := partner.block; holder != nil {
		top := holder.Top()
		Unlink(partner)
		np := b.cutAt(partner, v)
		top.Push(partner)
		top.Push(np)
		relinkPartners(s, ns, partner, np)
		return ns
	}
	np := b.cutAt(partner, v)
	leaf := partner.leaf
	leaf.Segs = append(leaf.Segs, np)
	np.leaf = leaf
	relinkPartners(s, ns, partner, np)
	return ns
}

// cutAt shortens s to end at v and returns the new seg from v to s's old end
func (b *Builder) cutAt(s *Seg, v *Vertex) *Seg {
	ns := b.newSeg(v, s.End, s.Line, s.Side)
	ns.Partner = s.Partner
	ns.Split = true
	s.End = v
	s.Split = true
	// collinear relations are to be rediscovered
	s.alias = 0
	b.stats.Splits++
	return ns
}

// s and p were partners before both got cut, ns and np are their second
// pieces. s now faces np and ns faces p
func relinkPartners(s, ns, p, np *Seg) {
	s.Partner = np
	np.Partner = s
	ns.Partner = p
	p.Partner = ns
}

// intersectionVertex computes where part crosses s and interns the point
func (b *Builder) intersectionVertex(s *Seg, part *Partition) *Vertex {
	sp := s.Partition()
	t := sp.Intersection(part)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	pt := sp.Origin.Add(sp.Direction.Scale(t))
	return b.addVertex(pt.X, pt.Y)
}
