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
	"sort"

	"github.com/paulmach/orb"
)

// Wall tips and intercepts, after glBSP by Andrew Apted. A wall tip is the
// direction of a line leaving a vertex, with flags telling whether the space
// on each side of it is open (inside the map) or closed (the void).

// angles closer than this (in degrees) are the same angle
const ANG_EPSILON = 1.0 / 1024.0

type wallTip struct {
	angle     float64 // degrees, [0, 360)
	leftOpen  bool
	rightOpen bool
}

func computeAngle(dir Vec2) float64 {
	if dir.X == 0 && dir.Y == 0 {
		return 0
	}
	a := math.Atan2(dir.Y, dir.X) * (180.0 / math.Pi)
	if a < 0 {
		a += 360.0
	}
	return a
}

// addTip keeps the tips sorted by angle
func (v *Vertex) addTip(dir Vec2, leftOpen, rightOpen bool) {
	tip := wallTip{
		angle:     computeAngle(dir),
		leftOpen:  leftOpen,
		rightOpen: rightOpen,
	}
	i := sort.Search(len(v.tips), func(i int) bool {
		return v.tips[i].angle > tip.angle
	})
	v.tips = append(v.tips, wallTip{})
	copy(v.tips[i+1:], v.tips[i:])
	v.tips[i] = tip
}

// checkOpen tells whether going from v in direction dir leads into open space.
// Running along a wall counts as closed
func (v *Vertex) checkOpen(dir Vec2) bool {
	if len(v.tips) == 0 {
		return false
	}
	angle := computeAngle(dir)

	// first check whether there's a wall tip that lies in the exact
	// direction of the given direction
	for _, tip := range v.tips {
		if angleDelta(tip.angle, angle) < ANG_EPSILON {
			return false
		}
	}

	// OK, now just find the first wall tip whose angle is greater than
	// the angle we're interested in. Therefore we'll be on the RIGHT side
	// of that wall tip
	for _, tip := range v.tips {
		if angle+ANG_EPSILON < tip.angle {
			return tip.rightOpen
		}
	}
	// no more tips, thus we must be on the LEFT side of the tip with the
	// largest angle
	return v.tips[len(v.tips)-1].leftOpen
}

func angleDelta(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180.0 {
		d = 360.0 - d
	}
	return d
}

// intercept is a vertex the partition passes through
type intercept struct {
	vertex *Vertex
	along  float64 // distance from partition origin, along its direction
	before bool    // open space behind the vertex, against the partition
	after  bool    // open space ahead of the vertex, along the partition
}

type interceptList struct {
	part  *Partition
	items []intercept
	seen  map[*Vertex]bool
}

func newInterceptList(part *Partition) *interceptList {
	return &interceptList{
		part: part,
		seen: make(map[*Vertex]bool),
	}
}

func (l *interceptList) add(v *Vertex) {
	if l.seen[v] {
		return
	}
	l.seen[v] = true
	n := l.part.Direction.Length()
	along := 0.0
	if n > 0 {
		along = v.Vec().Sub(l.part.Origin).Dot(l.part.Direction) / n
	}
	l.items = append(l.items, intercept{vertex: v, along: along})
}

// resolve computes open flags, sorts along the partition and merges
// intercepts too close to tell apart. The first of a merged run keeps its
// "before", the last one contributes "after"
func (l *interceptList) resolve() []intercept {
	back := l.part.Direction.Scale(-1)
	for i := range l.items {
		it := &l.items[i]
		it.before = it.vertex.checkOpen(back)
		it.after = it.vertex.checkOpen(l.part.Direction)
	}
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].along < l.items[j].along
	})
	res := make([]intercept, 0, len(l.items))
	for _, it := range l.items {
		if n := len(res); n > 0 && it.along-res[n-1].along <= DIST_EPSILON {
			res[n-1].after = it.after
			continue
		}
		res = append(res, it)
	}
	return res
}

// addMinisegs walks the intercepts along the partition and closes every open
// stretch with a pair of minisegs: the right one runs along the partition,
// the left one against it
func (b *Builder) addMinisegs(l *interceptList) (rights, lefts []*Seg) {
	items := l.resolve()
	for i := 0; i+1 < len(items); i++ {
		cur, next := items[i], items[i+1]
		if !cur.after && !next.before {
			// solid, nothing to close
			continue
		}
		if cur.after != next.before {
			b.unclosedSector(cur, next)
			continue
		}
		right := b.newSeg(cur.vertex, next.vertex, -1, SIDE_FRONT)
		left := b.newSeg(next.vertex, cur.vertex, -1, SIDE_FRONT)
		right.Partner = left
		left.Partner = right
		b.stats.MiniSegs += 2
		rights = append(rights, right)
		lefts = append(lefts, left)
	}
	return rights, lefts
}

func (b *Builder) unclosedSector(cur, next intercept) {
	mid := orb.Point{
		(cur.vertex.X + next.vertex.X) / 2,
		(cur.vertex.Y + next.vertex.Y) / 2,
	}
	b.stats.UnclosedSectors++
	b.mlog.Verbose(1, "Unclosed sector near (%1.1f, %1.1f)\n", mid[0], mid[1])
	if b.cfg.OnUnclosedSector != nil {
		b.cfg.OnUnclosedSector(mid)
	}
}
