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

// partition
package glbsp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Two directions whose normalized dot product exceeds this (in absolute value)
// are considered parallel. Tight on purpose: near-parallel but distinct
// partitions must not be mistaken for each other
const PARALLEL_EPSILON = 0.99999999

// Vec2 is a point or a direction in map space
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// IsFinite is false when either coordinate is NaN or infinite
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Partition is an infinite line of the form origin + direction * t.
// Pure arithmetic, no state besides the two vectors
type Partition struct {
	Origin    Vec2
	Direction Vec2
}

// Where does the point lie relative to the partition line?
// <0 - point is to the left of the line,
// =0 - point lies directly on the line,
// >0 - point is to the right of the line.
// The magnitude is scaled by the length of direction; tolerance is up to the
// caller (see Distance)
func (p *Partition) PointOnSide(point Vec2) float64 {
	return (p.Origin.Y-point.Y)*p.Direction.X - (p.Origin.X-point.X)*p.Direction.Y
}

// Distance is PointOnSide normalized to a perpendicular distance, so that it
// can be compared against DIST_EPSILON. Zero-length partition yields 0
func (p *Partition) Distance(point Vec2) float64 {
	l := p.Direction.Length()
	if l == 0 {
		return 0
	}
	return p.PointOnSide(point) / l
}

// IsParallelTo returns true iff this line and other are parallel (either
// direction). In the special case of either line having a zero-length
// direction, true is returned, so that degenerate lines never produce NaN
// downstream
func (p *Partition) IsParallelTo(other *Partition, epsilon float64) bool {
	l := p.Direction.Length()
	if l == 0 {
		return true
	}
	otherLen := other.Direction.Length()
	if otherLen == 0 {
		return true
	}
	dot := p.Direction.Dot(other.Direction) / l / otherLen
	epsilon = math.Abs(epsilon)
	return dot > epsilon || dot < -epsilon
}

// IsParallel is IsParallelTo with PARALLEL_EPSILON
func (p *Partition) IsParallel(other *Partition) bool {
	return p.IsParallelTo(other, PARALLEL_EPSILON)
}

// Intersection determines how far along this line (relative to its origin,
// in units of its direction vector) the other line crosses it.
// NOTE when the two lines are parallel 0 is returned, which is also a
// legitimate answer for lines crossing right at the origin. Callers that care
// about the difference must check IsParallel first
func (p *Partition) Intersection(other *Partition) float64 {
	divisor := p.Direction.X*other.Direction.Y - p.Direction.Y*other.Direction.X
	if divisor == 0 {
		return 0
	}
	delta := p.Origin.Sub(other.Origin)
	return (delta.Y*other.Direction.X - delta.X*other.Direction.Y) / divisor
}

// Intercept is the point where this line and other intersect. For parallel
// lines, this is the origin (see Intersection)
func (p *Partition) Intercept(other *Partition) Vec2 {
	return p.Origin.Add(p.Direction.Scale(p.Intersection(other)))
}

func (p *Partition) String() string {
	var sb strings.Builder
	sb.WriteString(formatCoord(p.Direction.X))
	sb.WriteString("/")
	sb.WriteString(formatCoord(p.Direction.Y))
	sb.WriteString(fmt.Sprintf(" (%s, %s)", formatCoord(p.Origin.X),
		formatCoord(p.Origin.Y)))
	return sb.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
