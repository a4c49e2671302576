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

// convexity
package glbsp

// Results of isItConvex
const (
	CONVEX_SUBSECTOR = iota
	NONCONVEX
)

// isItConvex returns CONVEX_SUBSECTOR when every seg of the list has all
// the other segs on its right side (open side) or on its line, so that they
// can be put into a leaf without any further partitioning
func isItConvex(segs []*Seg) int {
	for _, line := range segs {
		if line.Length() < DIST_EPSILON {
			continue
		}
		part := line.Partition()
		for _, check := range segs {
			if check == line {
				continue
			}
			if part.Distance(check.Start.Vec()) < -DIST_EPSILON ||
				part.Distance(check.End.Vec()) < -DIST_EPSILON {
				return NONCONVEX // MUST SPLIT
			}
			if classifySeg(&part, check) == SIDENESS_COLLINEAR &&
				!collinearGoesRight(&part, check) {
				// facing each other on the same line, e.g. both sides of
				// a two-sided line
				return NONCONVEX
			}
		}
	}

	// no need to split the list: these segs can be put in a leaf
	return CONVEX_SUBSECTOR
}

// IsConvex reports whether segs could make a leaf as they are
func IsConvex(segs []*Seg) bool {
	return isItConvex(segs) == CONVEX_SUBSECTOR
}
