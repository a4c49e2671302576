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
	"io"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

const GRID_CELL = 64.0

var benchmarkLevel []MapLine

func TestMain(m *testing.M) {
	Log.SetOutput(io.Discard, io.Discard)
	benchmarkRandom := rand.New(rand.NewSource(time.Now().UnixNano()))
	benchmarkLevel = gridLines(24, 24, 0.3, benchmarkRandom)
	os.Exit(m.Run())
}

// polygonLines makes a closed loop of one-sided lines. Points in clockwise
// order put the front side inside
func polygonLines(points ...[2]float64) []MapLine {
	res := make([]MapLine, 0, len(points))
	for i := range points {
		next := points[(i+1)%len(points)]
		res = append(res, MapLine{
			From:  orb.Point{points[i][0], points[i][1]},
			To:    orb.Point{next[0], next[1]},
			Front: true,
		})
	}
	return res
}

// gridLines makes an n x m grid of GRID_CELL sized rooms. Outer walls are
// one-sided facing in, walls between rooms are two-sided. Each inner wall is
// dropped with probability dropRate (rnd may be nil when dropRate is 0)
func gridLines(n, m int, dropRate float64, rnd *rand.Rand) []MapLine {
	var res []MapLine
	keep := func() bool {
		return dropRate <= 0 || rnd.Float64() >= dropRate
	}
	pt := func(i, j int) orb.Point {
		return orb.Point{float64(i) * GRID_CELL, float64(j) * GRID_CELL}
	}
	// horizontal walls
	for j := 0; j <= m; j++ {
		for i := 0; i < n; i++ {
			switch j {
			case 0:
				// bottom, front must face up: run towards -x
				res = append(res, MapLine{From: pt(i+1, j), To: pt(i, j), Front: true})
			case m:
				res = append(res, MapLine{From: pt(i, j), To: pt(i+1, j), Front: true})
			default:
				if keep() {
					res = append(res, MapLine{From: pt(i, j), To: pt(i+1, j), Front: true, Back: true})
				}
			}
		}
	}
	// vertical walls
	for i := 0; i <= n; i++ {
		for j := 0; j < m; j++ {
			switch i {
			case 0:
				res = append(res, MapLine{From: pt(i, j), To: pt(i, j+1), Front: true})
			case n:
				// right edge, front must face west: run towards -y
				res = append(res, MapLine{From: pt(i, j+1), To: pt(i, j), Front: true})
			default:
				if keep() {
					res = append(res, MapLine{From: pt(i, j), To: pt(i, j+1), Front: true, Back: true})
				}
			}
		}
	}
	return res
}

// makeSegs creates the initial segs of lines the way Build does
func makeSegs(lines []MapLine) []*Seg {
	b := NewBuilder(DefaultConfig())
	b.reset(lines)
	b.createSegs()
	return b.segs
}

func blockmapOf(segs []*Seg) *BlockmapNode {
	bm := NewBlockmap(FindLimits(segs))
	for _, s := range segs {
		bm.Push(s)
	}
	return bm
}

func pt(x, y float64) orb.Point {
	return orb.Point{x, y}
}

// clockwise L: the upper-left arm and the lower-right arm meet at (1, 1)
var lShape = [][2]float64{{0, 0}, {0, 2}, {1, 2}, {1, 1}, {2, 1}, {2, 0}}

// randomLines scatters n one-sided lines, some of them two-sided
func randomLines(rnd *rand.Rand, n int) []MapLine {
	res := make([]MapLine, 0, n)
	for len(res) < n {
		x, y := rnd.Float64()*1000, rnd.Float64()*1000
		dx, dy := rnd.Float64()*200-100, rnd.Float64()*200-100
		if dx*dx+dy*dy < 1 {
			continue
		}
		res = append(res, MapLine{
			From:  pt(x, y),
			To:    pt(x+dx, y+dy),
			Front: true,
			Back:  rnd.Intn(3) == 0,
		})
	}
	return res
}
