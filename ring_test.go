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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeRingCapacity(t *testing.T) {
	assert.Equal(t, uint32(1), CreateNodeRing(0).Capacity())
	assert.Equal(t, uint32(2), CreateNodeRing(2).Capacity())
	assert.Equal(t, uint32(8), CreateNodeRing(5).Capacity())
	assert.Equal(t, uint32(8), CreateNodeRing(8).Capacity())
	assert.Equal(t, uint32(1024), RoundPOW2_Uint32(1000))
}

func TestNodeRingFIFO(t *testing.T) {
	ring := CreateNodeRing(4)
	nodes := make([]*Node, 6)
	for i := range nodes {
		nodes[i] = &Node{Depth: i}
	}
	for _, n := range nodes[:4] {
		ring.Enqueue(n)
	}
	assert.True(t, ring.Full())
	assert.Equal(t, uint32(4), ring.Size())
	assert.Same(t, nodes[0], ring.Dequeue())
	assert.Same(t, nodes[1], ring.Dequeue())
	// wraps around
	ring.Enqueue(nodes[4])
	ring.Enqueue(nodes[5])
	var got []*Node
	for !ring.Empty() {
		got = append(got, ring.Dequeue())
	}
	assert.Equal(t, nodes[2:], got)
	for _, n := range ring.buf {
		assert.Nil(t, n, "dequeued slots must not retain nodes")
	}
}

func TestNodeRingReset(t *testing.T) {
	ring := CreateNodeRing(3)
	ring.Enqueue(&Node{})
	ring.Enqueue(&Node{})
	ring.Reset()
	require.True(t, ring.Empty())
	assert.Equal(t, uint32(0), ring.Size())
	for _, n := range ring.buf {
		assert.Nil(t, n)
	}
}
