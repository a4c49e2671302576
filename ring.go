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

// Implements ring buffer (a fixed size power of two queue) of tree nodes, used
// for breadth-first walks over a finished tree. Not intended to be
// thread-safe.
// https://www.snellman.net/blog/archive/2016-12-13-ring-buffers/

const MAX_RING_CAPACITY = uint32(2147483648)

// NodeRing stores *Node values.
// Beware: Enqueue and Dequeue perform no overflow or underflow checking. The
// caller is responsible to never dequeue an empty ring or enqueue a full ring.
type NodeRing struct {
	read     uint32
	write    uint32
	capacity uint32 // never changes after initialization
	buf      []*Node
}

// The argument capacity is how many nodes the ring is expected to hold at
// once. It is upsized to a power of two automatically.
func CreateNodeRing(capacity uint32) *NodeRing {
	if capacity == 0 {
		capacity = 1
	}
	iCap := RoundPOW2_Uint32(capacity)
	if iCap < capacity {
		Log.Panic("Integer overflow when computing ring capacity (before rounding up to power of two: %d). Specified capacity clearly exceeds the possible maximum\n",
			capacity)
	}
	if iCap > MAX_RING_CAPACITY {
		Log.Panic("Exceeds maximum ring capacity: %d (%d rounded up to power of two)\n",
			iCap, capacity)
	}
	return &NodeRing{
		capacity: iCap,
		buf:      make([]*Node, iCap),
	}
}

func RoundPOW2_Uint32(x uint32) uint32 {
	if x <= 2 {
		return x
	}

	x--

	for tmp := x >> 1; tmp != 0; tmp >>= 1 {
		x |= tmp
	}

	return x + 1
}

func (r *NodeRing) mask(val uint32) uint32 {
	return val & (r.capacity - 1)
}

func (r *NodeRing) Enqueue(item *Node) {
	r.buf[r.mask(r.write)] = item
	r.write++
}

func (r *NodeRing) Dequeue() *Node {
	idx := r.mask(r.read)
	res := r.buf[idx]
	r.buf[idx] = nil
	r.read++
	return res
}

func (r *NodeRing) Empty() bool {
	return r.read == r.write
}

func (r *NodeRing) Size() uint32 {
	return r.write - r.read
}

func (r *NodeRing) Full() bool {
	return r.Size() == r.capacity
}

func (r *NodeRing) Capacity() uint32 {
	return r.capacity
}

func (r *NodeRing) Reset() {
	for r.read != r.write {
		r.buf[r.mask(r.read)] = nil
		r.read++
	}
}
