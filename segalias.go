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

// segalias
package glbsp

// Integer aliases for collinear segs. Segs lying on the same infinite line
// share an alias, so a partition is tested once per line rather than once per
// seg: whichever seg comes first stands in for all the collinear ones.
// Alias 0 means "no alias assigned yet".
type SegAliasHolder struct {
	// visited[alias] == epoch means the alias was visited during the
	// current pass. Bumping epoch unvisits everything at once
	visited  []uint32
	epoch    uint32
	maxAlias int
}

func NewSegAliasHolder() *SegAliasHolder {
	return &SegAliasHolder{
		visited: make([]uint32, 1, 64),
		epoch:   1,
	}
}

// Generate returns a fresh alias, already marked as visited. Minimal return
// value is 1
func (s *SegAliasHolder) Generate() int {
	s.maxAlias++
	s.visited = append(s.visited, s.epoch)
	return s.maxAlias
}

// MarkAndRecall marks alias as visited but returns whether it was visited
// already
func (s *SegAliasHolder) MarkAndRecall(alias int) bool {
	if alias <= 0 || alias > s.maxAlias {
		return false
	}
	b := s.visited[alias] == s.epoch
	s.visited[alias] = s.epoch
	return b
}

// Visited reports the mark without changing it
func (s *SegAliasHolder) Visited(alias int) bool {
	return alias > 0 && alias <= s.maxAlias && s.visited[alias] == s.epoch
}

// UnvisitAll starts a new pass: no alias is visited afterwards. Aliases
// themselves stay valid
func (s *SegAliasHolder) UnvisitAll() {
	s.epoch++
	if s.epoch == 0 {
		// wrapped around, stale marks could collide with the new epoch
		for i := range s.visited {
			s.visited[i] = 0
		}
		s.epoch = 1
	}
}

// Count is the number of aliases handed out so far
func (s *SegAliasHolder) Count() int {
	return s.maxAlias
}
