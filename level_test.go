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
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLevel = `
bounds: {min: [0, 0], max: [256, 256]}
lines:
  - {from: [0, 0], to: [0, 128], front: true}
  - {from: [0, 128], to: [128, 128], front: true, back: true, tag: door}
`

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(strings.NewReader(sampleLevel))
	require.NoError(t, err)
	want := &Level{
		Bounds: &LevelBounds{Min: [2]float64{0, 0}, Max: [2]float64{256, 256}},
		Lines: []LevelLine{
			{From: [2]float64{0, 0}, To: [2]float64{0, 128}, Front: true},
			{From: [2]float64{0, 128}, To: [2]float64{128, 128}, Front: true, Back: true, Tag: "door"},
		},
	}
	if diff := cmp.Diff(want, lvl); diff != "" {
		t.Errorf("level mismatch (-want +got):\n%s", diff)
	}

	lines := lvl.MapLines()
	require.Len(t, lines, 2)
	assert.Nil(t, lines[0].Ref, "untagged line has no ref")
	assert.Equal(t, MapLine{From: pt(0, 128), To: pt(128, 128), Front: true, Back: true, Ref: "door"}, lines[1])
	assert.Equal(t, orb.Bound{Min: pt(0, 0), Max: pt(256, 256)}, lvl.BoundingBox())
}

func TestParseLevelEmpty(t *testing.T) {
	lvl, err := ParseLevel(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, lvl.Lines)
	assert.Nil(t, lvl.Bounds)
	assert.True(t, lvl.BoundingBox().IsZero())
}

func TestParseLevelInvalid(t *testing.T) {
	_, err := ParseLevel(strings.NewReader("lines:\n  - {from: [0, 0], to: [1, 1]}\n"))
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = ParseLevel(strings.NewReader("bounds: {min: [5, 5], max: [0, 0]}\n"))
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = ParseLevel(strings.NewReader("linez: []\n"))
	assert.Error(t, err)
}

func TestLevelSaveLoad(t *testing.T) {
	lvl := NewLevel()
	lvl.AddPolygon(lShape...)
	lvl.Lines[2].Back = true
	lvl.Lines[2].Tag = "window"
	path := filepath.Join(t.TempDir(), "levels", "l.yaml")
	require.NoError(t, lvl.Save(path))

	loaded, err := LoadLevel(path)
	require.NoError(t, err)
	if diff := cmp.Diff(lvl, loaded); diff != "" {
		t.Errorf("level mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, orb.Bound{Min: pt(0, 0), Max: pt(2, 2)}, loaded.BoundingBox())
}

func TestLevelBuild(t *testing.T) {
	lvl := NewLevel()
	lvl.AddPolygon(lShape...)
	assert.Equal(t, polygonLines(lShape...), lvl.MapLines())

	tree := NewBuilder(DefaultConfig()).Build(lvl.MapLines(), lvl.BoundingBox())
	assert.Equal(t, 2, tree.Stats.Leaves)
	assert.NoError(t, tree.Validate())
}
