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
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vigilantdoomer/glbsp"
)

func writeLevel(t *testing.T) string {
	t.Helper()
	lvl := glbsp.NewLevel()
	lvl.AddPolygon([2]float64{0, 0}, [2]float64{0, 2}, [2]float64{1, 2},
		[2]float64{1, 1}, [2]float64{2, 1}, [2]float64{2, 0})
	path := filepath.Join(t.TempDir(), "l.yaml")
	require.NoError(t, lvl.Save(path))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestBuildCommand(t *testing.T) {
	out, err := runCmd(t, "build", "--validate", writeLevel(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Leaves:           2\n")
	assert.Contains(t, out, "Segs:             9 (2 minisegs)\n")
	assert.Contains(t, out, "Tree is valid\n")
}

func TestBuildCommandDumpSegs(t *testing.T) {
	level := writeLevel(t)
	for run := 0; run < 2; run++ {
		out, err := runCmd(t, "build", "--dump-segs", level)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out, "Leaf #0:\n"), "run %d prints its own leaves only", run)
		assert.Equal(t, 1, strings.Count(out, "  Miniseg (0,1) - (1, 1)\n"), "run %d", run)
	}
}

func TestLocateCommand(t *testing.T) {
	out, err := runCmd(t, "locate", writeLevel(t), "0.5", "1.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Leaf #1 at depth 1, 4 segs\n")
	assert.Contains(t, out, "miniseg (1, 1) - (0, 1)\n")

	_, err = runCmd(t, "locate", writeLevel(t), "x", "1")
	assert.ErrorContains(t, err, "invalid X")
}

func TestPlotCommand(t *testing.T) {
	img := filepath.Join(t.TempDir(), "tree.png")
	out, err := runCmd(t, "plot", writeLevel(t), "-o", img, "--size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+img)
	_, err = os.Stat(img)
	assert.NoError(t, err)
}

func TestCommandErrors(t *testing.T) {
	_, err := runCmd(t, "build", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "loading level")

	t.Cleanup(func() {
		require.NoError(t, rootCmd.PersistentFlags().Set("max-depth", "512"))
	})
	_, err = runCmd(t, "build", "--max-depth", "0", writeLevel(t))
	assert.ErrorIs(t, err, glbsp.ErrInvalidConfig)
}

func TestBuildCommandPartitionTrace(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, rootCmd.PersistentFlags().Set("verbose", "0"))
	})
	out, err := runCmd(t, "build", "-vvv", writeLevel(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Depth 0: partition 1/0 (1, 1) over 6 segs\n")
}
