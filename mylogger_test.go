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
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiniLoggerMerge(t *testing.T) {
	var out, errOut bytes.Buffer
	log := CreateLogger()
	log.SetOutput(&out, &errOut)

	mlog := CreateMiniLogger(1, true)
	mlog.Printf("lines: %d\n", 3)
	mlog.Verbose(1, "shown\n")
	mlog.Verbose(2, "hidden\n")
	mlog.Push(1, "slot %s\n", "one")
	segs := makeSegs([]MapLine{{From: pt(0, 0), To: pt(4, 0), Front: true}})
	require.Len(t, segs, 1)
	mlog.DumpSegs(0, segs)
	assert.Empty(t, out.String(), "mini logger buffers everything")

	log.Merge(mlog, "build:\n")
	assert.Equal(t, "build:\nlines: 3\nshown\n", out.String())
	assert.Equal(t, "Leaf #0:\n  Line: 0 Side: 0 (0,0) - (4, 0)\n", log.GetDumpedSegs())

	log.Flush()
	assert.Contains(t, out.String(), "shown\nslot one\n", "empty slots print nothing")

	log.Error("oops %d\n", 1)
	assert.Equal(t, "oops 1\n", errOut.String())

	log.Verbose(1, "quiet\n")
	assert.NotContains(t, out.String(), "quiet")
	log.SetVerbosity(1)
	assert.Equal(t, 1, log.VerbosityLevel())
	log.Verbose(1, "loud\n")
	assert.Contains(t, out.String(), "loud\n")
}

func TestTakeDumpedSegs(t *testing.T) {
	log := CreateLogger()
	log.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})
	segs := makeSegs([]MapLine{{From: pt(0, 0), To: pt(4, 0), Front: true}})
	for i := 0; i < 2; i++ {
		mlog := CreateMiniLogger(0, true)
		mlog.DumpSegs(i, segs)
		log.Merge(mlog, "")
	}
	dumped := log.TakeDumpedSegs()
	assert.Contains(t, dumped, "Leaf #0:\n")
	assert.Contains(t, dumped, "Leaf #1:\n")
	assert.Empty(t, log.TakeDumpedSegs())

	mlog := CreateMiniLogger(0, true)
	mlog.DumpSegs(2, segs)
	log.Merge(mlog, "")
	assert.Equal(t, "Leaf #2:\n  Line: 0 Side: 0 (0,0) - (4, 0)\n", log.TakeDumpedSegs())
}

func TestBuildRecordsPartitionSlots(t *testing.T) {
	var out bytes.Buffer
	Log.SetOutput(&out, &out)
	t.Cleanup(func() {
		Log.SetOutput(io.Discard, io.Discard)
	})
	Log.Flush()
	out.Reset()

	cfg := DefaultConfig()
	cfg.VerbosityLevel = SLOT_VERBOSITY
	buildLines(t, cfg, polygonLines(lShape...))
	out.Reset()
	Log.Flush()
	assert.Equal(t, "Depth 0: partition 1/0 (1, 1) over 6 segs\n", out.String())

	out.Reset()
	cfg.VerbosityLevel = SLOT_VERBOSITY - 1
	buildLines(t, cfg, polygonLines(lShape...))
	Log.Flush()
	assert.NotContains(t, out.String(), "Depth 0:")
}

func TestMiniLoggerNoDump(t *testing.T) {
	mlog := CreateMiniLogger(0, false)
	mlog.DumpSegs(0, makeSegs(polygonLines(lShape...)))
	var out bytes.Buffer
	log := CreateLogger()
	log.SetOutput(&out, &out)
	log.Merge(mlog, "")
	assert.Empty(t, log.GetDumpedSegs())
	assert.Empty(t, out.String())
	log.Merge(nil, "ignored")
	assert.Empty(t, out.String())
}

func TestLoggerPanic(t *testing.T) {
	assert.PanicsWithValue(t, "bad 7", func() {
		CreateLogger().Panic("bad %d", 7)
	})
}
