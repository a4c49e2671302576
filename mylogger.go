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

// Central log (stdout/stderr) of the program
package glbsp

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type MyLogger struct {
	// Writing to the same slot allows to clobber stuff so that we don't see the
	// same thing written over and over again
	slots []string
	segs  bytes.Buffer
	// Mutex is used to order writes to stdout and stderr, as well as Sync call
	mu             sync.Mutex
	syslog         *log.Logger
	errlog         *log.Logger
	verbosityLevel int
}

// Logs specific to one build. Their output is not forwarded to the stdout,
// but is instead buffered until merged into main log of MyLogger type, so
// that builds running side by side don't interleave their messages
type MiniLogger struct {
	buf            bytes.Buffer
	slots          []string
	segs           bytes.Buffer
	verbosityLevel int
	dumpSegs       bool
}

func CreateLogger() *MyLogger {
	return &MyLogger{
		syslog: log.New(os.Stdout, "", 0),
		errlog: log.New(os.Stderr, "", 0),
	}
}

var Log = CreateLogger()

// Verbosity at which builds record the last partition chosen at every depth
// into the log slots (see MyLogger.Flush)
const SLOT_VERBOSITY = 3

// SetOutput redirects the log. Either writer may be nil to leave that stream
// as it is
func (log *MyLogger) SetOutput(out, errOut io.Writer) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if out != nil {
		log.syslog.SetOutput(out)
	}
	if errOut != nil {
		log.errlog.SetOutput(errOut)
	}
}

func (log *MyLogger) SetVerbosity(level int) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.verbosityLevel = level
}

func (log *MyLogger) VerbosityLevel() int {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.verbosityLevel
}

// Your generic printf to let user see things
func (log *MyLogger) Printf(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.syslog.Printf(s, a...)
}

// As generic as printf, but writes to stderr instead of stdout
// Does NOT interrupt execution of the program
func (log *MyLogger) Error(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.errlog.Printf(s, a...)
}

// For advanced users or users that are curious, or programmers, there is
// stuff they might want to see but only when they can really bother to spend
// time reading it
func (log *MyLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if verbosityLevel <= log.verbosityLevel {
		log.syslog.Printf(s, a...)
	}
}

// Panicking is not a good thing, but at least we can now use formatted printing
// for it
func (log *MyLogger) Panic(s string, a ...interface{}) {
	panic(fmt.Sprintf(s, a...))
}

// Writes to the slot, clobbering whatever was there before us in that same slot
// Used when need to debug something in nodes builder but it's worthless to
// repeat if it concerns the same thing
func (log *MyLogger) Push(slotNumber int, s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	for slotNumber >= len(log.slots) {
		log.slots = append(log.slots, "")
	}
	log.slots[slotNumber] = fmt.Sprintf(s, a...)
}

// Now that slots have been written over multiple times, time to see what was
// written to begin with
func (log *MyLogger) Flush() {
	log.mu.Lock()
	defer log.mu.Unlock()
	for _, slot := range log.slots {
		if len(slot) > 0 {
			log.syslog.Print(slot)
		}
	}
	log.slots = nil
}

func (log *MyLogger) GetDumpedSegs() string {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.segs.String()
}

// TakeDumpedSegs returns the seg dumps merged so far and empties the buffer,
// so that the next call only sees dumps of later builds
func (log *MyLogger) TakeDumpedSegs() string {
	log.mu.Lock()
	defer log.mu.Unlock()
	res := log.segs.String()
	log.segs.Reset()
	return res
}

func (log *MyLogger) Merge(mlog *MiniLogger, preface string) {
	if mlog == nil {
		return
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(preface) > 0 {
		log.syslog.Print(preface)
	}
	content := mlog.buf.String()
	if len(content) > 0 {
		log.syslog.Print(content)
	}
	segs := mlog.segs.String()
	if len(segs) > 0 {
		log.segs.WriteString(segs)
	}
	if len(mlog.slots) > 0 {
		log.slots = append(log.slots, mlog.slots...)
	}
}

func CreateMiniLogger(verbosityLevel int, dumpSegs bool) *MiniLogger {
	return &MiniLogger{
		verbosityLevel: verbosityLevel,
		dumpSegs:       dumpSegs,
	}
}

func (mlog *MiniLogger) Printf(s string, a ...interface{}) {
	if mlog == nil {
		Log.Printf(s, a...)
		return
	}
	mlog.buf.WriteString(fmt.Sprintf(s, a...))
}

func (mlog *MiniLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	if mlog == nil {
		Log.Verbose(verbosityLevel, s, a...)
		return
	}
	if verbosityLevel <= mlog.verbosityLevel {
		mlog.buf.WriteString(fmt.Sprintf(s, a...))
	}
}

func (mlog *MiniLogger) Push(slotNumber int, s string, a ...interface{}) {
	if mlog == nil {
		Log.Push(slotNumber, s, a...)
		return
	}
	for slotNumber >= len(mlog.slots) {
		mlog.slots = append(mlog.slots, "")
	}
	mlog.slots[slotNumber] = fmt.Sprintf(s, a...)
}

// DumpSegs lists the segs of leaf number leafIdx, if dumping was enabled
func (mlog *MiniLogger) DumpSegs(leafIdx int, segs []*Seg) {
	if mlog == nil || !mlog.dumpSegs {
		return
	}
	mlog.segs.WriteString(fmt.Sprintf("Leaf #%d:\n", leafIdx))
	for _, s := range segs {
		if s.HasMapSide() {
			mlog.segs.WriteString(fmt.Sprintf(
				"  Line: %d Side: %d (%v,%v) - (%v, %v)",
				s.Line, s.Side, s.Start.X, s.Start.Y, s.End.X, s.End.Y))
		} else {
			mlog.segs.WriteString(fmt.Sprintf(
				"  Miniseg (%v,%v) - (%v, %v)",
				s.Start.X, s.Start.Y, s.End.X, s.End.Y))
		}
		if s.Split {
			mlog.segs.WriteString(" split\n")
		} else {
			mlog.segs.WriteString("\n")
		}
	}
}
