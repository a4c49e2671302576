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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

var ErrInvalidLevel = errors.New("invalid level")

// Level is the YAML description of map geometry consumed by the tools:
//
//	bounds: {min: [0, 0], max: [256, 256]}
//	lines:
//	  - {from: [0, 0], to: [0, 256], front: true}
//	  - {from: [0, 256], to: [256, 256], front: true, back: true, tag: door}
//
// Bounds may be omitted, then the lines decide
type Level struct {
	Bounds *LevelBounds `yaml:"bounds,omitempty"`
	Lines  []LevelLine  `yaml:"lines"`
}

type LevelBounds struct {
	Min [2]float64 `yaml:"min,flow"`
	Max [2]float64 `yaml:"max,flow"`
}

type LevelLine struct {
	From  [2]float64 `yaml:"from,flow"`
	To    [2]float64 `yaml:"to,flow"`
	Front bool       `yaml:"front,omitempty"`
	Back  bool       `yaml:"back,omitempty"`
	// Free-form label handed through as MapLine.Ref
	Tag string `yaml:"tag,omitempty"`
}

func NewLevel() *Level {
	return &Level{
		Lines: make([]LevelLine, 0),
	}
}

// LoadLevel reads a level file
func LoadLevel(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open level file: %w", err)
	}
	defer f.Close()

	lvl, err := ParseLevel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lvl, nil
}

func ParseLevel(r io.Reader) (*Level, error) {
	lvl := NewLevel()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(lvl); err != nil {
		if errors.Is(err, io.EOF) {
			// empty document is an empty level
			return lvl, nil
		}
		return nil, fmt.Errorf("failed to decode level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return lvl, nil
}

// Validate rejects lines that have neither side
func (l *Level) Validate() error {
	var errs []error
	for i, line := range l.Lines {
		if !line.Front && !line.Back {
			errs = append(errs, fmt.Errorf("%w: line %d has neither front nor back side",
				ErrInvalidLevel, i))
		}
	}
	if l.Bounds != nil {
		b := l.Bounds
		if b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] {
			errs = append(errs, fmt.Errorf("%w: bounds min (%v) exceeds max (%v)",
				ErrInvalidLevel, b.Min, b.Max))
		}
	}
	return errors.Join(errs...)
}

func (l *Level) Save(path string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create level file: %w", err)
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	defer encoder.Close()
	encoder.SetIndent(2)

	if err := encoder.Encode(l); err != nil {
		return fmt.Errorf("failed to encode level: %w", err)
	}
	return nil
}

// MapLines converts the level to builder input. Ref of a tagged line is its
// tag, untagged lines get no Ref at all
func (l *Level) MapLines() []MapLine {
	res := make([]MapLine, len(l.Lines))
	for i, line := range l.Lines {
		res[i] = MapLine{
			From:  orb.Point{line.From[0], line.From[1]},
			To:    orb.Point{line.To[0], line.To[1]},
			Front: line.Front,
			Back:  line.Back,
		}
		if line.Tag != "" {
			res[i].Ref = line.Tag
		}
	}
	return res
}

// BoundingBox returns the declared bounds, or the extent of the lines when
// none are declared
func (l *Level) BoundingBox() orb.Bound {
	if l.Bounds != nil {
		return orb.Bound{
			Min: orb.Point{l.Bounds.Min[0], l.Bounds.Min[1]},
			Max: orb.Point{l.Bounds.Max[0], l.Bounds.Max[1]},
		}
	}
	if len(l.Lines) == 0 {
		return orb.Bound{}
	}
	first := orb.Point{l.Lines[0].From[0], l.Lines[0].From[1]}
	r := orb.Bound{Min: first, Max: first}
	for _, line := range l.Lines {
		r = r.Extend(orb.Point{line.From[0], line.From[1]})
		r = r.Extend(orb.Point{line.To[0], line.To[1]})
	}
	return r
}

// AddPolygon appends a closed loop of one-sided lines through points. With
// points in clockwise order the inside is the front side
func (l *Level) AddPolygon(points ...[2]float64) {
	for i := range points {
		l.Lines = append(l.Lines, LevelLine{
			From:  points[i],
			To:    points[(i+1)%len(points)],
			Front: true,
		})
	}
}
