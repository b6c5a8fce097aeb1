// seehuhn.de/go/psprint - a driver core for PostScript page printers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package accessory

import "strings"

// MediaReady is the media configuration of one input source.
// Dimensions are in PostScript points.
type MediaReady struct {
	// Source is the machine-readable source name this entry belongs to.
	Source string

	// SizeName is the configured media size name.
	SizeName string

	// Width and Height are the media dimensions.
	Width, Height float64

	// Margins holds the unprintable borders in the order left, bottom,
	// right, top.
	Margins [4]float64

	// Type is the configured media type.
	Type string
}

// ReadyTable holds the per-source media configurations of a printer.
//
// The table is a fixed-capacity arena with two regions: the active
// prefix mirrors the currently available sources, in model order; the
// trailing undo region keeps the configurations of sources which have
// become unavailable, so that re-enabling a source restores its last
// configuration instead of resetting it to defaults.  Entries are never
// freed within the lifetime of the owning [Projector].
type ReadyTable struct {
	entries []MediaReady
	active  int // length of the active prefix
	used    int // active entries plus undo entries
}

func newReadyTable(capacity int) *ReadyTable {
	return &ReadyTable{entries: make([]MediaReady, capacity)}
}

// Len returns the number of currently available sources.
func (t *ReadyTable) Len() int {
	return t.active
}

// Available returns a copy of the media configurations of the currently
// available sources, in model order.
func (t *ReadyTable) Available() []MediaReady {
	res := make([]MediaReady, t.active)
	copy(res, t.entries[:t.active])
	return res
}

// ForSource returns the media configuration of an available source.
func (t *ReadyTable) ForSource(source string) (MediaReady, bool) {
	for i := 0; i < t.active; i++ {
		if strings.EqualFold(t.entries[i].Source, source) {
			return t.entries[i], true
		}
	}
	return MediaReady{}, false
}

// Set updates the media configuration of an available source.  It
// reports whether the source is currently available.
func (t *ReadyTable) Set(source string, m MediaReady) bool {
	for i := 0; i < t.active; i++ {
		if strings.EqualFold(t.entries[i].Source, source) {
			m.Source = t.entries[i].Source
			t.entries[i] = m
			return true
		}
	}
	return false
}

// lookup searches the whole table, undo region included.
func (t *ReadyTable) lookup(source string) (MediaReady, bool) {
	for i := 0; i < t.used; i++ {
		if strings.EqualFold(t.entries[i].Source, source) {
			return t.entries[i], true
		}
	}
	return MediaReady{}, false
}

// reproject rebuilds the active prefix to mirror the available sources,
// in order.  Entries for sources which are no longer available move to
// the undo region; entries for sources which became available again are
// restored from there.  Sources never seen before are synthesized with
// synth.
func (t *ReadyTable) reproject(available []string, synth func(source string) MediaReady) {
	scratch := make([]MediaReady, 0, len(t.entries))
	for _, src := range available {
		if e, ok := t.lookup(src); ok {
			scratch = append(scratch, e)
		} else {
			e := synth(src)
			e.Source = src
			scratch = append(scratch, e)
		}
	}
	active := len(scratch)

	for i := 0; i < t.used; i++ {
		evicted := true
		for _, src := range available {
			if strings.EqualFold(t.entries[i].Source, src) {
				evicted = false
				break
			}
		}
		if evicted {
			scratch = append(scratch, t.entries[i])
		}
	}

	copy(t.entries, scratch)
	t.active = active
	t.used = len(scratch)
}
