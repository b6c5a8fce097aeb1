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

package psprint

// Settings is the resolved option set of one job: an insertion-ordered
// mapping from option keyword to chosen value.
//
// The resolution pipeline only ever adds settings; a keyword which has
// been set once is never overwritten.
type Settings struct {
	keys   []string
	values map[string]string
}

// NewSettings returns an empty option set.
func NewSettings() *Settings {
	return &Settings{values: make(map[string]string)}
}

// Add records a value for the keyword unless the keyword has already
// been set.  It reports whether the value was stored.
func (s *Settings) Add(keyword, value string) bool {
	if _, ok := s.values[keyword]; ok {
		return false
	}
	s.keys = append(s.keys, keyword)
	s.values[keyword] = value
	return true
}

// Get returns the value set for the keyword.
func (s *Settings) Get(keyword string) (string, bool) {
	v, ok := s.values[keyword]
	return v, ok
}

// Has reports whether the keyword has been set.
func (s *Settings) Has(keyword string) bool {
	_, ok := s.values[keyword]
	return ok
}

// Len returns the number of settings.
func (s *Settings) Len() int {
	return len(s.keys)
}

// Keys returns the keywords in insertion order.  The returned slice is
// a copy.
func (s *Settings) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// All returns the settings as a list of option/choice pairs in
// insertion order.
func (s *Settings) All() []Setting {
	res := make([]Setting, 0, len(s.keys))
	for _, k := range s.keys {
		res = append(res, Setting{Keyword: k, Value: s.values[k]})
	}
	return res
}
