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

// Package accessory projects a printer's exposed capability surface
// according to the set of installed hardware accessories.
//
// The operator's accessory configuration is a set of option/choice
// pairs for the installable options of a model.  Applying a changed
// configuration re-filters every capability list; settings of media
// sources which become unavailable are preserved in an undo area so
// that re-enabling the same source restores its last configuration.
package accessory

import (
	"strings"

	"golang.org/x/exp/maps"
)

// Config is the operator's accessory configuration: the configured
// choice for each installable option, keyed by option keyword.
//
// A Config starts out empty when a model is first loaded; installable
// options without an entry are assumed to be at their model default.
type Config map[string]string

// InstalledChoice returns the configured choice for an installable
// option.  This implements psprint.ConfigView.
func (c Config) InstalledChoice(keyword string) (string, bool) {
	if v, ok := c[keyword]; ok {
		return v, true
	}
	for k, v := range c {
		if strings.EqualFold(k, keyword) {
			return v, true
		}
	}
	return "", false
}

// Clone returns a copy of the configuration.
func (c Config) Clone() Config {
	if c == nil {
		return Config{}
	}
	return maps.Clone(c)
}

// Equal reports whether two configurations are the same.
func (c Config) Equal(other Config) bool {
	return maps.Equal(c, other)
}

// Merge copies the given option/choice pairs into the configuration,
// overwriting existing entries.  This is used to apply the result of a
// successful device poll.
func (c Config) Merge(vals map[string]string) {
	for k, v := range vals {
		c[k] = v
	}
}
