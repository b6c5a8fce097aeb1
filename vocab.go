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

import "strings"

// sidesOptionNames lists the option keywords used by different vendors
// for double-sided printing, in lookup order.
var sidesOptionNames = []string{
	"Duplex",
	"JCLDuplex",
	"EFDuplex",
	"EFDuplexing",
	"KD03Duplex",
}

// SidesOption returns the model's double-sided printing option, or nil
// if the model exposes none.
func (m *Model) SidesOption() *Option {
	for _, name := range sidesOptionNames {
		if o := m.FindOption(name); o != nil {
			return o
		}
	}
	return nil
}

// StandardKeywords returns the set of option keywords, lowercased,
// which are handled by dedicated resolution steps rather than by the
// generic vendor option pass.
func (m *Model) StandardKeywords() map[string]bool {
	std := map[string]bool{
		"pagesize":   true,
		"pageregion": true,
		"inputslot":  true,
		"mediatype":  true,
		"outputbin":  true,
		"resolution": true,
		"collate":    true,
	}
	if o := m.SidesOption(); o != nil {
		std[strings.ToLower(o.Keyword)] = true
	}
	for _, s := range m.FinishingMap {
		std[strings.ToLower(s.Keyword)] = true
	}
	for _, s := range m.ScalingMap {
		std[strings.ToLower(s.Keyword)] = true
	}
	return std
}
