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

// Package psprint provides the core of a driver for PostScript page
// printers.
//
// The package itself contains the capability model: the parsed, read-only
// description of a printer's option groups, choices, constraints and
// presets, together with the job options record supplied by a caller and
// the resolved option set produced from the two.  The model is consumed
// as an already-parsed structure; reading the underlying description file
// format is not part of this module.
//
// The subpackages build on this:
//
//   - [seehuhn.de/go/psprint/resolve] maps a job options record to
//     concrete option choices for one model.
//   - [seehuhn.de/go/psprint/accessory] filters the exposed capability
//     surface by the set of installed hardware accessories.
//   - [seehuhn.de/go/psprint/document] streams a raster page image into a
//     DSC-structured PostScript document on a device channel.
//   - [seehuhn.de/go/psprint/query] polls a printer for its current
//     default settings using model-supplied PostScript query snippets.
package psprint
