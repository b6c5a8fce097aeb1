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

package document

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// sanitizeTitle makes a job title safe for use in a DSC comment.  The
// title is reduced to Latin-1; characters outside the charset and
// non-printable characters are replaced with '?'.
func sanitizeTitle(title string) string {
	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	b, err := enc.Bytes([]byte(title))
	if err != nil {
		b = []byte(title)
	}

	out := make([]byte, len(b))
	for i, c := range b {
		if c < 0x20 || (c >= 0x7f && c < 0xa0) {
			out[i] = '?'
		} else {
			out[i] = c
		}
	}
	return string(out)
}
