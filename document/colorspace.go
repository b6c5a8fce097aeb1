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

// ColorSpace identifies the sample format of the raster input.
type ColorSpace int

const (
	// Gray is single-channel luminance, sample value 0 = black.
	Gray ColorSpace = iota

	// RGB is three-channel additive color.
	RGB

	// CMYK is four-channel ink coverage, sample value 0 = no ink.
	CMYK

	// Black is single-channel ink coverage, sample value 0 = no ink.
	Black
)

// Components returns the number of color components per sample.
func (cs ColorSpace) Components() int {
	switch cs {
	case RGB:
		return 3
	case CMYK:
		return 4
	default:
		return 1
	}
}

// BlackPrimary reports whether a zero sample leaves the page blank.
// For such colorspaces missing raster lines are padded with zero bytes,
// for all others with 0xff.
func (cs ColorSpace) BlackPrimary() bool {
	return cs == CMYK || cs == Black
}

func (cs ColorSpace) fillByte() byte {
	if cs.BlackPrimary() {
		return 0x00
	}
	return 0xff
}

// psName returns the PostScript color space name.
func (cs ColorSpace) psName() string {
	switch cs {
	case RGB:
		return "/DeviceRGB"
	case CMYK:
		return "/DeviceCMYK"
	default:
		return "/DeviceGray"
	}
}

// decodeArray returns the image decode array.  Ink-on-gray rasters are
// inverted so that 0 renders white.
func (cs ColorSpace) decodeArray() string {
	switch cs {
	case RGB:
		return "[0 1 0 1 0 1]"
	case CMYK:
		return "[0 1 0 1 0 1 0 1]"
	case Black:
		return "[1 0]"
	default:
		return "[0 1]"
	}
}
