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

// Orientation is the requested page orientation.  The values other than
// OrientNone follow the enumeration used in print protocols, starting at
// portrait = 3.
type Orientation int

const (
	OrientNone             Orientation = 0
	OrientPortrait         Orientation = 3
	OrientLandscape        Orientation = 4
	OrientReverseLandscape Orientation = 5
	OrientReversePortrait  Orientation = 6
)

// Duplex selects single- or double-sided printing.
type Duplex int

const (
	DuplexNone Duplex = iota
	DuplexLongEdge
	DuplexShortEdge
)

// PageRange is an inclusive range of page numbers, 1-based.
type PageRange struct {
	First, Last int
}

// MediaRequest describes the media a job asks for, in abstract terms.
// All dimensions are in PostScript points.
type MediaRequest struct {
	// SizeName is the abstract size name, e.g. "A4".  May be empty.
	SizeName string

	// Width and Height are the requested dimensions.  Zero if only the
	// name is given.
	Width, Height float64

	// Margins holds the requested unprintable borders in the order
	// left, bottom, right, top.
	Margins [4]float64

	// Source is the abstract media source name, e.g. "tray-1".
	Source string

	// Type is the abstract media type name, e.g. "stationery".
	Type string
}

// JobOptions is the job options record supplied by the caller.  It is
// immutable for the duration of one resolution pass.
type JobOptions struct {
	// Title is the job title, used for the document header.
	Title string

	// Copies is the number of document copies, at least 1.
	Copies int

	// PageRanges restricts the job to the given pages.  Empty means all
	// pages.
	PageRanges []PageRange

	// Finishings lists the requested finishing processes.
	Finishings []Finishing

	// Media describes the requested media.
	Media MediaRequest

	// Orientation is the requested page orientation, or OrientNone.
	Orientation Orientation

	// ColorMode selects color or monochrome output.
	ColorMode ColorMode

	// Quality selects the print quality tier.
	Quality Quality

	// Scaling lists the requested abstract scaling flags.
	Scaling []string

	// Resolution is the requested resolution in dots per inch, or 0.
	Resolution int

	// Duplex selects single- or double-sided printing.
	Duplex Duplex

	// OutputBin is the abstract output bin name, or empty.
	OutputBin string

	// MultipleDocumentHandling is the collation hint, e.g.
	// "separate-documents-collated-copies".  Empty means no preference.
	MultipleDocumentHandling string

	// Extra holds per-vendor option values, keyed by option keyword.
	Extra map[string]string
}

// AllPages reports whether the job covers the whole document.
func (jo *JobOptions) AllPages() bool {
	if len(jo.PageRanges) == 0 {
		return true
	}
	return len(jo.PageRanges) == 1 &&
		jo.PageRanges[0].First <= 1 && jo.PageRanges[0].Last <= 0
}
