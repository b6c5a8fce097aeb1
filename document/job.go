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

// Package document streams rasterized pages into a DSC-structured
// PostScript document on a device channel.
//
// A [Job] is a state machine: NewJob writes the document header, then
// for each page the caller runs StartPage, a sequence of WriteLine
// calls in increasing line order, and FinishPage.  Close writes the
// document trailer.  One job owns its device channel for its full
// lifetime; none of the methods may be called concurrently.
package document

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/psprint"
	"seehuhn.de/go/psprint/ascii85"
	"seehuhn.de/go/psprint/device"
)

// PageHeader describes one raster page.
type PageHeader struct {
	// Width and Height are the raster dimensions in pixels.
	Width, Height int

	// BitsPerComponent is the number of bits per color component,
	// usually 8.
	BitsPerComponent int

	// Color is the sample format of the raster lines.
	Color ColorSpace

	// PageWidth and PageHeight are the page dimensions in PostScript
	// points.
	PageWidth, PageHeight float64
}

// BytesPerLine returns the length of one raster line in bytes.
func (h *PageHeader) BytesPerLine() int {
	return (h.Width*h.Color.Components()*h.BitsPerComponent + 7) / 8
}

// Options controls document-level output.
type Options struct {
	// Title is the job title for the document header.  Non-printable
	// characters are replaced with '?'.
	Title string

	// Copies is the number of copies, at least 1.
	Copies int

	// Creator overrides the %%Creator comment.
	Creator string

	// MediaBox is the document bounding box.  If empty, US Letter is
	// assumed.
	MediaBox rect.Rect
}

// Job is an open PostScript document being written to a printer.
type Job struct {
	dev      device.Channel
	model    *psprint.Model
	settings *psprint.Settings

	pages     int
	page      PageHeader
	lines     int
	discarded int
	inPage    bool
	closed    bool

	enc      *ascii85.Encoder
	canceled atomic.Bool
	err      error // sticky device error
}

// NewJob starts a new document on the device channel and writes the
// document header, prolog and setup sections.  The settings are the
// resolved option set of the job; choice invocation code from the model
// is passed through to the device verbatim.
//
// The job uses the channel exclusively until Close returns; the caller
// remains responsible for opening and closing the channel itself.
func NewJob(dev device.Channel, m *psprint.Model, settings *psprint.Settings, opt *Options) (*Job, error) {
	if opt == nil {
		opt = &Options{}
	}

	j := &Job{
		dev:      dev,
		model:    m,
		settings: settings,
		enc:      ascii85.NewEncoder(dev),
	}

	if err := j.writeHeader(opt); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Job) writeHeader(opt *Options) error {
	level := j.model.LanguageLevel
	if level < 1 {
		level = 1
	}
	creator := opt.Creator
	if creator == "" {
		creator = "seehuhn.de/go/psprint"
	}
	box := opt.MediaBox
	if box.IsZero() {
		box = rect.Rect{URx: 612, URy: 792}
	}

	j.printf("header", "%%!PS-Adobe-3.0\n")
	j.printf("header", "%%%%LanguageLevel: %d\n", level)
	j.printf("header", "%%%%Creator: %s\n", creator)
	j.printf("header", "%%%%Title: %s\n", sanitizeTitle(opt.Title))
	j.printf("header", "%%%%BoundingBox: %d %d %d %d\n",
		int(math.Floor(box.LLx)), int(math.Floor(box.LLy)),
		int(math.Ceil(box.URx)), int(math.Ceil(box.URy)))
	j.printf("header", "%%%%DocumentData: Clean7Bit\n")
	j.printf("header", "%%%%Pages: (atend)\n")
	j.printf("header", "%%%%EndComments\n")

	j.printf("prolog", "%%%%BeginProlog\n")
	if s := strings.TrimSpace(j.model.PatchScript); s != "" {
		j.printf("prolog", "%s\n", s)
	}
	j.printf("prolog", "%%%%EndProlog\n")

	j.printf("setup", "%%%%BeginSetup\n")
	j.writeFeatures()
	if opt.Copies > 1 {
		if level >= 2 {
			j.printf("setup", "<< /NumCopies %d >> setpagedevice\n", opt.Copies)
		} else {
			j.printf("setup", "/#copies %d def\n", opt.Copies)
		}
	}
	j.printf("setup", "%%%%EndSetup\n")

	return j.err
}

// writeFeatures emits the model's invocation code for every resolved
// setting which has one, framed as DSC feature sections.
func (j *Job) writeFeatures() {
	if j.settings == nil {
		return
	}
	for _, s := range j.settings.All() {
		opt := j.model.FindOption(s.Keyword)
		if opt == nil {
			continue
		}
		c := opt.FindChoice(s.Value)
		if c == nil || c.Code == "" {
			continue
		}
		j.printf("setup", "%%%%BeginFeature: *%s %s\n", opt.Keyword, c.Value)
		j.printf("setup", "%s\n", c.Code)
		j.printf("setup", "%%%%EndFeature\n")
	}
}

// StartPage begins a new page.  The previous page must have been
// finished.
func (j *Job) StartPage(h PageHeader) error {
	if j.err != nil {
		return j.err
	}
	if j.canceled.Load() {
		return psprint.ErrCanceled
	}
	if j.inPage {
		return errors.New("document: page already open")
	}
	if h.Width <= 0 || h.Height <= 0 {
		return fmt.Errorf("document: invalid raster size %dx%d", h.Width, h.Height)
	}
	if h.BitsPerComponent == 0 {
		h.BitsPerComponent = 8
	}

	j.pages++
	j.page = h
	j.lines = 0
	j.inPage = true

	j.printf("page", "%%%%Page: %d %d\n", j.pages, j.pages)
	j.printf("page", "%%%%BeginPageSetup\n")
	j.printf("page", "%%%%EndPageSetup\n")
	j.printf("page", "gsave\n")
	j.printf("page", "%s %s scale\n",
		formatNumber(h.PageWidth), formatNumber(h.PageHeight))

	// The image matrix flips the vertical axis: raster lines arrive
	// top-down, page space grows bottom-up.
	im := matrix.Matrix{float64(h.Width), 0, 0, -float64(h.Height), 0, float64(h.Height)}

	j.printf("page", "%s setcolorspace\n", h.Color.psName())
	j.printf("page", "<<\n")
	j.printf("page", "  /ImageType 1\n")
	j.printf("page", "  /Width %d /Height %d\n", h.Width, h.Height)
	j.printf("page", "  /BitsPerComponent %d\n", h.BitsPerComponent)
	j.printf("page", "  /Decode %s\n", h.Color.decodeArray())
	j.printf("page", "  /ImageMatrix [%s %s %s %s %s %s]\n",
		formatNumber(im[0]), formatNumber(im[1]), formatNumber(im[2]),
		formatNumber(im[3]), formatNumber(im[4]), formatNumber(im[5]))
	j.printf("page", "  /DataSource currentfile /ASCII85Decode filter\n")
	j.printf("page", ">> image\n")

	return j.err
}

// WriteLine submits the next raster line of the current page.  Lines
// beyond the declared page height are discarded silently; the running
// count is still tracked and can be read back with [Job.DiscardedLines].
func (j *Job) WriteLine(line []byte) error {
	if j.err != nil {
		return j.err
	}
	if j.canceled.Load() {
		return psprint.ErrCanceled
	}
	if !j.inPage {
		return errors.New("document: no open page")
	}

	if j.lines < j.page.Height {
		if _, err := j.enc.Write(line); err != nil {
			j.fail("write raster", err)
			return j.err
		}
	} else {
		j.discarded++
	}
	j.lines++
	return nil
}

// FinishPage completes the current page.  If fewer lines arrived than
// the page declared, blank filler lines are encoded so that the image
// data matches the announced height exactly.
func (j *Job) FinishPage() error {
	if j.err != nil {
		return j.err
	}
	if j.canceled.Load() {
		return psprint.ErrCanceled
	}
	if !j.inPage {
		return errors.New("document: no open page")
	}

	if j.lines < j.page.Height {
		filler := make([]byte, j.page.BytesPerLine())
		if fill := j.page.Color.fillByte(); fill != 0 {
			for i := range filler {
				filler[i] = fill
			}
		}
		for j.lines < j.page.Height {
			if _, err := j.enc.Write(filler); err != nil {
				j.fail("write filler", err)
				return j.err
			}
			j.lines++
		}
	}

	if err := j.enc.Finish(); err != nil {
		j.fail("finish raster", err)
		return j.err
	}

	j.printf("page", "grestore\n")
	j.printf("page", "showpage\n")
	j.printf("page", "%%%%PageTrailer\n")

	j.inPage = false
	return j.err
}

// Close writes the document trailer and the model's end-of-job script
// and flushes the channel.  A canceled job writes nothing further but
// still flushes, so that the channel is left in a defined state.
func (j *Job) Close() error {
	if j.closed {
		return nil
	}
	j.closed = true

	if j.err != nil {
		return j.err
	}
	if !j.canceled.Load() {
		j.printf("trailer", "%%%%Trailer\n")
		j.printf("trailer", "%%%%Pages: %d\n", j.pages)
		j.printf("trailer", "%%%%EOF\n")
		if s := j.model.EndJobScript; s != "" {
			j.printf("trailer", "%s", s)
		} else {
			j.printf("trailer", "\x04")
		}
	}

	if j.err != nil {
		return j.err
	}
	if err := j.dev.Flush(); err != nil {
		j.fail("flush", err)
	}
	return j.err
}

// Cancel requests cooperative cancellation.  The cancellation takes
// effect at the next page or line boundary; output is truncated, no
// further bytes are written.
func (j *Job) Cancel() {
	j.canceled.Store(true)
}

// Pages returns the number of pages started so far.
func (j *Job) Pages() int {
	return j.pages
}

// DiscardedLines returns the number of raster lines which exceeded a
// declared page height and were dropped.
func (j *Job) DiscardedLines() int {
	return j.discarded
}

func (j *Job) printf(op string, format string, args ...any) {
	if j.err != nil {
		return
	}
	if _, err := fmt.Fprintf(j.dev, format, args...); err != nil {
		j.fail("write "+op, err)
	}
}

func (j *Job) fail(op string, err error) {
	if j.err == nil {
		j.err = &psprint.DeviceError{Op: op, Err: err}
	}
}

// formatNumber formats a PostScript number without a trailing ".0".
func formatNumber(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e9 {
		return fmt.Sprintf("%d", int64(x))
	}
	return fmt.Sprintf("%g", x)
}
