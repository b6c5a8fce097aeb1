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

// Package ascii85 implements the incremental base-85 encoder used to
// embed binary raster data in PostScript documents.
//
// The output follows the ASCII85 filter conventions: four raw bytes are
// grouped into a 32-bit big-endian value and written as five printable
// characters offset from '!', an all-zero group is abbreviated to the
// single character 'z', lines wrap after 75 printable characters, and
// the data is terminated by the two-character marker "~>".
package ascii85

import "io"

// maxCol is the number of printable characters after which a line
// break is inserted.
const maxCol = 75

// Encoder is an incremental base-85 encoder.
//
// Input passed to successive [Encoder.Write] calls is treated as one
// continuous byte sequence; up to three bytes are carried over between
// calls until a full group is available.  [Encoder.Finish] flushes the
// final partial group, writes the end-of-data marker and resets the
// encoder so that it can be reused for the next page.
//
// An Encoder must not be used concurrently.
type Encoder struct {
	w   io.Writer
	out []byte

	v   uint32 // pending input bytes, high to low
	k   int    // number of pending input bytes, 0..3
	col int    // printable characters on the current output line
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:   w,
		out: make([]byte, 0, 128),
	}
}

// Write encodes the next chunk of input.  A call with no data is a
// no-op.  This implements the [io.Writer] interface.
func (e *Encoder) Write(p []byte) (int, error) {
	for _, b := range p {
		e.v = e.v<<8 | uint32(b)
		e.k++
		if e.k == 4 {
			e.group()
			e.v = 0
			e.k = 0
		}
	}
	return len(p), e.flush()
}

// Finish encodes any pending partial group, writes the "~>" marker and
// resets the encoder state.  A final group of k leftover bytes is
// written using k+1 characters; the 'z' abbreviation is not used for
// partial groups.
func (e *Encoder) Finish() error {
	if e.k > 0 {
		v := e.v << ((4 - e.k) * 8)
		var c [5]byte
		for i := 4; i >= 0; i-- {
			c[i] = byte(v%85) + '!'
			v /= 85
		}
		e.emit(c[:e.k+1]...)
	}
	e.out = append(e.out, '~', '>', '\n')

	err := e.flush()

	e.v = 0
	e.k = 0
	e.col = 0
	return err
}

// group encodes one complete 4-byte group.
func (e *Encoder) group() {
	v := e.v
	if v == 0 {
		e.emit('z')
		return
	}
	var c [5]byte
	for i := 4; i >= 0; i-- {
		c[i] = byte(v%85) + '!'
		v /= 85
	}
	e.emit(c[:]...)
}

func (e *Encoder) emit(chars ...byte) {
	e.out = append(e.out, chars...)
	e.col += len(chars)
	if e.col >= maxCol {
		e.out = append(e.out, '\n')
		e.col = 0
	}
}

func (e *Encoder) flush() error {
	if len(e.out) == 0 {
		return nil
	}
	_, err := e.w.Write(e.out)
	e.out = e.out[:0]
	return err
}
