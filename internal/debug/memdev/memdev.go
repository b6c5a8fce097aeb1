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

// Package memdev provides a scripted in-memory device channel for
// tests.
package memdev

import (
	"bytes"
	"errors"
	"sync"
)

// Device is an in-memory device channel.
//
// Everything written to the device is captured in an internal buffer.
// Reads are scripted: each call to Read returns the next queued chunk,
// so tests can simulate fragmented and delayed printer responses.  A
// nil chunk simulates an idle read returning no data.
type Device struct {
	mu       sync.Mutex
	written  bytes.Buffer
	reads    [][]byte
	flushes  int
	writeErr error
}

// New returns an empty device.
func New() *Device {
	return &Device{}
}

// QueueResponse schedules response chunks to be returned by subsequent
// reads, one chunk per call to Read.
func (d *Device) QueueResponse(chunks ...[]byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads = append(d.reads, chunks...)
}

// QueueEmptyReads schedules n reads which return no data.
func (d *Device) QueueEmptyReads(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for range n {
		d.reads = append(d.reads, nil)
	}
}

// FailWrites makes all subsequent writes return the given error.
func (d *Device) FailWrites(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeErr = err
}

// Written returns a copy of everything written so far.
func (d *Device) Written() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return bytes.Clone(d.written.Bytes())
}

// Flushes returns the number of Flush calls.
func (d *Device) Flushes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushes
}

func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.reads) == 0 {
		return 0, nil
	}
	chunk := d.reads[0]
	d.reads = d.reads[1:]
	if len(chunk) > len(p) {
		return 0, errors.New("memdev: read buffer too small for chunk")
	}
	return copy(p, chunk), nil
}

func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.writeErr != nil {
		return 0, d.writeErr
	}
	return d.written.Write(p)
}

func (d *Device) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushes++
	return d.writeErr
}
