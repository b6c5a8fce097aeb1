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

// Package device defines the byte-oriented channel to a printer and
// provides file- and network-backed implementations.
//
// A channel is assumed to be exclusively owned by the active job or
// poll session; this module never opens a second concurrent session on
// the same channel.
package device

import (
	"bufio"
	"io"
	"net"
	"os"
	"time"
)

// Channel is a byte-oriented connection to a printer.
//
// Reads may legally return (0, nil) when no data is available yet;
// callers which expect a response retry with a bounded attempt count.
type Channel interface {
	io.Reader
	io.Writer

	// Flush forces buffered output onto the wire.
	Flush() error
}

// OpenCloser is a channel which must be closed after use.
type OpenCloser interface {
	Channel
	io.Closer
}

// file wraps an open file as a device channel.  Output is buffered.
type file struct {
	f *os.File
	w *bufio.Writer
}

// NewFile returns a channel backed by an open file or pipe.
func NewFile(f *os.File) OpenCloser {
	return &file{f: f, w: bufio.NewWriter(f)}
}

// Create creates the named output file and returns it as a channel.
func Create(name string) (OpenCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return NewFile(f), nil
}

func (d *file) Read(p []byte) (int, error)  { return d.f.Read(p) }
func (d *file) Write(p []byte) (int, error) { return d.w.Write(p) }
func (d *file) Flush() error                { return d.w.Flush() }

func (d *file) Close() error {
	if err := d.w.Flush(); err != nil {
		d.f.Close()
		return err
	}
	return d.f.Close()
}

// conn wraps a network connection as a device channel.  Reads use a
// short deadline so that an idle printer shows up as an empty read
// instead of blocking forever.
type conn struct {
	c           net.Conn
	w           *bufio.Writer
	readTimeout time.Duration
}

// Dial connects to a raw socket printer, e.g. a JetDirect port.
func Dial(network, addr string, timeout time.Duration) (OpenCloser, error) {
	c, err := net.DialTimeout(network, addr, timeout)
	if err != nil {
		return nil, err
	}
	return &conn{c: c, w: bufio.NewWriter(c), readTimeout: time.Second}, nil
}

func (d *conn) Read(p []byte) (int, error) {
	if err := d.c.SetReadDeadline(time.Now().Add(d.readTimeout)); err != nil {
		return 0, err
	}
	n, err := d.c.Read(p)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (d *conn) Write(p []byte) (int, error) { return d.w.Write(p) }
func (d *conn) Flush() error                { return d.w.Flush() }

func (d *conn) Close() error {
	if err := d.w.Flush(); err != nil {
		d.c.Close()
		return err
	}
	return d.c.Close()
}
