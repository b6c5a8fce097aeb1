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

import "errors"

// ErrUnknownModel is returned by [Registry.Load] when no loader is
// registered for the requested model identifier.
var ErrUnknownModel = errors.New("unknown printer model")

// ErrCanceled is returned once a job has been canceled by the caller.
var ErrCanceled = errors.New("job canceled")

// DeviceError indicates a failed read or write on the device channel.
// Device errors abort the current job; they are never retried.
type DeviceError struct {
	Op  string // the failing operation, e.g. "write header"
	Err error
}

func (e *DeviceError) Error() string {
	return "device " + e.Op + ": " + e.Err.Error()
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ModelError indicates that a capability model could not be loaded.
type ModelError struct {
	Name string // the model identifier
	Err  error
}

func (e *ModelError) Error() string {
	return "model " + e.Name + ": " + e.Err.Error()
}

func (e *ModelError) Unwrap() error {
	return e.Err
}
