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

// Package query polls a printer for its current default settings.
//
// For every eligible option the model supplies a PostScript query
// snippet which is sent to the device wrapped in an error trap, so that
// an interpreter fault in one query cannot terminate the whole session.
// Responses are read with a bounded number of attempts per option; an
// option whose response cannot be classified is skipped, the poll as a
// whole degrades gracefully.
package query

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"seehuhn.de/go/psprint"
	"seehuhn.de/go/psprint/device"
)

// Scope selects which option group a poll session covers.
type Scope int

const (
	// General polls the ordinary option groups.
	General Scope = iota

	// Installable polls the installable accessories group.
	Installable
)

// Defaults maps option keywords to the choice values the printer
// reported.
type Defaults map[string]string

// ErrNoDefaults is returned when a poll session resolved none of the
// eligible options.  The session itself completed; this is a soft
// failure.
var ErrNoDefaults = errors.New("query: no defaults received")

// Options controls a poll session.
type Options struct {
	// Attempts is the read attempt ceiling per option.
	// Defaults to 25.
	Attempts int

	// Delay is the fixed sleep between empty reads.
	// Defaults to 100ms.
	Delay time.Duration

	// Logger receives per-option progress and fault reports.
	Logger *zap.Logger
}

func (o *Options) fill() Options {
	res := Options{Attempts: 25, Delay: 100 * time.Millisecond}
	if o != nil {
		if o.Attempts > 0 {
			res.Attempts = o.Attempts
		}
		if o.Delay > 0 {
			res.Delay = o.Delay
		}
		res.Logger = o.Logger
	}
	if res.Logger == nil {
		res.Logger = zap.NewNop()
	}
	return res
}

// preamble is sent once per session.  It defines the query keyword
// variable and an error trap which reports the offending command and
// keyword instead of aborting the interpreter.
const preamble = `%!
userdict /psprint.query (none) put
userdict /psprint.catch {
  stopped {
    $error /command get 128 string cvs print
    (: ) print
    userdict /psprint.query get print
    (\n) print flush
  } if
} bind put
`

// Poll queries the printer for the current defaults of every eligible
// option in scope.  An option is eligible if it has at least two
// choices and a model-declared query script.
//
// The returned mapping contains the options which could be resolved.
// If no option could be resolved the mapping is empty and the error is
// [ErrNoDefaults]; per-option failures alone never produce an error.
func Poll(ctx context.Context, m *psprint.Model, dev device.Channel, scope Scope, opt *Options) (Defaults, error) {
	o := opt.fill()
	log := o.Logger

	var eligible []*psprint.Option
	for _, g := range m.Groups {
		isInstallable := strings.EqualFold(g.Name, psprint.InstallableGroup)
		if (scope == Installable) != isInstallable {
			continue
		}
		for _, op := range g.Options {
			if len(op.Choices) >= 2 && op.QueryScript != "" {
				eligible = append(eligible, op)
			}
		}
	}

	defaults := Defaults{}
	if len(eligible) == 0 {
		return defaults, ErrNoDefaults
	}

	if _, err := dev.Write([]byte(preamble)); err != nil {
		return defaults, &psprint.DeviceError{Op: "write query preamble", Err: err}
	}

	for _, op := range eligible {
		if err := ctx.Err(); err != nil {
			return defaults, err
		}

		q := fmt.Sprintf("userdict /psprint.query (%s) put\n{ %s } psprint.catch\n",
			op.Keyword, op.QueryScript)
		if _, err := dev.Write([]byte(q)); err != nil {
			return defaults, &psprint.DeviceError{Op: "write query", Err: err}
		}
		if err := dev.Flush(); err != nil {
			return defaults, &psprint.DeviceError{Op: "flush query", Err: err}
		}

		value, ok := readAnswer(ctx, dev, op, o, log)
		if ok {
			defaults[op.Keyword] = value
			log.Debug("option default received",
				zap.String("option", op.Keyword),
				zap.String("value", value))
		}
	}

	end := m.EndJobScript
	if end == "" {
		end = "\x04"
	}
	if _, err := dev.Write([]byte(end)); err != nil {
		return defaults, &psprint.DeviceError{Op: "write end of job", Err: err}
	}
	if err := dev.Flush(); err != nil {
		return defaults, &psprint.DeviceError{Op: "flush end of job", Err: err}
	}

	if len(defaults) == 0 {
		return defaults, ErrNoDefaults
	}
	return defaults, nil
}

// readAnswer reads and classifies the response to one query.  It
// returns the matched choice value, if any.
func readAnswer(ctx context.Context, dev device.Channel, op *psprint.Option, o Options, log *zap.Logger) (string, bool) {
	var pending []byte
	buf := make([]byte, 256)

	for attempt := 0; attempt < o.Attempts; attempt++ {
		n, err := dev.Read(buf)
		if err != nil {
			log.Warn("read failed during poll",
				zap.String("option", op.Keyword),
				zap.Error(err))
			return "", false
		}
		if n == 0 {
			select {
			case <-ctx.Done():
				return "", false
			case <-time.After(o.Delay):
			}
			continue
		}
		pending = append(pending, buf[:n]...)

		for {
			idx := bytes.IndexAny(pending, "\r\n")
			if idx < 0 {
				break
			}
			resp := strings.TrimFunc(string(pending[:idx]), func(r rune) bool {
				return r <= ' ' || r == 0x7f
			})
			pending = pending[idx+1:]

			switch {
			case resp == "":
				// blank line, keep reading
			case strings.Contains(resp, ":"):
				// message from the error trap
				log.Warn("query failed on printer",
					zap.String("option", op.Keyword),
					zap.String("message", resp))
				return "", false
			case strings.EqualFold(resp, "unknown"):
				return "", false
			default:
				if c := op.FindChoice(resp); c != nil {
					return c.Value, true
				}
				// not one of the declared choices; more data may
				// still arrive
				log.Debug("unrecognized poll response",
					zap.String("option", op.Keyword),
					zap.String("response", resp))
			}
		}
	}

	log.Warn("no usable response within attempt ceiling",
		zap.String("option", op.Keyword))
	return "", false
}
