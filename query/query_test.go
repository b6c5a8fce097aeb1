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

package query

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/psprint"
	"seehuhn.de/go/psprint/internal/debug/memdev"
	"seehuhn.de/go/psprint/internal/debug/testmodel"
)

// fastOptions keeps the retry loop quick in tests.
func fastOptions() *Options {
	return &Options{Attempts: 10, Delay: time.Millisecond}
}

func TestPollGeneral(t *testing.T) {
	dev := memdev.New()
	// responses arrive in eligible-option order: InputSlot first, then
	// Resolution; the first response is fragmented across reads
	dev.QueueResponse([]byte("Tra"), []byte("y2\r\n"))
	dev.QueueEmptyReads(2)
	dev.QueueResponse([]byte("600dpi\n"))

	defaults, err := Poll(context.Background(), testmodel.New(), dev, General, fastOptions())
	require.NoError(t, err)
	assert.Equal(t, Defaults{
		"InputSlot":  "Tray2",
		"Resolution": "600dpi",
	}, defaults)

	out := string(dev.Written())
	assert.Contains(t, out, "userdict /psprint.query (InputSlot) put\n")
	assert.Contains(t, out, "userdict /psprint.query (Resolution) put\n")
	assert.Contains(t, out, "psprint.catch\n")
	assert.True(t, strings.HasSuffix(out, "\x04"), "missing end-of-job marker")
	assert.Greater(t, dev.Flushes(), 0)
}

func TestPollInstallable(t *testing.T) {
	dev := memdev.New()
	dev.QueueResponse([]byte("True\n"))

	defaults, err := Poll(context.Background(), testmodel.New(), dev, Installable, fastOptions())
	require.NoError(t, err)
	assert.Equal(t, Defaults{"OptionalTray2": "True"}, defaults)

	// general options must not be queried in installable scope
	out := string(dev.Written())
	assert.NotContains(t, out, "(InputSlot)")
}

func TestPollInterpreterFault(t *testing.T) {
	dev := memdev.New()
	// the error trap reports "command: keyword" lines; both queries fail
	dev.QueueResponse([]byte("typecheck: InputSlot\n"))
	dev.QueueResponse([]byte("undefined: Resolution\n"))

	defaults, err := Poll(context.Background(), testmodel.New(), dev, General, fastOptions())
	assert.ErrorIs(t, err, ErrNoDefaults)
	assert.Empty(t, defaults)

	// the session still terminates cleanly
	assert.True(t, strings.HasSuffix(string(dev.Written()), "\x04"))
}

func TestPollPartialFailure(t *testing.T) {
	dev := memdev.New()
	dev.QueueResponse([]byte("typecheck: InputSlot\n"))
	dev.QueueResponse([]byte("300dpi\n"))

	defaults, err := Poll(context.Background(), testmodel.New(), dev, General, fastOptions())
	require.NoError(t, err)
	assert.Equal(t, Defaults{"Resolution": "300dpi"}, defaults)
}

func TestPollUnknownSentinel(t *testing.T) {
	dev := memdev.New()
	dev.QueueResponse([]byte("Unknown\n"))
	dev.QueueResponse([]byte("600dpi\n"))

	defaults, err := Poll(context.Background(), testmodel.New(), dev, General, fastOptions())
	require.NoError(t, err)
	assert.Equal(t, Defaults{"Resolution": "600dpi"}, defaults)
}

func TestPollUnrecognizedResponse(t *testing.T) {
	dev := memdev.New()
	// garbage first, then the usable answer on a later line
	dev.QueueResponse([]byte("ACME ready\nTray1\n"))
	dev.QueueResponse([]byte("garbage\n"))

	defaults, err := Poll(context.Background(), testmodel.New(), dev, General, fastOptions())
	require.NoError(t, err)
	assert.Equal(t, "Tray1", defaults["InputSlot"])
}

func TestPollAttemptCeiling(t *testing.T) {
	dev := memdev.New()
	// the device stays silent; every option runs out of attempts
	dev.QueueEmptyReads(64)

	start := time.Now()
	defaults, err := Poll(context.Background(), testmodel.New(), dev, General,
		&Options{Attempts: 3, Delay: time.Millisecond})
	assert.ErrorIs(t, err, ErrNoDefaults)
	assert.Empty(t, defaults)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPollNoEligibleOptions(t *testing.T) {
	m := testmodel.New()
	for _, g := range m.Groups {
		for _, o := range g.Options {
			o.QueryScript = ""
		}
	}

	dev := memdev.New()
	defaults, err := Poll(context.Background(), m, dev, General, fastOptions())
	assert.ErrorIs(t, err, ErrNoDefaults)
	assert.Empty(t, defaults)
	assert.Empty(t, dev.Written(), "nothing may be sent without eligible options")
}

func TestPollContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dev := memdev.New()
	_, err := Poll(ctx, testmodel.New(), dev, General, fastOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPollEndJobScript(t *testing.T) {
	m := testmodel.New()
	m.EndJobScript = "acmereset\n"

	dev := memdev.New()
	dev.QueueResponse([]byte("Tray1\n"), []byte("600dpi\n"))

	_, err := Poll(context.Background(), m, dev, General, fastOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(dev.Written()), "acmereset\n"))
}

func TestPollWriteError(t *testing.T) {
	dev := memdev.New()
	dev.FailWrites(assert.AnError)

	_, err := Poll(context.Background(), testmodel.New(), dev, General, fastOptions())
	var devErr *psprint.DeviceError
	require.ErrorAs(t, err, &devErr)
	assert.ErrorIs(t, err, assert.AnError)
}
