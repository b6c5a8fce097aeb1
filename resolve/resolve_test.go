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

package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/psprint"
	"seehuhn.de/go/psprint/accessory"
	"seehuhn.de/go/psprint/internal/debug/testmodel"
)

func value(t *testing.T, set *psprint.Settings, keyword string) string {
	t.Helper()
	v, ok := set.Get(keyword)
	if !ok {
		t.Fatalf("%s not set", keyword)
	}
	return v
}

func TestMediaBySizeName(t *testing.T) {
	m := testmodel.New()
	jo := &psprint.JobOptions{Media: psprint.MediaRequest{SizeName: "a4"}}
	set := Resolve(m, nil, jo)
	if v := value(t, set, "PageSize"); v != "A4" {
		t.Errorf("PageSize = %q", v)
	}
}

func TestMediaByDimensions(t *testing.T) {
	m := testmodel.New()
	jo := &psprint.JobOptions{Media: psprint.MediaRequest{Width: 612, Height: 1008}}
	set := Resolve(m, nil, jo)
	if v := value(t, set, "PageSize"); v != "Legal" {
		t.Errorf("PageSize = %q", v)
	}
}

func TestMediaSourceAndType(t *testing.T) {
	m := testmodel.New()
	jo := &psprint.JobOptions{
		Media: psprint.MediaRequest{
			SizeName: "Letter",
			Source:   "tray-2",
			Type:     "stationery-letterhead",
		},
	}
	set := Resolve(m, nil, jo)
	if v := value(t, set, "InputSlot"); v != "Tray2" {
		t.Errorf("InputSlot = %q", v)
	}
	if v := value(t, set, "MediaType"); v != "Letterhead" {
		t.Errorf("MediaType = %q", v)
	}

	// unmapped names are dropped silently
	jo.Media.Source = "tray-99"
	set = Resolve(m, nil, jo)
	if set.Has("InputSlot") {
		t.Error("unknown source produced a setting")
	}
}

func TestPresetPrecedence(t *testing.T) {
	m := testmodel.New()

	// the preset sets the resolution first, so the explicit request
	// must not override it
	jo := &psprint.JobOptions{
		ColorMode:  psprint.ModeMonochrome,
		Quality:    psprint.QualityDraft,
		Resolution: 600,
	}
	set := Resolve(m, nil, jo)
	if v := value(t, set, "Resolution"); v != "150x150dpi" {
		t.Errorf("Resolution = %q, want preset value 150x150dpi", v)
	}
}

func TestForcedGrayscale(t *testing.T) {
	m := testmodel.New()
	jo := &psprint.JobOptions{ColorMode: psprint.ModeMonochrome}
	set := Resolve(m, nil, jo)
	if v := value(t, set, "ColorModel"); v != "Gray" {
		t.Errorf("ColorModel = %q", v)
	}

	jo = &psprint.JobOptions{ColorMode: psprint.ModeColor}
	set = Resolve(m, nil, jo)
	// the vendor default step fills in the marked choice
	if v := value(t, set, "ColorModel"); v != "RGB" {
		t.Errorf("ColorModel = %q", v)
	}
}

func TestGrayscalePriority(t *testing.T) {
	// a model with several grayscale mechanisms uses the first one and
	// leaves the others untouched
	m := testmodel.New()
	m.Groups[0].Options = append(m.Groups[0].Options, &psprint.Option{
		Keyword: "HPColorAsGray",
		Choices: []*psprint.Choice{
			{Value: "True"}, {Value: "False"},
		},
		Default: "False",
	})
	m.MarkDefaults()

	jo := &psprint.JobOptions{ColorMode: psprint.ModeMonochrome}
	set := Resolve(m, nil, jo)
	if v := value(t, set, "ColorModel"); v != "Gray" {
		t.Errorf("ColorModel = %q", v)
	}
	// HPColorAsGray keeps its vendor default
	if v := value(t, set, "HPColorAsGray"); v != "False" {
		t.Errorf("HPColorAsGray = %q", v)
	}
}

func TestResolutionRequest(t *testing.T) {
	m := testmodel.New()

	cases := []struct {
		dpi  int
		want string // "" means not set
	}{
		{300, "300dpi"},
		{1200, "1200x1200dpi"},
		{150, "150x150dpi"},
		{725, ""}, // no matching choice: dropped
	}
	for _, c := range cases {
		jo := &psprint.JobOptions{Resolution: c.dpi}
		set := Resolve(m, nil, jo)
		got, _ := set.Get("Resolution")
		if got != c.want {
			t.Errorf("Resolution request %d: got %q, want %q", c.dpi, got, c.want)
		}
	}
}

func TestDefaultResolution(t *testing.T) {
	m := testmodel.New()
	set := Resolve(m, nil, &psprint.JobOptions{})
	if v := value(t, set, "Resolution"); v != "600dpi" {
		t.Errorf("Resolution = %q", v)
	}
}

func TestDuplex(t *testing.T) {
	m := testmodel.New()
	cases := []struct {
		mode psprint.Duplex
		want string
	}{
		{psprint.DuplexNone, "None"},
		{psprint.DuplexLongEdge, "DuplexNoTumble"},
		{psprint.DuplexShortEdge, "DuplexTumble"},
	}
	for _, c := range cases {
		set := Resolve(m, nil, &psprint.JobOptions{Duplex: c.mode})
		if v := value(t, set, "Duplex"); v != c.want {
			t.Errorf("duplex %v: got %q, want %q", c.mode, v, c.want)
		}
	}
}

func TestScaling(t *testing.T) {
	m := testmodel.New()
	jo := &psprint.JobOptions{Scaling: []string{"fit-to-page"}}
	set := Resolve(m, nil, jo)
	if v := value(t, set, "FitToPage"); v != "True" {
		t.Errorf("FitToPage = %q", v)
	}
}

func TestFinishings(t *testing.T) {
	m := testmodel.New()
	jo := &psprint.JobOptions{Finishings: []psprint.Finishing{psprint.FinishStaple}}
	set := Resolve(m, nil, jo)
	if v := value(t, set, "StapleLocation"); v != "SinglePortrait" {
		t.Errorf("StapleLocation = %q", v)
	}

	// finishings the model has no mapping for are dropped
	jo = &psprint.JobOptions{Finishings: []psprint.Finishing{psprint.FinishPunch}}
	set = Resolve(m, nil, jo)
	if set.Has("StapleLocation") {
		t.Error("unmapped finishing produced a setting")
	}
}

func TestOutputBin(t *testing.T) {
	m := testmodel.New()

	set := Resolve(m, nil, &psprint.JobOptions{OutputBin: "face-up"})
	if v := value(t, set, "OutputBin"); v != "LeftBin" {
		t.Errorf("OutputBin = %q", v)
	}

	// an unknown bin name falls back to the marked default
	set = Resolve(m, nil, &psprint.JobOptions{OutputBin: "mailbox-7"})
	if v := value(t, set, "OutputBin"); v != "Standard" {
		t.Errorf("OutputBin = %q", v)
	}
}

func TestVendorDefaults(t *testing.T) {
	m := testmodel.New()
	set := Resolve(m, nil, &psprint.JobOptions{})
	if v := value(t, set, "Smoothing"); v != "False" {
		t.Errorf("Smoothing = %q", v)
	}

	// explicit vendor requests override the marked default
	jo := &psprint.JobOptions{Extra: map[string]string{"smoothing": "True"}}
	set = Resolve(m, nil, jo)
	if v := value(t, set, "Smoothing"); v != "True" {
		t.Errorf("Smoothing = %q", v)
	}

	// values excluded by the accessory configuration are skipped
	cfg := accessory.Config{"OptionalRIP": "False"}
	set = Resolve(m, cfg, jo)
	if set.Has("Smoothing") {
		t.Error("Smoothing set despite conflicting configuration")
	}
}

func TestCollation(t *testing.T) {
	m := testmodel.New()

	set := Resolve(m, nil, &psprint.JobOptions{MultipleDocumentHandling: "separate-documents-collated-copies"})
	if v := value(t, set, "Collate"); v != "True" {
		t.Errorf("Collate = %q", v)
	}

	set = Resolve(m, nil, &psprint.JobOptions{MultipleDocumentHandling: "separate-documents-uncollated-copies"})
	if v := value(t, set, "Collate"); v != "False" {
		t.Errorf("Collate = %q", v)
	}

	set = Resolve(m, nil, &psprint.JobOptions{})
	// without a hint the vendor default step does not apply either,
	// because Collate is a standard keyword
	if set.Has("Collate") {
		t.Error("Collate set without a handling hint")
	}
}

func TestPageRanges(t *testing.T) {
	m := testmodel.New()
	jo := &psprint.JobOptions{
		PageRanges: []psprint.PageRange{{First: 1, Last: 3}, {First: 7}},
	}
	set := Resolve(m, nil, jo)
	if v := value(t, set, "page-ranges"); v != "1-3,7" {
		t.Errorf("page-ranges = %q", v)
	}

	set = Resolve(m, nil, &psprint.JobOptions{})
	if set.Has("page-ranges") {
		t.Error("page-ranges set for an all-pages job")
	}
}

func TestOrientation(t *testing.T) {
	m := testmodel.New()

	set := Resolve(m, nil, &psprint.JobOptions{Orientation: psprint.OrientLandscape})
	if v := value(t, set, "orientation-requested"); v != "4" {
		t.Errorf("orientation-requested = %q", v)
	}

	set = Resolve(m, nil, &psprint.JobOptions{})
	if set.Has("orientation-requested") {
		t.Error("orientation-requested set without a request")
	}
}

func TestEndToEnd(t *testing.T) {
	m := testmodel.New()
	jo := &psprint.JobOptions{
		ColorMode: psprint.ModeMonochrome,
		Quality:   psprint.QualityDraft,
		Media: psprint.MediaRequest{
			SizeName: "A4",
			Source:   "tray-1",
		},
		Duplex: psprint.DuplexLongEdge,
	}
	set := Resolve(m, accessory.Config{}, jo)

	want := map[string]string{
		"PageSize":   "A4",
		"InputSlot":  "Tray1",
		"Resolution": "150x150dpi",
		"ColorModel": "Gray",
		"Duplex":     "DuplexNoTumble",
	}
	got := make(map[string]string)
	for _, s := range set.All() {
		got[s.Keyword] = s.Value
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}

	// steps run in a fixed order, so the keyword order is stable
	keys := set.Keys()
	pos := make(map[string]int)
	for i, k := range keys {
		pos[k] = i
	}
	if pos["PageSize"] > pos["Resolution"] {
		t.Errorf("unexpected key order: %v", keys)
	}
	if d := cmp.Diff(keys, Resolve(m, accessory.Config{}, jo).Keys()); d != "" {
		t.Errorf("resolution is not deterministic:\n%s", d)
	}
}
