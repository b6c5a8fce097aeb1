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

package psprint_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/psprint"
	"seehuhn.de/go/psprint/internal/debug/testmodel"
)

// cfgMap is a minimal psprint.ConfigView for tests.
type cfgMap map[string]string

func (c cfgMap) InstalledChoice(keyword string) (string, bool) {
	v, ok := c[keyword]
	return v, ok
}

func TestFindChoice(t *testing.T) {
	m := testmodel.New()
	opt := m.FindOption("pagesize")
	if opt == nil {
		t.Fatal("PageSize not found")
	}
	if c := opt.FindChoice("a4"); c == nil || c.Value != "A4" {
		t.Errorf("FindChoice(a4) = %v", c)
	}
	if c := opt.FindChoice("Tabloid"); c != nil {
		t.Errorf("FindChoice(Tabloid) = %v, want nil", c)
	}
}

func TestMarkDefaults(t *testing.T) {
	m := testmodel.New()
	opt := m.FindOption("Resolution")

	opt.Choices[0].Marked = true
	opt.Choices[2].Marked = false
	m.MarkDefaults()

	for _, c := range opt.Choices {
		want := c.Value == "600dpi"
		if c.Marked != want {
			t.Errorf("choice %s: Marked = %t, want %t", c.Value, c.Marked, want)
		}
	}
	if mc := opt.MarkedChoice(); mc == nil || mc.Value != "600dpi" {
		t.Errorf("MarkedChoice() = %v", mc)
	}
}

func TestMarkedChoiceFallback(t *testing.T) {
	opt := &psprint.Option{
		Keyword: "X",
		Default: "B",
		Choices: []*psprint.Choice{
			{Value: "A"},
			{Value: "B"},
		},
	}
	// no mark set: the default choice governs
	if mc := opt.MarkedChoice(); mc == nil || mc.Value != "B" {
		t.Errorf("MarkedChoice() = %v, want B", mc)
	}

	opt.Default = ""
	if mc := opt.MarkedChoice(); mc != nil {
		t.Errorf("MarkedChoice() = %v, want nil", mc)
	}
}

func TestIsBooleanPair(t *testing.T) {
	m := testmodel.New()
	cases := []struct {
		keyword string
		want    bool
	}{
		{"Collate", true},
		{"FitToPage", true},
		{"OptionalTray2", true},
		{"PageSize", false},
		{"Duplex", false},
	}
	for _, c := range cases {
		opt := m.FindOption(c.keyword)
		if opt == nil {
			t.Fatalf("%s not found", c.keyword)
		}
		if got := opt.IsBooleanPair(); got != c.want {
			t.Errorf("%s: IsBooleanPair() = %t, want %t", c.keyword, got, c.want)
		}
	}
}

func TestIsInstallable(t *testing.T) {
	m := testmodel.New()
	if !m.IsInstallable("OptionalDuplexer") {
		t.Error("OptionalDuplexer not recognized as installable")
	}
	if m.IsInstallable("Duplex") {
		t.Error("Duplex wrongly recognized as installable")
	}
}

func TestConflicts(t *testing.T) {
	m := testmodel.New()

	type testCase struct {
		keyword string
		value   string
		cfg     cfgMap
		want    bool
	}
	cases := []testCase{
		// Tray2 is absent by default
		{"InputSlot", "Tray2", nil, true},
		{"InputSlot", "Tray2", cfgMap{"OptionalTray2": "True"}, false},
		{"InputSlot", "Tray1", nil, false},

		// the envelope feeder is present by default
		{"InputSlot", "Envelope", nil, false},
		{"InputSlot", "Envelope", cfgMap{"OptionalEnvelopeFeeder": "False"}, true},

		// constraint with an empty choice matches every choice
		{"Smoothing", "True", cfgMap{"OptionalRIP": "False"}, true},
		{"Smoothing", "False", cfgMap{"OptionalRIP": "False"}, true},
		{"Smoothing", "True", nil, false},

		// installing an accessory can exclude a choice, too
		{"Resolution", "600dpi", cfgMap{"OptionalEco": "True"}, true},
		{"Resolution", "300dpi", cfgMap{"OptionalEco": "True"}, false},
	}
	for _, c := range cases {
		got := m.Conflicts(c.keyword, c.value, c.cfg)
		if got != c.want {
			t.Errorf("Conflicts(%s, %s, %v) = %t, want %t",
				c.keyword, c.value, c.cfg, got, c.want)
		}
	}
}

func TestMatchSize(t *testing.T) {
	m := testmodel.New()

	// by name, ignoring case
	sz, ok := m.MatchSize("a4", 0, 0)
	if !ok || sz.Name != "A4" {
		t.Errorf("MatchSize(a4) = %v, %t", sz, ok)
	}

	// exact dimensions within half a point
	sz, ok = m.MatchSize("", 612.4, 791.8)
	if !ok || sz.Name != "Letter" {
		t.Errorf("MatchSize(612.4x791.8) = %v, %t", sz, ok)
	}

	// nearest size
	sz, ok = m.MatchSize("", 600, 1000)
	if !ok || sz.Name != "Legal" {
		t.Errorf("MatchSize(600x1000) = %v, %t", sz, ok)
	}

	// unknown name without dimensions
	_, ok = m.MatchSize("Tabloid", 0, 0)
	if ok {
		t.Error("MatchSize(Tabloid) unexpectedly succeeded")
	}

	// a model without sizes never matches
	empty := &psprint.Model{Name: "empty"}
	_, ok = empty.MatchSize("A4", 595, 842)
	if ok {
		t.Error("MatchSize on empty model unexpectedly succeeded")
	}
}

func TestSettings(t *testing.T) {
	set := psprint.NewSettings()
	if !set.Add("PageSize", "A4") {
		t.Error("first Add failed")
	}
	if set.Add("PageSize", "Letter") {
		t.Error("second Add overwrote an existing keyword")
	}
	set.Add("Resolution", "600dpi")

	if v, _ := set.Get("PageSize"); v != "A4" {
		t.Errorf("Get(PageSize) = %q", v)
	}
	if !set.Has("Resolution") || set.Has("Duplex") {
		t.Error("Has gave wrong answers")
	}
	if d := cmp.Diff([]string{"PageSize", "Resolution"}, set.Keys()); d != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", d)
	}
	want := []psprint.Setting{
		{Keyword: "PageSize", Value: "A4"},
		{Keyword: "Resolution", Value: "600dpi"},
	}
	if d := cmp.Diff(want, set.All()); d != "" {
		t.Errorf("All mismatch (-want +got):\n%s", d)
	}
}

func TestRegistry(t *testing.T) {
	calls := 0
	loader := psprint.LoaderFunc(func(id string) (*psprint.Model, error) {
		calls++
		m := testmodel.New()
		m.Name = id
		return m, nil
	})

	reg := psprint.NewRegistry()
	reg.Register("acme-laser-1000", loader)

	m1, err := reg.Load("acme-laser-1000")
	if err != nil {
		t.Fatal(err)
	}
	m2, err := reg.Load("acme-laser-1000")
	if err != nil {
		t.Fatal(err)
	}
	if m1 != m2 {
		t.Error("second Load did not use the cache")
	}
	if calls != 1 {
		t.Errorf("loader ran %d times, want 1", calls)
	}

	_, err = reg.Load("no-such-model")
	var modelErr *psprint.ModelError
	if !errors.As(err, &modelErr) || !errors.Is(err, psprint.ErrUnknownModel) {
		t.Errorf("Load(no-such-model) = %v", err)
	}

	reg.SetFallback(loader)
	m3, err := reg.Load("other-model")
	if err != nil {
		t.Fatal(err)
	}
	if m3.Name != "other-model" {
		t.Errorf("fallback loaded %q", m3.Name)
	}
}

func TestRegistryLoaderError(t *testing.T) {
	broken := errors.New("broken loader")
	reg := psprint.NewRegistry()
	reg.Register("x", psprint.LoaderFunc(func(id string) (*psprint.Model, error) {
		return nil, broken
	}))
	_, err := reg.Load("x")
	if !errors.Is(err, broken) {
		t.Errorf("Load(x) = %v, want wrapped %v", err, broken)
	}
	var modelErr *psprint.ModelError
	if !errors.As(err, &modelErr) || modelErr.Name != "x" {
		t.Errorf("Load(x) = %v, want *ModelError for x", err)
	}
}

func TestSidesOption(t *testing.T) {
	m := testmodel.New()
	opt := m.SidesOption()
	if opt == nil || opt.Keyword != "Duplex" {
		t.Errorf("SidesOption() = %v", opt)
	}

	std := m.StandardKeywords()
	for _, kw := range []string{"pagesize", "inputslot", "duplex", "collate", "fittopage", "staplelocation"} {
		if !std[kw] {
			t.Errorf("standard keyword %s missing", kw)
		}
	}
	if std["smoothing"] {
		t.Error("Smoothing wrongly classified as standard")
	}
}
