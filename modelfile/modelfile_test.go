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

package modelfile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/psprint"
	"seehuhn.de/go/psprint/internal/debug/testmodel"
)

func TestRoundTrip(t *testing.T) {
	m1 := testmodel.New()

	buf := &bytes.Buffer{}
	if err := Write(buf, m1); err != nil {
		t.Fatal(err)
	}
	m2, err := Read(buf)
	if err != nil {
		t.Fatal(err)
	}

	opts := cmpopts.IgnoreUnexported(psprint.Model{})
	if d := cmp.Diff(m1, m2, opts); d != "" {
		t.Errorf("round trip changed the model (-orig +loaded):\n%s", d)
	}
}

func TestReadValidation(t *testing.T) {
	cases := []struct {
		desc string
		yaml string
	}{
		{"missing name", "groups: []\n"},
		{"bad margin count", `
name: x
sizes:
  - name: A4
    width: 595
    height: 842
    margins: [1, 2, 3]
`},
		{"unknown finishing", `
name: x
finishings:
  glue: {option: GlueSpot, choice: "On"}
`},
		{"unknown preset color", `
name: x
presets:
  - color: sepia
    quality: normal
    settings: []
`},
		{"unknown preset quality", `
name: x
presets:
  - color: color
    quality: best
    settings: []
`},
		{"not yaml", "{{{"},
	}
	for _, c := range cases {
		_, err := Read(strings.NewReader(c.yaml))
		if err == nil {
			t.Errorf("%s: Read succeeded", c.desc)
		}
	}
}

func TestReadDefaultsMarked(t *testing.T) {
	const src = `
name: x
language_level: 2
groups:
  - name: General
    options:
      - keyword: PageSize
        default: A4
        choices:
          - {value: Letter}
          - {value: A4}
`
	m, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	opt := m.FindOption("PageSize")
	if mc := opt.MarkedChoice(); mc == nil || mc.Value != "A4" {
		t.Errorf("MarkedChoice() = %v", mc)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.yaml")
	m1 := testmodel.New()

	if err := Save(path, m1); err != nil {
		t.Fatal(err)
	}
	m2, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m2.Name != m1.Name || len(m2.Groups) != len(m1.Groups) {
		t.Errorf("loaded model differs: %s, %d groups", m2.Name, len(m2.Groups))
	}
}

func TestWriteDeterministic(t *testing.T) {
	m := testmodel.New()

	b1 := &bytes.Buffer{}
	b2 := &bytes.Buffer{}
	if err := Write(b1, m); err != nil {
		t.Fatal(err)
	}
	if err := Write(b2, m); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1.Bytes(), b2.Bytes()) {
		t.Error("Write output is not deterministic")
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	if err := Save(filepath.Join(dir, "acme-laser-1000.yaml"), testmodel.New()); err != nil {
		t.Fatal(err)
	}

	l := &Loader{Dir: dir}
	m, err := l.LoadModel("acme-laser-1000")
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "acme-laser-1000" {
		t.Errorf("Name = %q", m.Name)
	}

	for _, id := range []string{"", "../acme-laser-1000", `..\acme`, ".hidden", "a/b"} {
		if _, err := l.LoadModel(id); err == nil {
			t.Errorf("LoadModel(%q) succeeded", id)
		}
	}
}
