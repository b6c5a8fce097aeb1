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

// Package modelfile reads and writes capability models as YAML files.
//
// This is the serialization of the already-parsed model used by the
// driver registry and the command line tool.  It is not a parser for
// vendor printer description files.
package modelfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/psprint"
)

type fileChoice struct {
	Value string `yaml:"value"`
	Text  string `yaml:"text,omitempty"`
	Code  string `yaml:"code,omitempty"`
}

type fileOption struct {
	Keyword string       `yaml:"keyword"`
	Label   string       `yaml:"label,omitempty"`
	UI      string       `yaml:"ui,omitempty"` // "pickone" or "boolean"
	Default string       `yaml:"default,omitempty"`
	Query   string       `yaml:"query,omitempty"`
	Choices []fileChoice `yaml:"choices"`
}

type fileGroup struct {
	Name    string       `yaml:"name"`
	Label   string       `yaml:"label,omitempty"`
	Options []fileOption `yaml:"options"`
}

type fileConstraint struct {
	Option1 string `yaml:"option1"`
	Choice1 string `yaml:"choice1,omitempty"`
	Option2 string `yaml:"option2"`
	Choice2 string `yaml:"choice2,omitempty"`
}

type fileSize struct {
	Name    string    `yaml:"name"`
	Width   float64   `yaml:"width"`
	Height  float64   `yaml:"height"`
	Margins []float64 `yaml:"margins,omitempty"` // left, bottom, right, top
}

type fileSetting struct {
	Option string `yaml:"option"`
	Choice string `yaml:"choice"`
}

type filePreset struct {
	Color    string        `yaml:"color"`   // "color" or "monochrome"
	Quality  string        `yaml:"quality"` // "draft", "normal" or "high"
	Settings []fileSetting `yaml:"settings"`
}

type fileModel struct {
	Name              string                 `yaml:"name"`
	NickName          string                 `yaml:"nickname,omitempty"`
	LanguageLevel     int                    `yaml:"language_level,omitempty"`
	ColorDevice       bool                   `yaml:"color_device,omitempty"`
	Groups            []fileGroup            `yaml:"groups"`
	Constraints       []fileConstraint       `yaml:"constraints,omitempty"`
	Sizes             []fileSize             `yaml:"sizes,omitempty"`
	DefaultResolution string                 `yaml:"default_resolution,omitempty"`
	Finishings        map[string]fileSetting `yaml:"finishings,omitempty"`
	Sources           map[string]string      `yaml:"sources,omitempty"`
	Types             map[string]string      `yaml:"types,omitempty"`
	Bins              map[string]string      `yaml:"bins,omitempty"`
	Scaling           map[string]fileSetting `yaml:"scaling,omitempty"`
	Patch             string                 `yaml:"patch,omitempty"`
	EndJob            string                 `yaml:"end_job,omitempty"`
	Presets           []filePreset           `yaml:"presets,omitempty"`
}

var finishingNames = map[string]psprint.Finishing{
	"punch":  psprint.FinishPunch,
	"staple": psprint.FinishStaple,
	"trim":   psprint.FinishTrim,
}

var colorNames = map[string]psprint.ColorMode{
	"color":      psprint.ModeColor,
	"monochrome": psprint.ModeMonochrome,
}

var qualityNames = map[string]psprint.Quality{
	"draft":  psprint.QualityDraft,
	"normal": psprint.QualityNormal,
	"high":   psprint.QualityHigh,
}

// Read parses a model from YAML data.
func Read(r io.Reader) (*psprint.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var f fileModel
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Name == "" {
		return nil, errors.New("modelfile: missing model name")
	}

	m := &psprint.Model{
		Name:              f.Name,
		NickName:          f.NickName,
		LanguageLevel:     max(f.LanguageLevel, 1),
		ColorDevice:       f.ColorDevice,
		DefaultResolution: f.DefaultResolution,
		SourceMap:         f.Sources,
		TypeMap:           f.Types,
		BinMap:            f.Bins,
		PatchScript:       f.Patch,
		EndJobScript:      f.EndJob,
	}

	for _, g := range f.Groups {
		group := &psprint.Group{Name: g.Name, Label: g.Label}
		for _, o := range g.Options {
			opt := &psprint.Option{
				Keyword:     o.Keyword,
				Label:       o.Label,
				Default:     o.Default,
				QueryScript: o.Query,
			}
			if strings.EqualFold(o.UI, "boolean") {
				opt.UI = psprint.Boolean
			}
			for _, c := range o.Choices {
				opt.Choices = append(opt.Choices, &psprint.Choice{
					Value: c.Value,
					Text:  c.Text,
					Code:  c.Code,
				})
			}
			group.Options = append(group.Options, opt)
		}
		m.Groups = append(m.Groups, group)
	}

	for _, c := range f.Constraints {
		m.Constraints = append(m.Constraints, psprint.Constraint(c))
	}

	for _, s := range f.Sizes {
		size := psprint.MediaSize{Name: s.Name, Width: s.Width, Height: s.Height}
		if len(s.Margins) == 4 {
			copy(size.Margins[:], s.Margins)
		} else if len(s.Margins) != 0 {
			return nil, fmt.Errorf("modelfile: size %s: need 4 margins, got %d",
				s.Name, len(s.Margins))
		}
		m.Sizes = append(m.Sizes, size)
	}

	if len(f.Finishings) > 0 {
		m.FinishingMap = make(map[psprint.Finishing]psprint.Setting)
		for name, s := range f.Finishings {
			fin, ok := finishingNames[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("modelfile: unknown finishing %q", name)
			}
			m.FinishingMap[fin] = psprint.Setting{Keyword: s.Option, Value: s.Choice}
		}
	}

	if len(f.Scaling) > 0 {
		m.ScalingMap = make(map[string]psprint.Setting)
		for name, s := range f.Scaling {
			m.ScalingMap[name] = psprint.Setting{Keyword: s.Option, Value: s.Choice}
		}
	}

	for _, p := range f.Presets {
		cm, ok := colorNames[strings.ToLower(p.Color)]
		if !ok {
			return nil, fmt.Errorf("modelfile: unknown color mode %q", p.Color)
		}
		q, ok := qualityNames[strings.ToLower(p.Quality)]
		if !ok {
			return nil, fmt.Errorf("modelfile: unknown quality %q", p.Quality)
		}
		for _, s := range p.Settings {
			m.Presets[cm][q] = append(m.Presets[cm][q],
				psprint.Setting{Keyword: s.Option, Value: s.Choice})
		}
	}

	m.MarkDefaults()
	return m, nil
}

// Load reads a model from the named file.
func Load(path string) (*psprint.Model, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return Read(fd)
}

// Write serializes a model as YAML.
func Write(w io.Writer, m *psprint.Model) error {
	f := fileModel{
		Name:              m.Name,
		NickName:          m.NickName,
		LanguageLevel:     m.LanguageLevel,
		ColorDevice:       m.ColorDevice,
		DefaultResolution: m.DefaultResolution,
		Sources:           m.SourceMap,
		Types:             m.TypeMap,
		Bins:              m.BinMap,
		Patch:             m.PatchScript,
		EndJob:            m.EndJobScript,
	}

	for _, g := range m.Groups {
		group := fileGroup{Name: g.Name, Label: g.Label}
		for _, o := range g.Options {
			opt := fileOption{
				Keyword: o.Keyword,
				Label:   o.Label,
				Default: o.Default,
				Query:   o.QueryScript,
			}
			if o.UI == psprint.Boolean {
				opt.UI = "boolean"
			}
			for _, c := range o.Choices {
				opt.Choices = append(opt.Choices, fileChoice{
					Value: c.Value,
					Text:  c.Text,
					Code:  c.Code,
				})
			}
			group.Options = append(group.Options, opt)
		}
		f.Groups = append(f.Groups, group)
	}

	for _, c := range m.Constraints {
		f.Constraints = append(f.Constraints, fileConstraint(c))
	}

	for _, s := range m.Sizes {
		f.Sizes = append(f.Sizes, fileSize{
			Name:    s.Name,
			Width:   s.Width,
			Height:  s.Height,
			Margins: []float64{s.Margins[0], s.Margins[1], s.Margins[2], s.Margins[3]},
		})
	}

	if len(m.FinishingMap) > 0 {
		f.Finishings = make(map[string]fileSetting)
		for name, fin := range finishingNames {
			if s, ok := m.FinishingMap[fin]; ok {
				f.Finishings[name] = fileSetting{Option: s.Keyword, Choice: s.Value}
			}
		}
	}

	if len(m.ScalingMap) > 0 {
		f.Scaling = make(map[string]fileSetting)
		for name, s := range m.ScalingMap {
			f.Scaling[name] = fileSetting{Option: s.Keyword, Choice: s.Value}
		}
	}

	for _, cName := range []string{"color", "monochrome"} {
		for _, qName := range []string{"draft", "normal", "high"} {
			cm, q := colorNames[cName], qualityNames[qName]
			settings := m.Presets[cm][q]
			if len(settings) == 0 {
				continue
			}
			p := filePreset{Color: cName, Quality: qName}
			for _, s := range settings {
				p.Settings = append(p.Settings, fileSetting{Option: s.Keyword, Choice: s.Value})
			}
			f.Presets = append(f.Presets, p)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes a model to the named file.  The file is replaced
// atomically.
func Save(path string, m *psprint.Model) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".psprint-model-*.yaml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpName)
	}()

	if err := Write(tmp, m); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Loader loads models from a directory of YAML files, one file per
// model identifier.  It implements [psprint.Loader].
type Loader struct {
	Dir string
}

// LoadModel implements [psprint.Loader].
func (l *Loader) LoadModel(id string) (*psprint.Model, error) {
	if strings.ContainsAny(id, `/\`) || id == "" || strings.HasPrefix(id, ".") {
		return nil, fmt.Errorf("modelfile: invalid model identifier %q", id)
	}
	return Load(filepath.Join(l.Dir, id+".yaml"))
}
