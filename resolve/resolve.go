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

// Package resolve maps a job options record into the concrete
// option/choice vocabulary of one capability model.
//
// Resolution is an ordered pipeline of steps.  Each step only adds
// options which earlier steps left unset; an already-set keyword is
// never overwritten.  Resolution never fails: a request with no mapping
// in the model is dropped silently and the model's own default marking
// governs.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/psprint"
)

// Step is one stage of the resolution pipeline.  Steps are pure
// functions of the model, the accessory configuration view, the job
// options and the accumulated option set.
type Step func(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings)

// pipeline lists the steps in their fixed precedence order.  Presets
// run before the resolution and grayscale steps, so a preset-defined
// value wins over a later "only if unset" fallback.
var pipeline = []Step{
	pageRanges,
	finishings,
	media,
	orientation,
	outputBin,
	presets,
	forcedGrayscale,
	scaling,
	resolution,
	duplex,
	vendorDefaults,
	collation,
}

// Resolve maps the job options to a concrete option set for the model.
// cfg is the accessory configuration in effect; it may be nil if no
// accessories are configured.
func Resolve(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions) *psprint.Settings {
	set := psprint.NewSettings()
	for _, step := range pipeline {
		step(m, cfg, jo, set)
	}
	return set
}

func pageRanges(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	if jo.AllPages() {
		return
	}
	var parts []string
	for _, r := range jo.PageRanges {
		if r.Last > 0 && r.Last != r.First {
			parts = append(parts, fmt.Sprintf("%d-%d", r.First, r.Last))
		} else {
			parts = append(parts, strconv.Itoa(r.First))
		}
	}
	set.Add("page-ranges", strings.Join(parts, ","))
}

func finishings(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	for _, f := range jo.Finishings {
		s, ok := m.FinishingMap[f]
		if !ok {
			continue
		}
		opt := m.FindOption(s.Keyword)
		if opt == nil || opt.FindChoice(s.Value) == nil {
			continue
		}
		set.Add(s.Keyword, s.Value)
	}
}

func media(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	if sz, ok := m.MatchSize(jo.Media.SizeName, jo.Media.Width, jo.Media.Height); ok {
		set.Add("PageSize", sz.Name)
	}
	if jo.Media.Source != "" {
		if v, ok := lookupFold(m.SourceMap, jo.Media.Source); ok {
			set.Add("InputSlot", v)
		}
	}
	if jo.Media.Type != "" {
		if v, ok := lookupFold(m.TypeMap, jo.Media.Type); ok {
			set.Add("MediaType", v)
		}
	}
}

func orientation(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	if jo.Orientation < psprint.OrientPortrait || jo.Orientation > psprint.OrientReversePortrait {
		return
	}
	set.Add("orientation-requested", strconv.Itoa(int(jo.Orientation)))
}

func outputBin(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	if jo.OutputBin == "" {
		return
	}
	if v, ok := lookupFold(m.BinMap, jo.OutputBin); ok {
		set.Add("OutputBin", v)
		return
	}
	// unknown bin name: fall back to the currently marked default
	if opt := m.FindOption("OutputBin"); opt != nil {
		if mc := opt.MarkedChoice(); mc != nil {
			set.Add("OutputBin", mc.Value)
		}
	}
}

func presets(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	for _, s := range m.Presets[jo.ColorMode][jo.Quality] {
		set.Add(s.Keyword, s.Value)
	}
}

// grayOptions lists the vendor mechanisms which force grayscale output,
// in fixed priority order.  The first option present in the model with
// one of the listed choices wins.
var grayOptions = []struct {
	keyword string
	choices []string
}{
	{"ColorModel", []string{"Gray", "Grayscale", "Mono", "Monochrome", "KGray"}},
	{"HPColorMode", []string{"GrayscalePrint", "grayscale"}},
	{"BRMonoColor", []string{"Mono", "Black"}},
	{"CNIJSGrayScale", []string{"1"}},
	{"HPColorAsGray", []string{"True"}},
}

func forcedGrayscale(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	if jo.ColorMode != psprint.ModeMonochrome {
		return
	}

search:
	for _, cand := range grayOptions {
		opt := m.FindOption(cand.keyword)
		if opt == nil {
			continue
		}
		for _, val := range cand.choices {
			if c := opt.FindChoice(val); c != nil {
				set.Add(opt.Keyword, c.Value)
				break search
			}
		}
	}

	// generic hint for downstream converters
	set.Add("ColorModel", "Gray")
}

func scaling(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	for _, flag := range jo.Scaling {
		if s, ok := lookupFoldSetting(m.ScalingMap, flag); ok {
			set.Add(s.Keyword, s.Value)
		}
	}
}

func resolution(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	if set.Has("Resolution") {
		return
	}

	if jo.Resolution > 0 {
		opt := m.FindOption("Resolution")
		if opt == nil {
			return
		}
		want := fmt.Sprintf("%ddpi", jo.Resolution)
		wantXY := fmt.Sprintf("%dx%ddpi", jo.Resolution, jo.Resolution)
		for _, c := range opt.Choices {
			if strings.EqualFold(c.Value, want) || strings.EqualFold(c.Value, wantXY) {
				set.Add("Resolution", c.Value)
				return
			}
		}
		// no matching choice: the request is dropped
		return
	}

	if m.DefaultResolution != "" {
		set.Add("Resolution", m.DefaultResolution)
	}
}

// duplexChoices maps the abstract duplex modes to the choice names used
// by PostScript printer descriptions, in lookup order.
var duplexChoices = map[psprint.Duplex][]string{
	psprint.DuplexNone:      {"None", "Off", "Simplex"},
	psprint.DuplexLongEdge:  {"DuplexNoTumble", "LongEdge"},
	psprint.DuplexShortEdge: {"DuplexTumble", "ShortEdge"},
}

func duplex(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	opt := m.SidesOption()
	if opt == nil {
		return
	}
	for _, val := range duplexChoices[jo.Duplex] {
		if c := opt.FindChoice(val); c != nil {
			set.Add(opt.Keyword, c.Value)
			return
		}
	}
}

func vendorDefaults(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	std := m.StandardKeywords()

	for _, g := range m.Groups {
		if strings.EqualFold(g.Name, psprint.InstallableGroup) {
			continue
		}
		for _, o := range g.Options {
			if len(o.Choices) < 2 || std[strings.ToLower(o.Keyword)] {
				continue
			}
			if set.Has(o.Keyword) {
				continue
			}

			val := ""
			if jo.Extra != nil {
				if v, ok := lookupFold(jo.Extra, o.Keyword); ok {
					val = v
				}
			}
			if val == "" {
				if mc := o.MarkedChoice(); mc != nil {
					val = mc.Value
				}
			}
			if val == "" {
				continue
			}

			c := o.FindChoice(val)
			if c == nil {
				continue
			}
			if m.Conflicts(o.Keyword, c.Value, cfg) {
				continue
			}
			set.Add(o.Keyword, c.Value)
		}
	}
}

func collation(m *psprint.Model, cfg psprint.ConfigView, jo *psprint.JobOptions, set *psprint.Settings) {
	hint := strings.ToLower(jo.MultipleDocumentHandling)
	if hint == "" || m.FindOption("Collate") == nil {
		return
	}
	if strings.Contains(hint, "uncollated") {
		set.Add("Collate", "False")
	} else if strings.Contains(hint, "collated") {
		set.Add("Collate", "True")
	}
}

func lookupFold(m map[string]string, key string) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func lookupFoldSetting(m map[string]psprint.Setting, key string) (psprint.Setting, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return psprint.Setting{}, false
}
