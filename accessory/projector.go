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

package accessory

import (
	"strings"

	"seehuhn.de/go/psprint"
)

// VendorOption is one vendor-specific option on the exposed capability
// surface.
type VendorOption struct {
	Keyword string
	Label   string
	Choices []string
	Default string
}

// Projection is the capability surface of a printer as filtered by the
// current accessory configuration.
type Projection struct {
	Resolutions       []string
	DefaultResolution string

	Sources       []string
	DefaultSource string

	Types       []string
	DefaultType string

	Sizes       []string
	DefaultSize string

	Bins       []string
	DefaultBin string

	// Finishings lists the finishing processes which are available
	// under the current configuration.
	Finishings []psprint.Finishing

	// Vendor lists the exposed vendor-specific pick-one options.
	Vendor []VendorOption

	// Flags holds the exposed boolean options and their default
	// values.  A boolean option whose two choices are both excluded by
	// the accessory configuration is absent from the map.
	Flags map[string]bool

	// Ready holds the per-source media configurations.  The table is
	// shared between successive projections of one Projector.
	Ready *ReadyTable
}

// Projector applies accessory configurations to one capability model.
//
// Creating a Projector runs the initial, unfiltered projection which
// seeds all defaults from the model's own marked choices.  Each
// subsequent Update re-filters every capability list against the
// model's constraints, evaluated with the new configuration applied.
//
// Updates must not run concurrently with resolution passes using the
// same projector.
type Projector struct {
	model *psprint.Model
	cfg   Config
	ready *ReadyTable
	cur   *Projection
}

// NewProjector projects the given model with no accessory filtering.
func NewProjector(m *psprint.Model) *Projector {
	capacity := 1
	if o := m.FindOption("InputSlot"); o != nil && len(o.Choices) > capacity {
		capacity = len(o.Choices)
	}
	p := &Projector{
		model: m,
		cfg:   Config{},
		ready: newReadyTable(capacity),
	}
	p.cur = p.project(false)
	return p
}

// Config returns a copy of the current accessory configuration.
func (p *Projector) Config() Config {
	return p.cfg.Clone()
}

// Projection returns the current capability surface.
func (p *Projector) Projection() *Projection {
	return p.cur
}

// Update applies a changed accessory configuration and returns the
// re-filtered capability surface.
func (p *Projector) Update(cfg Config) *Projection {
	p.cfg = cfg.Clone()
	p.cur = p.project(true)
	return p.cur
}

func (p *Projector) project(filtered bool) *Projection {
	prev := p.cur
	prevDefault := func(f func(*Projection) string) string {
		if prev == nil {
			return ""
		}
		return f(prev)
	}

	proj := &Projection{
		Flags: make(map[string]bool),
		Ready: p.ready,
	}

	proj.Resolutions, proj.DefaultResolution = p.choiceList("Resolution",
		filtered, prevDefault(func(pr *Projection) string { return pr.DefaultResolution }))
	proj.Sources, proj.DefaultSource = p.choiceList("InputSlot",
		filtered, prevDefault(func(pr *Projection) string { return pr.DefaultSource }))
	proj.Types, proj.DefaultType = p.choiceList("MediaType",
		filtered, prevDefault(func(pr *Projection) string { return pr.DefaultType }))
	proj.Sizes, proj.DefaultSize = p.choiceList("PageSize",
		filtered, prevDefault(func(pr *Projection) string { return pr.DefaultSize }))
	proj.Bins, proj.DefaultBin = p.choiceList("OutputBin",
		filtered, prevDefault(func(pr *Projection) string { return pr.DefaultBin }))

	for _, f := range []psprint.Finishing{psprint.FinishPunch, psprint.FinishStaple, psprint.FinishTrim} {
		s, ok := p.model.FinishingMap[f]
		if !ok {
			continue
		}
		opt := p.model.FindOption(s.Keyword)
		if opt == nil || opt.FindChoice(s.Value) == nil {
			continue
		}
		if filtered && p.model.Conflicts(s.Keyword, s.Value, p.cfg) {
			continue
		}
		proj.Finishings = append(proj.Finishings, f)
	}

	p.projectVendor(proj, prev, filtered)

	p.ready.reproject(proj.Sources, func(string) MediaReady {
		m := MediaReady{
			SizeName: proj.DefaultSize,
			Type:     proj.DefaultType,
		}
		if sz, ok := p.model.MatchSize(proj.DefaultSize, 0, 0); ok {
			m.Width, m.Height, m.Margins = sz.Width, sz.Height, sz.Margins
		}
		return m
	})

	return proj
}

// choiceList filters the choices of one option and selects its default:
// the previously active default if it is still available, the model's
// marked choice otherwise, and the first remaining entry if neither
// survived the filter.
func (p *Projector) choiceList(keyword string, filtered bool, prevDefault string) ([]string, string) {
	opt := p.model.FindOption(keyword)
	if opt == nil || len(opt.Choices) < 2 {
		return nil, ""
	}

	var vals []string
	for _, c := range opt.Choices {
		if filtered && p.model.Conflicts(opt.Keyword, c.Value, p.cfg) {
			continue
		}
		vals = append(vals, c.Value)
	}
	if len(vals) == 0 {
		return nil, ""
	}

	def := prevDefault
	if def == "" {
		if mc := opt.MarkedChoice(); mc != nil {
			def = mc.Value
		}
	}
	if !containsFold(vals, def) {
		def = vals[0]
	}
	return vals, def
}

func (p *Projector) projectVendor(proj *Projection, prev *Projection, filtered bool) {
	std := p.model.StandardKeywords()

	for _, g := range p.model.Groups {
		if strings.EqualFold(g.Name, psprint.InstallableGroup) {
			continue
		}
		for _, o := range g.Options {
			if len(o.Choices) < 2 || std[strings.ToLower(o.Keyword)] {
				continue
			}

			var vals []string
			for _, c := range o.Choices {
				if filtered && p.model.Conflicts(o.Keyword, c.Value, p.cfg) {
					continue
				}
				vals = append(vals, c.Value)
			}

			if o.IsBooleanPair() {
				// a boolean control with no legal value is suppressed
				// entirely
				if len(vals) == 0 {
					continue
				}
				def := ""
				if prev != nil {
					if v, ok := prev.Flags[o.Keyword]; ok {
						def = "False"
						if v {
							def = "True"
						}
					}
				}
				if def == "" {
					if mc := o.MarkedChoice(); mc != nil {
						def = mc.Value
					}
				}
				if !containsFold(vals, def) {
					def = vals[0]
				}
				proj.Flags[o.Keyword] = strings.EqualFold(def, "True")
				continue
			}

			if len(vals) < 2 {
				continue
			}
			def := ""
			if prev != nil {
				for _, v := range prev.Vendor {
					if strings.EqualFold(v.Keyword, o.Keyword) {
						def = v.Default
						break
					}
				}
			}
			if def == "" {
				if mc := o.MarkedChoice(); mc != nil {
					def = mc.Value
				}
			}
			if !containsFold(vals, def) {
				def = vals[0]
			}
			proj.Vendor = append(proj.Vendor, VendorOption{
				Keyword: o.Keyword,
				Label:   o.Label,
				Choices: vals,
				Default: def,
			})
		}
	}
}

func containsFold(list []string, val string) bool {
	for _, v := range list {
		if strings.EqualFold(v, val) {
			return true
		}
	}
	return false
}
