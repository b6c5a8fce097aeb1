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

import (
	"math"
	"strings"
	"sync"
)

// UIKind describes how an option is presented to the user.
type UIKind int

const (
	// PickOne options select exactly one of several choices.
	PickOne UIKind = iota

	// Boolean options have exactly two choices, "True" and "False".
	Boolean
)

// InstallableGroup is the name of the option group which holds the
// installable hardware accessories of a printer.
const InstallableGroup = "InstallableOptions"

// Choice is one selectable value of an [Option].
type Choice struct {
	// Value is the machine-readable choice name.
	Value string

	// Text is the human-readable display text.
	Text string

	// Code is the PostScript invocation code for this choice.  The code
	// is passed through to the printer verbatim; it is never interpreted
	// by this module.
	Code string

	// Marked indicates that this choice is currently selected.
	Marked bool
}

// Option is one selectable setting of a printer.
//
// An option with fewer than two choices is present in the model for
// completeness but is never surfaced to callers.
type Option struct {
	// Keyword is the machine-readable option name, e.g. "PageSize".
	Keyword string

	// Label is the human-readable option name.
	Label string

	// UI describes how the option is presented.
	UI UIKind

	// Choices lists the allowed values, in model order.
	Choices []*Choice

	// Default is the value of the factory default choice.
	Default string

	// QueryScript is an optional PostScript snippet which makes the
	// printer report the option's current setting.  Opaque data, sent
	// to the device verbatim by the query package.
	QueryScript string
}

// FindChoice returns the choice with the given value, or nil.
// The comparison ignores case.
func (o *Option) FindChoice(value string) *Choice {
	for _, c := range o.Choices {
		if strings.EqualFold(c.Value, value) {
			return c
		}
	}
	return nil
}

// MarkedChoice returns the currently marked choice.  If no choice is
// marked, the default choice is returned instead, and nil if there is no
// default either.
func (o *Option) MarkedChoice() *Choice {
	for _, c := range o.Choices {
		if c.Marked {
			return c
		}
	}
	if o.Default != "" {
		return o.FindChoice(o.Default)
	}
	return nil
}

// IsBooleanPair reports whether the option is a two-choice true/false
// toggle.
func (o *Option) IsBooleanPair() bool {
	if o.UI == Boolean {
		return true
	}
	if len(o.Choices) != 2 {
		return false
	}
	a, b := o.Choices[0].Value, o.Choices[1].Value
	return (strings.EqualFold(a, "True") && strings.EqualFold(b, "False")) ||
		(strings.EqualFold(a, "False") && strings.EqualFold(b, "True"))
}

// Group is a named, ordered collection of options.
type Group struct {
	Name    string
	Label   string
	Options []*Option
}

// Constraint records that two option settings cannot be active at the
// same time.  An empty choice value matches every choice of the
// corresponding option.
type Constraint struct {
	Option1, Choice1 string
	Option2, Choice2 string
}

// Setting is a single option/choice pair.
type Setting struct {
	Keyword string
	Value   string
}

// ColorMode selects the color reproduction of a job.
type ColorMode int

const (
	ModeColor ColorMode = iota
	ModeMonochrome
)

// Quality selects the print quality tier of a job.
type Quality int

const (
	QualityDraft Quality = iota
	QualityNormal
	QualityHigh
)

// Finishing identifies one finishing process applied to the output.
type Finishing int

const (
	FinishPunch Finishing = iota
	FinishStaple
	FinishTrim
)

// MediaSize describes one supported page size.  All dimensions are in
// PostScript points.
type MediaSize struct {
	// Name is the machine-readable size name, e.g. "A4".
	Name string

	// Width and Height are the full media dimensions.
	Width, Height float64

	// Margins holds the unprintable borders in the order left, bottom,
	// right, top.
	Margins [4]float64
}

// ConfigView gives read access to the operator's accessory
// configuration.  It is implemented by accessory.Config.
type ConfigView interface {
	// InstalledChoice returns the configured choice for an installable
	// option, if one has been set.
	InstalledChoice(keyword string) (string, bool)
}

// Model is the parsed capability description of one printer model.
//
// A Model is read-only after loading; the only mutating operations are
// [Model.MarkDefaults] and marking of individual choices, which callers
// must serialize themselves.
type Model struct {
	// Name is the model identifier the model was loaded under.
	Name string

	// NickName is the human-readable model name.
	NickName string

	// LanguageLevel is the PostScript language level of the device,
	// at least 1.
	LanguageLevel int

	// ColorDevice indicates a device with color output.
	ColorDevice bool

	// Groups holds the option groups in model order.
	Groups []*Group

	// Constraints lists the pairs of settings which cannot coexist.
	Constraints []Constraint

	// Presets maps a (color mode, quality tier) pair to a list of
	// option overrides.
	Presets [2][3][]Setting

	// Sizes lists the supported page sizes.
	Sizes []MediaSize

	// DefaultResolution is the declared device default, e.g. "600dpi".
	DefaultResolution string

	// FinishingMap maps an abstract finishing process to the model's
	// option/choice vocabulary.
	FinishingMap map[Finishing]Setting

	// SourceMap maps abstract media source names to InputSlot choices.
	SourceMap map[string]string

	// TypeMap maps abstract media type names to MediaType choices.
	TypeMap map[string]string

	// BinMap maps abstract output bin names to OutputBin choices.
	BinMap map[string]string

	// ScalingMap maps abstract scaling flags to option/choice pairs.
	ScalingMap map[string]Setting

	// PatchScript is an optional PostScript snippet emitted in the
	// document prolog.  Opaque data.
	PatchScript string

	// EndJobScript is an optional PostScript snippet emitted after the
	// document trailer.  Opaque data.
	EndJobScript string

	indexOnce sync.Once
	index     map[string][]*Constraint
}

// FindOption returns the option with the given keyword, or nil.
// The comparison ignores case.
func (m *Model) FindOption(keyword string) *Option {
	for _, g := range m.Groups {
		for _, o := range g.Options {
			if strings.EqualFold(o.Keyword, keyword) {
				return o
			}
		}
	}
	return nil
}

// FindGroup returns the group with the given name, or nil.
func (m *Model) FindGroup(name string) *Group {
	for _, g := range m.Groups {
		if strings.EqualFold(g.Name, name) {
			return g
		}
	}
	return nil
}

// IsInstallable reports whether the keyword names an option in the
// installable accessories group.
func (m *Model) IsInstallable(keyword string) bool {
	g := m.FindGroup(InstallableGroup)
	if g == nil {
		return false
	}
	for _, o := range g.Options {
		if strings.EqualFold(o.Keyword, keyword) {
			return true
		}
	}
	return false
}

// MarkDefaults marks the default choice of every option and clears all
// other marks.
func (m *Model) MarkDefaults() {
	for _, g := range m.Groups {
		for _, o := range g.Options {
			for _, c := range o.Choices {
				c.Marked = o.Default != "" && strings.EqualFold(c.Value, o.Default)
			}
		}
	}
}

// constraintsFor returns all constraints mentioning the given option,
// using a lazily built index.
func (m *Model) constraintsFor(keyword string) []*Constraint {
	m.indexOnce.Do(func() {
		m.index = make(map[string][]*Constraint)
		for i := range m.Constraints {
			c := &m.Constraints[i]
			k1 := strings.ToLower(c.Option1)
			k2 := strings.ToLower(c.Option2)
			m.index[k1] = append(m.index[k1], c)
			if k2 != k1 {
				m.index[k2] = append(m.index[k2], c)
			}
		}
	})
	return m.index[strings.ToLower(keyword)]
}

// installedValue returns the effective choice of an installable option
// under the given accessory configuration: the configured value if one
// is present, the model default otherwise.
func (m *Model) installedValue(keyword string, cfg ConfigView) string {
	if cfg != nil {
		if v, ok := cfg.InstalledChoice(keyword); ok {
			return v
		}
	}
	if o := m.FindOption(keyword); o != nil {
		return o.Default
	}
	return ""
}

// Conflicts reports whether selecting the given option/choice pair
// would violate a constraint against an installable accessory option,
// evaluated as if the accessory configuration cfg were applied.
//
// Constraints between two non-installable options are not considered
// here; they only matter when both sides are actually selected.
func (m *Model) Conflicts(keyword, value string, cfg ConfigView) bool {
	for _, c := range m.constraintsFor(keyword) {
		var otherOpt, otherChoice string
		switch {
		case strings.EqualFold(c.Option1, keyword) &&
			(c.Choice1 == "" || strings.EqualFold(c.Choice1, value)):
			otherOpt, otherChoice = c.Option2, c.Choice2
		case strings.EqualFold(c.Option2, keyword) &&
			(c.Choice2 == "" || strings.EqualFold(c.Choice2, value)):
			otherOpt, otherChoice = c.Option1, c.Choice1
		default:
			continue
		}

		if !m.IsInstallable(otherOpt) {
			continue
		}
		installed := m.installedValue(otherOpt, cfg)
		if installed == "" {
			continue
		}
		if otherChoice == "" || strings.EqualFold(installed, otherChoice) {
			return true
		}
	}
	return false
}

// MatchSize resolves an abstract media request against the model's size
// list.  Matching tries the size name first, then exact dimensions
// (within half a point), then the nearest size by dimension distance.
// The second return value is false if the model declares no sizes.
func (m *Model) MatchSize(name string, width, height float64) (MediaSize, bool) {
	if len(m.Sizes) == 0 {
		return MediaSize{}, false
	}

	if name != "" {
		for _, s := range m.Sizes {
			if strings.EqualFold(s.Name, name) {
				return s, true
			}
		}
	}

	if width > 0 && height > 0 {
		for _, s := range m.Sizes {
			if math.Abs(s.Width-width) <= 0.5 && math.Abs(s.Height-height) <= 0.5 {
				return s, true
			}
		}

		best := 0
		bestDist := math.Inf(1)
		for i, s := range m.Sizes {
			d := math.Hypot(s.Width-width, s.Height-height)
			if d < bestDist {
				best, bestDist = i, d
			}
		}
		return m.Sizes[best], true
	}

	return MediaSize{}, false
}
