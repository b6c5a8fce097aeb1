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

// Package testmodel provides a capability model for use in tests: a
// fictitious color laser printer with an optional second tray, envelope
// feeder, duplexer, extra output bin and hardware RIP.
package testmodel

import "seehuhn.de/go/psprint"

func option(keyword, label string, ui psprint.UIKind, def string, choices ...*psprint.Choice) *psprint.Option {
	return &psprint.Option{
		Keyword: keyword,
		Label:   label,
		UI:      ui,
		Choices: choices,
		Default: def,
	}
}

func choice(value, text string) *psprint.Choice {
	return &psprint.Choice{Value: value, Text: text}
}

func codedChoice(value, text, code string) *psprint.Choice {
	return &psprint.Choice{Value: value, Text: text, Code: code}
}

// New returns the test model.  Defaults are marked.
func New() *psprint.Model {
	general := &psprint.Group{
		Name:  "General",
		Label: "General",
		Options: []*psprint.Option{
			option("PageSize", "Page Size", psprint.PickOne, "Letter",
				codedChoice("Letter", "US Letter", "<< /PageSize [612 792] >> setpagedevice"),
				codedChoice("A4", "A4", "<< /PageSize [595 842] >> setpagedevice"),
				codedChoice("Legal", "US Legal", "<< /PageSize [612 1008] >> setpagedevice"),
			),
			option("InputSlot", "Media Source", psprint.PickOne, "Tray1",
				choice("Tray1", "Tray 1"),
				choice("Tray2", "Tray 2"),
				choice("Envelope", "Envelope Feeder"),
			),
			option("MediaType", "Media Type", psprint.PickOne, "Plain",
				choice("Plain", "Plain Paper"),
				choice("Letterhead", "Letterhead"),
			),
			option("OutputBin", "Output Bin", psprint.PickOne, "Standard",
				choice("Standard", "Standard Bin"),
				choice("LeftBin", "Left Bin"),
			),
			option("Resolution", "Resolution", psprint.PickOne, "600dpi",
				choice("150x150dpi", "150 DPI"),
				choice("300dpi", "300 DPI"),
				choice("600dpi", "600 DPI"),
				choice("1200x1200dpi", "1200 DPI"),
			),
			option("Duplex", "Two-Sided Printing", psprint.PickOne, "None",
				choice("None", "Off"),
				choice("DuplexNoTumble", "Long Edge"),
				choice("DuplexTumble", "Short Edge"),
			),
			option("ColorModel", "Color Mode", psprint.PickOne, "RGB",
				choice("RGB", "Color"),
				choice("Gray", "Grayscale"),
			),
			option("Collate", "Collate", psprint.Boolean, "False",
				choice("True", "Yes"),
				choice("False", "No"),
			),
			option("StapleLocation", "Staple", psprint.PickOne, "None",
				choice("None", "Off"),
				choice("SinglePortrait", "Single, Portrait"),
			),
			option("FitToPage", "Scale to Fit", psprint.Boolean, "False",
				choice("True", "Yes"),
				choice("False", "No"),
			),
			option("Smoothing", "Edge Smoothing", psprint.Boolean, "False",
				choice("True", "On"),
				choice("False", "Off"),
			),
		},
	}

	// query scripts for the poller tests
	general.Options[1].QueryScript = "currentpagedevice /InputAttributes get == flush" // InputSlot
	general.Options[4].QueryScript = "currentpagedevice /HWResolution get == flush"   // Resolution

	installable := &psprint.Group{
		Name:  psprint.InstallableGroup,
		Label: "Installed Options",
		Options: []*psprint.Option{
			option("OptionalTray2", "Tray 2", psprint.Boolean, "False",
				choice("True", "Installed"), choice("False", "Not Installed")),
			option("OptionalEnvelopeFeeder", "Envelope Feeder", psprint.Boolean, "True",
				choice("True", "Installed"), choice("False", "Not Installed")),
			option("OptionalDuplexer", "Duplex Unit", psprint.Boolean, "True",
				choice("True", "Installed"), choice("False", "Not Installed")),
			option("OptionalLeftBin", "Left Output Bin", psprint.Boolean, "False",
				choice("True", "Installed"), choice("False", "Not Installed")),
			option("OptionalRIP", "Hardware RIP", psprint.Boolean, "True",
				choice("True", "Installed"), choice("False", "Not Installed")),
			option("OptionalEco", "Eco Module", psprint.Boolean, "False",
				choice("True", "Installed"), choice("False", "Not Installed")),
		},
	}
	installable.Options[0].QueryScript = "currentpagedevice /InputAttributes get length 1 gt { (True) } { (False) } ifelse = flush"

	m := &psprint.Model{
		Name:          "acme-laser-1000",
		NickName:      "ACME Laser 1000",
		LanguageLevel: 2,
		ColorDevice:   true,
		Groups:        []*psprint.Group{general, installable},
		Constraints: []psprint.Constraint{
			{Option1: "OptionalTray2", Choice1: "False", Option2: "InputSlot", Choice2: "Tray2"},
			{Option1: "OptionalEnvelopeFeeder", Choice1: "False", Option2: "InputSlot", Choice2: "Envelope"},
			{Option1: "OptionalDuplexer", Choice1: "False", Option2: "Duplex", Choice2: "DuplexNoTumble"},
			{Option1: "OptionalDuplexer", Choice1: "False", Option2: "Duplex", Choice2: "DuplexTumble"},
			{Option1: "OptionalLeftBin", Choice1: "False", Option2: "OutputBin", Choice2: "LeftBin"},
			{Option1: "OptionalRIP", Choice1: "False", Option2: "Resolution", Choice2: "1200x1200dpi"},
			{Option1: "OptionalRIP", Choice1: "False", Option2: "Smoothing", Choice2: ""},
			{Option1: "OptionalEco", Choice1: "True", Option2: "Resolution", Choice2: "600dpi"},
		},
		Sizes: []psprint.MediaSize{
			{Name: "Letter", Width: 612, Height: 792, Margins: [4]float64{12, 12, 12, 12}},
			{Name: "A4", Width: 595, Height: 842, Margins: [4]float64{12, 12, 12, 12}},
			{Name: "Legal", Width: 612, Height: 1008, Margins: [4]float64{12, 12, 12, 12}},
		},
		DefaultResolution: "600dpi",
		FinishingMap: map[psprint.Finishing]psprint.Setting{
			psprint.FinishStaple: {Keyword: "StapleLocation", Value: "SinglePortrait"},
		},
		SourceMap: map[string]string{
			"tray-1":   "Tray1",
			"tray-2":   "Tray2",
			"envelope": "Envelope",
		},
		TypeMap: map[string]string{
			"stationery":            "Plain",
			"stationery-letterhead": "Letterhead",
		},
		BinMap: map[string]string{
			"face-down": "Standard",
			"face-up":   "LeftBin",
		},
		ScalingMap: map[string]psprint.Setting{
			"fit-to-page": {Keyword: "FitToPage", Value: "True"},
		},
		PatchScript: "/acmeinit { } def",
	}

	m.Presets[psprint.ModeMonochrome][psprint.QualityDraft] = []psprint.Setting{
		{Keyword: "Resolution", Value: "150x150dpi"},
	}
	m.Presets[psprint.ModeMonochrome][psprint.QualityHigh] = []psprint.Setting{
		{Keyword: "Resolution", Value: "1200x1200dpi"},
		{Keyword: "ColorModel", Value: "Gray"},
	}
	m.Presets[psprint.ModeColor][psprint.QualityHigh] = []psprint.Setting{
		{Keyword: "Resolution", Value: "1200x1200dpi"},
	}

	m.MarkDefaults()
	return m
}
