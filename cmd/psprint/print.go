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

package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/psprint"
	"seehuhn.de/go/psprint/accessory"
	"seehuhn.de/go/psprint/document"
	"seehuhn.de/go/psprint/resolve"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func runPrint(log *zap.Logger, args []string) error {
	flags := newFlagSet("print")
	modelsDir := flags.String("models", envDefault("PSPRINT_MODELS", "models"), "model file directory")
	modelID := flags.String("model", "", "model identifier")
	accPath := flags.String("accessories", envDefault("PSPRINT_ACCESSORIES", "accessories.yaml"), "accessory configuration file")
	target := flags.String("device", envDefault("PSPRINT_DEVICE", "out.ps"), "device target")
	title := flags.String("title", "", "job title")
	copies := flags.Int("copies", 1, "number of copies")
	media := flags.String("media", "", "media size name, e.g. A4")
	source := flags.String("source", "", "media source name")
	mediaType := flags.String("type", "", "media type name")
	duplexName := flags.String("duplex", "none", "duplex mode: none, long or short")
	qualityName := flags.String("quality", "normal", "print quality: draft, normal or high")
	colorName := flags.String("color", "color", "color mode: color or mono")
	resolutionFlag := flags.Int("resolution", 0, "requested resolution in dpi")
	bin := flags.String("bin", "", "output bin name")
	fit := flags.Bool("fit", false, "scale the image to fit the page")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *modelID == "" || flags.NArg() != 1 {
		return fmt.Errorf("print: -model and exactly one input image are required")
	}
	input := flags.Arg(0)

	jo := &psprint.JobOptions{
		Title:  *title,
		Copies: max(*copies, 1),
		Media: psprint.MediaRequest{
			SizeName: *media,
			Source:   *source,
			Type:     *mediaType,
		},
		Resolution: *resolutionFlag,
		OutputBin:  *bin,
	}
	if jo.Title == "" {
		jo.Title = input
	}
	switch *duplexName {
	case "none":
		jo.Duplex = psprint.DuplexNone
	case "long":
		jo.Duplex = psprint.DuplexLongEdge
	case "short":
		jo.Duplex = psprint.DuplexShortEdge
	default:
		return fmt.Errorf("print: unknown duplex mode %q", *duplexName)
	}
	switch *qualityName {
	case "draft":
		jo.Quality = psprint.QualityDraft
	case "normal":
		jo.Quality = psprint.QualityNormal
	case "high":
		jo.Quality = psprint.QualityHigh
	default:
		return fmt.Errorf("print: unknown quality %q", *qualityName)
	}
	switch *colorName {
	case "color":
		jo.ColorMode = psprint.ModeColor
	case "mono":
		jo.ColorMode = psprint.ModeMonochrome
	default:
		return fmt.Errorf("print: unknown color mode %q", *colorName)
	}
	if *fit {
		jo.Scaling = []string{"fit-to-page"}
	}

	m, err := loadModel(*modelsDir, *modelID)
	if err != nil {
		return err
	}

	store := &accessory.Store{Path: *accPath}
	cfg, err := store.Load()
	if err != nil {
		return err
	}
	proj := accessory.NewProjector(m)
	surface := proj.Update(cfg)

	set := resolve.Resolve(m, cfg, jo)

	sizeName := *media
	if sizeName == "" {
		sizeName = surface.DefaultSize
	}
	size, ok := m.MatchSize(sizeName, 0, 0)
	if !ok {
		size = psprint.MediaSize{Name: "Letter", Width: 612, Height: 792}
	}

	dpi := 300
	if v, ok := set.Get("Resolution"); ok {
		if d := parseDPI(v); d > 0 {
			dpi = d
		}
	}

	fd, err := os.Open(input)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(fd)
	fd.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	widthPx := int(size.Width / 72 * float64(dpi))
	heightPx := int(size.Height / 72 * float64(dpi))
	cs := document.RGB
	if jo.ColorMode == psprint.ModeMonochrome {
		cs = document.Gray
	}
	raster := rasterize(img, widthPx, heightPx, cs)

	dev, err := openDevice(*target)
	if err != nil {
		return err
	}
	defer dev.Close()

	job, err := document.NewJob(dev, m, set, &document.Options{
		Title:    jo.Title,
		Copies:   jo.Copies,
		MediaBox: rect.Rect{URx: size.Width, URy: size.Height},
	})
	if err != nil {
		return err
	}

	err = job.StartPage(document.PageHeader{
		Width:            widthPx,
		Height:           heightPx,
		BitsPerComponent: 8,
		Color:            cs,
		PageWidth:        size.Width,
		PageHeight:       size.Height,
	})
	if err != nil {
		return err
	}
	for y := 0; y < heightPx; y++ {
		if err := job.WriteLine(raster.line(y)); err != nil {
			return err
		}
	}
	if err := job.FinishPage(); err != nil {
		return err
	}
	if err := job.Close(); err != nil {
		return err
	}
	if n := job.DiscardedLines(); n > 0 {
		log.Warn("raster lines beyond the page were dropped", zap.Int("lines", n))
	}

	log.Info("document streamed",
		zap.String("model", m.Name),
		zap.String("device", *target),
		zap.Int("pages", job.Pages()),
		zap.Int("dpi", dpi))
	return nil
}

// parseDPI extracts the horizontal resolution from values like
// "600dpi" or "600x600dpi".
func parseDPI(v string) int {
	v = strings.TrimSuffix(strings.ToLower(v), "dpi")
	if x, _, ok := strings.Cut(v, "x"); ok {
		v = x
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// pageRaster holds a scaled page image ready for streaming.
type pageRaster struct {
	gray  *image.Gray
	rgba  *image.RGBA
	w     int
	line8 []byte
}

// rasterize scales the image onto a white page raster of the given
// size, preserving the aspect ratio.
func rasterize(img image.Image, w, h int, cs document.ColorSpace) *pageRaster {
	// aspect-preserving target rectangle, centered
	ib := img.Bounds()
	tw, th := w, h
	if ib.Dx()*h > ib.Dy()*w {
		th = ib.Dy() * w / ib.Dx()
	} else {
		tw = ib.Dx() * h / ib.Dy()
	}
	x0 := (w - tw) / 2
	y0 := (h - th) / 2
	target := image.Rect(x0, y0, x0+tw, y0+th)

	pr := &pageRaster{w: w}
	if cs == document.Gray {
		dst := image.NewGray(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
		draw.BiLinear.Scale(dst, target, img, ib, draw.Over, nil)
		pr.gray = dst
	} else {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
		draw.BiLinear.Scale(dst, target, img, ib, draw.Over, nil)
		pr.rgba = dst
		pr.line8 = make([]byte, 3*w)
	}
	return pr
}

// line returns raster line y as raw samples.
func (pr *pageRaster) line(y int) []byte {
	if pr.gray != nil {
		off := y * pr.gray.Stride
		return pr.gray.Pix[off : off+pr.w]
	}
	off := y * pr.rgba.Stride
	for x := 0; x < pr.w; x++ {
		copy(pr.line8[3*x:], pr.rgba.Pix[off+4*x:off+4*x+3])
	}
	return pr.line8
}
