// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview renders the light produced by the two LM3630A banks on the
// terminal using ANSI color codes.
//
// Useful to tune the front light tables without the panel at hand.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/backlight/lm3630a"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for the preview.
type Opts struct {
	// Width is the number of character cells of the bar.
	Width int
	// ColorA and ColorB are the colors of the LED strings at full brightness.
	ColorA  color.NRGBA
	ColorB  color.NRGBA
	Palette *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// DefaultOpts previews a cool white string on bank A and an amber string on
// bank B.
var DefaultOpts = Opts{
	Width:  40,
	ColorA: color.NRGBA{R: 0xd8, G: 0xe8, B: 0xff, A: 0xff},
	ColorB: color.NRGBA{R: 0xff, G: 0x9a, B: 0x30, A: 0xff},
}

// Dev is a front light emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	opts    Opts
	palette ansi256.Palette

	pixels []color.NRGBA
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:       w,
		opts:    *opts,
		palette: *p,
		pixels:  make([]color.NRGBA, opts.Width),
	}
}

func (d *Dev) String() string {
	return "FrontlightPreview"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Mix returns the color seen when bank A and bank B are at raw brightness a
// and b.
func (d *Dev) Mix(a, b byte) color.NRGBA {
	ch := func(x, y uint8) uint8 {
		v := (int(x)*int(a) + int(y)*int(b)) / 255
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	ca, cb := d.opts.ColorA, d.opts.ColorB
	return color.NRGBA{R: ch(ca.R, cb.R), G: ch(ca.G, cb.G), B: ch(ca.B, cb.B), A: 0xff}
}

// Show fills the bar with the mix of bank brightnesses a and b.
func (d *Dev) Show(a, b byte) error {
	c := d.Mix(a, b)
	for i := range d.pixels {
		d.pixels[i] = c
	}
	return d.refresh(fmt.Sprintf(" A=%3d B=%3d", a, b))
}

// ShowFrontlight shows the front light at percent through colour
// temperature table.
func (d *Dev) ShowFrontlight(table, percent int) error {
	a, b, err := lm3630a.Blend(table, percent)
	if err != nil {
		return err
	}
	c := d.Mix(a, b)
	for i := range d.pixels {
		d.pixels[i] = c
	}
	return d.refresh(fmt.Sprintf(" table %d %3d%% A=%3d B=%3d", table, percent, a, b))
}

// Sweep prints one line per percentage step of table.
func (d *Dev) Sweep(table, step int) error {
	if step <= 0 {
		step = 1
	}
	for p := 0; p <= lm3630a.MaxPercent; p += step {
		if err := d.ShowFrontlight(table, p); err != nil {
			return err
		}
		if _, err := io.WriteString(d.w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: len(d.pixels), Y: 1}}
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	for x := r.Min.X; x < r.Max.X; x++ {
		p := image.Point{X: x - r.Min.X, Y: 0}.Add(sp)
		d.pixels[x] = color.NRGBAModel.Convert(src.At(p.X, p.Y)).(color.NRGBA)
	}
	return d.refresh("")
}

func (d *Dev) refresh(label string) error {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for _, c := range d.pixels {
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m")
	_, _ = d.buf.WriteString(label)
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
