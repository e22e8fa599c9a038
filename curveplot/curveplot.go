// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package curveplot draws the LM3630A brightness curves and front light
// tables as line charts, raw register value against percent.
package curveplot

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/backlight/lm3630a"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Series is one curve, Values[i] being the raw brightness at i+1 percent.
type Series struct {
	Name   string
	Values []byte
	Color  color.Color
}

var palette = []color.Color{
	color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.NRGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.NRGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.NRGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

// Curves returns the perceptual curves of both banks.
func Curves() []Series {
	var s []Series
	for i, b := range []lm3630a.Bank{lm3630a.BankA, lm3630a.BankB} {
		v := make([]byte, lm3630a.CurveLen(b))
		for p := range v {
			v[p] = lm3630a.PercentToRaw(b, p+1)
		}
		s = append(s, Series{Name: "bank " + b.String(), Values: v, Color: palette[i]})
	}
	return s
}

// Frontlight returns both bank series of every colour temperature table.
// Banks that are off in a table are left out.
func Frontlight() []Series {
	var s []Series
	for t := 0; t < lm3630a.ColorTemperatures; t++ {
		a := make([]byte, lm3630a.MaxPercent)
		b := make([]byte, lm3630a.MaxPercent)
		var useA, useB bool
		for p := 1; p <= lm3630a.MaxPercent; p++ {
			// Table and percent are in range.
			a[p-1], b[p-1], _ = lm3630a.Blend(t, p)
			useA = useA || a[p-1] != 0
			useB = useB || b[p-1] != 0
		}
		if useA {
			s = append(s, Series{Name: fmt.Sprintf("table %d A", t), Values: a, Color: palette[(2*t)%len(palette)]})
		}
		if useB {
			s = append(s, Series{Name: fmt.Sprintf("table %d B", t), Values: b, Color: palette[(2*t+1)%len(palette)]})
		}
	}
	return s
}

// Opts controls the chart layout.
type Opts struct {
	Width, Height int
	Title         string
	// FontSize is in points; 0 uses 12.
	FontSize float64
}

// DefaultOpts is used when Render is passed nil.
var DefaultOpts = Opts{Width: 800, Height: 500, FontSize: 12}

const margin = 50

// Render draws series on a white background.
func Render(series []Series, opts *Opts) (image.Image, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Width <= 2*margin || opts.Height <= 2*margin {
		return nil, fmt.Errorf("curveplot: %dx%d is too small", opts.Width, opts.Height)
	}
	face, err := newFace(opts.FontSize)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(face)

	w := float64(opts.Width - 2*margin)
	h := float64(opts.Height - 2*margin)
	x0, y0 := float64(margin), float64(opts.Height-margin)

	n := 0
	for _, s := range series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
	}

	// Axes and grid.
	dc.SetColor(color.Gray{Y: 0xdd})
	dc.SetLineWidth(1)
	for v := 0; v <= 256; v += 64 {
		y := y0 - h*float64(v)/255
		dc.DrawLine(x0, y, x0+w, y)
		dc.Stroke()
	}
	dc.SetColor(color.Black)
	dc.DrawLine(x0, y0, x0+w, y0)
	dc.DrawLine(x0, y0, x0, y0-h)
	dc.Stroke()
	for v := 0; v <= 255; v += 64 {
		dc.DrawStringAnchored(fmt.Sprint(v), x0-6, y0-h*float64(v)/255, 1, 0.5)
	}
	if n > 1 {
		for p := 0; p <= n; p += 10 {
			dc.DrawStringAnchored(fmt.Sprintf("%d%%", p), x0+w*float64(p)/float64(n), y0+6, 0.5, 1)
		}
	}
	if opts.Title != "" {
		dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, float64(margin)/2, 0.5, 0.5)
	}

	dc.SetLineWidth(2)
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		for p, v := range s.Values {
			x := x0 + w*float64(p+1)/float64(n)
			y := y0 - h*float64(v)/255
			if p == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.SetColor(s.Color)
		dc.Stroke()
		// Legend.
		ly := float64(margin) + 16*float64(i)
		dc.DrawLine(x0+w-120, ly, x0+w-100, ly)
		dc.Stroke()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(s.Name, x0+w-94, ly, 0, 0.5)
	}
	return dc.Image(), nil
}

// WritePNG renders series and encodes the chart as PNG to w.
func WritePNG(w io.Writer, series []Series, opts *Opts) error {
	img, err := Render(series, opts)
	if err != nil {
		return err
	}
	return gg.NewContextForImage(img).EncodePNG(w)
}

func newFace(size float64) (font.Face, error) {
	if size <= 0 {
		size = 12
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("curveplot: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}
