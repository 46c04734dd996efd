// Package listing rasterises text listings (source files, TAC, diagnostics)
// into RGBA images with a fixed-width bitmap font.
package listing

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph cell size of basicfont.Face7x13.
const (
	CharWidth  = 7
	LineHeight = 13
	tabWidth   = 4
)

// Style holds the colours of one pane.
type Style struct {
	Background color.RGBA
	Text       color.RGBA
	Gutter     color.RGBA // line numbers; zero alpha hides the gutter
	Title      color.RGBA
}

var DefaultStyle = Style{
	Background: color.RGBA{0x1e, 0x1e, 0x24, 0xff},
	Text:       color.RGBA{0xe0, 0xe0, 0xe0, 0xff},
	Gutter:     color.RGBA{0x70, 0x70, 0x80, 0xff},
	Title:      color.RGBA{0xff, 0xc8, 0x57, 0xff},
}

// ErrorStyle is used for panes that show a diagnostic instead of code.
var ErrorStyle = Style{
	Background: color.RGBA{0x2a, 0x14, 0x14, 0xff},
	Text:       color.RGBA{0xff, 0x8a, 0x80, 0xff},
	Title:      color.RGBA{0xff, 0x52, 0x52, 0xff},
}

// Pane is a titled, scrollable block of text.
type Pane struct {
	Title  string
	Lines  []string
	Offset int // first visible line
	Style  Style
}

// Lines splits text into display lines with tabs expanded. A trailing
// newline does not produce an empty last line.
func Lines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = expandTabs(strings.TrimSuffix(l, "\r"))
	}
	return out
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}

// Rows is the number of text lines a pane of height h can show below its
// title bar.
func Rows(h int) int {
	rows := h/LineHeight - 1
	if rows < 0 {
		return 0
	}
	return rows
}

// ClampOffset keeps a scroll offset inside [0, total-visible].
func ClampOffset(offset, total, visible int) int {
	maxOff := total - visible
	if offset > maxOff {
		offset = maxOff
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Draw paints p into r of dst. Text is clipped to r.
func Draw(dst *image.RGBA, r image.Rectangle, p Pane) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(p.Style.Background), image.Point{}, draw.Src)
	clip := dst.SubImage(r).(*image.RGBA)

	d := &font.Drawer{Dst: clip, Face: basicfont.Face7x13}
	ascent := basicfont.Face7x13.Ascent

	d.Src = image.NewUniform(p.Style.Title)
	d.Dot = fixed.P(r.Min.X+2, r.Min.Y+ascent)
	d.DrawString(p.Title)

	gutter := 0
	if p.Style.Gutter.A != 0 {
		gutter = len(fmt.Sprint(len(p.Lines))) + 1
	}
	cols := r.Dx()/CharWidth - gutter
	rows := Rows(r.Dy())

	for i := 0; i < rows; i++ {
		n := p.Offset + i
		if n < 0 || n >= len(p.Lines) {
			break
		}
		y := r.Min.Y + (i+1)*LineHeight + ascent
		x := r.Min.X + 2
		if gutter > 0 {
			d.Src = image.NewUniform(p.Style.Gutter)
			d.Dot = fixed.P(x, y)
			d.DrawString(fmt.Sprintf("%*d", gutter-1, n+1))
			x += gutter * CharWidth
		}
		d.Src = image.NewUniform(p.Style.Text)
		d.Dot = fixed.P(x, y)
		d.DrawString(truncate(p.Lines[n], cols))
	}
}

func truncate(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= cols {
		return s
	}
	return string(runes[:cols])
}

// Render lays out panes side by side in equal columns on a w×h canvas.
func Render(w, h int, panes ...Pane) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if len(panes) == 0 {
		return img
	}
	colW := w / len(panes)
	for i, p := range panes {
		x0 := i * colW
		x1 := x0 + colW
		if i == len(panes)-1 {
			x1 = w
		}
		Draw(img, image.Rect(x0, 0, x1, h), p)
	}
	return img
}
