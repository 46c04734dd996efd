package listing

import (
	"image"
	"image/color"
	"reflect"
	"testing"
)

func TestLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"\n", nil},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\n\nb", []string{"a", "", "b"}},
		{"\tx := 1;", []string{"    x := 1;"}},
		{"ab\tc", []string{"ab  c"}},
	}
	for _, tt := range tests {
		if got := Lines(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Lines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClampOffset(t *testing.T) {
	tests := []struct {
		offset, total, visible, want int
	}{
		{0, 100, 10, 0},
		{-5, 100, 10, 0},
		{95, 100, 10, 90},
		{3, 5, 10, 0},
		{40, 100, 10, 40},
	}
	for _, tt := range tests {
		if got := ClampOffset(tt.offset, tt.total, tt.visible); got != tt.want {
			t.Errorf("ClampOffset(%d, %d, %d) = %d, want %d", tt.offset, tt.total, tt.visible, got, tt.want)
		}
	}
}

func TestRows(t *testing.T) {
	if got := Rows(LineHeight * 11); got != 10 {
		t.Errorf("Rows: got %d, want 10", got)
	}
	if got := Rows(5); got != 0 {
		t.Errorf("Rows(5): got %d, want 0", got)
	}
}

// inked counts pixels in r that differ from bg.
func inked(img *image.RGBA, r image.Rectangle, bg color.RGBA) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) != bg {
				n++
			}
		}
	}
	return n
}

func TestRender(t *testing.T) {
	style := DefaultStyle
	style.Gutter = color.RGBA{}
	img := Render(200, LineHeight*4,
		Pane{Lines: []string{"x := 1;"}, Style: style},
		Pane{Lines: nil, Style: style},
	)

	firstRow := image.Rect(0, LineHeight, 100, 2*LineHeight)
	if inked(img, firstRow, style.Background) == 0 {
		t.Error("expected glyphs on the first text row of the left pane")
	}
	secondRow := image.Rect(0, 2*LineHeight, 100, 3*LineHeight)
	if n := inked(img, secondRow, style.Background); n != 0 {
		t.Errorf("expected empty second row, got %d inked pixels", n)
	}
	right := image.Rect(100, 0, 200, LineHeight*4)
	if n := inked(img, right, style.Background); n != 0 {
		t.Errorf("empty right pane has %d inked pixels", n)
	}
}

func TestRender_OffsetScrolls(t *testing.T) {
	style := DefaultStyle
	style.Gutter = color.RGBA{}
	lines := []string{"", "", "abc"}
	img := Render(100, LineHeight*3, Pane{Lines: lines, Offset: 2, Style: style})

	if inked(img, image.Rect(0, LineHeight, 100, 2*LineHeight), style.Background) == 0 {
		t.Error("line 3 should be drawn on the first row when scrolled by 2")
	}
}

func TestDraw_ClipsToRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, LineHeight*3))
	style := DefaultStyle
	Draw(img, image.Rect(0, 0, 30, LineHeight*3), Pane{
		Title: "a long title that overflows",
		Lines: []string{"a very long source line that overflows the pane"},
		Style: style,
	})
	outside := image.Rect(30, 0, 60, LineHeight*3)
	if n := inked(img, outside, color.RGBA{}); n != 0 {
		t.Errorf("%d pixels drawn outside the pane", n)
	}
}
