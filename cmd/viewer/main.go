package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"paston/pkg/compiler"
	"paston/pkg/listing"
	"paston/pkg/utils"
)

const (
	screenW  = 1024
	screenH  = 624
	statusH  = 16
	paneRows = (screenH - statusH) / listing.LineHeight
)

// Game shows a source file next to its TAC listing, or next to the first
// diagnostic when compilation fails.
type Game struct {
	source listing.Pane
	output listing.Pane
	status string

	canvas *ebiten.Image // reused full-screen texture
	dirty  bool
}

func newGame(path, src string) *Game {
	g := &Game{
		source: listing.Pane{Title: path, Lines: listing.Lines(src), Style: listing.DefaultStyle},
		dirty:  true,
	}

	res, err := compiler.Compile(src)
	switch {
	case err != nil:
		g.output = listing.Pane{Title: "error", Lines: listing.Lines(err.Error()), Style: listing.ErrorStyle}
		g.status = "compilation failed"
		var cerr *compiler.Error
		if errors.As(err, &cerr) {
			// Bring the offending line into view.
			g.source.Offset = listing.ClampOffset(cerr.Line-paneRows/2, len(g.source.Lines), listing.Rows(screenH-statusH))
			g.status = fmt.Sprintf("%s on line %d", cerr.Kind, cerr.Line)
		}
	default:
		g.output = listing.Pane{Title: "three-address code", Lines: listing.Lines(compiler.Listing(res.Code)), Style: listing.DefaultStyle}
		g.status = fmt.Sprintf("%d instructions", len(res.Code))
	}
	if res != nil && len(res.LexErrors) > 0 {
		g.status += fmt.Sprintf(", %d lexical warnings", len(res.LexErrors))
	}
	return g
}

// scroll moves both panes together by delta lines.
func (g *Game) scroll(delta int) {
	visible := listing.Rows(screenH - statusH)
	for _, p := range []*listing.Pane{&g.source, &g.output} {
		off := listing.ClampOffset(p.Offset+delta, len(p.Lines), visible)
		if off != p.Offset {
			p.Offset = off
			g.dirty = true
		}
	}
}

// repeating reports a key press, then auto-repeat while it is held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d > 20 && d%3 == 0)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	switch {
	case repeating(ebiten.KeyDown):
		g.scroll(1)
	case repeating(ebiten.KeyUp):
		g.scroll(-1)
	case repeating(ebiten.KeyPageDown):
		g.scroll(paneRows - 1)
	case repeating(ebiten.KeyPageUp):
		g.scroll(-(paneRows - 1))
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.scroll(-len(g.source.Lines) - len(g.output.Lines))
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(screenW, screenH-statusH)
	}
	if g.dirty {
		img := listing.Render(screenW, screenH-statusH, g.source, g.output)
		g.canvas.WritePixels(img.Pix)
		g.dirty = false
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, statusH)
	screen.DrawImage(g.canvas, op)

	ebitenutil.DebugPrintAt(screen, g.status+"  |  Up/Down/PgUp/PgDn scroll, Esc quits", 4, 0)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		log.Fatalf("usage: viewer FILE%s", utils.SourceExt)
	}
	filename := os.Args[1]
	fullPath, err := utils.ResolveSource(filename)
	if err != nil {
		log.Fatal(err)
	}
	sourceBytes, err := os.ReadFile(fullPath)
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Paston Viewer - " + filename)

	game := newGame(filename, string(sourceBytes))
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
