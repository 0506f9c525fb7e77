package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/munchers/config"
	"github.com/pthm-cable/munchers/game"
)

// stillRand never fires a spawn or a shot.
type stillRand struct{}

func (stillRand) Float64() float64 { return 0.999 }
func (stillRand) Intn(n int) int   { return 0 }

func newTestApp(t *testing.T, w, h int) (*App, tcell.SimulationScreen) {
	t.Helper()

	g := game.NewGameWithOptions(game.Options{Config: config.Default(), Rand: stillRand{}})
	t.Cleanup(g.Unload)

	screen := tcell.NewSimulationScreen("UTF-8")
	screen.SetSize(w, h)
	app, err := NewWithScreen(g, screen)
	if err != nil {
		t.Fatalf("NewWithScreen: %v", err)
	}
	t.Cleanup(app.Close)
	return app, screen
}

func rowText(screen tcell.Screen, row, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, row)
		b.WriteRune(r)
	}
	return b.String()
}

func TestViewportToCell(t *testing.T) {
	vp := NewViewport(0, 1, 50, 25, 100, 50)

	tests := []struct {
		name     string
		x, y     float32
		col, row int
		ok       bool
	}{
		{"origin", 0, 0, 0, 1, true},
		{"center", 50, 25, 25, 13, true},
		{"far corner", 99.9, 49.9, 49, 25, true},
		{"right edge", 100, 10, 0, 0, false},
		{"negative", -1, 10, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row, ok := vp.ToCell(tt.x, tt.y)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (col != tt.col || row != tt.row) {
				t.Errorf("cell = (%d,%d), want (%d,%d)", col, row, tt.col, tt.row)
			}
		})
	}
}

func TestDiskCellsCoversTinyDisk(t *testing.T) {
	vp := NewViewport(0, 0, 10, 10, 100, 100)

	var cells [][2]int
	vp.DiskCells(55, 55, 1, func(col, row int) {
		cells = append(cells, [2]int{col, row})
	})

	if len(cells) != 1 || cells[0] != [2]int{5, 5} {
		t.Errorf("cells = %v, want [[5 5]]", cells)
	}
}

func TestDiskCellsLargeDisk(t *testing.T) {
	vp := NewViewport(0, 0, 10, 10, 100, 100)

	n := 0
	vp.DiskCells(50, 50, 20, func(col, row int) {
		cx, cy := vp.CellCenter(col, row)
		if (cx-50)*(cx-50)+(cy-50)*(cy-50) > 400 {
			t.Errorf("cell (%d,%d) lies outside the disk", col, row)
		}
		n++
	})

	// Cell centers within 20 of (50,50) on a 10-unit lattice offset by 5
	if n != 12 {
		t.Errorf("covered %d cells, want 12", n)
	}
}

func TestAxisHold(t *testing.T) {
	h := axisHold{axis: game.AxisX}

	in, ok := h.press(1, 3)
	if !ok || in != game.SetAxisIntent(game.AxisX, 1) {
		t.Fatalf("first press = %+v, %v", in, ok)
	}
	if _, ok := h.press(1, 3); ok {
		t.Error("repeated press should not emit an intent")
	}

	for i := 0; i < 2; i++ {
		if _, ok := h.tick(); ok {
			t.Fatalf("released early after %d frames", i+1)
		}
	}
	in, ok = h.tick()
	if !ok || in != game.SetAxisIntent(game.AxisX, 0) {
		t.Errorf("third frame = %+v, %v, want release", in, ok)
	}
	if _, ok := h.tick(); ok {
		t.Error("released axis should stay quiet")
	}
}

func TestAxisHoldReverse(t *testing.T) {
	h := axisHold{axis: game.AxisY}
	h.press(1, 5)

	in, ok := h.press(-1, 5)
	if !ok || in != game.SetAxisIntent(game.AxisY, -1) {
		t.Errorf("reverse press = %+v, %v", in, ok)
	}
}

func TestDrawShowsPlayer(t *testing.T) {
	app, screen := newTestApp(t, 80, 24)
	app.draw()

	// 1280x800 arena in 56x22 cells below the status line
	vp, boardX := app.layout()
	if vp.Cols != 56 || vp.Rows != 22 || boardX != 57 {
		t.Fatalf("layout = %dx%d board at %d, want 56x22 board at 57", vp.Cols, vp.Rows, boardX)
	}
	col, row, ok := vp.ToCell(640, 400)
	if !ok {
		t.Fatal("arena center falls outside the viewport")
	}
	if r, _, _, _ := screen.GetContent(col, row); r != glyphPlayer {
		t.Errorf("cell (%d,%d) = %q, want %q", col, row, r, glyphPlayer)
	}

	status := rowText(screen, 0, 80)
	if !strings.Contains(status, "munchers") || !strings.Contains(status, "M 1") {
		t.Errorf("status line = %q", status)
	}

	board := rowText(screen, 2, 80)
	if !strings.Contains(board, "@") {
		t.Errorf("leaderboard row = %q, want the player marker", board)
	}
}

func TestNarrowScreenHidesLeaderboard(t *testing.T) {
	app, screen := newTestApp(t, 40, 12)
	app.draw()

	for row := 1; row < 11; row++ {
		if strings.Contains(rowText(screen, row, 40), "leaderboard") {
			t.Fatalf("row %d shows the leaderboard on a narrow screen", row)
		}
	}
}

func TestArrowKeyMovesPlayer(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)

	app.handleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	app.frame()

	p, ok := app.snapshot.PlayerView()
	if !ok {
		t.Fatal("player missing")
	}
	if p.VX != 2 || p.VY != 0 {
		t.Errorf("velocity = (%v,%v), want (2,0)", p.VX, p.VY)
	}
}

func TestHeldKeyReleases(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)
	app.HoldFrames = 2

	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	app.frame()
	app.frame()
	app.frame()

	p, _ := app.snapshot.PlayerView()
	if p.VY != 0 {
		t.Errorf("VY = %v after hold ran out, want 0", p.VY)
	}
}

func TestRuneKeys(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)

	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	if !app.game.Paused() {
		t.Error("p should pause")
	}

	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, '>', tcell.ModNone))
	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, '>', tcell.ModNone))
	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, '<', tcell.ModNone))
	if got := app.game.StepsPerUpdate(); got != 2 {
		t.Errorf("StepsPerUpdate = %d, want 2", got)
	}

	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	app.game.SetPaused(false)
	app.frame()
	if n := len(app.snapshot.Projectiles); n != 1 {
		t.Errorf("projectiles = %d, want 1", n)
	}
}

func TestQuitKeys(t *testing.T) {
	keys := []struct {
		name string
		ev   *tcell.EventKey
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)},
	}

	for _, k := range keys {
		t.Run(k.name, func(t *testing.T) {
			app, _ := newTestApp(t, 80, 24)
			app.handleEvent(k.ev)
			if !app.quit {
				t.Error("key should quit")
			}
		})
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.Run(ctx, 3); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tick := app.game.Tick(); tick < 3 {
		t.Errorf("tick = %d, want >= 3", tick)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	app, screen := newTestApp(t, 80, 24)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.Run(ctx, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
