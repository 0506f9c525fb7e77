// Package tui runs the arena in a terminal using tcell.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/munchers/game"
)

const (
	frameInterval = 16 * time.Millisecond

	// DefaultHoldFrames covers the typical delay before a terminal starts
	// repeating a held key.
	DefaultHoldFrames = 32

	boardWidth    = 24
	minBoardSpace = 64 // screen width needed before the leaderboard is shown
	boardRows     = 10

	helpLine = "arrows/wasd move  space shoot  p pause  </> speed  q quit"
)

const (
	glyphMuncher    = '█'
	glyphPlayer     = '@'
	glyphFoodlet    = '·'
	glyphObstacle   = '#'
	glyphPowerUp    = '+'
	glyphProjectile = '-'
)

var (
	styleDefault    = tcell.StyleDefault
	styleStatus     = tcell.StyleDefault.Reverse(true)
	styleMuncher    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleInvincible = tcell.StyleDefault.Foreground(tcell.ColorLightBlue)
	styleWeak       = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePlayer     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleFoodlet    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleObstacle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePowerUp    = tcell.StyleDefault.Foreground(tcell.ColorPink)
	styleProjectile = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleBoard      = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// weakHealth is the health at or below which a muncher is drawn as weak.
const weakHealth = 50

// App drives a game in a terminal.
type App struct {
	game   *game.Game
	screen tcell.Screen

	// HoldFrames is how many frames a direction stays held after its last key press.
	HoldFrames int

	holdX, holdY axisHold
	quit         bool

	// Reused per frame
	snapshot game.Snapshot
	intents  []game.Intent
}

// New opens the terminal and returns an App drawing g into it.
func New(g *game.Game) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return NewWithScreen(g, screen)
}

// NewWithScreen initializes screen and returns an App drawing g into it.
func NewWithScreen(g *game.Game, screen tcell.Screen) (*App, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.Clear()

	return &App{
		game:       g,
		screen:     screen,
		HoldFrames: DefaultHoldFrames,
		holdX:      axisHold{axis: game.AxisX},
		holdY:      axisHold{axis: game.AxisY},
	}, nil
}

// Close restores the terminal.
func (a *App) Close() {
	a.screen.Fini()
}

// Run loops until the user quits, ctx is done or maxTicks is reached (0 = unlimited).
func (a *App) Run(ctx context.Context, maxTicks int) error {
	events := make(chan tcell.Event, 16)
	stop := make(chan struct{})
	defer close(stop)
	go a.screen.ChannelEvents(events, stop)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.handleEvent(ev)
			if a.quit {
				return nil
			}
		case <-ticker.C:
			a.frame()
			if maxTicks > 0 && int(a.game.Tick()) >= maxTicks {
				return nil
			}
		}
	}
}

// frame advances the game once and redraws.
func (a *App) frame() {
	a.intents = a.intents[:0]
	for _, h := range []*axisHold{&a.holdX, &a.holdY} {
		if in, ok := h.tick(); ok {
			a.intents = append(a.intents, in)
		}
	}
	for _, in := range a.intents {
		a.game.Submit(in)
	}

	a.game.Update()
	a.draw()
}

func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyLeft:
		a.press(&a.holdX, -1)
	case tcell.KeyRight:
		a.press(&a.holdX, 1)
	case tcell.KeyUp:
		a.press(&a.holdY, -1)
	case tcell.KeyDown:
		a.press(&a.holdY, 1)
	case tcell.KeyRune:
		a.handleRune(ev.Rune())
	}
}

func (a *App) handleRune(r rune) {
	switch r {
	case 'q', 'Q':
		a.quit = true
	case 'a', 'A':
		a.press(&a.holdX, -1)
	case 'd', 'D':
		a.press(&a.holdX, 1)
	case 'w', 'W':
		a.press(&a.holdY, -1)
	case 's', 'S':
		a.press(&a.holdY, 1)
	case ' ':
		a.game.Submit(game.ShootIntent())
	case 'p', 'P':
		a.game.TogglePause()
	case '<', ',':
		a.game.SetStepsPerUpdate(a.game.StepsPerUpdate() - 1)
	case '>', '.':
		a.game.SetStepsPerUpdate(a.game.StepsPerUpdate() + 1)
	}
}

func (a *App) press(h *axisHold, dir int) {
	if in, ok := h.press(dir, a.HoldFrames); ok {
		a.game.Submit(in)
	}
}

// layout splits the screen into the arena viewport and the leaderboard column.
// boardX is -1 when the screen is too narrow for the leaderboard.
func (a *App) layout() (vp Viewport, boardX int) {
	w, h := a.screen.Size()
	boardX = -1
	arenaCols := w
	if w >= minBoardSpace {
		arenaCols = w - boardWidth
		boardX = arenaCols + 1
	}
	s := &a.snapshot
	return NewViewport(0, 1, arenaCols, h-2, s.ArenaW, s.ArenaH), boardX
}

func (a *App) draw() {
	a.game.SnapshotInto(&a.snapshot)
	s := &a.snapshot

	a.screen.Clear()
	vp, boardX := a.layout()
	w, h := a.screen.Size()

	a.drawArena(vp, s)
	if boardX >= 0 {
		a.drawLeaderboard(boardX, 1, s)
	}

	status := fmt.Sprintf(" munchers  tick %d  %.1fs  M %d  F %d  O %d  P %d  x%d",
		s.Tick, s.Clock, len(s.Munchers), len(s.Foodlets), len(s.Obstacles), len(s.PowerUps), s.StepsPerUpdate)
	if s.Paused {
		status += "  [paused]"
	}
	a.drawLine(0, w, status, styleStatus)

	footer := " " + helpLine
	if p, ok := s.PlayerView(); ok {
		footer = fmt.Sprintf(" health %.0f  radius %.0f  %s", p.Health, p.Radius, helpLine)
	} else if !s.PlayerAlive {
		footer = " you were munched  " + helpLine
	}
	a.drawLine(h-1, w, footer, styleStatus)

	a.screen.Show()
}

func (a *App) drawArena(vp Viewport, s *game.Snapshot) {
	if vp.Empty() {
		return
	}

	for _, f := range s.Foodlets {
		a.drawDisk(vp, f.X, f.Y, f.Radius, glyphFoodlet, styleFoodlet)
	}
	for _, o := range s.Obstacles {
		a.drawDisk(vp, o.X, o.Y, o.Radius, glyphObstacle, styleObstacle)
	}
	for _, p := range s.PowerUps {
		a.drawDisk(vp, p.X, p.Y, p.Radius, glyphPowerUp, stylePowerUp)
	}
	for _, m := range s.Munchers {
		a.drawDisk(vp, m.X, m.Y, m.Radius, glyphMuncher, muncherStyle(m))
		if m.Player {
			if col, row, ok := vp.ToCell(m.X, m.Y); ok {
				a.screen.SetContent(col, row, glyphPlayer, nil, stylePlayer)
			}
		}
	}
	for _, p := range s.Projectiles {
		if col, row, ok := vp.ToCell(p.X+p.W/2, p.Y+p.H/2); ok {
			a.screen.SetContent(col, row, glyphProjectile, nil, styleProjectile)
		}
	}
}

func (a *App) drawDisk(vp Viewport, x, y, r float32, glyph rune, style tcell.Style) {
	vp.DiskCells(x, y, r, func(col, row int) {
		a.screen.SetContent(col, row, glyph, nil, style)
	})
}

func (a *App) drawLeaderboard(x, y int, s *game.Snapshot) {
	a.drawText(x, y, "leaderboard", styleDefault.Bold(true))
	for i, m := range s.Leaderboard {
		if i >= boardRows {
			break
		}
		marker := ' '
		if m.Player {
			marker = glyphPlayer
		}
		line := fmt.Sprintf("%c%-16.16s %4.0f", marker, m.Name, m.Radius)
		a.drawText(x, y+1+i, line, muncherStyle(m))
	}
	if len(s.Leaderboard) == 0 {
		a.drawText(x, y+1, " (empty)", styleBoard)
	}
}

// drawLine fills a whole row with style and writes text from its left edge.
func (a *App) drawLine(y, width int, text string, style tcell.Style) {
	for x := 0; x < width; x++ {
		a.screen.SetContent(x, y, ' ', nil, style)
	}
	a.drawText(0, y, text, style)
}

func (a *App) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// muncherStyle mirrors the window palette: weak munchers are red, invincible ones light blue.
func muncherStyle(m game.MuncherView) tcell.Style {
	switch {
	case m.Health <= weakHealth:
		return styleWeak
	case m.Invincible:
		return styleInvincible
	}
	return styleMuncher
}
