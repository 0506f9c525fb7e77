package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// LeaderboardEntry is one muncher on the leaderboard.
type LeaderboardEntry struct {
	Name   string
	Radius float32
	Player bool
}

// Bar is the laid-out rectangle for one leaderboard entry, relative to the chart origin.
type Bar struct {
	X, Y, W, H float32
	Label      string
	Player     bool
}

// LayoutBars sizes the bars of a chart of the given dimensions.
// entries must already be sorted largest first. Each bar gets an equal slice of
// the height and a width proportional to the entry's radius over the largest radius.
func LayoutBars(entries []LeaderboardEntry, width, height, inset, gap float32, dst []Bar) []Bar {
	dst = dst[:0]
	if len(entries) == 0 || entries[0].Radius <= 0 {
		return dst
	}

	slot := height / float32(len(entries))
	full := width - 2*inset
	top := entries[0].Radius
	for i, e := range entries {
		dst = append(dst, Bar{
			X:      inset,
			Y:      float32(i) * slot,
			W:      e.Radius / top * full,
			H:      max(slot-gap, 1),
			Label:  e.Name,
			Player: e.Player,
		})
	}
	return dst
}

// LeaderboardPanel draws munchers ranked by size as a horizontal bar chart.
type LeaderboardPanel struct {
	renderer      *Renderer
	width, height int32
	bars          []Bar
}

// NewLeaderboardPanel creates a chart of the given size.
func NewLeaderboardPanel(width, height int32) *LeaderboardPanel {
	return &LeaderboardPanel{
		renderer: NewRenderer(),
		width:    width,
		height:   height,
	}
}

// Draw renders the chart anchored to the top-right corner of the screen.
func (l *LeaderboardPanel) Draw(screenWidth int32, entries []LeaderboardEntry) {
	x := screenWidth - l.width - 10
	y := int32(10)
	rl.DrawRectangle(x, y, l.width, l.height, l.renderer.Theme.PanelBg)

	l.bars = LayoutBars(entries, float32(l.width), float32(l.height), 10, 5, l.bars)
	for _, b := range l.bars {
		color := l.renderer.Theme.BarFill
		if b.Player {
			color = rl.SkyBlue
		}
		rl.DrawRectangleRec(rl.Rectangle{X: float32(x) + b.X, Y: float32(y) + b.Y, Width: b.W, Height: b.H}, color)

		// Labels are skipped once bars get thinner than the font
		if b.H >= 8 {
			fontSize := min(int32(b.H), 12)
			rl.DrawText(b.Label, x+int32(b.X)+5, y+int32(b.Y+b.H/2)-fontSize/2, fontSize, rl.White)
		}
	}
}
