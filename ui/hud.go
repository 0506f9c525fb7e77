package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/munchers/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Munchers     int
	Projectiles  int
	Foodlets     int
	Obstacles    int
	PowerUps     int
	Tick         int32
	Clock        float32
	Speed        int
	FPS          int32
	Paused       bool
	PlayerAlive  bool
	PlayerHealth float32
	PlayerRadius float32
	Invincible   bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Munchers: %d | Food: %d | Obstacles: %d | Power-ups: %d | Shots: %d",
			data.Munchers, data.Foodlets, data.Obstacles, data.PowerUps, data.Projectiles),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %d", data.Tick, data.Clock, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	y := int32(75)
	if data.PlayerAlive {
		y = h.renderer.DrawHealthBar(10, y, "Health", data.PlayerHealth, 100, 260)
		status := fmt.Sprintf("Size: %.0f", data.PlayerRadius)
		if data.Invincible {
			status += "  INVINCIBLE"
		}
		rl.DrawText(status, 10, y, 16, rl.SkyBlue)
	} else {
		rl.DrawText("You were munched", 10, y, 16, rl.Red)
	}
	y += 20

	if data.Paused {
		rl.DrawText("PAUSED", 10, y, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the step phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	const width, lineHeight = 300, 14
	height := int32(len(telemetry.Phases)+2)*lineHeight + 2*p.renderer.Theme.Padding + 4
	p.renderer.DrawPanel(p.x, p.y, width, height)

	x := p.x + p.renderer.Theme.Padding
	y := p.y + p.renderer.Theme.Padding

	rl.DrawText("Step Performance", x, y, 14, rl.White)
	y += lineHeight + 4

	rl.DrawText(fmt.Sprintf("Tick: %s  TPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 12, rl.Yellow)
	y += lineHeight

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		line := fmt.Sprintf("%-12s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct)
		if each := stats.PerEntity[phase]; each > 0 {
			line += fmt.Sprintf(" %6s/ea", each)
		}
		rl.DrawText(line, x, y, 12, color)
		y += lineHeight
	}
}
