package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsResult reports what the user changed on the controls panel this frame.
type ControlsResult struct {
	TogglePause bool
	Speed       int
	ResetView   bool
}

// ControlsPanel renders the bottom-right pause button and speed slider.
type ControlsPanel struct {
	renderer *Renderer
	width    int32
	maxSpeed int
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(width int32, maxSpeed int) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		width:    width,
		maxSpeed: maxSpeed,
	}
}

// Draw renders the controls and returns the requested changes.
func (c *ControlsPanel) Draw(screenWidth, screenHeight int32, paused bool, speed int) ControlsResult {
	const height = 90
	padding := c.renderer.Theme.Padding
	x := screenWidth - c.width - 10
	y := screenHeight - height - 10
	c.renderer.DrawPanel(x, y, c.width, height)

	res := ControlsResult{Speed: speed}
	px := float32(x + padding)
	py := float32(y + padding)
	btnW := float32(c.width-3*padding) / 2

	label := "Pause"
	if paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: px, Y: py, Width: btnW, Height: 24}, label) {
		res.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: px + btnW + float32(padding), Y: py, Width: btnW, Height: 24}, "Reset View") {
		res.ResetView = true
	}
	py += 34

	rl.DrawText(fmt.Sprintf("Speed: %dx", speed), int32(px), int32(py), c.renderer.Theme.FontSize, c.renderer.Theme.LabelColor)
	py += 14
	v := gui.SliderBar(
		rl.Rectangle{X: px, Y: py, Width: float32(c.width - 2*padding), Height: 14},
		"", "",
		float32(speed), 1, float32(c.maxSpeed),
	)
	if s := int(v + 0.5); s != speed {
		res.Speed = s
	}
	return res
}
