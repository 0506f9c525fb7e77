package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/munchers/camera"
	"github.com/pthm-cable/munchers/game"
)

// EntityOptions toggles optional entity decorations.
type EntityOptions struct {
	Labels   bool // names above and ages below munchers
	Hitboxes bool // contact outlines
}

// EntityRenderer draws the entities of a snapshot.
type EntityRenderer struct{}

// NewEntityRenderer creates an entity renderer.
func NewEntityRenderer() *EntityRenderer {
	return &EntityRenderer{}
}

// Draw renders pickups, then projectiles, then munchers on top.
func (r *EntityRenderer) Draw(s *game.Snapshot, cam *camera.Camera, opts EntityOptions) {
	for _, f := range s.Foodlets {
		drawDisk(cam, f, ColorFoodlet, opts.Hitboxes)
	}
	for _, o := range s.Obstacles {
		drawDisk(cam, o, ColorObstacle, opts.Hitboxes)
	}
	for _, p := range s.PowerUps {
		drawDisk(cam, p.DiskView, ColorPowerUp, opts.Hitboxes)
	}

	for _, p := range s.Projectiles {
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		rect := rl.Rectangle{X: sx, Y: sy, Width: p.W * cam.Zoom, Height: p.H * cam.Zoom}
		rl.DrawRectangleRec(rect, ColorProjectile)
		if opts.Hitboxes {
			rl.DrawRectangleLinesEx(rect, 1, rl.Magenta)
		}
	}

	for _, m := range s.Munchers {
		if !cam.IsVisible(m.X, m.Y, m.Radius+20) {
			continue
		}
		r.drawMuncher(m, cam, opts)
	}
}

func (r *EntityRenderer) drawMuncher(m game.MuncherView, cam *camera.Camera, opts EntityOptions) {
	sx, sy := cam.WorldToScreen(m.X, m.Y)
	sr := m.Radius * cam.Zoom
	center := rl.Vector2{X: sx, Y: sy}

	rl.DrawCircleV(center, sr, MuncherColor(m))
	if m.Player {
		rl.DrawCircleLines(int32(sx), int32(sy), sr+2, ColorPlayerRing)
	}
	if opts.Hitboxes {
		rl.DrawCircleLines(int32(sx), int32(sy), sr, rl.Magenta)
	}
	if !opts.Labels {
		return
	}

	// Name above in a font as tall as the radius, age below
	nameSize := int32(min(max(sr, 10), 40))
	drawCentered(m.Name, sx, sy-sr-10*cam.Zoom, nameSize, ColorLabel)
	drawCentered(fmt.Sprintf("Age: %d", int(m.Age)), sx, sy+sr+10*cam.Zoom, 12, ColorLabel)
}

func drawDisk(cam *camera.Camera, d game.DiskView, color rl.Color, hitbox bool) {
	if !cam.IsVisible(d.X, d.Y, d.Radius) {
		return
	}
	sx, sy := cam.WorldToScreen(d.X, d.Y)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, d.Radius*cam.Zoom, color)
	if hitbox {
		rl.DrawCircleLines(int32(sx), int32(sy), d.Radius*cam.Zoom, rl.Magenta)
	}
}

// drawCentered draws text centered horizontally and vertically on (x, y).
func drawCentered(text string, x, y float32, size int32, color rl.Color) {
	w := rl.MeasureText(text, size)
	rl.DrawText(text, int32(x)-w/2, int32(y)-size/2, size, color)
}
