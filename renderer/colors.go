// Package renderer draws the arena and translates keyboard input into player intents.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/munchers/game"
)

// Entity palette.
var (
	ColorMuncher     = rl.Blue
	ColorInvincible  = rl.Color{R: 173, G: 216, B: 230, A: 255} // light blue
	ColorWeak        = rl.Red
	ColorFoodlet     = rl.Red
	ColorObstacle    = rl.Yellow
	ColorPowerUp     = rl.Pink
	ColorProjectile  = rl.Orange
	ColorLabel       = rl.Black
	ColorPlayerRing  = rl.White
	ColorArenaFloor  = rl.Color{R: 235, G: 235, B: 228, A: 255}
	ColorArenaGrid   = rl.Color{R: 220, G: 220, B: 212, A: 255}
	ColorArenaBorder = rl.DarkGray
)

// weakHealth is the health at or below which a muncher is drawn as weak.
const weakHealth = 50

// MuncherColor picks a muncher's fill: weak munchers are red whether or not
// they are invincible, healthy ones are blue or light blue while invincible.
func MuncherColor(m game.MuncherView) rl.Color {
	if m.Health <= weakHealth {
		return ColorWeak
	}
	if m.Invincible {
		return ColorInvincible
	}
	return ColorMuncher
}
