package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/munchers/game"
)

// axisKeys binds the keys that drive one velocity axis of the player.
type axisKeys struct {
	axis game.Axis
	neg  []int32
	pos  []int32
}

var playerAxes = [...]axisKeys{
	{axis: game.AxisX, neg: []int32{rl.KeyLeft, rl.KeyA}, pos: []int32{rl.KeyRight, rl.KeyD}},
	{axis: game.AxisY, neg: []int32{rl.KeyUp, rl.KeyW}, pos: []int32{rl.KeyDown, rl.KeyS}},
}

// KeyEdges is the set of key transitions seen in one frame for an axis.
type KeyEdges struct {
	NegPressed  bool
	PosPressed  bool
	AnyReleased bool
}

// AxisIntent turns a frame's key edges into a velocity intent for the axis.
// Releasing any key of the axis stops it, and a press in the same frame wins
// over a release. Returns false when the axis is unchanged.
func AxisIntent(axis game.Axis, e KeyEdges) (game.Intent, bool) {
	switch {
	case e.PosPressed:
		return game.SetAxisIntent(axis, 1), true
	case e.NegPressed:
		return game.SetAxisIntent(axis, -1), true
	case e.AnyReleased:
		return game.SetAxisIntent(axis, 0), true
	}
	return game.Intent{}, false
}

// PollPlayerIntents reads this frame's keyboard edges into intents.
func PollPlayerIntents(dst []game.Intent) []game.Intent {
	for _, ak := range playerAxes {
		var e KeyEdges
		for _, k := range ak.neg {
			e.NegPressed = e.NegPressed || rl.IsKeyPressed(k)
			e.AnyReleased = e.AnyReleased || rl.IsKeyReleased(k)
		}
		for _, k := range ak.pos {
			e.PosPressed = e.PosPressed || rl.IsKeyPressed(k)
			e.AnyReleased = e.AnyReleased || rl.IsKeyReleased(k)
		}
		if in, ok := AxisIntent(ak.axis, e); ok {
			dst = append(dst, in)
		}
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		dst = append(dst, game.ShootIntent())
	}
	return dst
}
