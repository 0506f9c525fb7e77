package game

// Axis selects a velocity component of the player.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// IntentKind identifies a player command.
type IntentKind uint8

const (
	IntentSetAxis IntentKind = iota
	IntentShoot
)

// Intent is a player command queued by a presentation adapter.
type Intent struct {
	Kind IntentKind
	Axis Axis
	Dir  int // -1, 0 or 1; values outside are clamped
}

// SetAxisIntent sets the player's velocity on one axis to dir times the player speed.
// Dir 0 stops the player on that axis.
func SetAxisIntent(axis Axis, dir int) Intent {
	return Intent{Kind: IntentSetAxis, Axis: axis, Dir: dir}
}

// ShootIntent makes the player fire a projectile.
func ShootIntent() Intent {
	return Intent{Kind: IntentShoot}
}

// Submit queues an intent for the start of the next step.
// Intents submitted after the player is gone are dropped.
func (g *Game) Submit(in Intent) {
	g.intents = append(g.intents, in)
}

// applyIntents drains the intent queue into the player muncher.
func (g *Game) applyIntents() {
	intents := g.intents
	g.intents = g.intents[:0]

	e, ok := g.Player()
	if !ok {
		return
	}

	for _, in := range intents {
		switch in.Kind {
		case IntentSetAxis:
			vel := g.velMap.Get(e)
			m := g.muncherMap.Get(e)
			v := float32(max(-1, min(in.Dir, 1))) * g.rules.PlayerSpeed
			if m.SpeedBoosted {
				v *= g.rules.SpeedMultiplier
			}
			if in.Axis == AxisX {
				vel.X = v
			} else {
				vel.Y = v
			}
		case IntentShoot:
			g.shoot(e)
		}
	}
}
