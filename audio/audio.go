// Package audio plays short tones for simulation events.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/munchers/telemetry"
)

const sampleRate = beep.SampleRate(44100)

// minGap is the shortest interval between two plays of the same cue.
const minGap = 60 * time.Millisecond

// CueForEvent maps an event to a cue. With focus set to a muncher ID only
// events that muncher takes part in are audible; focus 0 hears everything.
func CueForEvent(ev telemetry.Event, focus uint32) (Cue, bool) {
	if focus != 0 && ev.EntityID != focus {
		if ev.TargetID != focus {
			return 0, false
		}
		switch ev.Type {
		case telemetry.EventMuncherEaten:
			return CueDeath, true
		case telemetry.EventProjectileHit:
			return CueHit, true
		}
		return 0, false
	}

	switch ev.Type {
	case telemetry.EventFoodEaten:
		return CueFood, true
	case telemetry.EventObstacleHit:
		return CueBump, true
	case telemetry.EventMuncherEaten:
		return CueChomp, true
	case telemetry.EventShot:
		return CueShot, true
	case telemetry.EventProjectileHit:
		return CueHit, true
	case telemetry.EventPowerUp:
		return CuePowerUp, true
	case telemetry.EventPowerUpExpired:
		return CueExpire, true
	case telemetry.EventExhausted:
		return CueDeath, true
	}
	return 0, false
}

// throttle rate-limits each cue independently.
type throttle struct {
	last [cueCount]time.Time
}

func (t *throttle) allow(c Cue, now time.Time) bool {
	if !t.last[c].IsZero() && now.Sub(t.last[c]) < minGap {
		return false
	}
	t.last[c] = now
	return true
}

// Player mixes cues onto the speaker. A nil *Player is silent, so callers
// can keep one even when audio failed to start.
type Player struct {
	mu       sync.Mutex
	mixer    *beep.Mixer
	volume   float64
	focus    uint32
	throttle throttle
	now      func() time.Time
}

// New opens the speaker and starts the mixer.
func New(volume float64) (*Player, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	p := &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
		now:    time.Now,
	}
	speaker.Play(p.mixer)
	return p, nil
}

// SetFocus limits cues to events involving the muncher with the given ID (0 = all).
func (p *Player) SetFocus(id uint32) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.focus = id
	p.mu.Unlock()
}

// HandleEvent plays the cue for ev, if any. Suitable as a game event sink.
func (p *Player) HandleEvent(ev telemetry.Event) {
	if p == nil {
		return
	}
	p.mu.Lock()
	focus := p.focus
	p.mu.Unlock()

	if c, ok := CueForEvent(ev, focus); ok {
		p.Play(c)
	}
}

// Play mixes a cue in unless the same cue played very recently.
func (p *Player) Play(c Cue) {
	if p == nil || c < 0 || c >= cueCount {
		return
	}

	p.mu.Lock()
	ok := p.throttle.allow(c, p.now())
	p.mu.Unlock()
	if !ok {
		return
	}

	s, err := Tone(c, sampleRate, p.volume)
	if err != nil {
		slog.Debug("audio cue failed", "cue", c, "error", err)
		return
	}

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops playback.
func (p *Player) Close() {
	if p == nil {
		return
	}
	speaker.Clear()
	speaker.Close()
}
