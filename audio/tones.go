package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Cue is a short sound tied to a simulation event.
type Cue int

const (
	CueFood Cue = iota
	CueBump
	CueChomp
	CueShot
	CueHit
	CuePowerUp
	CueExpire
	CueDeath
	cueCount
)

// note is one tone of a cue.
type note struct {
	wave     waveType
	freq     float64
	duration time.Duration
}

type waveType int

const (
	waveSine waveType = iota
	waveSquare
	waveSaw
	waveTriangle
)

// cueNotes are played in sequence.
var cueNotes = [cueCount][]note{
	CueFood:    {{waveSine, 880, 60 * time.Millisecond}},
	CueBump:    {{waveSquare, 160, 90 * time.Millisecond}},
	CueChomp:   {{waveTriangle, 330, 50 * time.Millisecond}, {waveTriangle, 220, 70 * time.Millisecond}},
	CueShot:    {{waveSaw, 1200, 30 * time.Millisecond}},
	CueHit:     {{waveSquare, 300, 60 * time.Millisecond}},
	CuePowerUp: {{waveSine, 659.25, 80 * time.Millisecond}, {waveSine, 987.77, 120 * time.Millisecond}},
	CueExpire:  {{waveSine, 987.77, 80 * time.Millisecond}, {waveSine, 659.25, 120 * time.Millisecond}},
	CueDeath:   {{waveSquare, 110, 300 * time.Millisecond}},
}

// cueVolume is the relative loudness of each cue.
var cueVolume = [cueCount]float64{
	CueFood:    0.5,
	CueBump:    0.6,
	CueChomp:   0.8,
	CueShot:    0.3,
	CueHit:     0.7,
	CuePowerUp: 0.8,
	CueExpire:  0.6,
	CueDeath:   1.0,
}

// Tone builds the finite streamer for a cue at the given master volume.
func Tone(c Cue, rate beep.SampleRate, volume float64) (beep.Streamer, error) {
	if c < 0 || c >= cueCount {
		return nil, fmt.Errorf("unknown cue %d", c)
	}

	parts := make([]beep.Streamer, 0, len(cueNotes[c]))
	for _, n := range cueNotes[c] {
		osc, err := oscillator(n.wave, rate, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(rate.N(n.duration), osc))
	}
	return newVolume(beep.Seq(parts...), cueVolume[c]*volume), nil
}

func oscillator(w waveType, rate beep.SampleRate, freq float64) (beep.Streamer, error) {
	switch w {
	case waveSquare:
		return generators.SquareTone(rate, freq)
	case waveSaw:
		return generators.SawtoothTone(rate, freq)
	case waveTriangle:
		return generators.TriangleTone(rate, freq)
	}
	return generators.SineTone(rate, freq)
}

// newVolume wraps s in a linear gain. Log2(0) is -Inf, so zero gain is silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
