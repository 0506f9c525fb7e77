package renderer

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/munchers/game"
)

func TestMuncherColor(t *testing.T) {
	tests := []struct {
		name string
		m    game.MuncherView
		want string
	}{
		{"healthy", game.MuncherView{Health: 100}, "blue"},
		{"healthy invincible", game.MuncherView{Health: 100, Invincible: true}, "light blue"},
		{"at threshold", game.MuncherView{Health: 50}, "red"},
		{"weak invincible", game.MuncherView{Health: 20, Invincible: true}, "red"},
	}

	names := map[string]rl.Color{
		"blue":       ColorMuncher,
		"light blue": ColorInvincible,
		"red":        ColorWeak,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MuncherColor(tt.m); got != names[tt.want] {
				t.Errorf("MuncherColor() = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestAxisIntent(t *testing.T) {
	tests := []struct {
		name    string
		edges   KeyEdges
		wantDir int
		wantOK  bool
	}{
		{"nothing", KeyEdges{}, 0, false},
		{"press negative", KeyEdges{NegPressed: true}, -1, true},
		{"press positive", KeyEdges{PosPressed: true}, 1, true},
		{"release", KeyEdges{AnyReleased: true}, 0, true},
		{"press beats release", KeyEdges{NegPressed: true, AnyReleased: true}, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := AxisIntent(game.AxisY, tt.edges)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if in.Kind != game.IntentSetAxis || in.Axis != game.AxisY || in.Dir != tt.wantDir {
				t.Errorf("intent = %+v, want SetAxis Y %d", in, tt.wantDir)
			}
		})
	}
}
