package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/munchers/camera"
	"github.com/pthm-cable/munchers/game"
	"github.com/pthm-cable/munchers/ui"
)

const controlsLegend = "[WASD/Arrows] Move  [Space] Shoot  [P] Pause  [</>] Speed  [Wheel] Zoom  [F] Follow  [F11] Fullscreen"

// App drives a game in a raylib window. The window must already be open.
type App struct {
	game *game.Game

	cam        *camera.Camera
	background *BackgroundRenderer
	entities   *EntityRenderer

	hud         *ui.HUD
	leaderboard *ui.LeaderboardPanel
	controls    *ui.ControlsPanel
	perf        *ui.PerfPanel
	overlays    *ui.OverlayRegistry

	follow  bool
	screenW float32
	screenH float32

	// Reused per frame
	snapshot game.Snapshot
	intents  []game.Intent
	entries  []ui.LeaderboardEntry
}

// NewApp creates the window presentation for g.
func NewApp(g *game.Game) *App {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	arenaW := cfg.Derived.ArenaW32
	arenaH := cfg.Derived.ArenaH32

	return &App{
		game:        g,
		cam:         camera.New(w, h, arenaW, arenaH),
		background:  NewBackgroundRenderer(arenaW, arenaH, float32(cfg.Physics.GridCellSize)),
		entities:    NewEntityRenderer(),
		hud:         ui.NewHUD(),
		leaderboard: ui.NewLeaderboardPanel(200, 150),
		controls:    ui.NewControlsPanel(220, game.MaxStepsPerUpdate),
		perf:        ui.NewPerfPanel(10, 140),
		overlays:    ui.NewOverlayRegistry(),
		follow:      true,
		screenW:     w,
		screenH:     h,
	}
}

// Run loops until the window closes or maxTicks is reached (0 = unlimited).
func (a *App) Run(maxTicks int) {
	for !rl.WindowShouldClose() {
		a.handleInput()
		a.game.Update()
		a.draw()

		if maxTicks > 0 && int(a.game.Tick()) >= maxTicks {
			break
		}
	}
}

// Unload frees GPU resources.
func (a *App) Unload() {
	a.background.Unload()
}

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.game.TogglePause()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		a.game.SetStepsPerUpdate(a.game.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		a.game.SetStepsPerUpdate(a.game.StepsPerUpdate() + 1)
	}
	if rl.IsKeyPressed(rl.KeyF) {
		a.follow = !a.follow
	}

	if key := rl.GetKeyPressed(); key != 0 {
		a.overlays.HandleKeyPress(key)
	}

	a.intents = PollPlayerIntents(a.intents[:0])
	for _, in := range a.intents {
		a.game.Submit(in)
	}

	a.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenW && h == a.screenH {
		return
	}
	a.screenW = w
	a.screenH = h
	a.cam.Resize(w, h)
}

// handleCameraInput processes zoom and drag-pan.
func (a *App) handleCameraInput() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		a.cam.Pan(-d.X, -d.Y)
		a.follow = false
	}
}

func (a *App) draw() {
	a.game.SnapshotInto(&a.snapshot)
	s := &a.snapshot

	if a.follow {
		if p, ok := s.PlayerView(); ok {
			a.cam.CenterOn(p.X, p.Y)
		}
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	a.background.Draw(a.cam)
	a.entities.Draw(s, a.cam, EntityOptions{
		Labels:   a.overlays.IsEnabled(ui.OverlayLabels),
		Hitboxes: a.overlays.IsEnabled(ui.OverlayHitboxes),
	})

	a.drawHUD(s)

	rl.EndDrawing()
}

func (a *App) drawHUD(s *game.Snapshot) {
	screenW := int32(a.screenW)
	screenH := int32(a.screenH)

	data := ui.HUDData{
		Title:       "Munchers",
		Munchers:    len(s.Munchers),
		Projectiles: len(s.Projectiles),
		Foodlets:    len(s.Foodlets),
		Obstacles:   len(s.Obstacles),
		PowerUps:    len(s.PowerUps),
		Tick:        s.Tick,
		Clock:       s.Clock,
		Speed:       s.StepsPerUpdate,
		FPS:         rl.GetFPS(),
		Paused:      s.Paused,
	}
	if p, ok := s.PlayerView(); ok {
		data.PlayerAlive = true
		data.PlayerHealth = p.Health
		data.PlayerRadius = p.Radius
		data.Invincible = p.Invincible
	}
	a.hud.Draw(data)

	if a.overlays.IsEnabled(ui.OverlayLeaderboard) {
		a.entries = a.entries[:0]
		for _, m := range s.Leaderboard {
			a.entries = append(a.entries, ui.LeaderboardEntry{Name: m.Name, Radius: m.Radius, Player: m.Player})
		}
		a.leaderboard.Draw(screenW, a.entries)
	}

	if a.overlays.IsEnabled(ui.OverlayPerf) {
		a.perf.Draw(a.game.Perf().Stats())
	}

	if a.overlays.IsEnabled(ui.OverlayControls) {
		res := a.controls.Draw(screenW, screenH, s.Paused, s.StepsPerUpdate)
		if res.TogglePause {
			a.game.TogglePause()
		}
		if res.ResetView {
			a.cam.Reset()
			a.follow = false
		}
		a.game.SetStepsPerUpdate(res.Speed)
		a.hud.DrawControls(screenH, controlsLegend+"  "+a.overlays.Legend())
	}
}
