package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/munchers/camera"
)

// BackgroundRenderer draws the arena floor from a cached texture.
type BackgroundRenderer struct {
	texture     rl.RenderTexture2D
	worldW      int32
	worldH      int32
	gridSize    int32
	initialized bool
}

// NewBackgroundRenderer creates a background for an arena of the given size,
// with grid lines every gridSize world units.
func NewBackgroundRenderer(worldW, worldH, gridSize float32) *BackgroundRenderer {
	return &BackgroundRenderer{
		worldW:   int32(worldW),
		worldH:   int32(worldH),
		gridSize: max(int32(gridSize), 8),
	}
}

// Init renders the floor texture (must be called after raylib window is created).
func (b *BackgroundRenderer) Init() {
	if b.initialized {
		return
	}

	b.texture = rl.LoadRenderTexture(b.worldW, b.worldH)
	rl.BeginTextureMode(b.texture)
	rl.ClearBackground(ColorArenaFloor)
	for x := b.gridSize; x < b.worldW; x += b.gridSize {
		rl.DrawLine(x, 0, x, b.worldH, ColorArenaGrid)
	}
	for y := b.gridSize; y < b.worldH; y += b.gridSize {
		rl.DrawLine(0, y, b.worldW, y, ColorArenaGrid)
	}
	rl.EndTextureMode()

	b.initialized = true
}

// Draw renders the arena floor and border through the camera.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	if !b.initialized {
		b.Init()
	}

	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(float32(b.worldW), float32(b.worldH))
	dst := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}

	// Render textures are stored upside down
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(b.worldW), Height: -float32(b.worldH)}
	rl.DrawTexturePro(b.texture.Texture, src, dst, rl.Vector2{}, 0, rl.White)
	rl.DrawRectangleLinesEx(dst, 2, ColorArenaBorder)
}

// Unload frees resources.
func (b *BackgroundRenderer) Unload() {
	if b.initialized {
		rl.UnloadRenderTexture(b.texture)
		b.initialized = false
	}
}
