// Terrain noise preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/noisepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/config"
	"github.com/pthm-cable/pasture/renderer"
	"github.com/pthm-cable/pasture/world"
)

const (
	windowWidth  = 1000
	windowHeight = 560
	previewSize  = 512
	gridSize     = 256
	panelWidth   = windowWidth - previewSize - 30
)

// FieldParams holds the terrain field parameters.
type FieldParams struct {
	Scale float32
	Seed  int64
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := FieldParams{
		Scale: float32(cfg.World.NoiseScale),
		Seed:  cfg.World.Seed,
	}
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Terrain Noise Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	pixels := make([]color.RGBA, gridSize*gridSize)
	var lo, hi, avg float32
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			field := world.NewField(params.Seed, params.Scale, cfg.Derived.WorldSize32)
			lo, hi, avg = sample(field, pixels)
			rl.UpdateTexture(texture, pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Avg: %.3f", lo, hi, avg), 15, previewSize+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Terrain Field", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Scale (noise frequency per world unit)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: 20},
			"0.0005", "0.02",
			params.Scale, 0.0005, 0.02,
		)
		rl.DrawText(fmt.Sprintf("%.4f", params.Scale), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.Scale {
			params.Scale = newScale
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset") {
			params = defaults
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yamlLines(params) {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

func yamlLines(p FieldParams) []string {
	return []string{
		"world:",
		fmt.Sprintf("  seed: %d", p.Seed),
		fmt.Sprintf("  noise_scale: %.4f", p.Scale),
	}
}

// sample fills pixels with the ground gradient over the whole world square
// and returns the field's min, max and mean.
func sample(f world.Field, pixels []color.RGBA) (lo, hi, avg float32) {
	lo, hi = 1, 0
	var sum float32
	step := f.Size() / gridSize
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			v := f.Noise((float32(x)+0.5)*step, (float32(y)+0.5)*step)
			lo, hi = min(lo, v), max(hi, v)
			sum += v
			pixels[y*gridSize+x] = renderer.GroundColor(v)
		}
	}
	return lo, hi, sum / float32(len(pixels))
}
