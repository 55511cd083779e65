// Package gui runs a scene in a raylib window. Holding the left mouse
// button (or space) rains drops.
package gui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/dropsim/internal/config"
	"github.com/san-kum/dropsim/internal/logging"
	"github.com/san-kum/dropsim/internal/scene"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
)

const maxTelemetry = 240

type App struct {
	Scene     *scene.Scene
	Renderer  *Renderer
	Telemetry []float64
	Last      scene.FrameStats
	width     int32
	height    int32
}

func initWindow(w, h int32, title string) {
	rl.InitWindow(w, h, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(rl.KeyQ)
}

// Run opens a window sized to the camera, builds the scene on GPU
// textures and loops until the window closes. The scene is torn down
// before the window so every texture is released while the GL context is
// alive.
func Run(cfg *config.Config, log logging.Logger) error {
	w, h := cfg.Camera2D().ScreenSize()
	initWindow(int32(w), int32(h), "dropsim :: "+cfg.Name)
	defer rl.CloseWindow()

	s, err := scene.New(cfg, scene.Deps{Textures: Textures{}, Logger: log})
	if err != nil {
		return err
	}
	defer s.Close()

	return NewApp(s).RunLoop()
}

func NewApp(s *scene.Scene) *App {
	w, h := s.Camera().ScreenSize()
	return &App{
		Scene:     s,
		Renderer:  NewRenderer(w, h),
		Telemetry: make([]float64, 0, maxTelemetry),
		width:     int32(w),
		height:    int32(h),
	}
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		if err := a.Update(); err != nil {
			return err
		}
		a.Draw()
	}
	return nil
}

func (a *App) Update() error {
	trigger := rl.IsMouseButtonDown(rl.MouseLeftButton) || rl.IsKeyDown(rl.KeySpace)
	elapsed := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))

	st, err := a.Scene.Frame(scene.FrameInput{Trigger: trigger, Now: time.Now(), Elapsed: elapsed})
	if err != nil {
		return err
	}
	a.Last = st
	a.Telemetry = append(a.Telemetry, float64(st.Live))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	return nil
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.Scene.Draw(a.Renderer)
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawText("dropsim", 12, 12, 20, ColAccent)
	rl.DrawText(fmt.Sprintf("live %d  spawned %d", a.Last.Live, a.Scene.Spawner().Spawned()), 12, 38, 14, ColText)
	if !a.Last.PrimaryAlive {
		rl.DrawText("primary lost", 12, 56, 14, rl.Red)
	}
	a.DrawTelemetry()
	rl.DrawText(fmt.Sprintf("%d FPS   [LMB/SPACE] RAIN  [Q] QUIT", rl.GetFPS()), 12, a.height-22, 12, ColTextDim)
}

// DrawTelemetry plots the live body count as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}
	x0, y0 := float32(12), float32(a.height-90)
	w, h := float32(a.width)/3, float32(50)

	lo, hi := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, v := range a.Telemetry {
		px := x0 + float32(i)/float32(maxTelemetry)*w
		py := y0 + h - float32((v-lo)/(hi-lo))*h
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("%.0f", a.Telemetry[len(a.Telemetry)-1]), int32(x0+w+6), int32(y0+h-12), 12, ColText)
}
