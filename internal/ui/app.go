package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/linguisician/intel8080/internal/invaders"
)

// App drives a cabinet under ebiten: keyboard in, framebuffer out.
type App struct {
	cfg    Config
	cab    *invaders.Cabinet
	tex    *ebiten.Image
	paused bool
}

func NewApp(cfg Config, cab *invaders.Cabinet) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(invaders.ScreenW*cfg.Scale, invaders.ScreenH*cfg.Scale)
	return &App{cfg: cfg, cab: cab}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	var in invaders.Inputs
	if ebiten.IsKeyPressed(ebiten.KeyC) {
		in.Coin = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyDigit1) {
		in.P1Start = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyDigit2) {
		in.P2Start = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		in.P1Left = true
		in.P2Left = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		in.P1Right = true
		in.P2Right = true
	}
	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		in.P1Shot = true
		in.P2Shot = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyT) {
		in.Tilt = true
	}
	a.cab.SetInputs(in)

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if !a.paused {
		a.cab.StepFrame()
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(invaders.ScreenW, invaders.ScreenH)
	}
	a.tex.WritePixels(a.cab.Framebuffer())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(a.cfg.Scale), float64(a.cfg.Scale))
	screen.DrawImage(a.tex, op)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return invaders.ScreenW * a.cfg.Scale, invaders.ScreenH * a.cfg.Scale
}
