package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/mockups/anim"
	"github.com/milk9111/mockups/render"
	"github.com/milk9111/mockups/render/raster"
	"github.com/milk9111/mockups/render/screen"
	"github.com/milk9111/mockups/variants"
)

const (
	defaultWidth  = 1280
	defaultHeight = 720
)

var (
	backgroundColor = color.NRGBA{R: 0xf4, G: 0xf6, B: 0xfa, A: 0xff}
	hudColor        = color.NRGBA{R: 0x4a, G: 0x55, B: 0x6e, A: 0xff}
)

type GameOptions struct {
	Variants []string
	Start    int
	Software bool
	Watch    bool
	Logger   *zap.Logger
}

// Game hosts one animation instance at a time in the window. In the default
// mode frames are fired from Update and drawn on the GPU; with Software set a
// background task rasterizes on the CPU and Draw uploads the pixels.
type Game struct {
	opts   GameOptions
	logger *zap.Logger

	index   int
	inst    *anim.Instance
	queue   *anim.Queue
	task    *anim.Task
	started time.Time

	w, h, scale float64
	upload      *ebiten.Image

	hovering bool
	menu     *ebitenui.UI
	menuOpen bool
	face     ebtext.Face

	watcher *variants.Watcher
}

func NewGame(opts GameOptions) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	g := &Game{
		opts:    opts,
		logger:  opts.Logger,
		index:   opts.Start,
		started: time.Now(),
		face:    ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.menu = NewVariantMenu(g)

	if opts.Watch {
		if _, err := os.Stat(variants.OverrideDir); err != nil {
			g.logger.Warn("variant directory missing, watch disabled", zap.String("dir", variants.OverrideDir))
		} else {
			w, err := variants.NewWatcher(variants.OverrideDir)
			if err != nil {
				return nil, fmt.Errorf("watch %s: %w", variants.OverrideDir, err)
			}
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) current() string {
	return g.opts.Variants[g.index]
}

// open tears down the running instance and mounts the variant at index i.
func (g *Game) open(i int) {
	n := len(g.opts.Variants)
	i = ((i % n) + n) % n
	spec, err := variants.ByName(g.opts.Variants[i])
	if err != nil {
		g.logger.Error("failed to load variant", zap.String("variant", g.opts.Variants[i]), zap.Error(err))
		return
	}
	g.teardown()
	g.index = i
	g.hovering = false

	g.queue = anim.NewQueue()
	g.inst = anim.New(spec, anim.WithScheduler(g.queue), anim.WithLogger(g.logger))
	acquire := func() (render.Surface, error) { return screen.New(g.w, g.h, g.scale) }
	if g.opts.Software {
		acquire = func() (render.Surface, error) { return raster.New(g.w, g.h, g.scale) }
	}
	g.inst.Mount(acquire, g.w, g.h, g.scale)
	if g.opts.Software {
		g.task = g.inst.Start(context.Background())
	}
	g.logger.Info("variant opened", zap.String("variant", spec.Name), zap.Bool("software", g.opts.Software))
}

func (g *Game) teardown() {
	if g.task != nil {
		g.task.Stop()
		g.task = nil
	}
	if g.inst != nil {
		g.inst.Unmount()
		g.inst = nil
	}
}

// Close stops the frame loop and the file watcher.
func (g *Game) Close() {
	g.teardown()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.w <= 0 || g.h <= 0 {
		return nil
	}
	if g.inst == nil {
		g.open(g.index)
		if g.inst == nil {
			return fmt.Errorf("variant %s failed to load", g.current())
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if g.menuOpen {
			g.menuOpen = false
		} else {
			return ebiten.Termination
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.menuOpen = !g.menuOpen
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.open(g.index + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.open(g.index - 1)
	}

	g.reloadChanged()
	g.inst.Resize(g.w, g.h, g.scale)

	if g.menuOpen {
		g.menu.Update()
		g.leave()
	} else {
		g.trackPointer()
	}

	if !g.opts.Software {
		g.queue.Fire(time.Since(g.started))
	}
	return nil
}

func (g *Game) trackPointer() {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)/g.scale, float64(cy)/g.scale
	inside := ebiten.IsFocused() && x >= 0 && y >= 0 && x < g.w && y < g.h
	switch {
	case inside && !g.hovering:
		g.hovering = true
		g.inst.PointerEnter(x, y)
	case inside:
		g.inst.PointerMove(x, y)
	default:
		g.leave()
	}
}

func (g *Game) leave() {
	if g.hovering {
		g.hovering = false
		g.inst.PointerLeave()
	}
}

func (g *Game) reloadChanged() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if name != g.current() {
				continue
			}
			spec, err := variants.ByName(name)
			if err != nil {
				g.logger.Warn("variant reload rejected", zap.String("variant", name), zap.Error(err))
				continue
			}
			g.inst.Reload(spec)
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("variant watcher error", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (g *Game) Draw(dst *ebiten.Image) {
	dst.Fill(backgroundColor)
	if g.inst == nil {
		return
	}

	g.inst.View(func(s render.Surface) {
		switch s := s.(type) {
		case *screen.Surface:
			g.blit(dst, s.Image(), s.Scale())
		case *raster.Surface:
			img := s.Image()
			b := img.Bounds()
			if g.upload == nil || g.upload.Bounds().Dx() != b.Dx() || g.upload.Bounds().Dy() != b.Dy() {
				if g.upload != nil {
					g.upload.Deallocate()
				}
				g.upload = ebiten.NewImage(b.Dx(), b.Dy())
			}
			g.upload.WritePixels(img.Pix)
			g.blit(dst, g.upload, s.Scale())
		}
	})

	g.drawHUD(dst)
	if g.menuOpen {
		g.menu.Draw(dst)
	}
}

// blit draws a frame rendered at surfaceScale onto the device sized screen.
func (g *Game) blit(dst, frame *ebiten.Image, surfaceScale float64) {
	if frame == nil || surfaceScale <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	r := g.scale / surfaceScale
	op.GeoM.Scale(r, r)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(frame, op)
}

func (g *Game) drawHUD(dst *ebiten.Image) {
	spec := g.inst.Spec()
	lines := fmt.Sprintf("%s  %s\n%d/%d  frames %d  FPS %.1f\n<- -> switch   Tab menu   Esc quit",
		spec.Label, spec.Title, g.index+1, len(g.opts.Variants), g.inst.Frames(), ebiten.ActualFPS())

	op := &ebtext.DrawOptions{}
	op.GeoM.Scale(g.scale, g.scale)
	op.GeoM.Translate(12*g.scale, 10*g.scale)
	op.ColorScale.ScaleWithColor(hudColor)
	op.LineSpacing = 16
	ebtext.Draw(dst, lines, g.face, op)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	s := ebiten.Monitor().DeviceScaleFactor()
	if s <= 0 {
		s = 1
	}
	g.w, g.h, g.scale = outsideWidth, outsideHeight, s
	return outsideWidth * s, outsideHeight * s
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
