package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/weave-visualizer/engine/internal/config"
	"github.com/weave-visualizer/engine/internal/gallery"
	"github.com/weave-visualizer/engine/internal/logutil"
	"github.com/weave-visualizer/engine/internal/models"
	"github.com/weave-visualizer/engine/internal/options"
	"github.com/weave-visualizer/engine/internal/scheduler"
	"github.com/weave-visualizer/engine/internal/surface"
)

const (
	// pxPerCol is how many device pixels one terminal column covers.
	pxPerCol = 10.0
	pxPerRow = pxPerCol * 2

	frameInterval = 33 * time.Millisecond
)

// host runs the gallery on a terminal screen. Apart from pollEvents, every
// method runs on the scheduler's goroutine.
type host struct {
	screen  tcell.Screen
	dpr     float64
	sched   scheduler.Scheduler
	post    func(func()) bool
	gallery *gallery.Gallery
	cancel  context.CancelFunc
	frame   scheduler.Timer
	log     *slog.Logger
}

// newHost wires a gallery to screen. post must enqueue a function onto the
// goroutine that runs sched's callbacks.
func newHost(cfg *config.Config, screen tcell.Screen, sched scheduler.Scheduler, post func(func()) bool, pools *options.Pools, rng options.Rand, cancel context.CancelFunc) *host {
	dpr := cfg.Surface.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	h := &host{
		screen: screen,
		dpr:    dpr,
		sched:  sched,
		post:   post,
		cancel: cancel,
		log:    logutil.For("host"),
	}
	h.gallery = gallery.New(cfg, sched, pools, rng, h.newSurface)
	h.gallery.OnLayout(func(models.PackedLayout) { h.place() })
	return h
}

func (h *host) newSurface() surface.Surface {
	t := surface.NewTerminal(h.screen, pxPerCol, h.dpr)
	t.SetVisible(false)
	return t
}

// viewport returns the gallery area in logical pixels. The last screen row
// holds the status line.
func (h *host) viewport() (float64, float64) {
	w, ht := h.screen.Size()
	return float64(w) * pxPerCol / h.dpr, float64(max(ht-1, 1)) * pxPerRow / h.dpr
}

// rowHeight is the logical height of one terminal row.
func (h *host) rowHeight() float64 {
	return pxPerRow / h.dpr
}

func (h *host) start() {
	h.gallery.Start(h.viewport())
	h.place()
	h.frame = h.sched.Every(frameInterval, h.show)
}

// place moves every tile surface to its packed position relative to the
// scroll offset and redraws the visible ones.
func (h *host) place() {
	h.screen.Clear()
	top := h.gallery.ScrollTop()
	_, vh := h.viewport()

	for _, t := range h.gallery.Tiles() {
		term, ok := t.Preview.Surface().(*surface.Terminal)
		if !ok {
			continue
		}
		p := t.Placement
		visible := p.Bottom() > top && p.Y < top+vh
		term.SetOrigin(p.X, p.Y-top)
		term.SetVisible(visible)
		if visible {
			t.Preview.Render()
		}
	}
}

func (h *host) show() {
	h.drawStatus()
	h.screen.Show()
}

func (h *host) drawStatus() {
	w, ht := h.screen.Size()
	s := h.gallery.Settings()
	anim, bw := "on", "off"
	if !s.AnimationsEnabled {
		anim = "off"
	}
	if len(s.PaletteOverride) > 0 {
		bw = "on"
	}
	text := fmt.Sprintf(" %d tiles  %d columns  [a] animations %s  [b] black/white %s  [j/k] scroll  [q] quit",
		h.gallery.Len(), h.gallery.Layout().Columns, anim, bw)

	style := tcell.StyleDefault.Reverse(true)
	runes := []rune(text)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		h.screen.SetContent(x, ht-1, r, nil, style)
	}
}

func (h *host) scroll(delta float64) {
	top := max(0, h.gallery.ScrollTop()+delta)
	if !h.gallery.Scroll(top) {
		h.place()
	}
}

// pollEvents forwards screen events to the loop until the screen is
// finalized or the loop stops.
func (h *host) pollEvents() {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		if !h.post(func() { h.handle(ev) }) {
			return
		}
	}
}

func (h *host) handle(ev tcell.Event) {
	_, vh := h.viewport()

	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
		h.gallery.Resize(h.viewport())

	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			h.scroll(-3 * h.rowHeight())
		case ev.Buttons()&tcell.WheelDown != 0:
			h.scroll(3 * h.rowHeight())
		}

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			h.cancel()
		case tcell.KeyUp:
			h.scroll(-h.rowHeight())
		case tcell.KeyDown:
			h.scroll(h.rowHeight())
		case tcell.KeyPgUp:
			h.scroll(-vh)
		case tcell.KeyPgDn:
			h.scroll(vh)
		case tcell.KeyHome:
			h.scroll(-h.gallery.ScrollTop())
		case tcell.KeyRune:
			switch unicode.ToLower(ev.Rune()) {
			case 'q':
				h.cancel()
			case 'a':
				h.gallery.ToggleAnimations()
			case 'b':
				h.gallery.TogglePaletteOverride()
			case 'j':
				h.scroll(h.rowHeight())
			case 'k':
				h.scroll(-h.rowHeight())
			}
		}
	}
}

// close tears the gallery down. It runs after the loop has stopped.
func (h *host) close() {
	if h.frame != nil {
		h.frame.Stop()
	}
	h.gallery.Close()
}
