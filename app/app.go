package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/shotgroup-go/config"
	"github.com/soocke/shotgroup-go/debug"
	"github.com/soocke/shotgroup-go/ui/theme"
	"github.com/soocke/shotgroup-go/ui/view"
)

// Source selects what is shown when the window opens.
type Source struct {
	Path   string // image file; takes precedence
	Screen bool   // grab the screen when Path is empty
}

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	c        *AppContainer
	interval time.Duration
	afterID  string
	stop     chan struct{}
	src      Source
}

// NewApp prepares the window and builds the container.
func NewApp(title string, cfg *config.Config, cfgPath string, src Source, logger *slog.Logger) (*app, error) {
	id := uuid.New()
	logger = logger.With("session", id.String())
	a := &app{cfg: cfg, logger: logger, src: src, stop: make(chan struct{})}
	a.interval = time.Duration(cfg.FrameIntervalMs) * time.Millisecond
	c, err := BuildContainer(cfg, logger, cfgPath, id, a.scheduleUpdate)
	if err != nil {
		return nil, err
	}
	a.c = c

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	// Leave room for the side panel next to the canvas.
	WmGeometry(App, fmt.Sprintf("%dx%d+80+60", cfg.CanvasWidth+420, cfg.CanvasHeight+120))
	return a, nil
}

// Start builds the UI, shows the initial image and enters the Tk event loop.
func (a *app) Start() {
	theme.InitStyles()
	c := a.c
	c.RootView.Build(view.Handlers{
		SelectMode:      c.ToolbarPresenter.SelectMode,
		LoadFile:        func(path string) { _ = c.ImagePresenter.LoadFile(path) },
		GrabScreen:      func() { _ = c.ImagePresenter.GrabScreen() },
		LoadSample:      func() { _ = c.ImagePresenter.LoadSample() },
		Export:          func() { _, _ = c.ImagePresenter.Export() },
		AddGroup:        c.ToolbarPresenter.AddGroup,
		NextGroup:       c.ToolbarPresenter.NextGroup,
		DeleteGroup:     c.ToolbarPresenter.DeleteGroup,
		ClearAim:        c.ToolbarPresenter.ClearAim,
		ClearHoles:      c.ToolbarPresenter.ClearHoles,
		ClearScale:      c.ToolbarPresenter.ClearScale,
		ZoomToFit:       c.ToolbarPresenter.ZoomToFit,
		SettingsApplied: func() { _ = c.ImagePresenter.ApplySettings() },
		Exit:            a.exitHandler,
	}, a.src.Path)
	c.RootView.BindCanvas(c.CanvasPresenter)
	c.CanvasPresenter.Resize(a.cfg.CanvasWidth, a.cfg.CanvasHeight)

	switch {
	case a.src.Path != "":
		_ = c.ImagePresenter.LoadFile(a.src.Path)
	case a.src.Screen:
		_ = c.ImagePresenter.GrabScreen()
	default:
		_ = c.ImagePresenter.LoadSample()
	}

	if a.cfg.Debug {
		debug.StartStatsLogger(5*time.Second, a.logger, c.Frame.Counters, a.stop)
	}
	a.logger.Info("session started", "debug", a.cfg.Debug)

	// Kick off update loop.
	a.scheduleUpdate()
	App.Wait()
}

func (a *app) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
	if a.c != nil && a.c.Session != nil {
		img, total := a.c.Session.Values()
		a.logger.Info("session finished",
			"images", a.c.Session.Images(),
			"last_image", img.Round(time.Second).String(),
			"total", total.Round(time.Second).String(),
		)
	}
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(a.interval, func() { a.c.Loop.Tick() })
}
