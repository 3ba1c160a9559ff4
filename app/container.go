package app

import (
	"log/slog"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/shotgroup-go/capture"
	"github.com/soocke/shotgroup-go/config"
	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/export"
	"github.com/soocke/shotgroup-go/domain/interaction"
	"github.com/soocke/shotgroup-go/domain/overlay"
	"github.com/soocke/shotgroup-go/domain/render"
	"github.com/soocke/shotgroup-go/domain/units"
	"github.com/soocke/shotgroup-go/domain/viewport"
	"github.com/soocke/shotgroup-go/ui/model"
	"github.com/soocke/shotgroup-go/ui/presenter"
	"github.com/soocke/shotgroup-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config    *config.Config
	Logger    *slog.Logger
	SessionID uuid.UUID

	Model      *annotation.Model
	Viewport   *viewport.Viewport
	Controller *interaction.Controller
	Builder    *overlay.Builder
	Renderer   *render.Renderer
	Exporter   *export.Exporter
	Loader     *capture.Loader
	Frame      *model.FrameModel
	Session    *model.SessionModel
	RootView   *view.RootView
	UI         view.UI

	// Presenters
	CanvasPresenter  *presenter.CanvasPresenter
	ModePresenter    *presenter.ModePresenter
	ResultsPresenter *presenter.ResultsPresenter
	SessionPresenter *presenter.SessionPresenter
	ImagePresenter   *presenter.ImagePresenter
	ToolbarPresenter *presenter.ToolbarPresenter
	Loop             *presenter.Loop
}

// BuildContainer constructs all components. No widgets are created; the
// root view is built later by the app once Tk styles are active.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string, sessionID uuid.UUID, schedule func()) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, Logger: logger, SessionID: sessionID}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	c.Model = annotation.New(units.Standard{}, settings, cfg.MinReferencePx, logger)
	c.Viewport = viewport.New(viewport.Options{
		MinZoom:      cfg.MinZoom,
		MaxZoom:      cfg.MaxZoom,
		MaxBufferDim: float64(cfg.MaxBufferDim),
	})

	palette := overlay.NewPalette(cfg.GroupColors)
	c.Builder = overlay.NewBuilder(palette, cfg.InfoBoxCacheSize)
	style := overlay.DefaultStyle()
	style.InfoOffset = r2.Vec{X: cfg.InfoOffsetX, Y: cfg.InfoOffsetY}

	c.Controller = interaction.New(c.Model, c.Viewport, c.Builder, style, interaction.Options{
		HitRadiusBufferPx:      cfg.HitRadiusPx,
		NudgeDisplayPx:         cfg.NudgePx,
		DragThresholdDisplayPx: cfg.DragThresholdPx,
		ZoomStep:               cfg.ZoomStep,
	}, logger)

	quality := render.Nearest
	if cfg.Smoothing {
		quality = render.Bilinear
	}
	c.Renderer = render.New(quality)
	c.Exporter = export.New(palette, overlay.DefaultStyle(), logger)
	c.Loader = capture.NewLoader(logger)
	c.Frame = &model.FrameModel{}
	c.Session = model.NewSessionModel(sessionID)

	// View
	c.RootView = view.NewRootView(cfg, cfgPath, sessionID.String(), logger)
	c.UI = c.RootView

	// Presenters
	c.CanvasPresenter = presenter.NewCanvasPresenter(c.Controller, c.Builder, c.Renderer, c.Frame, c.UI, style, cfg.DevicePixelRatio, logger)
	c.ModePresenter = presenter.NewModePresenter(c.Controller, c.UI)
	c.ResultsPresenter = presenter.NewResultsPresenter(c.Controller, c.UI)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Model, c.UI)
	c.ImagePresenter = presenter.NewImagePresenter(c.Loader, c.Exporter, c.Controller, c.Session, c.Frame, cfg, c.UI, logger)
	c.ToolbarPresenter = presenter.NewToolbarPresenter(c.Controller, c.Frame, c.UI, logger)
	c.Controller.AddListener(c.ModePresenter.OnMode)
	c.Loop = presenter.NewLoop(c.CanvasPresenter, c.ModePresenter, c.ResultsPresenter, c.SessionPresenter, schedule)
	return c, nil
}
