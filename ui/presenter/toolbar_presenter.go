package presenter

import (
	"errors"
	"log/slog"

	"github.com/soocke/shotgroup-go/domain/interaction"
	"github.com/soocke/shotgroup-go/ui/model"
)

// ToolbarPresenter turns toolbar buttons into controller commands.
type ToolbarPresenter struct {
	ctrl   *interaction.Controller
	frame  *model.FrameModel
	view   StatusView
	logger *slog.Logger
}

func NewToolbarPresenter(ctrl *interaction.Controller, frame *model.FrameModel, view StatusView, logger *slog.Logger) *ToolbarPresenter {
	return &ToolbarPresenter{ctrl: ctrl, frame: frame, view: view, logger: logger}
}

// SelectMode switches the interaction mode, reporting why it was refused.
func (p *ToolbarPresenter) SelectMode(m interaction.Mode) {
	if p == nil || p.ctrl == nil {
		return
	}
	err := p.ctrl.SetMode(m)
	switch {
	case err == nil:
		p.frame.MarkDirty()
		return
	case errors.Is(err, interaction.ErrScaleRequired):
		p.status("Calibrate the scale first: drag along the reference")
	case errors.Is(err, interaction.ErrNoImage):
		p.status("Load an image first")
	default:
		p.status(err.Error())
	}
	if p.logger != nil {
		p.logger.Debug("mode refused", "mode", m.String(), "error", err)
	}
}

func (p *ToolbarPresenter) run(fn func() bool) {
	if p == nil || p.ctrl == nil {
		return
	}
	if fn() {
		p.frame.MarkDirty()
	}
}

func (p *ToolbarPresenter) AddGroup()    { p.run(func() bool { return p.ctrl.AddGroup() }) }
func (p *ToolbarPresenter) DeleteGroup() { p.run(func() bool { return p.ctrl.DeleteActiveGroup() }) }
func (p *ToolbarPresenter) NextGroup()   { p.run(func() bool { p.ctrl.CycleGroup(1); return true }) }
func (p *ToolbarPresenter) ClearAim()    { p.run(func() bool { return p.ctrl.ClearAim() }) }
func (p *ToolbarPresenter) ClearHoles()  { p.run(func() bool { return p.ctrl.ClearHoles() }) }
func (p *ToolbarPresenter) ZoomToFit()   { p.run(func() bool { p.ctrl.ZoomToFit(); return true }) }

// ClearScale drops the calibration and returns to scaling.
func (p *ToolbarPresenter) ClearScale() {
	p.run(func() bool { p.ctrl.ClearCalibration(); return true })
}

func (p *ToolbarPresenter) status(text string) {
	if p.view != nil {
		p.view.SetStatus(text)
	}
}
