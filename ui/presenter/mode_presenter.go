package presenter

import (
	"time"

	"github.com/soocke/shotgroup-go/domain/interaction"
)

// ModeSource provides the controller methods the presenter requires.
type ModeSource interface {
	Mode() interaction.Mode
}

// ModeView sets the mode label and highlights the active mode button.
type ModeView interface {
	SetModeLabel(string)
	SetActiveMode(interaction.Mode)
}

// ModePresenter receives mode transitions and updates the view on the next tick.
type ModePresenter struct {
	src     ModeSource
	view    ModeView
	latest  interaction.Mode // last reflected mode
	shown   bool
	pending []interaction.Mode
}

func NewModePresenter(src ModeSource, view ModeView) *ModePresenter {
	return &ModePresenter{src: src, view: view}
}

// OnMode queues a transitioned mode from the controller listener.
//
// The latest queued mode will be reflected on the next Tick.
func (p *ModePresenter) OnMode(prev, next interaction.Mode) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, next)
}

// Tick processes queued modes and updates the view with the most recent one.
// The first tick always shows the current mode.
func (p *ModePresenter) Tick(now time.Time) {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	last := p.latest
	if len(p.pending) > 0 {
		last = p.pending[len(p.pending)-1]
		p.pending = p.pending[:0]
	} else if !p.shown {
		last = p.src.Mode()
	}
	if last != p.latest || !p.shown {
		p.latest = last
		p.shown = true
		p.view.SetModeLabel("Mode: " + last.Label())
		p.view.SetActiveMode(last)
	}
}
