package presenter

import (
	"time"

	"github.com/soocke/shotgroup-go/ui/model"
)

// ImageOpenModel reports whether an image is loaded.
type ImageOpenModel interface{ HasImage() bool }

// SessionView displays formatted image and total durations.
type SessionView interface {
	SetSession(image, total time.Duration)
}

// SessionPresenter formats durations from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	img  ImageOpenModel
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, img ImageOpenModel, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, img: img, view: view}
}

// Tick updates the presenter: advance the session model and push values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.img == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.img.HasImage(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
}
