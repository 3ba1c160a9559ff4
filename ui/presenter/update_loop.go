package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters, redraws the canvas at most once, and
// invokes a scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Canvas   *CanvasPresenter
	Mode     *ModePresenter
	Results  *ResultsPresenter
	Session  *SessionPresenter
	Schedule func()
}

func NewLoop(canvas *CanvasPresenter, mode *ModePresenter, results *ResultsPresenter, sess *SessionPresenter, schedule func()) *Loop {
	return &Loop{Canvas: canvas, Mode: mode, Results: results, Session: sess, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// Flush pending mode changes before the frame so label and canvas agree.
	if l.Mode != nil {
		l.Mode.Tick(now)
	}
	if l.Results != nil {
		l.Results.Tick()
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Canvas != nil {
		l.Canvas.Tick()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
