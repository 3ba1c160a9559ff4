package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel tracks the session id, the time spent on the current image
// and the accumulated annotation time across images.
// It is decoupled from the UI; presenters should poll Values() and update views.
type SessionModel struct {
	id     uuid.UUID
	images int

	active       bool
	imageStart   time.Time
	imageElapsed time.Duration
	accumulated  time.Duration
}

// NewSessionModel returns a model for the given session id.
func NewSessionModel(id uuid.UUID) *SessionModel { return &SessionModel{id: id} }

// ID returns the session id.
func (m *SessionModel) ID() uuid.UUID {
	if m == nil {
		return uuid.Nil
	}
	return m.id
}

// Images returns how many images were loaded in this session.
func (m *SessionModel) Images() int {
	if m == nil {
		return 0
	}
	return m.images
}

// ImageLoaded closes the timing of the previous image and starts a new one.
func (m *SessionModel) ImageLoaded(now time.Time) {
	if m == nil {
		return
	}
	m.images++
	m.imageElapsed = 0
	if m.active {
		m.accumulated += now.Sub(m.imageStart)
		m.imageStart = now
	}
}

// OnTick updates the model using whether an image is open and the timestamp.
// Call periodically (for example, from a presenter tick).
func (m *SessionModel) OnTick(annotating bool, now time.Time) {
	if m == nil {
		return
	}
	if annotating {
		if !m.active { // off -> on
			m.active = true
			m.imageStart = now
		}
		m.imageElapsed = now.Sub(m.imageStart)
	} else if m.active { // on -> off
		m.imageElapsed = now.Sub(m.imageStart)
		m.accumulated += m.imageElapsed
		m.active = false
	}
}

// Values returns the time on the current image and the total annotation time.
// The total includes the current image when active.
func (m *SessionModel) Values() (image, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	image = m.imageElapsed
	total = m.accumulated
	if m.active {
		total += image
	}
	return
}
