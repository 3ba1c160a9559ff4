package presenter

import (
	"fmt"
	"slices"

	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/overlay"
)

// ResultsSource exposes the model and the last user-facing error.
type ResultsSource interface {
	Model() *annotation.Model
	Err() error
}

// ResultsView shows the summary lines and the status message.
type ResultsView interface {
	SetResults(lines []string)
	SetStatus(text string)
}

// ResultsPresenter mirrors the active group's statistics into the side panel.
// Lines are recomputed only after the model reported a change.
type ResultsPresenter struct {
	src     ResultsSource
	view    ResultsView
	stale   bool
	lines   []string
	lastErr error
}

// NewResultsPresenter subscribes to model changes.
func NewResultsPresenter(src ResultsSource, view ResultsView) *ResultsPresenter {
	p := &ResultsPresenter{src: src, view: view, stale: true}
	if src != nil && src.Model() != nil {
		src.Model().Subscribe(p.Invalidate)
	}
	return p
}

// Invalidate marks the lines stale.
func (p *ResultsPresenter) Invalidate() {
	if p != nil {
		p.stale = true
	}
}

// Tick pushes changed lines and error text to the view.
func (p *ResultsPresenter) Tick() {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	if err := p.src.Err(); err != p.lastErr {
		p.lastErr = err
		if err != nil {
			p.view.SetStatus(err.Error())
		} else {
			p.view.SetStatus("")
		}
	}
	if !p.stale {
		return
	}
	p.stale = false
	lines := SummaryLines(p.src.Model())
	if slices.Equal(lines, p.lines) {
		return
	}
	p.lines = lines
	p.view.SetResults(lines)
}

// SummaryLines describes the calibration and the active group.
func SummaryLines(m *annotation.Model) []string {
	if m == nil || !m.HasImage() {
		return []string{"No image loaded"}
	}
	w, h := m.Size()
	lines := []string{fmt.Sprintf("Image: %.0f × %.0f px", w, h)}
	s := m.Settings()
	if scale, ok := m.Scale(); ok {
		lines = append(lines, fmt.Sprintf("Scale: %.2f px/%s", scale, s.ReferenceUnit))
	} else {
		lines = append(lines, "Scale: not calibrated")
	}
	groups := m.Groups()
	active := m.Active()
	if active == nil {
		return lines
	}
	lines = append(lines, fmt.Sprintf("Groups: %d (active %d)", len(groups), active.ID()))
	if res, ok := active.Results(); ok {
		lines = append(lines, overlay.InfoLines(active, res, s, m.Converter())...)
	} else if active.Len() == 0 {
		lines = append(lines, fmt.Sprintf("Group %d: no holes", active.ID()))
	}
	return lines
}
