package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows the session id and the time spent annotating.
type SessionStats interface {
	SetSession(image, total time.Duration)
}

type sessionStats struct {
	idLbl    *LabelWidget
	imageLbl *LabelWidget
	totalLbl *LabelWidget
}

// NewSessionStats creates the id, image and total labels in one row of parent.
func NewSessionStats(parent *FrameWidget, row int, sessionID string) SessionStats {
	s := &sessionStats{
		idLbl:    Label(Txt("Session " + sessionID)),
		imageLbl: Label(Width(14)),
		totalLbl: Label(Width(14)),
	}
	for i, l := range []*LabelWidget{s.idLbl, s.imageLbl, s.totalLbl} {
		if parent != nil {
			Grid(l, In(parent), Row(row), Column(i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(l, Row(row), Column(i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.SetSession(0, 0)
	return s
}

// SetSession updates both duration labels.
func (s *sessionStats) SetSession(image, total time.Duration) {
	if s == nil || s.imageLbl == nil || s.totalLbl == nil {
		return
	}
	s.imageLbl.Configure(Txt("Image: " + clock(image)))
	s.totalLbl.Configure(Txt("Total: " + clock(total)))
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
