package presenter

import (
	"testing"

	"github.com/soocke/shotgroup-go/domain/interaction"
)

func TestToolbarPresenter_SelectModeExplainsRefusal(t *testing.T) {
	f := newFixture(t)
	view := &fakeStatus{}
	p := NewToolbarPresenter(f.ctrl, f.frame, view, nil)

	p.SelectMode(interaction.ModePlacingHoles)
	if f.ctrl.Mode() != interaction.ModeScaling {
		t.Fatalf("mode should not change without a scale")
	}
	if view.last() != "Calibrate the scale first: drag along the reference" {
		t.Fatalf("unexpected status %q", view.last())
	}

	f.calibrate(t)
	f.p.Tick()
	p.SelectMode(interaction.ModeSelectingHole)
	if f.ctrl.Mode() != interaction.ModeSelectingHole || !f.frame.Dirty() {
		t.Fatalf("expected selecting mode and a redraw")
	}
}

func TestToolbarPresenter_GroupCommands(t *testing.T) {
	f := newFixture(t)
	p := NewToolbarPresenter(f.ctrl, f.frame, &fakeStatus{}, nil)
	f.calibrate(t)
	m := f.ctrl.Model()

	p.AddGroup()
	if len(m.Groups()) != 2 || m.Active().ID() != 2 {
		t.Fatalf("expected active group 2 of 2")
	}
	p.NextGroup()
	if m.Active().ID() != 1 {
		t.Fatalf("next should wrap to group 1, got %d", m.Active().ID())
	}
	p.DeleteGroup()
	if len(m.Groups()) != 1 || m.Active().ID() != 2 {
		t.Fatalf("expected only group 2 left")
	}
	p.DeleteGroup()
	if len(m.Groups()) != 1 {
		t.Fatalf("the last group is never removed")
	}

	p.ClearScale()
	if _, ok := m.Scale(); ok || f.ctrl.Mode() != interaction.ModeScaling {
		t.Fatalf("clear scale should return to scaling")
	}
}

func TestToolbarPresenter_NilSafe(t *testing.T) {
	var p *ToolbarPresenter
	p.SelectMode(interaction.ModePanning)
	p.AddGroup()
	p.ZoomToFit()
}
