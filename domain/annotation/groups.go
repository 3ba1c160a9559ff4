package annotation

import "gonum.org/v1/gonum/spatial/r2"

// Groups returns the groups in creation order.
func (m *Model) Groups() []*Group {
	out := make([]*Group, len(m.groups))
	copy(out, m.groups)
	return out
}

// Active returns the active group, or nil without an image.
func (m *Model) Active() *Group {
	if m.active < 0 || m.active >= len(m.groups) {
		return nil
	}
	return m.groups[m.active]
}

// Group returns the group with the given id.
func (m *Model) Group(id int) *Group {
	for _, g := range m.groups {
		if g.id == id {
			return g
		}
	}
	return nil
}

// AddGroup creates an empty group and makes it active.
func (m *Model) AddGroup() *Group {
	if m.img == nil {
		return nil
	}
	g := m.addGroup()
	if m.logger != nil {
		m.logger.Info("group added", "group", g.id)
	}
	m.changed()
	return g
}

func (m *Model) addGroup() *Group {
	m.nextID++
	g := &Group{id: m.nextID}
	m.groups = append(m.groups, g)
	m.active = len(m.groups) - 1
	return g
}

// SetActive makes the group with id active.
func (m *Model) SetActive(id int) bool {
	for i, g := range m.groups {
		if g.id == id {
			if m.active != i {
				m.active = i
				m.changed()
			}
			return true
		}
	}
	return false
}

// CycleActive moves the active marker by step positions, wrapping around.
func (m *Model) CycleActive(step int) {
	n := len(m.groups)
	if n == 0 {
		return
	}
	m.active = ((m.active+step)%n + n) % n
	m.changed()
}

// DeleteGroup removes a group. Deleting the last group creates a fresh
// empty one so the list is never empty while an image is loaded.
func (m *Model) DeleteGroup(id int) bool {
	idx := -1
	for i, g := range m.groups {
		if g.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	m.groups = append(m.groups[:idx], m.groups[idx+1:]...)
	switch {
	case len(m.groups) == 0:
		m.addGroup()
	case m.active >= idx && m.active > 0:
		m.active--
	}
	if m.logger != nil {
		m.logger.Info("group deleted", "group", id, "remaining", len(m.groups))
	}
	m.changed()
	return true
}

// AddHole appends a hole to the active group. It is a no-op without a
// scale and returns the new hole's index.
func (m *Model) AddHole(pixel r2.Vec) (int, bool) {
	g := m.Active()
	if g == nil || m.scale <= 0 {
		return -1, false
	}
	i := g.addHole(m.clamp(pixel), m.scale)
	m.recompute(g)
	return i, true
}

// MoveHole relocates hole i of the active group, clamped to the image.
func (m *Model) MoveHole(i int, pixel r2.Vec) bool {
	g := m.Active()
	if g == nil || m.scale <= 0 {
		return false
	}
	if !g.moveHole(i, m.clamp(pixel), m.scale) {
		return false
	}
	m.recompute(g)
	return true
}

// RemoveHole deletes hole i of the active group.
func (m *Model) RemoveHole(i int) bool {
	g := m.Active()
	if g == nil || !g.removeHole(i) {
		return false
	}
	m.recompute(g)
	return true
}

// ClearHoles removes every hole of the active group.
func (m *Model) ClearHoles() bool {
	g := m.Active()
	if g == nil || g.Len() == 0 {
		return false
	}
	g.clearHoles()
	m.recompute(g)
	return true
}

// SetAim sets or replaces the active group's aiming point.
func (m *Model) SetAim(pixel r2.Vec) bool {
	g := m.Active()
	if g == nil || m.scale <= 0 {
		return false
	}
	g.setAim(m.clamp(pixel), m.scale)
	m.recompute(g)
	return true
}

// ClearAim removes the active group's aiming point.
func (m *Model) ClearAim() bool {
	g := m.Active()
	if g == nil || g.aim == nil {
		return false
	}
	g.clearAim()
	m.recompute(g)
	return true
}

// MoveInfoAnchor pins group id's overlay to an image-space point.
func (m *Model) MoveInfoAnchor(id int, p r2.Vec) bool {
	g := m.Group(id)
	if g == nil {
		return false
	}
	g.SetInfoAnchor(p)
	m.changed()
	return true
}
