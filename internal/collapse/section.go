package collapse

// Section is the handle returned by Register. It carries its group, so
// toggling through the handle goes through the same constraint enforcement
// as Group.Update.
type Section struct {
	group *Group
	id    string
}

// ID returns the section id.
func (s *Section) ID() string { return s.id }

// Toggle flips the section as a user action.
func (s *Section) Toggle() bool { return s.group.Update(s.id) }

// SetOpen opens or closes the section as a user action.
func (s *Section) SetOpen(open bool) bool { return s.group.SetOpen(s.id, open) }

// IsOpen reports whether the section is open. Unregistered sections are closed.
func (s *Section) IsOpen() bool {
	info, ok := s.group.Get(s.id)
	return ok && info.Open
}

// Unregister removes the section from its group.
func (s *Section) Unregister() bool { return s.group.Unregister(s.id) }
