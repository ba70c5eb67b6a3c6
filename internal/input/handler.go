// Package input translates terminal input into playground actions.
//
// Mouse presses on the panel start a drag session, arrow keys move it with
// acceleration, and every other key is resolved through the keybinding
// registry and dispatched as a named action.
package input

import (
	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/app"
)

// HandleInput is the main input coordinator that routes messages to appropriate handlers
func HandleInput(msg tea.Msg, p *app.Playground) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return HandleKeyPress(msg, p)
	case tea.KeyReleaseMsg:
		return HandleKeyRelease(msg, p)
	case tea.MouseClickMsg:
		return handleMouseClick(msg, p)
	case tea.MouseMotionMsg:
		return handleMouseMotion(msg, p)
	case tea.MouseReleaseMsg:
		return handleMouseRelease(msg, p)
	case tea.BlurMsg:
		// Losing focus means the release will never arrive.
		p.Engine.EndDrag()
		p.ReleaseKeys()
		return p, nil
	}
	return p, nil
}
