package input

import (
	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/app"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
)

func pointerButton(b tea.MouseButton) movable.Button {
	switch b {
	case tea.MouseLeft:
		return movable.ButtonPrimary
	case tea.MouseMiddle:
		return movable.ButtonMiddle
	case tea.MouseRight:
		return movable.ButtonSecondary
	default:
		return movable.ButtonNone
	}
}

func cell(m tea.Mouse) movable.Point {
	return movable.Point{X: float64(m.X), Y: float64(m.Y)}
}

// handleMouseClick hit-tests from the top layer down: help, notifications,
// the panel, then the accordion.
func handleMouseClick(msg tea.MouseClickMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	mouse := msg.Mouse()

	if p.ShowHelp {
		p.ShowHelp = false
		return p, nil
	}

	if r, ok := p.ToastAt(mouse.X, mouse.Y); ok {
		if mouse.Button == tea.MouseLeft {
			p.DismissNotification(r.ID)
		}
		return p, nil
	}

	if p.InPanel(mouse.X, mouse.Y) {
		// The engine ignores anything but the primary button.
		p.Engine.StartDrag(movable.PointerEvent{Point: cell(mouse), Button: pointerButton(mouse.Button)})
		return p, nil
	}

	if i := p.SectionAt(mouse.X, mouse.Y); i >= 0 && mouse.Button == tea.MouseLeft {
		p.ToggleSection(i)
	}
	return p, nil
}

// handleMouseMotion follows the pointer while a drag session is open.
func handleMouseMotion(msg tea.MouseMotionMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	if p.Engine.Dragging() {
		p.Engine.UpdateDrag(cell(msg.Mouse()))
	}
	return p, nil
}

// handleMouseRelease ends the drag: close past a threshold, otherwise snap.
func handleMouseRelease(_ tea.MouseReleaseMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	p.Engine.EndDrag()
	return p, nil
}
