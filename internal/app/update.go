package app

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
)

// TickMsg is an animation frame.
type TickMsg time.Time

// ChangedMsg reports that the engine, the section group or the notification
// stack published a change from outside the update loop.
type ChangedMsg struct{}

// InputHandler is a function type that handles input messages.
// This allows Update to delegate to the input package without creating a circular dependency.
type InputHandler func(msg tea.Msg, p *Playground) (tea.Model, tea.Cmd)

var inputHandler InputHandler

// SetInputHandler registers the input handler function.
// This must be called before the program starts.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// Init starts listening for core changes.
func (p *Playground) Init() tea.Cmd {
	return ListenForChanges(p.Changes())
}

// ListenForChanges turns wake-ups on ch into ChangedMsg.
func ListenForChanges(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ChangedMsg{}
	}
}

// TickCmd schedules the next animation frame.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second/config.NormalFPS, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update implements tea.Model.
func (p *Playground) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.Resize(msg.Width, msg.Height)
		return p, p.frames()

	case ChangedMsg:
		return p, tea.Batch(ListenForChanges(p.Changes()), p.frames())

	case TickMsg:
		p.ticking = false
		p.glide.Step()
		return p, p.frames()
	}

	if inputHandler == nil {
		return p, nil
	}
	_, cmd := inputHandler(msg, p)
	return p, tea.Batch(cmd, p.frames())
}

// frames refreshes from the cores and keeps one tick loop alive while
// anything is moving.
func (p *Playground) frames() tea.Cmd {
	if !p.Refresh() || p.ticking {
		return nil
	}
	p.ticking = true
	return TickCmd()
}
