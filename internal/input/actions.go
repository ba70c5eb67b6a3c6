package input

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/app"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/notify"
)

// ActionHandler is a function that handles a specific action
type ActionHandler func(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd)

// ActionDispatcher maps action names to handler functions
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates a new action dispatcher with all handlers registered
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{
		handlers: make(map[string]ActionHandler),
	}
	d.registerHandlers()
	return d
}

func (d *ActionDispatcher) registerHandlers() {
	// Panel
	d.Register(config.ActionSnap, handleSnap)
	d.Register(config.ActionReset, handleReset)
	d.Register(config.ActionCyclePlacement, handleCyclePlacement)
	d.Register(config.ActionToggleSnapPlacement, toggle("Snap re-anchoring", (*app.Playground).ToggleSnapPlacement))
	d.Register(config.ActionToggleOutside, toggle("Snap outside", (*app.Playground).ToggleOutside))
	d.Register(config.ActionToggleCorners, toggle("Corner snapping", (*app.Playground).ToggleCorners))
	d.Register(config.ActionToggleEnabled, toggle("Panel movement", (*app.Playground).ToggleEnabled))

	// Accordion sections (1-4)
	for i := range 4 {
		d.Register(fmt.Sprintf("toggle_section_%d", i+1), makeToggleSectionHandler(i))
	}

	// Notifications
	d.Register(config.ActionNotify, handleNotify(false))
	d.Register(config.ActionNotifyPersistent, handleNotify(true))
	d.Register(config.ActionRestartNotification, handleRestartNotification)
	d.Register(config.ActionDismissNotification, handleDismissNotification)
	d.Register(config.ActionClearNotifications, handleClearNotifications)

	// System
	d.Register(config.ActionToggleHelp, handleToggleHelp)
	d.Register(config.ActionQuit, handleQuit)
}

// Register adds an action handler
func (d *ActionDispatcher) Register(action string, handler ActionHandler) {
	d.handlers[action] = handler
}

// Dispatch executes the handler for a given action
func (d *ActionDispatcher) Dispatch(action string, msg tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	if handler, ok := d.handlers[action]; ok {
		return handler(msg, p)
	}
	return p, nil
}

// HasAction checks if an action is registered
func (d *ActionDispatcher) HasAction(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

var globalDispatcher = NewActionDispatcher()

// GetDispatcher returns the global action dispatcher
func GetDispatcher() *ActionDispatcher {
	return globalDispatcher
}

func handleSnap(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	p.Snap()
	return p, nil
}

func handleReset(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	p.ResetPanel()
	return p, nil
}

func handleCyclePlacement(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	next := p.CyclePlacement()
	announce(p, "Placement", string(next))
	return p, nil
}

// toggle wraps a boolean switch and reports its new value as a notification.
func toggle(name string, fn func(*app.Playground) bool) ActionHandler {
	return func(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
		state := "off"
		if fn(p) {
			state = "on"
		}
		announce(p, name, state)
		return p, nil
	}
}

func makeToggleSectionHandler(i int) ActionHandler {
	return func(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
		p.ToggleSection(i)
		return p, nil
	}
}

func handleNotify(persistent bool) ActionHandler {
	return func(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
		p.Notify(persistent)
		return p, nil
	}
}

func handleRestartNotification(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	p.RestartNewest()
	return p, nil
}

func handleDismissNotification(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	p.DismissOldest()
	return p, nil
}

func handleClearNotifications(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	p.ClearNotifications()
	return p, nil
}

func handleToggleHelp(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	p.ShowHelp = !p.ShowHelp
	return p, nil
}

func handleQuit(_ tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	return p, tea.Quit
}

func announce(p *app.Playground, title, message string) {
	p.Notifications.Add(notify.Notification{
		Title:    title,
		Message:  message,
		Kind:     notify.KindInfo,
		Duration: p.Config.NotificationDuration(),
	})
}
