package input

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/app"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
)

var moveKeys = map[string]movable.Key{
	config.ActionMoveUp:    movable.KeyUp,
	config.ActionMoveDown:  movable.KeyDown,
	config.ActionMoveLeft:  movable.KeyLeft,
	config.ActionMoveRight: movable.KeyRight,
}

// HandleKeyPress resolves a key press to an action. Move actions step the
// panel; everything else goes through the dispatcher.
func HandleKeyPress(msg tea.KeyPressMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	key := msg.String()
	action := p.Keybinds.Action(key)

	// Any key dismisses the help overlay, except quit which still quits.
	if p.ShowHelp && action != config.ActionQuit {
		p.ShowHelp = false
		return p, nil
	}

	if dir, ok := moveKeys[action]; ok {
		repeat := trackRepeat(p, key, msg.IsRepeat, p.Now())
		p.Step(dir, repeat)
		return p, nil
	}

	if action == "" {
		return p, nil
	}
	return GetDispatcher().Dispatch(action, msg, p)
}

// HandleKeyRelease ends a keyboard move when the terminal reports releases.
func HandleKeyRelease(msg tea.KeyReleaseMsg, p *app.Playground) (*app.Playground, tea.Cmd) {
	if _, ok := moveKeys[p.Keybinds.Action(msg.String())]; ok {
		p.ReleaseKeys()
	}
	return p, nil
}

// trackRepeat returns the acceleration multiplier for a move key. Holding a
// key repeats it; terminals that do not flag repeats still send presses
// faster than the release timeout.
func trackRepeat(p *app.Playground, key string, isRepeat bool, now time.Time) int {
	if key == p.LastMoveKey && (isRepeat || now.Sub(p.LastMoveAt) < config.KeyReleaseTimeout) {
		p.KeyRepeat++
	} else {
		p.KeyRepeat = 1
	}
	p.LastMoveKey = key
	p.LastMoveAt = now
	return p.KeyRepeat
}
