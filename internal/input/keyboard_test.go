package input

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/app"
	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
)

func init() {
	app.SetInputHandler(HandleInput)
}

// newPlayground returns a 120x40 playground on a fake clock. The panel is
// 34x9 and centred in the 120x39 area above the status bar, at (43, 15).
func newPlayground(t *testing.T) (*app.Playground, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Unix(0, 0))
	p, err := app.New(config.DefaultConfig(), app.WithClock(fake))
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(p.Close)
	p.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return p, fake
}

func press(p *app.Playground, k tea.KeyPressMsg) tea.Cmd {
	_, cmd := p.Update(k)
	return cmd
}

func TestArrowKeysAccelerate(t *testing.T) {
	p, fake := newPlayground(t)
	right := tea.KeyPressMsg{Code: tea.KeyRight}

	press(p, right)
	if got := p.Engine.State().Offset.X; got != 1 {
		t.Fatalf("first step: offset.X = %v, want 1", got)
	}

	press(p, right)
	if got := p.Engine.State().Offset.X; got != 3 {
		t.Fatalf("repeated step: offset.X = %v, want 3", got)
	}
	if !p.Engine.Keyboarding() {
		t.Fatal("expected a keyboard move in progress")
	}

	// No release event: the timeout ends the move and the panel snaps back
	// to the centre line.
	fake.Advance(config.KeyReleaseTimeout)
	if p.Engine.Keyboarding() {
		t.Error("keyboard move should end after the release timeout")
	}
	if got := p.Engine.State().Offset; got != (movable.Point{}) {
		t.Errorf("offset after snap = %v, want zero", got)
	}
}

func TestKeyReleaseEndsMove(t *testing.T) {
	p, fake := newPlayground(t)

	press(p, tea.KeyPressMsg{Code: 'l', Text: "l"})
	p.Update(tea.KeyReleaseMsg{Code: 'l', Text: "l"})

	if p.Engine.Keyboarding() {
		t.Error("release should end the keyboard move")
	}
	if n := fake.Pending(); n != 1 {
		// Only the snap transition remains; the release timeout was cancelled.
		t.Errorf("pending timers = %d, want 1", n)
	}
}

func TestTrackRepeat(t *testing.T) {
	p, _ := newPlayground(t)
	start := time.Unix(100, 0)

	tests := []struct {
		name     string
		key      string
		isRepeat bool
		at       time.Duration
		want     int
	}{
		{"first press", "up", false, 0, 1},
		{"fast second press", "up", false, 100 * time.Millisecond, 2},
		{"flagged repeat after a pause", "up", true, time.Second, 3},
		{"other key starts over", "down", false, 1100 * time.Millisecond, 1},
		{"slow press starts over", "down", false, 2 * time.Second, 1},
	}

	for _, tt := range tests {
		got := trackRepeat(p, tt.key, tt.isRepeat, start.Add(tt.at))
		if got != tt.want {
			t.Errorf("%s: trackRepeat() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestHelpOverlay(t *testing.T) {
	p, _ := newPlayground(t)

	press(p, tea.KeyPressMsg{Code: '?', Text: "?"})
	if !p.ShowHelp {
		t.Fatal("? should open help")
	}

	// Keys are swallowed while help is open.
	press(p, tea.KeyPressMsg{Code: 'n', Text: "n"})
	if p.ShowHelp {
		t.Error("any key should close help")
	}
	if n := p.Notifications.Stack("").Len(); n != 0 {
		t.Errorf("notifications = %d, want 0", n)
	}
}

func TestQuit(t *testing.T) {
	p, _ := newPlayground(t)

	_, cmd := HandleKeyPress(tea.KeyPressMsg{Code: 'q', Text: "q"}, p)
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestActions(t *testing.T) {
	p, _ := newPlayground(t)
	d := GetDispatcher()

	for _, action := range []string{
		config.ActionSnap, config.ActionReset, config.ActionCyclePlacement,
		config.ActionToggleOutside, config.ActionToggleCorners, config.ActionToggleSnapPlacement,
		config.ActionToggleEnabled, config.ActionToggleSection1, config.ActionToggleSection4,
		config.ActionNotify, config.ActionNotifyPersistent, config.ActionRestartNotification,
		config.ActionDismissNotification, config.ActionClearNotifications,
		config.ActionToggleHelp, config.ActionQuit,
	} {
		if !d.HasAction(action) {
			t.Errorf("no handler for %s", action)
		}
	}

	press(p, tea.KeyPressMsg{Code: 'o', Text: "o"})
	if opts := p.Options(); !opts.Snap.Outside || opts.Contain {
		t.Errorf("toggle_outside: outside=%v contain=%v, want true/false", opts.Snap.Outside, opts.Contain)
	}
	press(p, tea.KeyPressMsg{Code: 'o', Text: "o"})
	if opts := p.Options(); opts.Snap.Outside || !opts.Contain {
		t.Errorf("toggle_outside twice: outside=%v contain=%v, want false/true", opts.Snap.Outside, opts.Contain)
	}

	press(p, tea.KeyPressMsg{Code: 'p', Text: "p"})
	if got := p.Engine.State().Placement; got != movable.TopStart {
		t.Errorf("cycle_placement from center = %s, want %s", got, movable.TopStart)
	}

	press(p, tea.KeyPressMsg{Code: 'e', Text: "e"})
	press(p, tea.KeyPressMsg{Code: tea.KeyDown})
	if got := p.Engine.State().Offset; got != (movable.Point{}) {
		t.Errorf("disabled panel moved to %v", got)
	}
}

func TestNotificationKeys(t *testing.T) {
	p, fake := newPlayground(t)
	stack := p.Notifications.Stack("")

	press(p, tea.KeyPressMsg{Code: 'n', Text: "n"})
	press(p, tea.KeyPressMsg{Code: 'n', Mod: tea.ModShift, Text: "N"})
	if n := stack.Len(); n != 2 {
		t.Fatalf("notifications = %d, want 2", n)
	}

	fake.Advance(config.NotificationDuration)
	if n := stack.Len(); n != 1 {
		t.Fatalf("after expiry = %d, want only the persistent one", n)
	}

	press(p, tea.KeyPressMsg{Code: 't', Text: "t"})
	if e := stack.Entries(); e[0].Deadline.IsZero() {
		t.Error("restart should start a timer on the persistent notification")
	}

	press(p, tea.KeyPressMsg{Code: 'd', Text: "d"})
	if n := stack.Len(); n != 0 {
		t.Errorf("after dismiss = %d, want 0", n)
	}
}
