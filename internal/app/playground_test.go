package app

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
	"github.com/Gaurav-Gosain/tuikit/internal/notify"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayground(t *testing.T, cfg *config.UserConfig) (*Playground, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Unix(0, 0))
	p, err := New(cfg, WithClock(fake))
	require.NoError(t, err)
	t.Cleanup(p.Close)
	p.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return p, fake
}

func TestGlideConverges(t *testing.T) {
	g := NewGlide(movable.Point{})
	g.SetTarget(movable.Point{X: 10, Y: -5})
	require.True(t, g.Moving())

	frames := 0
	for g.Step() {
		frames++
		require.Less(t, frames, 1000, "glide never settled")
	}
	x, y := g.Cell()
	assert.Equal(t, 10, x)
	assert.Equal(t, -5, y)
	assert.Greater(t, frames, 1)
}

func TestGlideJump(t *testing.T) {
	g := NewGlide(movable.Point{})
	g.SetTarget(movable.Point{X: 30})
	g.Step()

	g.Jump(movable.Point{X: 4, Y: 2})
	assert.False(t, g.Moving())
	x, y := g.Cell()
	assert.Equal(t, 4, x)
	assert.Equal(t, 2, y)

	// Re-targeting the resting position is not a move.
	g.SetTarget(movable.Point{X: 4, Y: 2})
	assert.False(t, g.Moving())
}

func TestSurfaceNeedsViewport(t *testing.T) {
	s := &surface{size: panelSize(), margin: 1, state: movable.State{Placement: movable.TopStart}}

	_, err := s.Bounds()
	assert.ErrorIs(t, err, errNoViewport)
	_, err = s.Viewport()
	assert.ErrorIs(t, err, errNoViewport)

	s.setViewport(80, 24)
	s.setState(movable.State{Placement: movable.TopStart, Offset: movable.Point{X: 2, Y: 3}})
	r, err := s.Bounds()
	require.NoError(t, err)
	assert.Equal(t, movable.Rect{X: 3, Y: 4, Width: config.PanelWidth, Height: config.PanelHeight}, r)
}

func TestFit(t *testing.T) {
	assert.Equal(t, "abc  ", fit("abc", 5))
	assert.Equal(t, "", fit("abc", 0))

	got := fit("abcdefgh", 4)
	assert.Equal(t, 4, ansi.StringWidth(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestClip(t *testing.T) {
	tests := []struct {
		name    string
		content string
		x, y    int
		want    string
		wx, wy  int
	}{
		{"inside", "ab\ncd", 2, 3, "ab\ncd", 2, 3},
		{"left edge", "abc\ndef", -1, 0, "bc\nef", 0, 0},
		{"top edge", "ab\ncd\nef", 0, -2, "ef", 0, 0},
		{"right edge", "abcd", 8, 0, "ab", 8, 0},
		{"bottom edge", "a\nb\nc", 0, 4, "a\nb", 0, 4},
		{"off screen", "abc", 11, 0, "", 11, 0},
		{"empty", "", 0, 0, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, x, y := clip(tt.content, tt.x, tt.y, 10, 6)
			assert.Equal(t, tt.want, got)
			if tt.want != "" {
				assert.Equal(t, tt.wx, x)
				assert.Equal(t, tt.wy, y)
			}
		})
	}
}

func TestNewPlaygroundLayout(t *testing.T) {
	p, _ := newTestPlayground(t, nil)

	x, y, w, h := p.PanelRect()
	assert.Equal(t, []int{43, 15, config.PanelWidth, config.PanelHeight}, []int{x, y, w, h})
	assert.Equal(t, []string{"placement", "snapping", "threshold", "about"}, p.SectionIDs())
	assert.Equal(t, []string{"placement"}, p.Sections.Opened())

	info, ok := p.SectionInfo(3)
	require.True(t, ok)
	assert.False(t, info.Editable)

	_, ok = p.SectionInfo(9)
	assert.False(t, ok)

	out := p.GetCanvas().Render()
	assert.Contains(t, out, "Placement")
	assert.Contains(t, out, "About")
}

func TestToggleOutside(t *testing.T) {
	p, _ := newTestPlayground(t, nil)

	assert.True(t, p.ToggleOutside())
	assert.False(t, p.Options().Contain)
	assert.True(t, p.Engine.Options().Snap.Outside)

	assert.False(t, p.ToggleOutside())
	assert.True(t, p.Options().Contain)
	assert.False(t, p.Engine.Options().Snap.Outside)
}

func TestCyclePlacement(t *testing.T) {
	p, _ := newTestPlayground(t, nil)

	assert.Equal(t, movable.TopStart, p.CyclePlacement())
	assert.Equal(t, movable.Top, p.CyclePlacement())
	assert.Equal(t, movable.Top, p.Engine.State().Placement)

	p.Refresh()
	// Top keeps the margin above and centres horizontally.
	p.glide.Jump(p.surface.target())
	x, y, _, _ := p.PanelRect()
	assert.Equal(t, 43, x)
	assert.Equal(t, 1, y)
}

func TestNotificationLifecycle(t *testing.T) {
	p, fake := newTestPlayground(t, nil)
	stack := p.Notifications.Stack(notify.DefaultStack)

	timed := p.Notify(false)
	kept := p.Notify(true)
	require.Equal(t, 2, stack.Len())
	assert.Equal(t, notify.KindInfo, timed.Record().Kind)
	assert.Equal(t, notify.KindSuccess, kept.Record().Kind)
	assert.True(t, kept.Record().Deadline.IsZero())

	fake.Advance(config.NotificationDuration)
	assert.Equal(t, 1, stack.Len())

	require.True(t, p.RestartNewest())
	assert.False(t, kept.Record().Deadline.IsZero())

	require.True(t, p.DismissOldest())
	assert.Equal(t, notify.StatusDismissed, kept.Record().Status)
	assert.False(t, p.DismissOldest())
	assert.False(t, p.RestartNewest())

	p.Notify(false)
	p.Notify(false)
	assert.Equal(t, 2, p.ClearNotifications())
}

func TestCloseThresholdResetsPanel(t *testing.T) {
	cfg := config.DefaultConfig()
	right := 10.0
	cfg.Movable.Threshold.Right = &right
	p, _ := newTestPlayground(t, cfg)

	require.True(t, p.Step(movable.KeyRight, 10))
	require.True(t, p.Step(movable.KeyRight, 10))
	require.True(t, p.ReleaseKeys())

	assert.Equal(t, 1, p.Closes())
	assert.Equal(t, movable.Point{}, p.Engine.State().Offset)

	recs := p.Notifications.Stack(notify.DefaultStack).Entries()
	require.Len(t, recs, 1)
	assert.Equal(t, notify.KindWarning, recs[0].Kind)
}

func TestUpdateRunsOneTickLoop(t *testing.T) {
	p, _ := newTestPlayground(t, nil)

	require.True(t, p.Step(movable.KeyRight, 5))
	_, cmd := p.Update(ChangedMsg{})
	require.NotNil(t, cmd)
	assert.True(t, p.ticking)

	// A second wake-up while ticking only re-arms the listener.
	_, _ = p.Update(ChangedMsg{})
	assert.True(t, p.ticking)

	for i := 0; ; i++ {
		require.Less(t, i, 1000, "animation never settled")
		_, cmd = p.Update(TickMsg(time.Time{}))
		if cmd == nil {
			break
		}
	}
	assert.False(t, p.ticking)
	x, _, _, _ := p.PanelRect()
	assert.Equal(t, 48, x)
}

func TestResizeBeforeFirstFrame(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	p, err := New(nil, WithClock(fake))
	require.NoError(t, err)
	defer p.Close()

	assert.False(t, p.Step(movable.KeyDown, 1), "no viewport yet")

	p.Resize(80, 25)
	x, y, _, _ := p.PanelRect()
	assert.Equal(t, 23, x)
	assert.Equal(t, 8, y)
}
