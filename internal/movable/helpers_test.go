package movable

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/stretchr/testify/require"
)

// surface renders the engine state the way a real rendering layer would: at
// the anchor for its placement plus the current offset.
type surface struct {
	mu       sync.Mutex
	size     Size
	viewport Size
	margin   float64
	state    State
	fail     bool
}

func (s *surface) Bounds() (Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return Rect{}, errors.New("detached")
	}
	a := AnchorPosition(s.state.Placement, s.viewport, s.size, s.margin)
	return Rect{X: a.X + s.state.Offset.X, Y: a.Y + s.state.Offset.Y, Width: s.size.Width, Height: s.size.Height}, nil
}

func (s *surface) Viewport() (Size, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport, nil
}

func (s *surface) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *surface) setFail(v bool) {
	s.mu.Lock()
	s.fail = v
	s.mu.Unlock()
}

// fixture is a 200x100 surface in a 1000x800 viewport.
type fixture struct {
	engine  *Engine
	surface *surface
	clock   *clock.Fake
	closed  int
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{clock: clock.NewFake(time.Unix(0, 0))}
	e, err := New(opts, WithClock(f.clock), WithOnClose(func() { f.closed++ }))
	require.NoError(t, err)

	s := &surface{
		size:     Size{Width: 200, Height: 100},
		viewport: Size{Width: 1000, Height: 800},
		margin:   opts.Margin,
		state:    e.State(),
	}
	e.Subscribe(s.setState)
	e.Mount(s)

	f.engine = e
	f.surface = s
	return f
}

// dragBy runs a full press-move sequence that displaces the surface by d
// from where it currently is. The session is left open.
func (f *fixture) dragBy(t *testing.T, d Point) {
	t.Helper()
	start := Point{X: 500, Y: 400}
	require.True(t, f.engine.StartDrag(PointerEvent{Point: start, Button: ButtonPrimary}))
	require.True(t, f.engine.UpdateDrag(start.Add(d)))
}

func baseOptions() Options {
	return Options{
		Margin:          DefaultMargin,
		Step:            DefaultStep,
		MaxAcceleration: DefaultMaxAcceleration,
		Placement:       Center,
		Snap:            SnapOptions{Edges: true, Offset: DefaultSnapOffset},
		Transition:      DefaultTransition,
	}
}
