package app

import (
	"errors"
	"sync"

	"github.com/Gaurav-Gosain/tuikit/internal/movable"
)

// errNoViewport is returned until the first WindowSizeMsg arrives.
var errNoViewport = errors.New("viewport not measured yet")

// surface is the movable panel as the engine sees it. The engine measures it
// from timer goroutines, so every field is guarded.
type surface struct {
	mu       sync.Mutex
	size     movable.Size
	viewport movable.Size
	margin   float64
	state    movable.State
}

// Bounds reports where the panel sits once the engine state is applied: the
// anchor for its placement plus the offset.
func (s *surface) Bounds() (movable.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewport.Width <= 0 || s.viewport.Height <= 0 {
		return movable.Rect{}, errNoViewport
	}
	return s.boundsLocked(), nil
}

func (s *surface) boundsLocked() movable.Rect {
	a := movable.AnchorPosition(s.state.Placement, s.viewport, s.size, s.margin)
	return movable.Rect{
		X:      a.X + s.state.Offset.X,
		Y:      a.Y + s.state.Offset.Y,
		Width:  s.size.Width,
		Height: s.size.Height,
	}
}

// Viewport reports the area above the status bar.
func (s *surface) Viewport() (movable.Size, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewport.Width <= 0 || s.viewport.Height <= 0 {
		return movable.Size{}, errNoViewport
	}
	return s.viewport, nil
}

func (s *surface) setState(st movable.State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *surface) setViewport(w, h int) {
	s.mu.Lock()
	s.viewport = movable.Size{Width: float64(w), Height: float64(h)}
	s.mu.Unlock()
}

func (s *surface) setMargin(m float64) {
	s.mu.Lock()
	s.margin = m
	s.mu.Unlock()
}

// target is the top-left corner the panel should be drawn at.
func (s *surface) target() movable.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.boundsLocked()
	return movable.Point{X: r.X, Y: r.Y}
}
