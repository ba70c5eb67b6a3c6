// Package movable computes the offset of a draggable, keyboard-movable floating
// surface. It owns containment, per-axis limits, snapping to the nearest
// edge or corner (optionally peeking outside the viewport), placement
// re-anchoring, and the drag-to-close threshold.
//
// The engine does not render anything. A rendering layer mounts an Element
// that reports the surface box and the viewport, forwards pointer and keyboard
// input, and draws the surface at its anchor plus State().Offset.
package movable

import "strings"

// Point is a 2D position or translation in cells or pixels.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect is an on-screen box; X/Y is the top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the centre point of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Sides holds one value per viewport edge.
type Sides struct {
	Top, Right, Bottom, Left float64
}

// Edge names one side of the viewport. The empty Edge means none.
type Edge string

const (
	EdgeNone   Edge = ""
	EdgeTop    Edge = "top"
	EdgeRight  Edge = "right"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
)

// Placement is where the surface is anchored before its offset applies.
type Placement string

const (
	TopStart    Placement = "top-start"
	Top         Placement = "top"
	TopEnd      Placement = "top-end"
	RightStart  Placement = "right-start"
	Right       Placement = "right"
	RightEnd    Placement = "right-end"
	BottomStart Placement = "bottom-start"
	Bottom      Placement = "bottom"
	BottomEnd   Placement = "bottom-end"
	LeftStart   Placement = "left-start"
	Left        Placement = "left"
	LeftEnd     Placement = "left-end"
	Center      Placement = "center"
)

// Placements lists every valid placement.
var Placements = []Placement{
	TopStart, Top, TopEnd,
	RightStart, Right, RightEnd,
	BottomStart, Bottom, BottomEnd,
	LeftStart, Left, LeftEnd,
	Center,
}

// Valid reports whether p is a known placement.
func (p Placement) Valid() bool {
	for _, v := range Placements {
		if v == p {
			return true
		}
	}
	return false
}

// Side returns the edge p is attached to, or EdgeNone for center.
func (p Placement) Side() Edge {
	if p == Center {
		return EdgeNone
	}
	side, _, _ := strings.Cut(string(p), "-")
	return Edge(side)
}

// Align returns the alignment suffix: "start", "end" or "".
func (p Placement) Align() string {
	_, align, _ := strings.Cut(string(p), "-")
	return align
}

// Button is a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent is a pointer-down event that may begin a drag session.
type PointerEvent struct {
	Point
	Button Button
}

// Key is a keyboard key the engine reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Element is the mounted surface as seen by the engine.
type Element interface {
	// Bounds reports the surface box on screen, current offset included.
	Bounds() (Rect, error)
	// Viewport reports the size of the area the surface moves within.
	Viewport() (Size, error)
}

// State is a snapshot of the engine's observable values.
type State struct {
	Offset      Point
	Placement   Placement
	Outside     Edge
	Dragging    bool
	Translating bool
	Enabled     bool
}
