package movable

import (
	"fmt"
	"time"

	"github.com/Gaurav-Gosain/tuikit/internal/validate"
)

const (
	// DefaultMargin is the gap kept between the surface and the viewport edge.
	DefaultMargin = 16
	// DefaultStep is the keyboard step before acceleration.
	DefaultStep = 10
	// DefaultMaxAcceleration caps the keyboard repeat multiplier.
	DefaultMaxAcceleration = 10
	// DefaultSnapOffset is how much of the surface stays visible when it is
	// snapped outside the viewport.
	DefaultSnapOffset = 25
	// DefaultTransition is the duration of snap, reset and keyboard moves.
	DefaultTransition = 200 * time.Millisecond
)

// Limits bound the offset per axis. Nil fields are unbounded. Limits apply
// whether or not containment is enabled.
type Limits struct {
	MinX, MaxX, MinY, MaxY *float64
}

// Thresholds are the drag-to-close distances per edge. A nil field is derived
// from the available space when snapping outside is allowed and disabled
// otherwise.
type Thresholds struct {
	Top, Right, Bottom, Left *float64
}

// SnapOptions configure snapping on release.
type SnapOptions struct {
	// Edges snaps each axis to the nearest edge, or centres it when the
	// surface is closer to the viewport centre than to either edge.
	Edges bool
	// Corners always snaps both axes to an edge.
	Corners bool
	// Outside lets a surface whose centre left the viewport stay mostly
	// outside, peeking in by Offset.
	Outside bool
	// Offset is the visible part of a surface snapped outside.
	Offset float64 `validate:"gte=0"`
	// Placement re-anchors the surface to the placement matching the snap.
	Placement bool
}

// Options configure an Engine.
type Options struct {
	Disabled        bool
	Contain         bool
	Margin          float64   `validate:"gte=0"`
	Step            float64   `validate:"gte=0"`
	MaxAcceleration int       `validate:"gte=0"`
	Placement       Placement `validate:"omitempty,oneof=top-start top top-end right-start right right-end bottom-start bottom bottom-end left-start left left-end center"`
	Snap            SnapOptions
	Threshold       Thresholds
	Limits          Limits
	ResetOnClose    bool
	Transition      time.Duration `validate:"gte=0"`
}

// DefaultOptions returns the documented defaults: contained, edge snapping,
// 16 margin, step 10.
func DefaultOptions() Options {
	return Options{
		Contain:         true,
		Margin:          DefaultMargin,
		Step:            DefaultStep,
		MaxAcceleration: DefaultMaxAcceleration,
		Placement:       Center,
		Snap: SnapOptions{
			Edges:  true,
			Offset: DefaultSnapOffset,
		},
		Transition: DefaultTransition,
	}
}

func (o Options) normalize() (Options, error) {
	if err := validate.Struct(o); err != nil {
		return o, fmt.Errorf("movable options: %w", err)
	}
	if err := o.Limits.check(); err != nil {
		return o, fmt.Errorf("movable options: %w", err)
	}
	for _, t := range []*float64{o.Threshold.Top, o.Threshold.Right, o.Threshold.Bottom, o.Threshold.Left} {
		if t != nil && *t < 0 {
			return o, fmt.Errorf("movable options: threshold must be >= 0 (got %v)", *t)
		}
	}
	if o.Placement == "" {
		o.Placement = Center
	}
	if o.MaxAcceleration == 0 {
		o.MaxAcceleration = DefaultMaxAcceleration
	}
	return o, nil
}

func (l Limits) check() error {
	if l.MinX != nil && l.MaxX != nil && *l.MinX > *l.MaxX {
		return fmt.Errorf("limits: min x %v exceeds max x %v", *l.MinX, *l.MaxX)
	}
	if l.MinY != nil && l.MaxY != nil && *l.MinY > *l.MaxY {
		return fmt.Errorf("limits: min y %v exceeds max y %v", *l.MinY, *l.MaxY)
	}
	return nil
}

func (l Limits) apply(p Point) Point {
	if l.MinX != nil {
		p.X = max(p.X, *l.MinX)
	}
	if l.MaxX != nil {
		p.X = min(p.X, *l.MaxX)
	}
	if l.MinY != nil {
		p.Y = max(p.Y, *l.MinY)
	}
	if l.MaxY != nil {
		p.Y = min(p.Y, *l.MaxY)
	}
	return p
}

// ResetOptions configure Engine.Reset.
type ResetOptions struct {
	// Offset is the target offset; the zero value resets to the anchor.
	Offset Point
	// Animate runs the reset as a transition.
	Animate bool
	// Duration overrides the engine transition for this reset.
	Duration time.Duration
}

// Float returns a pointer to v, for Limits and Thresholds literals.
func Float(v float64) *float64 { return &v }
