package movable

// Outcome is where one axis resolved during a snap.
type Outcome int

const (
	// OutcomeStart is the left or top edge.
	OutcomeStart Outcome = iota
	// OutcomeMiddle centres the surface on the axis.
	OutcomeMiddle
	// OutcomeEnd is the right or bottom edge.
	OutcomeEnd
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStart:
		return "start"
	case OutcomeMiddle:
		return "middle"
	default:
		return "end"
	}
}

// ComputeAvailable returns the space left between the surface's anchored
// (untranslated) box and each viewport edge, minus margin on every side.
func ComputeAvailable(bounds Rect, viewport Size, offset Point, margin float64) Sides {
	baseX := bounds.X - offset.X
	baseY := bounds.Y - offset.Y
	return Sides{
		Top:    baseY - margin,
		Left:   baseX - margin,
		Right:  viewport.Width - (baseX + bounds.Width) - margin,
		Bottom: viewport.Height - (baseY + bounds.Height) - margin,
	}
}

// AnchorPosition returns the top-left corner of a surface of the given size
// anchored at p inside viewport, keeping margin from the anchored edges.
func AnchorPosition(p Placement, viewport Size, size Size, margin float64) Point {
	startX, midX, endX := margin, (viewport.Width-size.Width)/2, viewport.Width-size.Width-margin
	startY, midY, endY := margin, (viewport.Height-size.Height)/2, viewport.Height-size.Height-margin

	pick := func(align string, start, mid, end float64) float64 {
		switch align {
		case "start":
			return start
		case "end":
			return end
		default:
			return mid
		}
	}

	switch p.Side() {
	case EdgeTop:
		return Point{X: pick(p.Align(), startX, midX, endX), Y: startY}
	case EdgeBottom:
		return Point{X: pick(p.Align(), startX, midX, endX), Y: endY}
	case EdgeLeft:
		return Point{X: startX, Y: pick(p.Align(), startY, midY, endY)}
	case EdgeRight:
		return Point{X: endX, Y: pick(p.Align(), startY, midY, endY)}
	default:
		return Point{X: midX, Y: midY}
	}
}

type axisSnap struct {
	target  float64 // new on-screen start coordinate
	outcome Outcome
	outside bool
}

// snapAxis resolves one axis. pos and size describe the surface on the axis,
// extent is the viewport length.
func snapAxis(pos, size, extent, margin float64, snap SnapOptions) axisSnap {
	center := pos + size/2

	if snap.Outside {
		if center < 0 {
			return axisSnap{target: snap.Offset - size, outcome: OutcomeStart, outside: true}
		}
		if center > extent {
			return axisSnap{target: extent - snap.Offset, outcome: OutcomeEnd, outside: true}
		}
	}

	d := center - extent/2
	nearestEdge := min(center, extent-center)
	if !snap.Corners && abs(d) < nearestEdge {
		return axisSnap{target: (extent - size) / 2, outcome: OutcomeMiddle}
	}
	if d <= 0 {
		return axisSnap{target: margin, outcome: OutcomeStart}
	}
	return axisSnap{target: extent - size - margin, outcome: OutcomeEnd}
}

// SnapPlacement maps a pair of axis outcomes to a placement. When both axes
// landed on an edge and the surface is already anchored to the left or right
// side on that same edge, the left-*/right-* name is kept. Top and bottom
// anchored surfaces always get the top-*/bottom-* corner names.
func SnapPlacement(x, y Outcome, current Placement) Placement {
	switch {
	case x == OutcomeMiddle && y == OutcomeMiddle:
		return Center
	case x == OutcomeMiddle:
		if y == OutcomeStart {
			return Top
		}
		return Bottom
	case y == OutcomeMiddle:
		if x == OutcomeStart {
			return Left
		}
		return Right
	}

	side := current.Side()
	if side == EdgeLeft && x == OutcomeStart {
		if y == OutcomeStart {
			return LeftStart
		}
		return LeftEnd
	}
	if side == EdgeRight && x == OutcomeEnd {
		if y == OutcomeStart {
			return RightStart
		}
		return RightEnd
	}

	switch {
	case y == OutcomeStart && x == OutcomeStart:
		return TopStart
	case y == OutcomeStart:
		return TopEnd
	case x == OutcomeStart:
		return BottomStart
	default:
		return BottomEnd
	}
}

// SnapInput is the geometry a snap is computed from.
type SnapInput struct {
	Bounds    Rect
	Viewport  Size
	Offset    Point
	Placement Placement
	Margin    float64
	Snap      SnapOptions
}

// SnapResult is the outcome of a snap computation.
type SnapResult struct {
	Offset    Point
	Placement Placement
	Outside   Edge
	X, Y      Outcome
}

// ComputeSnap resolves both axes independently and returns the new offset,
// placement and outside edge. When both axes end up outside, the horizontal
// edge is reported.
func ComputeSnap(in SnapInput) SnapResult {
	sx := snapAxis(in.Bounds.X, in.Bounds.Width, in.Viewport.Width, in.Margin, in.Snap)
	sy := snapAxis(in.Bounds.Y, in.Bounds.Height, in.Viewport.Height, in.Margin, in.Snap)

	res := SnapResult{Placement: in.Placement, X: sx.outcome, Y: sy.outcome}

	switch {
	case sx.outside && sx.outcome == OutcomeStart:
		res.Outside = EdgeLeft
	case sx.outside:
		res.Outside = EdgeRight
	case sy.outside && sy.outcome == OutcomeStart:
		res.Outside = EdgeTop
	case sy.outside:
		res.Outside = EdgeBottom
	}

	base := Point{X: in.Bounds.X - in.Offset.X, Y: in.Bounds.Y - in.Offset.Y}
	if in.Snap.Placement {
		res.Placement = SnapPlacement(sx.outcome, sy.outcome, in.Placement)
		base = AnchorPosition(res.Placement, in.Viewport, Size{Width: in.Bounds.Width, Height: in.Bounds.Height}, in.Margin)
	}

	res.Offset = Point{X: sx.target - base.X, Y: sy.target - base.Y}
	return res
}

// ExceedsThreshold reports whether offset lies strictly beyond any enabled
// (positive) threshold. Positive offsets compare against right/bottom,
// negated offsets against left/top.
func ExceedsThreshold(offset Point, t Sides) bool {
	return (t.Right > 0 && offset.X > t.Right) ||
		(t.Left > 0 && -offset.X > t.Left) ||
		(t.Bottom > 0 && offset.Y > t.Bottom) ||
		(t.Top > 0 && -offset.Y > t.Top)
}

// ResolveThreshold fills unset thresholds: available + margin + surface
// dimension when snapping outside is allowed, zero (disabled) otherwise.
func ResolveThreshold(cfg Thresholds, available Sides, size Size, margin float64, outside bool) Sides {
	derive := func(set *float64, avail, dim float64) float64 {
		if set != nil {
			return *set
		}
		if outside {
			return avail + margin + dim
		}
		return 0
	}
	return Sides{
		Top:    derive(cfg.Top, available.Top, size.Height),
		Right:  derive(cfg.Right, available.Right, size.Width),
		Bottom: derive(cfg.Bottom, available.Bottom, size.Height),
		Left:   derive(cfg.Left, available.Left, size.Width),
	}
}

func contain(p Point, a Sides) Point {
	return Point{
		X: clamp(p.X, -a.Left, a.Right),
		Y: clamp(p.Y, -a.Top, a.Bottom),
	}
}

// clamp keeps v within [lo, hi]; lo wins when the range is empty.
func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
