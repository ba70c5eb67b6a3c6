package movable

// Step moves the surface one keyboard step in the arrow's direction. Held
// keys accelerate: the step is multiplied by repeat, capped at the configured
// maximum. Each press restarts the translate timer.
func (e *Engine) Step(key Key, repeat int) bool {
	var dir Point
	switch key {
	case KeyUp:
		dir = Point{Y: -1}
	case KeyDown:
		dir = Point{Y: 1}
	case KeyLeft:
		dir = Point{X: -1}
	case KeyRight:
		dir = Point{X: 1}
	default:
		return false
	}

	e.mu.Lock()
	if !e.enabled || e.el == nil || e.dragging {
		e.mu.Unlock()
		return false
	}
	if err := e.measureLocked(); err != nil {
		e.mu.Unlock()
		e.logger.Warn("keyboard step skipped", "err", err)
		return false
	}

	n := float64(min(max(repeat, 1), e.opts.MaxAcceleration))
	delta := e.opts.Step * n
	e.offset = e.constrainLocked(Point{
		X: e.offset.X + dir.X*delta,
		Y: e.offset.Y + dir.Y*delta,
	})
	e.outside = EdgeNone
	e.keyboarding = true
	e.beginTranslateLocked(e.opts.Transition)
	st := e.stateLocked()
	e.mu.Unlock()

	e.publish(st)
	return true
}

// KeyUp ends a keyboard move with the same close-or-snap sequence as EndDrag.
func (e *Engine) KeyUp() bool {
	e.mu.Lock()
	if !e.keyboarding {
		e.mu.Unlock()
		return false
	}
	e.keyboarding = false
	e.mu.Unlock()

	e.finalize()
	return true
}

// Keyboarding reports whether arrow keys moved the surface since the last KeyUp.
func (e *Engine) Keyboarding() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.keyboarding
}
