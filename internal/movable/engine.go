package movable

import (
	"fmt"
	"sync"
	"time"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/async"
	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/Gaurav-Gosain/tuikit/internal/logging"
)

// Engine tracks the offset, placement and outside state of one movable
// surface for its whole mount lifetime. It is safe for concurrent use; user
// callbacks run without the engine lock held.
type Engine struct {
	mu sync.Mutex

	opts   Options
	clock  clock.Clock
	logger *log.Logger

	onClose func()
	onSnap  func(State)

	el        Element
	enabled   bool
	offset    Point
	placement Placement
	outside   Edge
	available Sides
	size      Size

	dragging    bool
	origin      Point
	keyboarding bool

	translating bool
	settle      *async.Debouncer
	waiters     []*async.Future[bool]

	subs   map[int]func(State)
	nextID int
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithClock sets the clock used for transitions.
func WithClock(c clock.Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = logging.Component(l, "movable") }
}

// WithOnClose sets the callback run when a release crosses a close threshold.
func WithOnClose(fn func()) EngineOption {
	return func(e *Engine) { e.onClose = fn }
}

// WithOnSnap sets the callback run after every snap.
func WithOnSnap(fn func(State)) EngineOption {
	return func(e *Engine) { e.onSnap = fn }
}

// New validates opts and returns an unmounted Engine.
func New(opts Options, options ...EngineOption) (*Engine, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		opts:      opts,
		clock:     clock.Real(),
		logger:    logging.Discard(),
		enabled:   !opts.Disabled,
		placement: opts.Placement,
		subs:      make(map[int]func(State)),
	}
	for _, o := range options {
		o(e)
	}
	e.settle = async.NewDebouncer(e.clock, e.finishTranslate)
	return e, nil
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// SetOptions replaces the configuration of a live engine. The current offset,
// placement and enabled state are kept; the new rules apply from the next
// drag, step or snap.
func (e *Engine) SetOptions(opts Options) error {
	opts, err := opts.normalize()
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.opts = opts
	if !opts.Snap.Outside {
		e.outside = EdgeNone
	}
	st := e.stateLocked()
	e.mu.Unlock()

	e.publish(st)
	return nil
}

// Mount attaches the rendered surface. Passing nil unmounts.
func (e *Engine) Mount(el Element) {
	e.mu.Lock()
	e.el = el
	if el == nil {
		e.dragging = false
		e.keyboarding = false
	}
	e.mu.Unlock()
}

// Unmount detaches the surface. Pending transitions settle with false.
func (e *Engine) Unmount() {
	e.mu.Lock()
	e.el = nil
	e.dragging = false
	e.keyboarding = false
	e.translating = false
	waiters := e.waiters
	e.waiters = nil
	e.mu.Unlock()

	e.settle.Cancel()
	for _, w := range waiters {
		w.Resolve(false)
	}
}

// Mounted reports whether an element is attached.
func (e *Engine) Mounted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.el != nil
}

// SetEnabled turns input handling on or off. Disabling ends any drag without
// snapping.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	if e.enabled == enabled {
		e.mu.Unlock()
		return
	}
	e.enabled = enabled
	if !enabled {
		e.dragging = false
		e.keyboarding = false
	}
	st := e.stateLocked()
	e.mu.Unlock()
	e.publish(st)
}

// State returns a snapshot of the observable values.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Available returns the space cached at the last drag start, step or snap.
func (e *Engine) Available() Sides {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

// Threshold returns the effective close thresholds for the cached geometry.
func (e *Engine) Threshold() Sides {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.thresholdLocked()
}

// Subscribe registers fn to receive a State after every change. The returned
// function removes the subscription.
func (e *Engine) Subscribe(fn func(State)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// SetPlacement changes the anchor from outside the engine. Offset and outside
// are reset because they were relative to the previous anchor.
func (e *Engine) SetPlacement(p Placement) bool {
	if !p.Valid() {
		e.logger.Warn("ignoring unknown placement", "placement", p)
		return false
	}
	e.mu.Lock()
	if e.placement == p {
		e.mu.Unlock()
		return false
	}
	e.placement = p
	e.offset = Point{}
	e.outside = EdgeNone
	st := e.stateLocked()
	e.mu.Unlock()
	e.publish(st)
	return true
}

// StartDrag begins a drag session. It is a no-op unless the engine is
// enabled, mounted, idle, and the primary button was pressed.
func (e *Engine) StartDrag(ev PointerEvent) bool {
	e.mu.Lock()
	if !e.enabled || e.el == nil || ev.Button != ButtonPrimary || e.dragging {
		e.mu.Unlock()
		return false
	}
	if err := e.measureLocked(); err != nil {
		e.mu.Unlock()
		e.logger.Warn("drag start skipped", "err", err)
		return false
	}
	e.origin = ev.Point.Sub(e.offset)
	e.dragging = true
	e.keyboarding = false
	st := e.stateLocked()
	e.mu.Unlock()

	e.publish(st)
	return true
}

// UpdateDrag moves the surface so the pointer keeps its grab point, then
// applies containment and limits.
func (e *Engine) UpdateDrag(p Point) bool {
	e.mu.Lock()
	if !e.dragging {
		e.mu.Unlock()
		return false
	}
	e.offset = e.constrainLocked(p.Sub(e.origin))
	st := e.stateLocked()
	e.mu.Unlock()

	e.publish(st)
	return true
}

// Dragging reports whether a drag session is active.
func (e *Engine) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dragging
}

// EndDrag finishes the drag session: it closes when a threshold is crossed,
// otherwise it snaps. Pointer up, cancel, leave and window blur all end here.
func (e *Engine) EndDrag() bool {
	e.mu.Lock()
	if !e.dragging {
		e.mu.Unlock()
		return false
	}
	e.dragging = false
	e.mu.Unlock()

	e.finalize()
	return true
}

// SnapToClosest moves the surface to the nearest edge, corner or centre line
// according to the snap options. It reports whether a snap was applied.
func (e *Engine) SnapToClosest() bool {
	defer e.recoverLog("snap")

	e.mu.Lock()
	if !e.enabled || e.el == nil || (!e.opts.Snap.Edges && !e.opts.Snap.Corners) {
		e.mu.Unlock()
		return false
	}
	bounds, viewport, err := e.geometryLocked()
	if err != nil {
		e.mu.Unlock()
		e.logger.Warn("snap skipped", "err", err)
		return false
	}

	res := ComputeSnap(SnapInput{
		Bounds:    bounds,
		Viewport:  viewport,
		Offset:    e.offset,
		Placement: e.placement,
		Margin:    e.opts.Margin,
		Snap:      e.opts.Snap,
	})

	e.offset = res.Offset
	e.placement = res.Placement
	e.outside = res.Outside
	e.beginTranslateLocked(e.opts.Transition)
	st := e.stateLocked()
	onSnap := e.onSnap
	e.mu.Unlock()

	e.logger.Debug("snapped", "offset", st.Offset, "placement", st.Placement, "outside", st.Outside)
	e.publish(st)
	if onSnap != nil {
		onSnap(st)
	}
	return true
}

// finalize runs the close-threshold check and then snaps.
func (e *Engine) finalize() {
	defer e.recoverLog("finalize")

	e.mu.Lock()
	closing := ExceedsThreshold(e.offset, e.thresholdLocked())
	if !closing {
		e.mu.Unlock()
		e.SnapToClosest()
		return
	}
	if e.opts.ResetOnClose {
		e.offset = Point{}
		e.outside = EdgeNone
		e.placement = e.opts.Placement
	}
	onClose := e.onClose
	st := e.stateLocked()
	e.mu.Unlock()

	e.logger.Debug("close threshold crossed", "offset", st.Offset)
	e.publish(st)
	if onClose != nil {
		onClose()
	}
}

// Reset moves the surface to opts.Offset without containment. The future
// settles true once any transition completes, or false when unmounted.
func (e *Engine) Reset(opts ResetOptions) *async.Future[bool] {
	e.mu.Lock()
	if e.el == nil {
		e.mu.Unlock()
		return async.Resolved(false)
	}
	e.offset = opts.Offset
	e.outside = EdgeNone
	e.dragging = false
	e.keyboarding = false

	d := time.Duration(0)
	if opts.Animate {
		d = e.opts.Transition
		if opts.Duration > 0 {
			d = opts.Duration
		}
	}
	f := async.NewFuture[bool]()
	e.waiters = append(e.waiters, f)
	e.beginTranslateLocked(d)
	st := e.stateLocked()
	e.mu.Unlock()

	if d <= 0 {
		e.finishTranslate()
	}
	e.publish(st)
	return f
}

// Settled returns a future that resolves when the current transition ends.
// It is already resolved when nothing is translating.
func (e *Engine) Settled() *async.Future[bool] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.translating {
		return async.Resolved(e.el != nil)
	}
	f := async.NewFuture[bool]()
	e.waiters = append(e.waiters, f)
	return f
}

// beginTranslateLocked marks the surface as translating and (re)schedules the
// trailing stop. A zero duration is finished by the caller after unlocking.
func (e *Engine) beginTranslateLocked(d time.Duration) {
	if d <= 0 {
		e.settle.Cancel()
		e.translating = false
		return
	}
	e.translating = true
	e.settle.Schedule(d)
}

func (e *Engine) finishTranslate() {
	defer e.recoverLog("translate")

	e.mu.Lock()
	was := e.translating
	e.translating = false
	waiters := e.waiters
	e.waiters = nil
	mounted := e.el != nil
	st := e.stateLocked()
	e.mu.Unlock()

	for _, w := range waiters {
		w.Resolve(mounted)
	}
	if was {
		e.publish(st)
	}
}

// measureLocked refreshes the cached size and available space.
func (e *Engine) measureLocked() error {
	_, _, err := e.geometryLocked()
	return err
}

func (e *Engine) geometryLocked() (Rect, Size, error) {
	bounds, viewport, err := measure(e.el)
	if err != nil {
		return Rect{}, Size{}, err
	}
	e.size = Size{Width: bounds.Width, Height: bounds.Height}
	e.available = ComputeAvailable(bounds, viewport, e.offset, e.opts.Margin)
	return bounds, viewport, nil
}

// measure queries el, turning a panicking element into an error so the engine
// lock is never held across an unwinding stack.
func measure(el Element) (bounds Rect, viewport Size, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("element panicked: %v", r)
		}
	}()
	if bounds, err = el.Bounds(); err != nil {
		return Rect{}, Size{}, fmt.Errorf("measure bounds: %w", err)
	}
	if viewport, err = el.Viewport(); err != nil {
		return Rect{}, Size{}, fmt.Errorf("measure viewport: %w", err)
	}
	return bounds, viewport, nil
}

func (e *Engine) constrainLocked(p Point) Point {
	if e.opts.Contain {
		p = contain(p, e.available)
	}
	return e.opts.Limits.apply(p)
}

func (e *Engine) thresholdLocked() Sides {
	return ResolveThreshold(e.opts.Threshold, e.available, e.size, e.opts.Margin, e.opts.Snap.Outside)
}

func (e *Engine) stateLocked() State {
	return State{
		Offset:      e.offset,
		Placement:   e.placement,
		Outside:     e.outside,
		Dragging:    e.dragging,
		Translating: e.translating,
		Enabled:     e.enabled,
	}
}

func (e *Engine) publish(st State) {
	e.mu.Lock()
	subs := make([]func(State), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
}

// recoverLog keeps a failing async step from escaping; the engine stays at its
// last consistent state.
func (e *Engine) recoverLog(op string) {
	if r := recover(); r != nil {
		e.logger.Error("recovered from panic", "op", op, "panic", r)
	}
}
