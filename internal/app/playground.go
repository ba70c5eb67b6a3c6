// Package app implements the tuikit playground: a bubbletea model that drives
// a movable panel, an accordion sidebar and a notification stack with real
// terminal input.
package app

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/async"
	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/Gaurav-Gosain/tuikit/internal/collapse"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/logging"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
	"github.com/Gaurav-Gosain/tuikit/internal/notify"
)

// sectionDef describes one accordion section of the sidebar.
type sectionDef struct {
	id       string
	title    string
	open     bool
	readOnly bool
}

var sectionDefs = []sectionDef{
	{id: "placement", title: "Placement", open: true},
	{id: "snapping", title: "Snapping"},
	{id: "threshold", title: "Close thresholds"},
	{id: "about", title: "About", readOnly: true},
}

var notificationKinds = []notify.Kind{notify.KindInfo, notify.KindSuccess, notify.KindWarning, notify.KindError}

// Playground is the bubbletea model. The cores it drives are safe for
// concurrent use; everything else is only touched from Update.
type Playground struct {
	Width  int
	Height int

	Config   *config.UserConfig
	Keybinds *config.KeybindRegistry

	Engine        *movable.Engine
	Sections      *collapse.Group
	Notifications *notify.Manager

	ShowHelp bool

	// Keyboard repeat tracking; terminals without release events repeat
	// presses instead.
	LastMoveKey string
	LastMoveAt  time.Time
	KeyRepeat   int

	clock   clock.Clock
	logger  *log.Logger
	options movable.Options

	surface    *surface
	glide      *Glide
	state      movable.State
	keyUp      *async.Debouncer
	changes    chan struct{}
	unsubs     []func()
	sectionIDs []string
	ticking    bool
	sized      bool
	kind       int
	closes     atomic.Int64
}

// Option customises a Playground.
type Option func(*Playground)

// WithClock sets the clock shared by the engine, group and notifications.
func WithClock(c clock.Clock) Option {
	return func(p *Playground) { p.clock = c }
}

// WithLogger sets the parent logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Playground) { p.logger = l }
}

// New builds the playground from cfg. A nil cfg uses the defaults.
func New(cfg *config.UserConfig, options ...Option) (*Playground, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	p := &Playground{
		Config:   cfg,
		Keybinds: config.NewKeybindRegistry(cfg),
		clock:    clock.Real(),
		logger:   logging.Discard(),
		options:  cfg.MovableOptions(),
		changes:  make(chan struct{}, 1),
	}
	for _, o := range options {
		o(p)
	}
	parent := p.logger
	p.logger = logging.Component(parent, "app")

	engine, err := movable.New(p.options,
		movable.WithClock(p.clock),
		movable.WithLogger(parent),
		movable.WithOnClose(p.onClose),
		movable.WithOnSnap(func(st movable.State) {
			p.logger.Debug("panel snapped", "placement", st.Placement, "outside", st.Outside)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create movable engine: %w", err)
	}
	p.Engine = engine

	group, err := collapse.NewGroup(cfg.CollapseConstraints(),
		collapse.WithClock(p.clock),
		collapse.WithLogger(parent),
	)
	if err != nil {
		return nil, fmt.Errorf("create section group: %w", err)
	}
	p.Sections = group

	p.Notifications = notify.NewManager(
		notify.WithClock(p.clock),
		notify.WithLogger(parent),
		notify.WithMaxVisible(cfg.Notifications.MaxVisible),
		notify.WithOnRemove(func(r notify.Record) {
			p.logger.Debug("notification removed", "id", r.ID, "status", r.Status)
		}),
	)

	p.surface = &surface{
		size:   panelSize(),
		margin: p.options.Margin,
		state:  engine.State(),
	}
	p.state = engine.State()
	p.glide = NewGlide(movable.Point{})
	p.keyUp = async.NewDebouncer(p.clock, func() { p.Engine.KeyUp() })

	p.unsubs = append(p.unsubs,
		engine.Subscribe(func(st movable.State) {
			p.surface.setState(st)
			p.signal()
		}),
		group.Subscribe(func(collapse.Counts) { p.signal() }),
		p.Notifications.Stack(notify.DefaultStack).Subscribe(func([]notify.Record) { p.signal() }),
	)

	for _, def := range sectionDefs {
		if _, err := group.Register(collapse.SectionOptions{ID: def.id, Open: def.open, ReadOnly: def.readOnly}); err != nil {
			return nil, fmt.Errorf("register section %q: %w", def.id, err)
		}
		p.sectionIDs = append(p.sectionIDs, def.id)
	}

	engine.Mount(p.surface)
	return p, nil
}

// Close detaches the panel and drops pending timers.
func (p *Playground) Close() {
	for _, unsub := range p.unsubs {
		unsub()
	}
	p.unsubs = nil
	p.keyUp.Cancel()
	p.Engine.Unmount()
	p.Notifications.Clear()
}

// signal wakes the update loop. It never blocks; one pending wake-up is
// enough because Update re-reads every core.
func (p *Playground) signal() {
	select {
	case p.changes <- struct{}{}:
	default:
	}
}

// Changes delivers a value whenever a core published a change.
func (p *Playground) Changes() <-chan struct{} { return p.changes }

// Resize records the terminal size and the area the panel may move in.
func (p *Playground) Resize(width, height int) {
	p.Width, p.Height = width, height
	p.surface.setViewport(max(width, 1), max(height-config.StatusBarHeight, 1))
	if !p.sized {
		p.sized = true
		p.glide.Jump(p.surface.target())
	}
}

// Refresh re-reads the engine and retargets the drawn panel. It reports
// whether animation frames are needed.
func (p *Playground) Refresh() bool {
	p.state = p.Engine.State()
	p.surface.setState(p.state)
	target := p.surface.target()
	if p.state.Dragging || !config.AnimationsEnabled {
		p.glide.Jump(target)
	} else {
		p.glide.SetTarget(target)
	}
	return p.needsFrames()
}

// Now returns the playground clock's time.
func (p *Playground) Now() time.Time { return p.clock.Now() }

// State returns the engine state as of the last Refresh.
func (p *Playground) State() movable.State { return p.state }

func (p *Playground) needsFrames() bool {
	if p.glide.Moving() {
		return true
	}
	for _, r := range p.toasts() {
		if !r.Deadline.IsZero() {
			return true
		}
	}
	return false
}

func (p *Playground) toasts() []notify.Record {
	return p.Notifications.Stack(notify.DefaultStack).Visible()
}

// Closes returns how many releases crossed a close threshold.
func (p *Playground) Closes() int { return int(p.closes.Load()) }

// onClose may run on a timer goroutine when a keyboard move ends by timeout.
func (p *Playground) onClose() {
	p.closes.Add(1)
	st := p.Engine.State()
	p.Notifications.Add(notify.Notification{
		Title:    "Panel closed",
		Message:  fmt.Sprintf("released past the threshold at %.0f,%.0f", st.Offset.X, st.Offset.Y),
		Kind:     notify.KindWarning,
		Duration: p.Config.NotificationDuration(),
	})
	if !p.Engine.Options().ResetOnClose {
		p.Engine.Reset(movable.ResetOptions{Animate: true})
	}
}

// Step moves the panel one keyboard step and arms the release fallback.
func (p *Playground) Step(key movable.Key, repeat int) bool {
	if !p.Engine.Step(key, repeat) {
		return false
	}
	p.keyUp.Schedule(config.KeyReleaseTimeout)
	return true
}

// ReleaseKeys ends a keyboard move immediately.
func (p *Playground) ReleaseKeys() bool {
	p.keyUp.Cancel()
	p.KeyRepeat = 0
	p.LastMoveKey = ""
	return p.Engine.KeyUp()
}

// Snap snaps the panel to the closest target.
func (p *Playground) Snap() bool { return p.Engine.SnapToClosest() }

// ResetPanel animates the panel back to its anchor.
func (p *Playground) ResetPanel() *async.Future[bool] {
	return p.Engine.Reset(movable.ResetOptions{Animate: config.AnimationsEnabled})
}

// CyclePlacement anchors the panel to the next placement.
func (p *Playground) CyclePlacement() movable.Placement {
	cur := p.Engine.State().Placement
	i := slices.Index(movable.Placements, cur)
	next := movable.Placements[(i+1)%len(movable.Placements)]
	p.Engine.SetPlacement(next)
	return next
}

// ToggleOutside switches snapping outside the viewport. Containment is
// suspended while it is on.
func (p *Playground) ToggleOutside() bool {
	opts := p.options
	opts.Snap.Outside = !opts.Snap.Outside
	if opts.Snap.Outside {
		opts.Contain = false
	} else {
		opts.Contain = p.Config.MovableOptions().Contain
	}
	return p.applyOptions(opts) && opts.Snap.Outside
}

// ToggleCorners switches corner snapping.
func (p *Playground) ToggleCorners() bool {
	opts := p.options
	opts.Snap.Corners = !opts.Snap.Corners
	return p.applyOptions(opts) && opts.Snap.Corners
}

// ToggleSnapPlacement switches re-anchoring on snap.
func (p *Playground) ToggleSnapPlacement() bool {
	opts := p.options
	opts.Snap.Placement = !opts.Snap.Placement
	return p.applyOptions(opts) && opts.Snap.Placement
}

// ToggleEnabled turns panel movement on or off.
func (p *Playground) ToggleEnabled() bool {
	enabled := !p.Engine.State().Enabled
	p.Engine.SetEnabled(enabled)
	return enabled
}

// Options returns the engine options currently in effect.
func (p *Playground) Options() movable.Options { return p.options }

func (p *Playground) applyOptions(opts movable.Options) bool {
	if err := p.Engine.SetOptions(opts); err != nil {
		p.logger.Warn("rejected panel options", "err", err)
		return false
	}
	p.options = opts
	p.surface.setMargin(opts.Margin)
	return true
}

// SectionIDs returns the accordion sections in display order.
func (p *Playground) SectionIDs() []string { return p.sectionIDs }

// ToggleSection toggles the i-th section (0-based).
func (p *Playground) ToggleSection(i int) bool {
	if i < 0 || i >= len(p.sectionIDs) {
		return false
	}
	return p.Sections.Update(p.sectionIDs[i])
}

// Notify pushes a notification describing the panel. Persistent ones never
// expire on their own.
func (p *Playground) Notify(persistent bool) *notify.Handle {
	st := p.Engine.State()
	kind := notificationKinds[p.kind%len(notificationKinds)]
	p.kind++

	d := p.Config.NotificationDuration()
	if persistent {
		d = 0
	}
	return p.Notifications.Add(notify.Notification{
		Title:    fmt.Sprintf("Panel at %s", st.Placement),
		Message:  fmt.Sprintf("offset %.0f,%.0f outside %s", st.Offset.X, st.Offset.Y, edgeLabel(st.Outside)),
		Kind:     kind,
		Duration: d,
	})
}

// RestartNewest restarts the newest notification's timer and moves it to the
// front of the stack.
func (p *Playground) RestartNewest() bool {
	entries := p.Notifications.Stack(notify.DefaultStack).Entries()
	if len(entries) == 0 {
		return false
	}
	newest := entries[len(entries)-1]
	h, ok := p.Notifications.Stack(notify.DefaultStack).Get(newest.ID)
	if !ok {
		return false
	}
	d := newest.Duration
	if d == 0 {
		d = p.Config.NotificationDuration()
	}
	return h.Restart(notify.RestartOptions{Duration: d, Unshift: true})
}

// DismissOldest removes the first notification in the stack.
func (p *Playground) DismissOldest() bool {
	entries := p.Notifications.Stack(notify.DefaultStack).Entries()
	if len(entries) == 0 {
		return false
	}
	return p.DismissNotification(entries[0].ID)
}

// DismissNotification removes one notification as dismissed.
func (p *Playground) DismissNotification(id string) bool {
	return p.Notifications.Remove(notify.DefaultStack, id, notify.StatusDismissed)
}

// ClearNotifications dismisses every notification.
func (p *Playground) ClearNotifications() int {
	return p.Notifications.Clear()
}

func edgeLabel(e movable.Edge) string {
	if e == movable.EdgeNone {
		return "none"
	}
	return string(e)
}
