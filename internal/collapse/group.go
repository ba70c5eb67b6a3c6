// Package collapse keeps a group of collapsible sections within a minimum and
// maximum number of open sections.
//
// Sections change state either by explicit user toggles or by the solver.
// After every registration and toggle the group enforces its constraints by
// reversing the least recently toggled sections first. Solver changes never
// count as toggles, so a section forced open or closed stays the preferred
// candidate the next time the solver has to act. Sections registered as read
// only are never forced; when only read-only candidates remain the group is
// left in violation.
package collapse

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/Gaurav-Gosain/tuikit/internal/logging"
	"github.com/Gaurav-Gosain/tuikit/internal/validate"
)

// ErrMissingID is returned when a section is registered without an id.
var ErrMissingID = errors.New("collapse: section id is required")

// Constraints bound the number of open sections in a group.
type Constraints struct {
	// Min is the fewest sections that must stay open.
	Min int `validate:"gte=0"`
	// Max is the most sections that may be open at once; zero is unbounded.
	Max int `validate:"gte=0"`
	// Disabled rejects user toggles for every section.
	Disabled bool
	// ReadOnly rejects user toggles but keeps sections visually enabled.
	ReadOnly bool
}

func (c Constraints) check() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("collapse constraints: %w", err)
	}
	if c.Max > 0 && c.Min > c.Max {
		return fmt.Errorf("collapse constraints: min %d exceeds max %d", c.Min, c.Max)
	}
	return nil
}

// SectionOptions describe a section at registration.
type SectionOptions struct {
	ID   string
	Open bool
	// ReadOnly sections ignore user toggles and are never forced by the solver.
	ReadOnly bool
}

// Info is a snapshot of one section.
type Info struct {
	ID        string
	Open      bool
	Editable  bool
	ChangedAt time.Time
}

// Counts is the number of open and closed sections.
type Counts struct {
	Opened, Closed int
}

type section struct {
	id        string
	open      bool
	editable  bool
	changedAt time.Time
	seq       uint64
}

// before orders sections from least to most recently toggled.
func (s *section) before(o *section) bool {
	if !s.changedAt.Equal(o.changedAt) {
		return s.changedAt.Before(o.changedAt)
	}
	return s.seq < o.seq
}

func (s *section) info() Info {
	return Info{ID: s.id, Open: s.open, Editable: s.editable, ChangedAt: s.changedAt}
}

// Group owns a set of sections and their constraints. It is safe for
// concurrent use; subscribers run without the group lock held.
type Group struct {
	mu sync.Mutex

	c      Constraints
	clock  clock.Clock
	logger *log.Logger

	order    []string
	sections map[string]*section
	seq      uint64

	subs   map[int]func(Counts)
	nextID int
}

// GroupOption customises a Group.
type GroupOption func(*Group)

// WithClock sets the clock used for ChangedAt.
func WithClock(c clock.Clock) GroupOption {
	return func(g *Group) { g.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) GroupOption {
	return func(g *Group) { g.logger = logging.Component(l, "collapse") }
}

// NewGroup returns an empty group bounded by c.
func NewGroup(c Constraints, options ...GroupOption) (*Group, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	g := &Group{
		c:        c,
		clock:    clock.Real(),
		logger:   logging.Discard(),
		sections: make(map[string]*section),
		subs:     make(map[int]func(Counts)),
	}
	for _, o := range options {
		o(g)
	}
	return g, nil
}

// Constraints returns the current bounds.
func (g *Group) Constraints() Constraints {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.c
}

// SetConstraints replaces the bounds and enforces them.
func (g *Group) SetConstraints(c Constraints) error {
	if err := c.check(); err != nil {
		return err
	}
	g.mu.Lock()
	g.c = c
	g.enforceLocked()
	counts := g.countsLocked()
	g.mu.Unlock()

	g.publish(counts)
	return nil
}

// Register adds a section and enforces the constraints. A missing id is an
// error. A duplicate id is logged and ignored: the first registration is kept
// and the returned handle is nil.
func (g *Group) Register(opts SectionOptions) (*Section, error) {
	if opts.ID == "" {
		return nil, ErrMissingID
	}

	g.mu.Lock()
	if _, ok := g.sections[opts.ID]; ok {
		g.mu.Unlock()
		g.logger.Warn("section already registered", "id", opts.ID)
		return nil, nil
	}
	g.seq++
	g.sections[opts.ID] = &section{
		id:        opts.ID,
		open:      opts.Open,
		editable:  !opts.ReadOnly,
		changedAt: g.clock.Now(),
		seq:       g.seq,
	}
	g.order = append(g.order, opts.ID)
	g.enforceLocked()
	counts := g.countsLocked()
	g.mu.Unlock()

	g.publish(counts)
	return &Section{group: g, id: opts.ID}, nil
}

// Unregister removes a section. The remaining sections are not re-enforced.
func (g *Group) Unregister(id string) bool {
	g.mu.Lock()
	if _, ok := g.sections[id]; !ok {
		g.mu.Unlock()
		g.logger.Warn("unregister of unknown section", "id", id)
		return false
	}
	delete(g.sections, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	counts := g.countsLocked()
	g.mu.Unlock()

	g.publish(counts)
	return true
}

// Update toggles a section on behalf of the user and enforces the
// constraints. It reports whether the section changed.
func (g *Group) Update(id string) bool {
	return g.set(id, nil)
}

// SetOpen opens or closes a section on behalf of the user. Setting the
// current state is a no-op.
func (g *Group) SetOpen(id string, open bool) bool {
	return g.set(id, &open)
}

func (g *Group) set(id string, want *bool) bool {
	g.mu.Lock()
	s, ok := g.sections[id]
	if !ok {
		g.mu.Unlock()
		g.logger.Warn("update of unknown section", "id", id)
		return false
	}
	if g.c.Disabled || g.c.ReadOnly || !s.editable {
		g.mu.Unlock()
		g.logger.Debug("toggle rejected", "id", id, "editable", s.editable)
		return false
	}
	next := !s.open
	if want != nil {
		next = *want
	}
	if next == s.open {
		g.mu.Unlock()
		return false
	}

	before := g.openStatesLocked()
	prevAt, prevSeq := s.changedAt, s.seq
	g.seq++
	s.open = next
	s.changedAt = g.clock.Now()
	s.seq = g.seq
	g.enforceLocked()

	toggled := s.open == next
	if !toggled {
		// The solver put the section back; the user's toggle did not land.
		s.changedAt, s.seq = prevAt, prevSeq
		g.logger.Debug("toggle reverted by constraints", "id", id)
	}
	changed := toggled || !maps.Equal(before, g.openStatesLocked())
	counts := g.countsLocked()
	g.mu.Unlock()

	if changed {
		g.publish(counts)
	}
	return toggled
}

func (g *Group) openStatesLocked() map[string]bool {
	states := make(map[string]bool, len(g.sections))
	for id, s := range g.sections {
		states[id] = s.open
	}
	return states
}

// Enforce repairs constraint violations and reports whether anything changed.
// It is run automatically after registration and toggles.
func (g *Group) Enforce() bool {
	g.mu.Lock()
	changed := g.enforceLocked()
	counts := g.countsLocked()
	g.mu.Unlock()

	if changed {
		g.publish(counts)
	}
	return changed
}

func (g *Group) enforceLocked() bool {
	open, closed := g.partitionLocked()
	changed := false

	if g.c.Max > 0 {
		excess := len(open) - g.c.Max
		for _, s := range open {
			if excess <= 0 {
				break
			}
			if !s.editable {
				continue
			}
			s.open = false
			excess--
			changed = true
			g.logger.Debug("forced closed", "id", s.id)
		}
		if excess > 0 {
			g.logger.Debug("max constraint unresolved", "excess", excess)
		}
		open, closed = g.partitionLocked()
	}

	if deficit := g.c.Min - len(open); deficit > 0 {
		for _, s := range closed {
			if deficit <= 0 {
				break
			}
			if !s.editable {
				continue
			}
			s.open = true
			deficit--
			changed = true
			g.logger.Debug("forced open", "id", s.id)
		}
		if deficit > 0 {
			g.logger.Debug("min constraint unresolved", "deficit", deficit)
		}
	}
	return changed
}

// partitionLocked splits sections by state, each least recently toggled first.
func (g *Group) partitionLocked() (open, closed []*section) {
	for _, id := range g.order {
		s := g.sections[id]
		if s.open {
			open = append(open, s)
		} else {
			closed = append(closed, s)
		}
	}
	byAge := func(a, b *section) int {
		switch {
		case a.before(b):
			return -1
		case b.before(a):
			return 1
		}
		return 0
	}
	slices.SortFunc(open, byAge)
	slices.SortFunc(closed, byAge)
	return open, closed
}

// Opened returns the ids of open sections, most recently toggled first.
func (g *Group) Opened() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	open, _ := g.partitionLocked()
	return recentIDs(open)
}

// Closed returns the ids of closed sections, most recently toggled first.
func (g *Group) Closed() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, closed := g.partitionLocked()
	return recentIDs(closed)
}

func recentIDs(ss []*section) []string {
	ids := make([]string, 0, len(ss))
	for i := len(ss) - 1; i >= 0; i-- {
		ids = append(ids, ss[i].id)
	}
	return ids
}

// Counts returns the number of open and closed sections.
func (g *Group) Counts() Counts {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.countsLocked()
}

func (g *Group) countsLocked() Counts {
	var c Counts
	for _, s := range g.sections {
		if s.open {
			c.Opened++
		} else {
			c.Closed++
		}
	}
	return c
}

// Sections returns a snapshot of every section in registration order.
func (g *Group) Sections() []Info {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Info, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.sections[id].info())
	}
	return out
}

// Get returns a snapshot of one section.
func (g *Group) Get(id string) (Info, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sections[id]
	if !ok {
		return Info{}, false
	}
	return s.info(), true
}

// Subscribe registers fn to receive the counts after every change. The
// returned function removes the subscription.
func (g *Group) Subscribe(fn func(Counts)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subs[id] = fn
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

func (g *Group) publish(c Counts) {
	g.mu.Lock()
	subs := make([]func(Counts), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	g.mu.Unlock()
	for _, fn := range subs {
		fn(c)
	}
}
