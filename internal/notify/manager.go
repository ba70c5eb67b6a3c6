package notify

import (
	"slices"
	"sync"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/Gaurav-Gosain/tuikit/internal/logging"
)

// Manager owns named notification stacks.
type Manager struct {
	mu     sync.Mutex
	stacks map[string]*Stack
	order  []string

	clock      clock.Clock
	logger     *log.Logger
	maxVisible int
	onRemove   func(Record)
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock sets the clock used for timestamps and expiry timers.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = logging.Component(l, "notify") }
}

// WithMaxVisible sets the default number of visible entries for new stacks.
func WithMaxVisible(n int) Option {
	return func(m *Manager) { m.maxVisible = max(n, 0) }
}

// WithOnRemove sets a callback run after an entry leaves its stack.
func WithOnRemove(fn func(Record)) Option {
	return func(m *Manager) { m.onRemove = fn }
}

// NewManager returns a Manager with no stacks.
func NewManager(options ...Option) *Manager {
	m := &Manager{
		stacks: make(map[string]*Stack),
		clock:  clock.Real(),
		logger: logging.Discard(),
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// Stack returns the stack named id, creating it on first use. An empty id
// selects DefaultStack.
func (m *Manager) Stack(id string) *Stack {
	if id == "" {
		id = DefaultStack
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stacks[id]; ok {
		return s
	}
	s := newStack(id, m)
	m.stacks[id] = s
	m.order = append(m.order, id)
	return s
}

// Stacks returns the stack names in creation order.
func (m *Manager) Stacks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order)
}

// Add adds n to the default stack.
func (m *Manager) Add(n Notification) *Handle {
	return m.Stack(DefaultStack).Add(n)
}

// Remove ends notification id in the named stack. Unknown stacks and ids are
// logged and ignored.
func (m *Manager) Remove(stack, id string, status Status) bool {
	if stack == "" {
		stack = DefaultStack
	}
	m.mu.Lock()
	s, ok := m.stacks[stack]
	m.mu.Unlock()
	if !ok {
		m.logger.Warn("remove from unknown stack", "stack", stack, "id", id)
		return false
	}
	return s.Remove(id, status)
}

// Clear dismisses every live entry in every stack.
func (m *Manager) Clear() int {
	m.mu.Lock()
	stacks := make([]*Stack, 0, len(m.order))
	for _, id := range m.order {
		stacks = append(stacks, m.stacks[id])
	}
	m.mu.Unlock()

	n := 0
	for _, s := range stacks {
		n += s.Clear()
	}
	return n
}
