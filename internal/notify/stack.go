package notify

import (
	"slices"
	"sync"
	"time"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/async"
	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/google/uuid"
)

// endedHistory bounds how many terminal records a stack keeps.
const endedHistory = 64

type entry struct {
	rec   Record
	timer clock.Timer
	gen   uint64
	done  *async.Future[Record]
}

func (e *entry) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	e.rec.Deadline = time.Time{}
	e.rec.Timeout = 0
}

// Stack is one ordered queue of live notifications.
type Stack struct {
	mu sync.Mutex

	id         string
	clock      clock.Clock
	logger     *log.Logger
	maxVisible int
	onRemove   func(Record)

	queue []*entry
	live  map[string]*entry

	// ended holds the terminal records of the last endedHistory removals.
	ended      map[string]Record
	endedOrder []string

	subs   map[int]func([]Record)
	nextID int
}

func newStack(id string, m *Manager) *Stack {
	return &Stack{
		id:         id,
		clock:      m.clock,
		logger:     m.logger.With("stack", id),
		maxVisible: m.maxVisible,
		onRemove:   m.onRemove,
		live:       make(map[string]*entry),
		ended:      make(map[string]Record),
		subs:       make(map[int]func([]Record)),
	}
}

// ID returns the stack name.
func (s *Stack) ID() string { return s.id }

// Add appends n to the stack and starts its timer when n.Duration is
// positive. A missing id is generated. Adding an id that is still live logs
// a warning and returns the existing handle unchanged.
func (s *Stack) Add(n Notification) *Handle {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Kind == "" {
		n.Kind = KindInfo
	}
	n.Duration = max(n.Duration, 0)

	s.mu.Lock()
	if e, ok := s.live[n.ID]; ok {
		s.mu.Unlock()
		s.logger.Warn("notification already live", "id", n.ID)
		return &Handle{stack: s, id: n.ID, e: e}
	}

	e := &entry{
		rec: Record{
			Notification: n,
			Stack:        s.id,
			Status:       StatusPending,
			Added:        s.clock.Now(),
		},
		done: async.NewFuture[Record](),
	}
	s.live[n.ID] = e
	s.queue = append(s.queue, e)
	if n.Duration > 0 {
		s.scheduleLocked(e, n.Duration)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("added", "id", n.ID, "duration", n.Duration)
	s.publish(snap)
	return &Handle{stack: s, id: n.ID, e: e}
}

// Get returns the handle of a live entry.
func (s *Stack) Get(id string) (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live[id]
	if !ok {
		return nil, false
	}
	return &Handle{stack: s, id: id, e: e}, true
}

// Remove ends a live entry with status. Unknown ids are logged and ignored.
func (s *Stack) Remove(id string, status Status) bool {
	return s.remove(id, nil, status)
}

// Removed returns the terminal record of a recently ended entry. A live
// entry reusing the id does not hide it.
func (s *Stack) Removed(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.ended[id]
	return rec, ok
}

// Clear dismisses every live entry and returns how many were removed.
func (s *Stack) Clear() int {
	s.mu.Lock()
	ids := make([]string, 0, len(s.queue))
	for _, e := range s.queue {
		ids = append(ids, e.rec.ID)
	}
	s.mu.Unlock()

	n := 0
	for _, id := range ids {
		if s.remove(id, nil, StatusDismissed) {
			n++
		}
	}
	return n
}

// Entries returns every live entry in display order.
func (s *Stack) Entries() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Visible returns the entries the renderer should show: the first
// MaxVisible, or all of them when MaxVisible is zero.
func (s *Stack) Visible() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.snapshotLocked()
	if s.maxVisible > 0 && len(recs) > s.maxVisible {
		recs = recs[:s.maxVisible]
	}
	return recs
}

// SetMaxVisible changes how many entries Visible returns.
func (s *Stack) SetMaxVisible(n int) {
	s.mu.Lock()
	s.maxVisible = max(n, 0)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// Len returns the number of live entries.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Subscribe registers fn to receive the live entries after every change. The
// returned function removes the subscription.
func (s *Stack) Subscribe(fn func([]Record)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// liveLocked returns the live entry for id. A non-nil owner must be that
// entry: a handle never reaches a newer entry that reuses its id.
func (s *Stack) liveLocked(id string, owner *entry) (*entry, bool) {
	e, ok := s.live[id]
	if !ok || (owner != nil && e != owner) {
		return nil, false
	}
	return e, true
}

func (s *Stack) record(id string, owner *entry) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.liveLocked(id, owner)
	if !ok {
		return Record{}, false
	}
	return e.rec, true
}

func (s *Stack) scheduleLocked(e *entry, d time.Duration) {
	e.stopTimer()
	gen := e.gen
	id := e.rec.ID
	e.rec.Deadline = s.clock.Now().Add(d)
	e.rec.Timeout = d
	e.timer = s.clock.AfterFunc(d, func() { s.expire(id, e, gen) })
}

func (s *Stack) expire(id string, owner *entry, gen uint64) {
	s.removeEntry(id, owner, gen, StatusExpired)
}

func (s *Stack) remove(id string, owner *entry, status Status) bool {
	if !status.Terminal() {
		s.logger.Warn("non-terminal status, dismissing", "id", id, "status", status)
		status = StatusDismissed
	}
	if s.removeEntry(id, owner, 0, status) {
		return true
	}
	s.warnMissing("remove", id, owner)
	return false
}

// warnMissing reports an operation on an entry that is not live.
func (s *Stack) warnMissing(op, id string, owner *entry) {
	s.mu.Lock()
	_, ended := s.ended[id]
	_, live := s.live[id]
	s.mu.Unlock()
	switch {
	case owner != nil && live:
		s.logger.Warn(op+" through a stale handle, id reused", "id", id)
	case ended:
		s.logger.Debug(op+" of ended notification", "id", id)
	default:
		s.logger.Warn(op+" of unknown notification", "id", id)
	}
}

// removeEntry takes the entry out of the queue, then settles it. A non-zero
// gen only matches the timer generation that scheduled the expiry.
func (s *Stack) removeEntry(id string, owner *entry, gen uint64, status Status) bool {
	s.mu.Lock()
	e, ok := s.liveLocked(id, owner)
	if !ok || (gen != 0 && e.gen != gen) {
		s.mu.Unlock()
		return false
	}
	e.stopTimer()
	e.rec.Status = status
	e.rec.Removed = s.clock.Now()
	delete(s.live, id)
	s.queue = slices.DeleteFunc(s.queue, func(q *entry) bool { return q == e })
	rec := e.rec
	s.rememberLocked(rec)
	snap := s.snapshotLocked()
	onRemove := s.onRemove
	s.mu.Unlock()

	s.logger.Debug("removed", "id", id, "status", status)
	e.done.Resolve(rec)
	s.publish(snap)
	if onRemove != nil {
		s.safeCall(func() { onRemove(rec) })
	}
	return true
}

// rememberLocked keeps rec as the dismissal record of its id, dropping the
// oldest once endedHistory records are held.
func (s *Stack) rememberLocked(rec Record) {
	if _, ok := s.ended[rec.ID]; ok {
		s.endedOrder = slices.DeleteFunc(s.endedOrder, func(id string) bool { return id == rec.ID })
	}
	s.ended[rec.ID] = rec
	s.endedOrder = append(s.endedOrder, rec.ID)
	if len(s.endedOrder) > endedHistory {
		delete(s.ended, s.endedOrder[0])
		s.endedOrder = slices.Delete(s.endedOrder, 0, 1)
	}
}

func (s *Stack) update(id string, owner *entry, p Patch) bool {
	s.mu.Lock()
	e, ok := s.liveLocked(id, owner)
	if !ok {
		s.mu.Unlock()
		s.warnMissing("update", id, owner)
		return false
	}
	if p.Title != nil {
		e.rec.Title = *p.Title
	}
	if p.Message != nil {
		e.rec.Message = *p.Message
	}
	if p.Kind != nil {
		e.rec.Kind = *p.Kind
	}
	if p.Duration != nil {
		e.rec.Duration = max(*p.Duration, 0)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return true
}

func (s *Stack) restart(id string, owner *entry, opts RestartOptions) bool {
	s.mu.Lock()
	e, ok := s.liveLocked(id, owner)
	if !ok {
		s.mu.Unlock()
		s.warnMissing("restart", id, owner)
		return false
	}
	d := e.rec.Duration
	if opts.Duration > 0 {
		d = opts.Duration
	}
	if d > 0 {
		s.scheduleLocked(e, d)
	} else {
		e.stopTimer()
	}
	if opts.Unshift {
		s.queue = slices.DeleteFunc(s.queue, func(q *entry) bool { return q == e })
		s.queue = slices.Insert(s.queue, 0, e)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return true
}

func (s *Stack) snapshotLocked() []Record {
	out := make([]Record, 0, len(s.queue))
	for _, e := range s.queue {
		out = append(out, e.rec)
	}
	return out
}

func (s *Stack) publish(recs []Record) {
	s.mu.Lock()
	subs := make([]func([]Record), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		s.safeCall(func() { fn(recs) })
	}
}

// safeCall runs a user callback, logging instead of crashing a timer goroutine.
func (s *Stack) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("notification callback panicked", "panic", r)
		}
	}()
	fn()
}
