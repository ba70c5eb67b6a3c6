package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Unix(5000, 0)

func newTestManager(t *testing.T, options ...Option) (*Manager, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(epoch)
	return NewManager(append([]Option{WithClock(clk)}, options...)...), clk
}

func settled(t *testing.T, h *Handle) Record {
	t.Helper()
	select {
	case <-h.Done():
	default:
		t.Fatalf("notification %s has not settled", h.ID())
	}
	rec, err := h.Wait(context.Background())
	require.NoError(t, err)
	return rec
}

func TestAddAssignsDefaults(t *testing.T) {
	m, _ := newTestManager(t)

	h := m.Add(Notification{Title: "saved"})
	require.NotEmpty(t, h.ID())

	rec := h.Record()
	assert.Equal(t, StatusPending, rec.Status)
	assert.Equal(t, KindInfo, rec.Kind)
	assert.Equal(t, DefaultStack, rec.Stack)
	assert.Equal(t, epoch, rec.Added)
	assert.True(t, rec.Removed.IsZero())
	assert.True(t, rec.Deadline.IsZero(), "no timer without a duration")
	assert.Equal(t, []string{DefaultStack}, m.Stacks())
}

func TestExpiry(t *testing.T) {
	m, clk := newTestManager(t)
	s := m.Stack("")

	h := s.Add(Notification{ID: "n1", Duration: time.Second})
	assert.Equal(t, time.Second, h.Record().Remaining(epoch))

	clk.Advance(999 * time.Millisecond)
	assert.Equal(t, 1, s.Len())
	assert.InDelta(t, 0.001, h.Record().Progress(clk.Now()), 1e-9)

	clk.Advance(time.Millisecond)
	assert.Equal(t, 0, s.Len())

	rec := settled(t, h)
	assert.Equal(t, StatusExpired, rec.Status)
	assert.Equal(t, epoch, rec.Added)
	assert.Equal(t, epoch.Add(time.Second), rec.Removed)
}

func TestCancelBeforeExpiry(t *testing.T) {
	for _, status := range []Status{StatusDismissed, StatusCancelled, StatusExpired} {
		t.Run(string(status), func(t *testing.T) {
			var removed []Record
			m, clk := newTestManager(t, WithOnRemove(func(r Record) { removed = append(removed, r) }))
			h := m.Add(Notification{Duration: time.Second})

			clk.Advance(500 * time.Millisecond)
			require.True(t, h.Cancel(status))
			assert.Equal(t, 0, clk.Pending(), "timer stopped")

			clk.Advance(10 * time.Second)
			assert.False(t, h.Cancel(StatusDismissed))

			rec := settled(t, h)
			assert.Equal(t, status, rec.Status)
			assert.Equal(t, epoch.Add(500*time.Millisecond), rec.Removed)
			require.Len(t, removed, 1)
			assert.Equal(t, rec, removed[0])
		})
	}
}

func TestCancelWithPendingStatusDismisses(t *testing.T) {
	m, _ := newTestManager(t)
	h := m.Add(Notification{})
	require.True(t, h.Cancel(StatusPending))
	assert.Equal(t, StatusDismissed, settled(t, h).Status)
}

func TestRemovalPrecedesCallbacks(t *testing.T) {
	var m *Manager
	var lenAtCallback = -1
	m, clk := newTestManager(t, WithOnRemove(func(Record) {
		lenAtCallback = m.Stack("").Len()
		panic("renderer failed")
	}))

	m.Add(Notification{Duration: time.Second})
	clk.Advance(time.Second)

	assert.Equal(t, 0, lenAtCallback)
	assert.Equal(t, 0, m.Stack("").Len())
}

func TestUpdateDoesNotReschedule(t *testing.T) {
	m, clk := newTestManager(t)
	h := m.Add(Notification{Title: "a", Duration: time.Second})

	title := "b"
	longer := 10 * time.Second
	require.True(t, h.Update(Patch{Title: &title, Duration: &longer}))

	rec := h.Record()
	assert.Equal(t, "b", rec.Title)
	assert.Equal(t, longer, rec.Duration)
	assert.Equal(t, epoch.Add(time.Second), rec.Deadline)

	clk.Advance(time.Second)
	assert.Equal(t, StatusExpired, settled(t, h).Status)
}

func TestRestart(t *testing.T) {
	m, clk := newTestManager(t)
	s := m.Stack("")
	first := s.Add(Notification{ID: "first", Duration: time.Second})
	s.Add(Notification{ID: "second"})

	clk.Advance(800 * time.Millisecond)
	require.True(t, first.Restart(RestartOptions{}))
	assert.Equal(t, clk.Now().Add(time.Second), first.Record().Deadline)

	// The original deadline passes without effect.
	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 2, s.Len())

	require.True(t, first.Restart(RestartOptions{Duration: 3 * time.Second}))
	clk.Advance(2 * time.Second)
	assert.Equal(t, 2, s.Len())
	clk.Advance(time.Second)
	assert.Equal(t, StatusExpired, settled(t, first).Status)
}

func TestRestartUnshift(t *testing.T) {
	m, _ := newTestManager(t)
	s := m.Stack("toasts")
	for _, id := range []string{"a", "b", "c"} {
		s.Add(Notification{ID: id})
	}

	h, ok := s.Get("c")
	require.True(t, ok)
	require.True(t, h.Restart(RestartOptions{Unshift: true}))

	var ids []string
	for _, r := range s.Entries() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestRestartWithoutDurationStopsTimer(t *testing.T) {
	m, clk := newTestManager(t)
	h := m.Add(Notification{Duration: time.Second})

	zero := time.Duration(0)
	require.True(t, h.Update(Patch{Duration: &zero}))
	require.True(t, h.Restart(RestartOptions{}))

	clk.Advance(time.Hour)
	assert.Equal(t, StatusPending, h.Record().Status)
	assert.True(t, h.Record().Deadline.IsZero())
}

func TestClear(t *testing.T) {
	m, clk := newTestManager(t)
	s := m.Stack("")
	handles := []*Handle{
		s.Add(Notification{Duration: time.Second}),
		s.Add(Notification{}),
		s.Add(Notification{Duration: time.Minute}),
	}

	assert.Equal(t, 3, s.Clear())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, clk.Pending())

	for _, h := range handles {
		assert.Equal(t, StatusDismissed, settled(t, h).Status)
	}
}

func TestManagerClearAndRemove(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.Stack("a").Add(Notification{ID: "x"})
	m.Stack("b").Add(Notification{ID: "y"})

	assert.False(t, m.Remove("missing", "x", StatusDismissed))
	assert.False(t, m.Remove("a", "missing", StatusDismissed))
	require.True(t, m.Remove("a", "x", StatusCancelled))
	assert.Equal(t, StatusCancelled, settled(t, a).Status)

	assert.Equal(t, 1, m.Clear())
	assert.Equal(t, []string{"a", "b"}, m.Stacks())
}

func TestDuplicateLiveID(t *testing.T) {
	m, _ := newTestManager(t)
	s := m.Stack("")
	first := s.Add(Notification{ID: "dup", Title: "one"})
	second := s.Add(Notification{ID: "dup", Title: "two"})

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "one", second.Record().Title)

	require.True(t, second.Cancel(StatusDismissed))
	settled(t, first)

	// Once the first has ended the id may be reused.
	third := s.Add(Notification{ID: "dup", Title: "three"})
	assert.Equal(t, StatusPending, third.Record().Status)
	assert.Equal(t, StatusDismissed, first.Record().Status)
}

func TestVisible(t *testing.T) {
	m, _ := newTestManager(t, WithMaxVisible(2))
	s := m.Stack("")
	for _, id := range []string{"a", "b", "c"} {
		s.Add(Notification{ID: id})
	}

	assert.Len(t, s.Visible(), 2)
	assert.Equal(t, "a", s.Visible()[0].ID)

	s.SetMaxVisible(0)
	assert.Len(t, s.Visible(), 3)
}

func TestSubscribe(t *testing.T) {
	m, clk := newTestManager(t)
	s := m.Stack("")

	var lens []int
	unsubscribe := s.Subscribe(func(recs []Record) { lens = append(lens, len(recs)) })

	s.Add(Notification{Duration: time.Second})
	s.Add(Notification{})
	clk.Advance(time.Second)
	assert.Equal(t, []int{1, 2, 1}, lens)

	unsubscribe()
	s.Clear()
	assert.Len(t, lens, 3)
}

func TestWaitHonoursContext(t *testing.T) {
	m, _ := newTestManager(t)
	h := m.Add(Notification{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemaining(t *testing.T) {
	rec := Record{Deadline: epoch.Add(time.Second), Timeout: 2 * time.Second}
	assert.Equal(t, time.Second, rec.Remaining(epoch))
	assert.Equal(t, 0.5, rec.Progress(epoch))
	assert.Equal(t, time.Duration(0), rec.Remaining(epoch.Add(time.Minute)))

	rec.Removed = epoch
	assert.Equal(t, time.Duration(0), rec.Remaining(epoch))
}

func TestStaleHandleAfterIDReuse(t *testing.T) {
	m, clk := newTestManager(t)
	s := m.Stack("")

	old := s.Add(Notification{ID: "n", Title: "old"})
	require.True(t, old.Cancel(StatusCancelled))
	settled(t, old)

	fresh := s.Add(Notification{ID: "n", Title: "new", Duration: time.Second})

	assert.False(t, old.Cancel(StatusDismissed))
	title := "hijacked"
	assert.False(t, old.Update(Patch{Title: &title}))
	assert.False(t, old.Restart(RestartOptions{Duration: time.Hour}))

	assert.Equal(t, 1, s.Len())
	rec := fresh.Record()
	assert.Equal(t, "new", rec.Title)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Equal(t, epoch.Add(time.Second), rec.Deadline)
	assert.Equal(t, StatusCancelled, old.Record().Status, "old handle keeps its own terminal record")

	select {
	case <-fresh.Done():
		t.Fatal("stale handle settled the re-added entry")
	default:
	}

	clk.Advance(time.Second)
	assert.Equal(t, StatusExpired, settled(t, fresh).Status)
}

func TestRemovedKeepsDismissalRecord(t *testing.T) {
	m, clk := newTestManager(t)
	s := m.Stack("")

	_, ok := s.Removed("a")
	assert.False(t, ok)

	s.Add(Notification{ID: "a", Duration: time.Second})
	clk.Advance(time.Second)

	rec, ok := s.Removed("a")
	require.True(t, ok)
	assert.Equal(t, StatusExpired, rec.Status)
	assert.Equal(t, epoch.Add(time.Second), rec.Removed)
	assert.False(t, m.Remove("", "a", StatusDismissed), "an ended entry cannot be removed again")

	// A re-added id keeps the earlier record until it ends too.
	h := s.Add(Notification{ID: "a"})
	rec, _ = s.Removed("a")
	assert.Equal(t, StatusExpired, rec.Status)
	require.True(t, h.Cancel(StatusDismissed))
	rec, _ = s.Removed("a")
	assert.Equal(t, StatusDismissed, rec.Status)
}

func TestRemovedIsBounded(t *testing.T) {
	m, _ := newTestManager(t)
	s := m.Stack("")

	for i := range endedHistory + 1 {
		h := s.Add(Notification{ID: fmt.Sprintf("n%d", i)})
		h.Cancel(StatusDismissed)
	}

	_, ok := s.Removed("n0")
	assert.False(t, ok, "oldest record is dropped")
	_, ok = s.Removed(fmt.Sprintf("n%d", endedHistory))
	assert.True(t, ok)
}
