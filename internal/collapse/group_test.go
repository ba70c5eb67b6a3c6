package collapse

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroup(t *testing.T, c Constraints) (*Group, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Unix(1000, 0))
	g, err := NewGroup(c, WithClock(clk))
	require.NoError(t, err)
	return g, clk
}

func mustRegister(t *testing.T, g *Group, opts SectionOptions) *Section {
	t.Helper()
	s, err := g.Register(opts)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func TestNewGroupValidation(t *testing.T) {
	tests := []struct {
		name    string
		c       Constraints
		wantErr bool
	}{
		{"unbounded", Constraints{}, false},
		{"accordion", Constraints{Min: 1, Max: 1}, false},
		{"min only", Constraints{Min: 3}, false},
		{"negative min", Constraints{Min: -1}, true},
		{"negative max", Constraints{Max: -1}, true},
		{"min above max", Constraints{Min: 3, Max: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGroup(tt.c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterErrors(t *testing.T) {
	g, _ := newTestGroup(t, Constraints{})

	_, err := g.Register(SectionOptions{})
	assert.ErrorIs(t, err, ErrMissingID)

	mustRegister(t, g, SectionOptions{ID: "a", Open: true})
	dup, err := g.Register(SectionOptions{ID: "a", Open: false})
	assert.NoError(t, err)
	assert.Nil(t, dup)

	info, ok := g.Get("a")
	require.True(t, ok)
	assert.True(t, info.Open, "first registration is kept")
	assert.Len(t, g.Sections(), 1)
}

func TestAccordion(t *testing.T) {
	g, clk := newTestGroup(t, Constraints{Min: 1, Max: 1})

	a := mustRegister(t, g, SectionOptions{ID: "A", Open: true})
	clk.Advance(time.Second)
	b := mustRegister(t, g, SectionOptions{ID: "B"})
	clk.Advance(time.Second)

	require.True(t, b.Toggle())

	assert.True(t, b.IsOpen())
	assert.False(t, a.IsOpen())
	assert.Equal(t, Counts{Opened: 1, Closed: 1}, g.Counts())
	assert.Equal(t, []string{"B"}, g.Opened())
	assert.Equal(t, []string{"A"}, g.Closed())
}

func TestAccordionCannotCloseLastSection(t *testing.T) {
	g, _ := newTestGroup(t, Constraints{Min: 1, Max: 1})
	a := mustRegister(t, g, SectionOptions{ID: "A", Open: true})
	mustRegister(t, g, SectionOptions{ID: "B"})

	// Closing A drops below min; the least recently toggled closed section
	// is B, so the solver opens it instead of reverting the user.
	require.True(t, a.Toggle())
	assert.False(t, a.IsOpen())
	assert.Equal(t, []string{"B"}, g.Opened())
}

func TestToggleRevertedByMinIsNotAChange(t *testing.T) {
	g, clk := newTestGroup(t, Constraints{Min: 1})
	registered := clk.Now()
	a := mustRegister(t, g, SectionOptions{ID: "A", Open: true})

	var published int
	g.Subscribe(func(Counts) { published++ })
	clk.Advance(time.Minute)

	assert.False(t, a.Toggle(), "the only open section cannot close")
	assert.True(t, a.IsOpen())
	info, _ := g.Get("A")
	assert.Equal(t, registered, info.ChangedAt)
	assert.Zero(t, published)
}

func TestForcedChangesKeepChangedAt(t *testing.T) {
	g, clk := newTestGroup(t, Constraints{Max: 1})
	registered := clk.Now()

	mustRegister(t, g, SectionOptions{ID: "A", Open: true})
	clk.Advance(time.Minute)
	b := mustRegister(t, g, SectionOptions{ID: "B"})
	clk.Advance(time.Minute)
	require.True(t, b.Toggle())

	a, _ := g.Get("A")
	assert.False(t, a.Open)
	assert.Equal(t, registered, a.ChangedAt)

	bi, _ := g.Get("B")
	assert.Equal(t, registered.Add(2*time.Minute), bi.ChangedAt)
}

func TestMinOpensLeastRecentlyChanged(t *testing.T) {
	g, clk := newTestGroup(t, Constraints{Min: 2})

	a := mustRegister(t, g, SectionOptions{ID: "A"})
	clk.Advance(time.Second)
	mustRegister(t, g, SectionOptions{ID: "B"})
	clk.Advance(time.Second)
	mustRegister(t, g, SectionOptions{ID: "C"})
	clk.Advance(time.Second)

	// A and B were forced open as they registered.
	assert.ElementsMatch(t, []string{"A", "B"}, g.Opened())

	require.True(t, a.Toggle())
	assert.ElementsMatch(t, []string{"B", "C"}, g.Opened())
	assert.Equal(t, []string{"A"}, g.Closed())
}

func TestReadOnlySectionsAreNeverForced(t *testing.T) {
	g, _ := newTestGroup(t, Constraints{Max: 1})

	mustRegister(t, g, SectionOptions{ID: "A", Open: true, ReadOnly: true})
	b := mustRegister(t, g, SectionOptions{ID: "B", Open: true})

	// A is older but read only, so B is the one forced closed.
	assert.False(t, b.IsOpen())
	assert.Equal(t, []string{"A"}, g.Opened())
}

func TestUnresolvableViolationIsStable(t *testing.T) {
	g, _ := newTestGroup(t, Constraints{Max: 1})
	mustRegister(t, g, SectionOptions{ID: "A", Open: true, ReadOnly: true})
	mustRegister(t, g, SectionOptions{ID: "B", Open: true, ReadOnly: true})

	before := g.Sections()
	for range 3 {
		assert.False(t, g.Enforce())
	}
	assert.Equal(t, before, g.Sections())
	assert.Equal(t, Counts{Opened: 2}, g.Counts())
}

func TestToggleRejected(t *testing.T) {
	t.Run("read only section", func(t *testing.T) {
		g, _ := newTestGroup(t, Constraints{})
		s := mustRegister(t, g, SectionOptions{ID: "A", ReadOnly: true})
		assert.False(t, s.Toggle())
		assert.False(t, s.IsOpen())
	})

	t.Run("disabled group", func(t *testing.T) {
		g, _ := newTestGroup(t, Constraints{Disabled: true})
		s := mustRegister(t, g, SectionOptions{ID: "A"})
		assert.False(t, s.Toggle())
	})

	t.Run("read only group", func(t *testing.T) {
		g, _ := newTestGroup(t, Constraints{ReadOnly: true})
		s := mustRegister(t, g, SectionOptions{ID: "A"})
		assert.False(t, s.SetOpen(true))
	})

	t.Run("unknown id", func(t *testing.T) {
		g, _ := newTestGroup(t, Constraints{})
		assert.False(t, g.Update("missing"))
		assert.False(t, g.Unregister("missing"))
	})

	t.Run("no change", func(t *testing.T) {
		g, _ := newTestGroup(t, Constraints{})
		s := mustRegister(t, g, SectionOptions{ID: "A", Open: true})
		assert.False(t, s.SetOpen(true))
	})
}

func TestEnforcementConverges(t *testing.T) {
	g, clk := newTestGroup(t, Constraints{Min: 1, Max: 2})
	rng := rand.New(rand.NewSource(42))

	var sections []*Section
	for i := range 6 {
		s := mustRegister(t, g, SectionOptions{ID: fmt.Sprintf("s%d", i), Open: rng.Intn(2) == 0})
		sections = append(sections, s)
		clk.Advance(time.Millisecond)
	}

	for range 100 {
		sections[rng.Intn(len(sections))].Toggle()
		clk.Advance(time.Millisecond)

		c := g.Counts()
		assert.GreaterOrEqual(t, c.Opened, 1)
		assert.LessOrEqual(t, c.Opened, 2)
		assert.False(t, g.Enforce(), "enforce is a fixed point after every mutation")
	}
}

func TestSetConstraints(t *testing.T) {
	g, clk := newTestGroup(t, Constraints{})
	for _, id := range []string{"A", "B", "C"} {
		mustRegister(t, g, SectionOptions{ID: id, Open: true})
		clk.Advance(time.Second)
	}

	require.NoError(t, g.SetConstraints(Constraints{Max: 1}))
	assert.Equal(t, []string{"C"}, g.Opened())

	assert.Error(t, g.SetConstraints(Constraints{Min: 2, Max: 1}))
	assert.Equal(t, Constraints{Max: 1}, g.Constraints())
}

func TestUnregister(t *testing.T) {
	g, _ := newTestGroup(t, Constraints{Min: 1})
	a := mustRegister(t, g, SectionOptions{ID: "A", Open: true})
	mustRegister(t, g, SectionOptions{ID: "B"})

	require.True(t, a.Unregister())
	assert.False(t, a.IsOpen())
	assert.Equal(t, Counts{Closed: 1}, g.Counts(), "removal does not re-enforce")

	assert.True(t, g.Enforce())
	assert.Equal(t, []string{"B"}, g.Opened())
}

func TestSubscribe(t *testing.T) {
	g, _ := newTestGroup(t, Constraints{Max: 1})

	var got []Counts
	unsubscribe := g.Subscribe(func(c Counts) { got = append(got, c) })

	a := mustRegister(t, g, SectionOptions{ID: "A", Open: true})
	mustRegister(t, g, SectionOptions{ID: "B"})
	require.Equal(t, []Counts{{Opened: 1}, {Opened: 1, Closed: 1}}, got)

	unsubscribe()
	a.Toggle()
	assert.Len(t, got, 2)
}
