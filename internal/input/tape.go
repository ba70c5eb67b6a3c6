package input

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/app"
	"github.com/Gaurav-Gosain/tuikit/internal/clock"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
	"github.com/Gaurav-Gosain/tuikit/internal/notify"
	"github.com/Gaurav-Gosain/tuikit/internal/tape"
)

// Player plays tapes against a playground that has no terminal. Input goes
// through the same Update path as a live session and time only moves on
// Sleep.
type Player struct {
	p     *app.Playground
	clock *clock.Fake
	quit  bool
}

// NewPlayer builds a headless playground from cfg. A nil logger discards.
func NewPlayer(cfg *config.UserConfig, logger *log.Logger) (*Player, error) {
	fake := clock.NewFake(time.Unix(0, 0))
	opts := []app.Option{app.WithClock(fake)}
	if logger != nil {
		opts = append(opts, app.WithLogger(logger))
	}
	p, err := app.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	app.SetInputHandler(HandleInput)
	return &Player{p: p, clock: fake}, nil
}

// Playground returns the model being driven.
func (pl *Player) Playground() *app.Playground { return pl.p }

// Close releases the playground's timers.
func (pl *Player) Close() { pl.p.Close() }

// Play runs cmds in order.
func (pl *Player) Play(cmds []tape.Command) error {
	return tape.NewCommandExecutor(pl).Run(cmds)
}

func (pl *Player) send(msg tea.Msg) error {
	if pl.quit {
		return fmt.Errorf("playground has quit")
	}
	pl.p.Update(msg)
	return nil
}

// Resize implements tape.Executor.
func (pl *Player) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	return pl.send(tea.WindowSizeMsg{Width: width, Height: height})
}

// Press implements tape.Executor.
func (pl *Player) Press(key string) error {
	k, err := parseKey(key)
	if err != nil {
		return err
	}
	msg := tea.KeyPressMsg(k)
	if err := pl.send(msg); err != nil {
		return err
	}
	if pl.p.Keybinds.Action(msg.String()) == config.ActionQuit {
		pl.quit = true
	}
	return nil
}

// Release implements tape.Executor. Without a key it ends the keyboard move
// the way the release timeout would.
func (pl *Player) Release(key string) error {
	if key == "" {
		pl.p.ReleaseKeys()
		pl.p.Refresh()
		return nil
	}
	k, err := parseKey(key)
	if err != nil {
		return err
	}
	return pl.send(tea.KeyReleaseMsg(k))
}

// Click implements tape.Executor.
func (pl *Player) Click(x, y int, button string) error {
	b, err := parseButton(button)
	if err != nil {
		return err
	}
	if err := pl.send(tea.MouseClickMsg{X: x, Y: y, Button: b}); err != nil {
		return err
	}
	return pl.send(tea.MouseReleaseMsg{X: x, Y: y, Button: b})
}

// Drag implements tape.Executor.
func (pl *Player) Drag(fromX, fromY, toX, toY int) error {
	steps := []tea.Msg{
		tea.MouseClickMsg{X: fromX, Y: fromY, Button: tea.MouseLeft},
		tea.MouseMotionMsg{X: toX, Y: toY, Button: tea.MouseLeft},
		tea.MouseReleaseMsg{X: toX, Y: toY, Button: tea.MouseLeft},
	}
	for _, msg := range steps {
		if err := pl.send(msg); err != nil {
			return err
		}
	}
	return nil
}

// Blur implements tape.Executor.
func (pl *Player) Blur() error {
	return pl.send(tea.BlurMsg{})
}

// Sleep implements tape.Executor. The clock advances one frame at a time so
// timers and easing interleave as they would live.
func (pl *Player) Sleep(d time.Duration) error {
	frame := time.Second / config.NormalFPS
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		pl.clock.Advance(min(frame, d-elapsed))
		if err := pl.send(app.TickMsg(pl.clock.Now())); err != nil {
			return err
		}
	}
	return nil
}

// Expect implements tape.Executor.
func (pl *Player) Expect(field string, want []string) error {
	got, err := pl.observe(field)
	if err != nil {
		return err
	}
	if strings.EqualFold(field, "open") {
		want = slices.Sorted(slices.Values(want))
	}
	wantStr := strings.Join(want, " ")
	if got != wantStr {
		return &tape.ExpectationError{Field: field, Want: wantStr, Got: got}
	}
	return nil
}

// observe renders one observable value the way Expect lines spell it.
func (pl *Player) observe(field string) (string, error) {
	st := pl.p.Engine.State()
	stack := pl.p.Notifications.Stack(notify.DefaultStack)
	switch strings.ToLower(field) {
	case "placement":
		return string(st.Placement), nil
	case "offset":
		return fmt.Sprintf("%g,%g", st.Offset.X, st.Offset.Y), nil
	case "outside":
		if st.Outside == movable.EdgeNone {
			return "none", nil
		}
		return string(st.Outside), nil
	case "position":
		x, y, _, _ := pl.p.PanelRect()
		return fmt.Sprintf("%d,%d", x, y), nil
	case "dragging":
		return strconv.FormatBool(st.Dragging), nil
	case "enabled":
		return strconv.FormatBool(st.Enabled), nil
	case "open":
		open := pl.p.Sections.Opened()
		slices.Sort(open)
		return strings.Join(open, " "), nil
	case "notifications":
		return strconv.Itoa(stack.Len()), nil
	case "visible":
		return strconv.Itoa(len(stack.Visible())), nil
	case "closes":
		return strconv.Itoa(pl.p.Closes()), nil
	case "help":
		return strconv.FormatBool(pl.p.ShowHelp), nil
	}
	return "", fmt.Errorf("unknown field %q", field)
}

var namedKeys = map[string]rune{
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"enter":     tea.KeyEnter,
	"tab":       tea.KeyTab,
	"esc":       tea.KeyEscape,
	"escape":    tea.KeyEscape,
	"backspace": tea.KeyBackspace,
	"space":     tea.KeySpace,
}

// parseKey turns "right", "N" or "ctrl+c" into the key a terminal would
// report.
func parseKey(name string) (tea.Key, error) {
	var k tea.Key
	parts := strings.Split(name, "+")
	base := parts[len(parts)-1]
	if base == "" && len(parts) > 1 {
		// "ctrl++"
		base = "+"
	}
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "ctrl":
			k.Mod |= tea.ModCtrl
		case "alt":
			k.Mod |= tea.ModAlt
		case "shift":
			k.Mod |= tea.ModShift
		case "":
		default:
			return tea.Key{}, fmt.Errorf("unknown modifier %q in %q", mod, name)
		}
	}

	if code, ok := namedKeys[strings.ToLower(base)]; ok {
		k.Code = code
		if code == tea.KeySpace && k.Mod == 0 {
			k.Text = " "
		}
		return k, nil
	}

	r, size := utf8.DecodeRuneInString(base)
	if r == utf8.RuneError || size != len(base) {
		return tea.Key{}, fmt.Errorf("unknown key %q", name)
	}
	k.Code = unicode.ToLower(r)
	if unicode.IsUpper(r) {
		k.Mod |= tea.ModShift
		k.ShiftedCode = r
	}
	if k.Mod&(tea.ModCtrl|tea.ModAlt) == 0 {
		k.Text = string(r)
	}
	return k, nil
}

func parseButton(name string) (tea.MouseButton, error) {
	switch strings.ToLower(name) {
	case "left", "":
		return tea.MouseLeft, nil
	case "middle":
		return tea.MouseMiddle, nil
	case "right":
		return tea.MouseRight, nil
	}
	return tea.MouseNone, fmt.Errorf("unknown mouse button %q", name)
}
