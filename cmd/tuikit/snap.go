package main

import (
	"encoding/json"
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/logging"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
	"github.com/Gaurav-Gosain/tuikit/internal/theme"
)

type snapArgs struct {
	viewport string
	size     string
	drag     string
	json     bool
}

// staticPanel is a panel that only exists as numbers: its box follows the
// engine state it is fed.
type staticPanel struct {
	viewport movable.Size
	size     movable.Size
	margin   float64
	state    movable.State
}

func (s *staticPanel) Bounds() (movable.Rect, error) {
	a := movable.AnchorPosition(s.state.Placement, s.viewport, s.size, s.margin)
	return movable.Rect{
		X:      a.X + s.state.Offset.X,
		Y:      a.Y + s.state.Offset.Y,
		Width:  s.size.Width,
		Height: s.size.Height,
	}, nil
}

func (s *staticPanel) Viewport() (movable.Size, error) { return s.viewport, nil }

// snapReport is what `tuikit snap` prints.
type snapReport struct {
	Placement movable.Placement `json:"placement"`
	OffsetX   float64           `json:"offset_x"`
	OffsetY   float64           `json:"offset_y"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Outside   string            `json:"outside,omitempty"`
	Closed    bool              `json:"closed"`
}

func parseSize(s string) (movable.Size, error) {
	var w, h float64
	if _, err := fmt.Sscanf(s, "%gx%g", &w, &h); err != nil || w <= 0 || h <= 0 {
		return movable.Size{}, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", s)
	}
	return movable.Size{Width: w, Height: h}, nil
}

func parsePoint(s string) (movable.Point, error) {
	var x, y float64
	if _, err := fmt.Sscanf(s, "%g,%g", &x, &y); err != nil {
		return movable.Point{}, fmt.Errorf("invalid distance %q: want DX,DY", s)
	}
	return movable.Point{X: x, Y: y}, nil
}

func runSnap(args snapArgs) error {
	viewport, err := parseSize(args.viewport)
	if err != nil {
		return err
	}
	size, err := parseSize(args.size)
	if err != nil {
		return err
	}
	drag, err := parsePoint(args.drag)
	if err != nil {
		return err
	}

	opts := loadConfig().MovableOptions()

	level := "warn"
	if debugMode {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level})
	if err != nil {
		return err
	}

	report, err := simulateDrag(opts, viewport, size, drag, logger)
	if err != nil {
		return err
	}

	if args.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printSnapReport(report)
	return nil
}

// simulateDrag mounts a panel of size in viewport, drags it from its centre
// by drag and releases it.
func simulateDrag(opts movable.Options, viewport, size movable.Size, drag movable.Point, logger *log.Logger) (snapReport, error) {
	opts.Transition = 0
	panel := &staticPanel{viewport: viewport, size: size, margin: opts.Margin}
	closed := false
	engine, err := movable.New(opts,
		movable.WithLogger(logger),
		movable.WithOnClose(func() { closed = true }),
	)
	if err != nil {
		return snapReport{}, fmt.Errorf("invalid panel options: %w", err)
	}
	panel.state = engine.State()
	unsubscribe := engine.Subscribe(func(st movable.State) { panel.state = st })
	defer unsubscribe()

	engine.Mount(panel)
	defer engine.Unmount()

	start, _ := panel.Bounds()
	grab := start.Center()
	if !engine.StartDrag(movable.PointerEvent{Point: grab, Button: movable.ButtonPrimary}) {
		return snapReport{}, fmt.Errorf("panel movement is disabled")
	}
	engine.UpdateDrag(grab.Add(drag))
	logger.Debug("released", "offset", engine.State().Offset, "threshold", engine.Threshold())
	engine.EndDrag()

	st := engine.State()
	box, _ := panel.Bounds()
	report := snapReport{
		Placement: st.Placement,
		OffsetX:   st.Offset.X,
		OffsetY:   st.Offset.Y,
		X:         box.X,
		Y:         box.Y,
		Closed:    closed,
	}
	if st.Outside != movable.EdgeNone {
		report.Outside = string(st.Outside)
	}
	return report, nil
}

func printSnapReport(r snapReport) {
	key := lipgloss.NewStyle().Foreground(theme.CLITableKey()).Bold(true).Width(10)
	dim := lipgloss.NewStyle().Foreground(theme.CLITableDim())

	row := func(k, v string) {
		lipgloss.Println(key.Render(k) + dim.Render(v))
	}
	if r.Closed {
		log.Warn("release crossed a close threshold")
		row("closed", "yes")
	}
	row("placement", string(r.Placement))
	row("offset", fmt.Sprintf("%g,%g", r.OffsetX, r.OffsetY))
	row("position", fmt.Sprintf("%g,%g", r.X, r.Y))
	if r.Outside != "" {
		row("outside", r.Outside)
	}
}
