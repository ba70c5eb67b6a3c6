package main

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/input"
	"github.com/Gaurav-Gosain/tuikit/internal/logging"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
	"github.com/Gaurav-Gosain/tuikit/internal/tape"
	"github.com/Gaurav-Gosain/tuikit/internal/theme"
)

// resolveTape finds name as a path or in the tape directory.
func resolveTape(name string) (string, error) {
	dir, err := tape.Dir()
	if err != nil {
		return "", err
	}
	return tape.Resolve(dir, name)
}

func playTape(name string) error {
	path, err := resolveTape(name)
	if err != nil {
		return err
	}
	cmds, err := tape.Load(path)
	if err != nil {
		return err
	}

	level := "warn"
	if debugMode {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level})
	if err != nil {
		return err
	}

	player, err := input.NewPlayer(loadConfig(), logger)
	if err != nil {
		return fmt.Errorf("failed to create playground: %w", err)
	}
	defer player.Close()

	if err := player.Play(cmds); err != nil {
		return err
	}

	p := player.Playground()
	st := p.Engine.State()
	x, y, _, _ := p.PanelRect()
	report := snapReport{
		Placement: st.Placement,
		OffsetX:   st.Offset.X,
		OffsetY:   st.Offset.Y,
		X:         float64(x),
		Y:         float64(y),
		Closed:    p.Closes() > 0,
	}
	if st.Outside != movable.EdgeNone {
		report.Outside = string(st.Outside)
	}
	printSnapReport(report)

	ok := lipgloss.NewStyle().Foreground(theme.NotificationSuccess()).Bold(true)
	fmt.Println(ok.Render("passed:"), fmt.Sprintf("%s (%d commands)", path, len(cmds)))
	return nil
}

func validateTape(name string) error {
	path, err := resolveTape(name)
	if err != nil {
		return err
	}
	cmds, err := tape.Load(path)
	if err != nil {
		return err
	}
	ok := lipgloss.NewStyle().Foreground(theme.NotificationSuccess()).Bold(true)
	fmt.Println(ok.Render("valid:"), fmt.Sprintf("%s (%d commands)", path, len(cmds)))
	return nil
}

func listTapes() error {
	dir, err := tape.Dir()
	if err != nil {
		return err
	}
	files, err := tape.List(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No tapes in", dir)
		return nil
	}

	key := lipgloss.NewStyle().Foreground(theme.CLITableKey()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.CLITableDim())
	width := 0
	for _, f := range files {
		width = max(width, lipgloss.Width(f.Name))
	}
	for _, f := range files {
		name := key.Width(width + 2).Render(f.Name)
		lipgloss.Println(name + dim.Render(f.Modified.Format(time.DateTime)))
	}
	return nil
}

func printTapeDir() error {
	dir, err := tape.Dir()
	if err != nil {
		return err
	}
	fmt.Println(dir)
	return nil
}
