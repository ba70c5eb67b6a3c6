package tape

import (
	"fmt"
	"strconv"
	"time"
)

// Executor plays tape commands against a program. Coordinates are terminal
// cells.
type Executor interface {
	// Resize delivers a terminal size.
	Resize(width, height int) error
	// Press sends a key press by name ("right", "n", "ctrl+c").
	Press(key string) error
	// Release sends a key release, or ends a keyboard move when key is "".
	Release(key string) error
	// Click presses and releases a mouse button at x, y.
	Click(x, y int, button string) error
	// Drag presses the primary button at one cell, moves to another and
	// releases it.
	Drag(fromX, fromY, toX, toY int) error
	// Blur reports that the terminal lost focus.
	Blur() error
	// Sleep lets d pass on the program clock.
	Sleep(d time.Duration) error
	// Expect checks one observable value.
	Expect(field string, want []string) error
}

// ExpectationError is returned when an Expect line does not hold.
type ExpectationError struct {
	Field string
	Want  string
	Got   string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("expected %s %s, got %s", e.Field, e.Want, e.Got)
}

// CommandExecutor dispatches parsed commands to an Executor.
type CommandExecutor struct {
	executor Executor
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(executor Executor) *CommandExecutor {
	return &CommandExecutor{executor: executor}
}

// Execute runs a single command.
func (ce *CommandExecutor) Execute(cmd Command) error {
	if ce.executor == nil {
		return nil
	}

	switch cmd.Type {
	case CommandTypeResize:
		n, err := Ints(cmd.Args)
		if err != nil {
			return err
		}
		return ce.executor.Resize(n[0], n[1])

	case CommandTypeKey:
		repeat := 1
		if len(cmd.Args) == 2 {
			repeat, _ = strconv.Atoi(cmd.Args[1])
		}
		for range repeat {
			if err := ce.executor.Press(cmd.Args[0]); err != nil {
				return err
			}
		}
		return nil

	case CommandTypeRelease:
		key := ""
		if len(cmd.Args) > 0 {
			key = cmd.Args[0]
		}
		return ce.executor.Release(key)

	case CommandTypeType:
		for _, r := range cmd.Args[0] {
			if err := ce.executor.Press(string(r)); err != nil {
				return err
			}
		}
		return nil

	case CommandTypeClick:
		n, err := Ints(cmd.Args[:2])
		if err != nil {
			return err
		}
		button := "left"
		if len(cmd.Args) == 3 {
			button = cmd.Args[2]
		}
		return ce.executor.Click(n[0], n[1], button)

	case CommandTypeDrag:
		n, err := Ints(cmd.Args)
		if err != nil {
			return err
		}
		return ce.executor.Drag(n[0], n[1], n[2], n[3])

	case CommandTypeBlur:
		return ce.executor.Blur()

	case CommandTypeSleep:
		d, err := time.ParseDuration(cmd.Args[0])
		if err != nil {
			return err
		}
		return ce.executor.Sleep(d)

	case CommandTypeExpect:
		return ce.executor.Expect(cmd.Args[0], cmd.Args[1:])
	}
	return fmt.Errorf("unsupported command %s", cmd.Type)
}

// Run executes cmds in order and stops at the first failure, reporting the
// tape line it came from.
func (ce *CommandExecutor) Run(cmds []Command) error {
	for _, cmd := range cmds {
		if err := ce.Execute(cmd); err != nil {
			return fmt.Errorf("line %d (%s): %w", cmd.Line, cmd, err)
		}
	}
	return nil
}
