// Package tape parses and runs .tape scripts: line based recordings of
// terminal input played against the playground without a terminal.
//
//	# drag the panel to the left edge and check where it lands
//	Resize 120 40
//	Drag 50 18 10 18
//	Expect offset -42,0
package tape

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// CommandType identifies a tape command.
type CommandType string

// Tape commands.
const (
	CommandTypeResize  CommandType = "Resize"
	CommandTypeKey     CommandType = "Key"
	CommandTypeRelease CommandType = "Release"
	CommandTypeType    CommandType = "Type"
	CommandTypeClick   CommandType = "Click"
	CommandTypeDrag    CommandType = "Drag"
	CommandTypeBlur    CommandType = "Blur"
	CommandTypeSleep   CommandType = "Sleep"
	CommandTypeExpect  CommandType = "Expect"
)

// arity is the accepted argument count per command: min and max, -1 for
// unbounded.
var arity = map[CommandType][2]int{
	CommandTypeResize:  {2, 2},
	CommandTypeKey:     {1, 2},
	CommandTypeRelease: {0, 1},
	CommandTypeType:    {1, 1},
	CommandTypeClick:   {2, 3},
	CommandTypeDrag:    {4, 4},
	CommandTypeBlur:    {0, 0},
	CommandTypeSleep:   {1, 1},
	CommandTypeExpect:  {1, -1},
}

// Command is one parsed tape line.
type Command struct {
	Type CommandType
	Args []string
	Line int
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return string(c.Type)
	}
	return string(c.Type) + " " + strings.Join(c.Args, " ")
}

// ParseError reports the line a tape failed to parse at.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads a tape. Blank lines and lines starting with # are skipped.
// Command names are case-insensitive.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields, err := splitFields(text)
		if err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
		cmd, err := newCommand(fields, line)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tape: %w", err)
	}
	return cmds, nil
}

// ParseString parses a tape held in memory.
func ParseString(s string) ([]Command, error) {
	return Parse(strings.NewReader(s))
}

func newCommand(fields []string, line int) (Command, error) {
	var typ CommandType
	for t := range arity {
		if strings.EqualFold(string(t), fields[0]) {
			typ = t
			break
		}
	}
	if typ == "" {
		return Command{}, &ParseError{Line: line, Msg: fmt.Sprintf("unknown command %q", fields[0])}
	}

	args := fields[1:]
	bounds := arity[typ]
	if len(args) < bounds[0] || (bounds[1] >= 0 && len(args) > bounds[1]) {
		return Command{}, &ParseError{Line: line, Msg: fmt.Sprintf("%s takes %s", typ, describeArity(bounds))}
	}

	cmd := Command{Type: typ, Args: args, Line: line}
	if err := checkArgs(cmd); err != nil {
		return Command{}, &ParseError{Line: line, Msg: err.Error()}
	}
	return cmd, nil
}

func describeArity(b [2]int) string {
	switch {
	case b[1] < 0:
		return fmt.Sprintf("at least %d argument(s)", b[0])
	case b[0] == b[1]:
		return fmt.Sprintf("%d argument(s)", b[0])
	default:
		return fmt.Sprintf("%d to %d arguments", b[0], b[1])
	}
}

// checkArgs validates numeric arguments up front so a tape fails before it
// starts running.
func checkArgs(cmd Command) error {
	switch cmd.Type {
	case CommandTypeResize, CommandTypeDrag:
		_, err := Ints(cmd.Args)
		return err
	case CommandTypeClick:
		_, err := Ints(cmd.Args[:2])
		return err
	case CommandTypeKey:
		if len(cmd.Args) == 2 {
			if n, err := strconv.Atoi(cmd.Args[1]); err != nil || n < 1 {
				return fmt.Errorf("repeat count %q must be a positive integer", cmd.Args[1])
			}
		}
	case CommandTypeSleep:
		_, err := time.ParseDuration(cmd.Args[0])
		return err
	}
	return nil
}

// Ints converts every argument to an int.
func Ints(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", a)
		}
		out[i] = n
	}
	return out, nil
}

// splitFields splits on whitespace, keeping double-quoted runs together.
func splitFields(s string) ([]string, error) {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
		have   bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			have = true
		case !quoted && (r == ' ' || r == '\t'):
			if have {
				fields = append(fields, cur.String())
				cur.Reset()
				have = false
			}
		case !quoted && r == '#' && !have:
			// Trailing comment; quote a literal "#".
			return fields, nil
		default:
			cur.WriteRune(r)
			have = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if have {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
