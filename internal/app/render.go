package app

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/collapse"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
	"github.com/Gaurav-Gosain/tuikit/internal/notify"
	"github.com/Gaurav-Gosain/tuikit/internal/theme"
	"github.com/charmbracelet/x/ansi"
)

// panelSize is the panel box, border included. Every panel line is fitted
// to the inner width so the box never changes size.
func panelSize() movable.Size {
	return movable.Size{Width: config.PanelWidth, Height: config.PanelHeight}
}

// View implements tea.Model.
func (p *Playground) View() tea.View {
	var view tea.View
	view.SetContent(lipgloss.Sprint(p.GetCanvas().Render()))
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	view.ReportFocus = true
	return view
}

// GetCanvas composes every layer of the playground.
func (p *Playground) GetCanvas() *lipgloss.Canvas {
	width, height := max(p.Width, 1), max(p.Height, 1)
	canvas := lipgloss.NewCanvas(width, height)
	areaHeight := max(height-config.StatusBarHeight, 0)

	var layers []*lipgloss.Layer
	add := func(content string, x, y, z int, id string) {
		content, x, y = clip(content, x, y, width, areaHeight)
		if content == "" {
			return
		}
		layers = append(layers, lipgloss.NewLayer(content).X(x).Y(y).Z(z).ID(id))
	}

	add(p.renderAccordion(), 0, 0, config.ZIndexAccordion, "accordion")

	px, py := p.glide.Cell()
	add(p.renderPanel(), px, py, config.ZIndexPanel, "panel")

	now := p.clock.Now()
	for i, r := range p.toasts() {
		x, y := p.toastOrigin(i)
		add(renderToast(r, now), x, y, config.ZIndexNotifications, "toast-"+r.ID)
	}

	if p.ShowHelp {
		help := p.renderHelp()
		x := (width - lipgloss.Width(help)) / 2
		y := (areaHeight - lipgloss.Height(help)) / 2
		add(help, x, y, config.ZIndexHelp, "help")
	}

	if height > areaHeight {
		layers = append(layers, lipgloss.NewLayer(p.renderStatusBar(width)).
			X(0).Y(areaHeight).Z(config.ZIndexStatusBar).ID("status"))
	}

	for _, layer := range layers {
		canvas.Compose(layer)
	}
	return canvas
}

func (p *Playground) panelColor() color.Color {
	st := p.state
	switch {
	case !st.Enabled:
		return theme.PanelBorderDisabled()
	case st.Dragging || p.Engine.Keyboarding():
		return theme.PanelBorderDragging()
	case st.Outside != movable.EdgeNone:
		return theme.PanelOutside()
	default:
		return theme.PanelBorder()
	}
}

func (p *Playground) modeLabel() string {
	st := p.state
	switch {
	case !st.Enabled:
		return "disabled"
	case st.Dragging:
		return "dragging"
	case p.Engine.Keyboarding():
		return "keyboard"
	case st.Translating:
		return "translating"
	default:
		return "idle"
	}
}

func (p *Playground) renderPanel() string {
	st := p.state
	inner := config.PanelWidth - 2
	accent := lipgloss.NewStyle().Foreground(p.panelColor()).Bold(true)
	label := lipgloss.NewStyle().Foreground(theme.SectionBody())

	title := "tuikit panel"
	if st.Outside != movable.EdgeNone {
		title = fmt.Sprintf("%s peeking from %s", config.GetOutsideIndicator(), st.Outside)
	}

	row := func(k, v string) string {
		return label.Render(fmt.Sprintf("%-10s", k)) + v
	}
	lines := []string{
		accent.Render(title),
		row("placement", string(st.Placement)),
		row("offset", fmt.Sprintf("%.0f, %.0f", st.Offset.X, st.Offset.Y)),
		row("outside", edgeLabel(st.Outside)),
		row("mode", p.modeLabel()),
		row("closes", fmt.Sprint(p.Closes())),
		label.Render("drag me or use the arrows"),
	}
	for i, l := range lines {
		lines[i] = fit(l, inner)
	}

	return lipgloss.NewStyle().
		Border(config.GetBorderForStyle()).
		BorderForeground(p.panelColor()).
		Render(strings.Join(lines, "\n"))
}

// sectionRows returns the y of every section header.
func (p *Playground) sectionRows() []int {
	rows := make([]int, 0, len(p.sectionIDs))
	y := 0
	for _, id := range p.sectionIDs {
		rows = append(rows, y)
		y++
		if info, ok := p.Sections.Get(id); ok && info.Open {
			y += config.SectionBodyLines
		}
	}
	return rows
}

func (p *Playground) renderAccordion() string {
	header := lipgloss.NewStyle().Foreground(theme.SectionTitle()).Bold(true)
	locked := lipgloss.NewStyle().Foreground(theme.SectionLocked())
	body := lipgloss.NewStyle().Foreground(theme.SectionBody())

	var lines []string
	for i, id := range p.sectionIDs {
		info, ok := p.Sections.Get(id)
		if !ok {
			continue
		}
		style := header
		if !info.Editable {
			style = locked
		}
		title := fmt.Sprintf("%s %d %s", config.GetSectionIcon(info.Open, info.Editable), i+1, sectionDefs[i].title)
		lines = append(lines, fit(style.Render(title), config.AccordionWidth))
		if info.Open {
			for _, l := range p.sectionBody(id) {
				lines = append(lines, fit(body.Render("  "+l), config.AccordionWidth))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (p *Playground) sectionBody(id string) []string {
	st, opts := p.state, p.options
	switch id {
	case "placement":
		return []string{
			fmt.Sprintf("anchor   %s", st.Placement),
			fmt.Sprintf("offset   %.0f, %.0f", st.Offset.X, st.Offset.Y),
			fmt.Sprintf("outside  %s", edgeLabel(st.Outside)),
		}
	case "snapping":
		return []string{
			fmt.Sprintf("edges %s  corners %s", onOff(opts.Snap.Edges), onOff(opts.Snap.Corners)),
			fmt.Sprintf("outside %s  anchor %s", onOff(opts.Snap.Outside), onOff(opts.Snap.Placement)),
			fmt.Sprintf("contain %s  margin %.0f", onOff(opts.Contain), opts.Margin),
		}
	case "threshold":
		t := p.Engine.Threshold()
		return []string{
			fmt.Sprintf("top %s  bottom %s", distance(t.Top), distance(t.Bottom)),
			fmt.Sprintf("left %s  right %s", distance(t.Left), distance(t.Right)),
			fmt.Sprintf("closed %d times", p.Closes()),
		}
	default:
		return []string{
			"Drag the panel or move it",
			"with the arrow keys.",
			"Press ? for every binding.",
		}
	}
}

// toastOrigin is the top-left corner of the i-th visible notification.
func (p *Playground) toastOrigin(i int) (x, y int) {
	return max(p.Width-config.ToastWidth-1, 0), i * config.ToastHeight
}

func kindColor(k notify.Kind) color.Color {
	switch k {
	case notify.KindError:
		return theme.NotificationError()
	case notify.KindWarning:
		return theme.NotificationWarning()
	case notify.KindSuccess:
		return theme.NotificationSuccess()
	default:
		return theme.NotificationInfo()
	}
}

func renderToast(r notify.Record, now time.Time) string {
	inner := config.ToastWidth - 2
	accent := kindColor(r.Kind)

	title := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(r.Title)
	message := lipgloss.NewStyle().Foreground(theme.NotificationFg()).Render(r.Message)

	var bar string
	if r.Timeout > 0 {
		full, empty := config.GetProgressChars()
		n := int(r.Progress(now)*float64(inner) + 0.5)
		bar = lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat(full, n)) +
			lipgloss.NewStyle().Foreground(theme.SectionLocked()).Render(strings.Repeat(empty, inner-n))
	} else {
		bar = lipgloss.NewStyle().Foreground(theme.SectionLocked()).Render("persistent")
	}

	return lipgloss.NewStyle().
		Border(config.GetBorderForStyle()).
		BorderForeground(accent).
		Background(theme.NotificationBg()).
		Render(strings.Join([]string{fit(title, inner), fit(message, inner), fit(bar, inner)}, "\n"))
}

func (p *Playground) renderStatusBar(width int) string {
	st, opts := p.state, p.options
	counts := p.Sections.Counts()
	hi := lipgloss.NewStyle().Foreground(theme.StatusHighlight()).Bold(true)

	flag := func(name string, on bool) string {
		if on {
			return hi.Render(name)
		}
		return name
	}
	parts := []string{
		fmt.Sprintf("%s %.0f,%.0f", st.Placement, st.Offset.X, st.Offset.Y),
		p.modeLabel(),
		"snap " + strings.Join([]string{
			flag("E", opts.Snap.Edges),
			flag("C", opts.Snap.Corners),
			flag("O", opts.Snap.Outside),
			flag("P", opts.Snap.Placement),
		}, ""),
		fmt.Sprintf("sections %d/%d", counts.Opened, counts.Opened+counts.Closed),
		fmt.Sprintf("toasts %d", p.Notifications.Stack(notify.DefaultStack).Len()),
		p.Keybinds.GetKeysForDisplay(config.ActionToggleHelp) + " help",
	}

	return lipgloss.NewStyle().
		Background(theme.StatusBg()).
		Foreground(theme.StatusFg()).
		Render(fit(" "+strings.Join(parts, " | "), width))
}

func (p *Playground) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(theme.HelpBorder()).Bold(true)
	key := lipgloss.NewStyle().Foreground(theme.HelpKeyBadge()).Bold(true)

	var lines []string
	for _, section := range config.GetKeybindings(p.Keybinds) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, title.Render(section.Title))
		for _, b := range section.Bindings {
			lines = append(lines, key.Render(fmt.Sprintf("%-14s", b.Key))+" "+b.Description)
		}
	}

	return lipgloss.NewStyle().
		Border(config.GetBorderForStyle()).
		BorderForeground(theme.HelpBorder()).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > w {
		s = ansi.Truncate(s, w, "…")
	}
	return s + strings.Repeat(" ", w-ansi.StringWidth(s))
}

// clip cuts content placed at x, y down to the w x h area and returns the
// visible part with its new origin.
func clip(content string, x, y, w, h int) (string, int, int) {
	lines := strings.Split(content, "\n")
	width := 0
	for _, l := range lines {
		width = max(width, ansi.StringWidth(l))
	}
	if content == "" || x+width <= 0 || x >= w || y+len(lines) <= 0 || y >= h {
		return "", max(x, 0), max(y, 0)
	}

	lines = lines[max(-y, 0):]
	fx, fy := max(x, 0), max(y, 0)
	if n := h - fy; n < len(lines) {
		lines = lines[:n]
	}

	left, right := max(-x, 0), min(width, w-x)
	if left > 0 || right < width {
		for i, l := range lines {
			lines[i] = ansi.Cut(l, left, right)
		}
	}
	return strings.Join(lines, "\n"), fx, fy
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func distance(v float64) string {
	if v <= 0 {
		return "off"
	}
	return fmt.Sprintf("%.0f", v)
}

// PanelRect returns the drawn panel box in cells.
func (p *Playground) PanelRect() (x, y, w, h int) {
	x, y = p.glide.Cell()
	return x, y, config.PanelWidth, config.PanelHeight
}

// InPanel reports whether the cell x, y is on the drawn panel.
func (p *Playground) InPanel(x, y int) bool {
	px, py, w, h := p.PanelRect()
	return x >= px && x < px+w && y >= py && y < py+h
}

// SectionAt returns the index of the section header at x, y, or -1.
func (p *Playground) SectionAt(x, y int) int {
	if x < 0 || x >= config.AccordionWidth {
		return -1
	}
	for i, row := range p.sectionRows() {
		if row == y {
			return i
		}
	}
	return -1
}

// ToastAt returns the notification drawn at x, y.
func (p *Playground) ToastAt(x, y int) (notify.Record, bool) {
	for i, r := range p.toasts() {
		tx, ty := p.toastOrigin(i)
		if x >= tx && x < tx+config.ToastWidth && y >= ty && y < ty+config.ToastHeight {
			return r, true
		}
	}
	return notify.Record{}, false
}

// SectionInfo returns the group's view of the i-th section.
func (p *Playground) SectionInfo(i int) (collapse.Info, bool) {
	if i < 0 || i >= len(p.sectionIDs) {
		return collapse.Info{}, false
	}
	return p.Sections.Get(p.sectionIDs[i])
}
