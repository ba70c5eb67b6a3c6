// Package theme provides color themes and styling for the tuikit playground.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	"charm.land/log/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at application startup.
// If themeName is empty, theming will be disabled and standard terminal colors will be used.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	// Load custom themes from user's themes directory
	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			log.Warn("error loading custom themes", "err", err)
		}
	}

	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		return fmt.Errorf("unknown theme %q, using default", themeName)
	}
	return nil
}

// Current returns the currently active theme.
// Returns nil if theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// IDs returns every registered theme id, custom themes included.
func IDs() []string {
	tint.NewDefaultRegistry()
	if themesDir, err := GetThemesDir(); err == nil {
		_, _ = LoadCustomThemes(themesDir)
	}
	return tint.TintIDs()
}

// pick returns the themed color, or fallback when theming is disabled.
func pick(fallback string, themed func(*tint.Tint) color.Color) color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color(fallback)
	}
	return themed(t)
}

// PanelBorder returns the border color of the idle movable panel.
func PanelBorder() color.Color {
	return pick("#AFFFFF", func(t *tint.Tint) color.Color { return t.BrightCyan })
}

// PanelBorderDragging returns the border color while the panel is dragged.
func PanelBorderDragging() color.Color {
	return pick("#FFA500", func(t *tint.Tint) color.Color { return t.BrightYellow })
}

// PanelBorderDisabled returns the border color when movement is disabled.
func PanelBorderDisabled() color.Color {
	return pick("#7f7f7f", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// PanelOutside returns the accent used when the panel peeks in from outside.
func PanelOutside() color.Color {
	return pick("#cd00cd", func(t *tint.Tint) color.Color { return t.Purple })
}

// SectionTitle returns the color of accordion section headers.
func SectionTitle() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) color.Color { return t.BrightBlue })
}

// SectionBody returns the color of accordion section text.
func SectionBody() color.Color {
	return pick("#a0a0a8", func(t *tint.Tint) color.Color { return t.White })
}

// SectionLocked returns the color of read-only section headers.
func SectionLocked() color.Color {
	return pick("#808090", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// NotificationError returns the color for error notifications.
func NotificationError() color.Color {
	return pick("#cd0000", func(t *tint.Tint) color.Color { return t.Red })
}

// NotificationWarning returns the color for warning notifications.
func NotificationWarning() color.Color {
	return pick("#cdcd00", func(t *tint.Tint) color.Color { return t.Yellow })
}

// NotificationSuccess returns the color for success notifications.
func NotificationSuccess() color.Color {
	return pick("#00cd00", func(t *tint.Tint) color.Color { return t.Green })
}

// NotificationInfo returns the color for info notifications.
func NotificationInfo() color.Color {
	return pick("#0000ee", func(t *tint.Tint) color.Color { return t.Blue })
}

// NotificationBg returns the background color for notifications.
func NotificationBg() color.Color {
	return pick("#1a1a2e", func(t *tint.Tint) color.Color { return t.Bg })
}

// NotificationFg returns the foreground color for notifications.
func NotificationFg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) color.Color { return t.Fg })
}

// StatusBg returns the background color of the status line.
func StatusBg() color.Color {
	return lipgloss.Color("#2a2a3e")
}

// StatusFg returns the foreground color of the status line.
func StatusFg() color.Color {
	return lipgloss.Color("#a0a0a8")
}

// StatusHighlight returns the color of active flags on the status line.
func StatusHighlight() color.Color {
	return pick("#00ff00", func(t *tint.Tint) color.Color { return t.BrightGreen })
}

// HelpKeyBadge returns the color for key badges in the help overlay.
func HelpKeyBadge() color.Color {
	return lipgloss.Color("5")
}

// HelpBorder returns the border color for the help overlay.
func HelpBorder() color.Color {
	return lipgloss.Color("14")
}

// CLITableHeader returns the color for CLI table headers.
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

// CLITableBorder returns the color for CLI table borders.
func CLITableBorder() color.Color {
	return lipgloss.Color("14")
}

// CLITableKey returns the color for CLI table keys.
func CLITableKey() color.Color {
	return lipgloss.Color("11")
}

// CLITableDim returns the dimmed color for CLI table elements.
func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	// RGBA returns values in range 0-65535, convert to 0-255
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	return fmt.Sprintf("#%02x%02x%02x", r8, g8, b8)
}
