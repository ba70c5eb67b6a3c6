// Package config provides playground constants, keybinding management, and user settings.
package config

import (
	"time"

	"charm.land/lipgloss/v2"
)

// =============================================================================
// Playground Layout
// =============================================================================

const (
	// PanelWidth is the width of the movable panel in cells
	PanelWidth = 34

	// PanelHeight is the height of the movable panel in cells
	PanelHeight = 9

	// MinViewportWidth is the smallest terminal width the playground lays out for
	MinViewportWidth = 40

	// MinViewportHeight is the smallest terminal height the playground lays out for
	MinViewportHeight = 12

	// StatusBarHeight is the height of the status line at the bottom
	StatusBarHeight = 1

	// AccordionWidth is the width of the collapse sidebar
	AccordionWidth = 30

	// ToastWidth is the width of a rendered notification
	ToastWidth = 36

	// ToastHeight is the height of a rendered notification, border included
	ToastHeight = 5

	// SectionBodyLines is the number of lines an open accordion section shows
	SectionBodyLines = 3
)

// Z-index layers for the playground canvas
const (
	ZIndexAccordion     = 10
	ZIndexPanel         = 20
	ZIndexNotifications = 30
	ZIndexStatusBar     = 40
	ZIndexHelp          = 50
)

// =============================================================================
// Animation and Timing
// =============================================================================

const (
	// NormalFPS is the refresh rate while the panel is easing toward its target
	NormalFPS = 60

	// SpringFrequency is the angular frequency of the panel easing spring
	SpringFrequency = 7.0

	// SpringDamping is the damping ratio of the panel easing spring
	SpringDamping = 0.9

	// KeyReleaseTimeout ends a keyboard move when the terminal does not report
	// key releases
	KeyReleaseTimeout = 350 * time.Millisecond

	// NotificationDuration is the default duration notifications remain visible
	NotificationDuration = 1500 * time.Millisecond

	// MaxVisibleNotifications is how many toasts are drawn at once
	MaxVisibleNotifications = 3
)

// =============================================================================
// Runtime Configuration
// =============================================================================

// UseASCIIOnly controls whether to use ASCII fallback characters
// Set via --ascii-only command-line flag or appearance.ascii_only config
var UseASCIIOnly = false

// AnimationsEnabled controls whether the panel eases toward snap targets
// Set via --no-animations flag or appearance.animations_enabled config
var AnimationsEnabled = true

// BorderStyle controls which border style to use for the panel
// Set via --border-style flag or appearance.border_style config
var BorderStyle = "rounded"

// GetTransitionDuration returns d, or 0 when animations are disabled.
func GetTransitionDuration(d time.Duration) time.Duration {
	if !AnimationsEnabled {
		return 0
	}
	return d
}

// =============================================================================
// Glyphs
// =============================================================================

const (
	// SectionOpenIcon marks an open accordion section
	SectionOpenIcon = "▾"
	// SectionClosedIcon marks a closed accordion section
	SectionClosedIcon = "▸"
	// SectionLockedIcon marks a read-only accordion section
	SectionLockedIcon = string(rune(0xf023))
	// OutsideIndicator marks the edge a panel is peeking from
	OutsideIndicator = "◆"
	// ProgressFull is a filled cell of a notification timer bar
	ProgressFull = "━"
	// ProgressEmpty is an empty cell of a notification timer bar
	ProgressEmpty = "─"
)

const (
	// SectionOpenIconASCII is the ASCII fallback for SectionOpenIcon
	SectionOpenIconASCII = "v"
	// SectionClosedIconASCII is the ASCII fallback for SectionClosedIcon
	SectionClosedIconASCII = ">"
	// SectionLockedIconASCII is the ASCII fallback for SectionLockedIcon
	SectionLockedIconASCII = "#"
	// OutsideIndicatorASCII is the ASCII fallback for OutsideIndicator
	OutsideIndicatorASCII = "*"
	// ProgressFullASCII is the ASCII fallback for ProgressFull
	ProgressFullASCII = "="
	// ProgressEmptyASCII is the ASCII fallback for ProgressEmpty
	ProgressEmptyASCII = "-"
)

func pick(unicode, ascii string) string {
	if UseASCIIOnly {
		return ascii
	}
	return unicode
}

// GetSectionIcon returns the accordion marker for a section.
func GetSectionIcon(open, editable bool) string {
	switch {
	case !editable:
		return pick(SectionLockedIcon, SectionLockedIconASCII)
	case open:
		return pick(SectionOpenIcon, SectionOpenIconASCII)
	default:
		return pick(SectionClosedIcon, SectionClosedIconASCII)
	}
}

// GetOutsideIndicator returns the marker drawn when the panel peeks in from outside.
func GetOutsideIndicator() string {
	return pick(OutsideIndicator, OutsideIndicatorASCII)
}

// GetProgressChars returns the filled and empty timer bar characters.
func GetProgressChars() (full, empty string) {
	return pick(ProgressFull, ProgressFullASCII), pick(ProgressEmpty, ProgressEmptyASCII)
}

// GetBorderForStyle returns the lipgloss Border for the current style
func GetBorderForStyle() lipgloss.Border {
	if UseASCIIOnly || BorderStyle == "ascii" {
		return lipgloss.ASCIIBorder()
	}
	switch BorderStyle {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	case "block":
		return lipgloss.BlockBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

// BorderStyles lists the accepted border_style values.
var BorderStyles = []string{"rounded", "normal", "thick", "double", "hidden", "block", "ascii"}
