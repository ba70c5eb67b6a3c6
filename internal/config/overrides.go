package config

import (
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/theme"
)

// Overrides contains CLI flag values that can override user config.
// Zero values indicate the flag was not set and should use the user config default.
type Overrides struct {
	// ASCIIOnly uses ASCII characters instead of Nerd Font icons
	ASCIIOnly bool

	// BorderStyle overrides the panel border style
	BorderStyle string

	// NoAnimations disables easing and transitions
	NoAnimations bool

	// ThemeName is the theme to load
	ThemeName string

	// LogLevel overrides log.level
	LogLevel string

	// Placement overrides movable.placement
	Placement string

	// SnapOutside forces movable.snap.outside on (and containment off)
	SnapOutside bool

	// SnapCorners forces movable.snap.corners on
	SnapCorners bool
}

// ApplyOverrides applies CLI flag overrides to the global appearance settings
// and to userConfig, falling back to user config values. If userConfig is nil,
// only CLI flag values (when set) are applied.
func ApplyOverrides(overrides Overrides, userConfig *UserConfig) {
	// ASCII Only - OR of CLI flag and user config
	UseASCIIOnly = overrides.ASCIIOnly || (userConfig != nil && userConfig.Appearance.ASCIIOnly)

	// Border Style - CLI flag takes precedence, otherwise use user config
	if overrides.BorderStyle != "" {
		BorderStyle = overrides.BorderStyle
	} else if userConfig != nil && userConfig.Appearance.BorderStyle != "" {
		BorderStyle = userConfig.Appearance.BorderStyle
	}

	// Animations - disabled by flag, otherwise by config
	AnimationsEnabled = !overrides.NoAnimations
	if AnimationsEnabled && userConfig != nil && userConfig.Appearance.AnimationsEnabled != nil {
		AnimationsEnabled = *userConfig.Appearance.AnimationsEnabled
	}

	if userConfig != nil {
		if overrides.LogLevel != "" {
			userConfig.Log.Level = overrides.LogLevel
		}
		if overrides.Placement != "" {
			userConfig.Movable.Placement = overrides.Placement
		}
		if overrides.SnapOutside {
			contain := false
			userConfig.Movable.Snap.Outside = true
			userConfig.Movable.Contain = &contain
		}
		if overrides.SnapCorners {
			userConfig.Movable.Snap.Corners = true
		}
	}

	// Theme - CLI flag takes precedence, otherwise use user config
	themeName := overrides.ThemeName
	if themeName == "" && userConfig != nil && userConfig.Appearance.Theme != "" {
		themeName = userConfig.Appearance.Theme
	}
	if err := theme.Initialize(themeName); err != nil {
		log.Warn("failed to load theme", "theme", themeName, "err", err)
	}
}
