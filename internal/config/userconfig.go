package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/collapse"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFile is the config path relative to the XDG config directories.
const ConfigFile = "tuikit/config.toml"

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Appearance    AppearanceConfig    `toml:"appearance"`
	Movable       MovableConfig       `toml:"movable"`
	Collapse      CollapseConfig      `toml:"collapse"`
	Notifications NotificationsConfig `toml:"notifications"`
	Log           LogConfig           `toml:"log"`
	Keybindings   KeybindingsConfig   `toml:"keybindings"`
}

// AppearanceConfig holds appearance-related settings
type AppearanceConfig struct {
	BorderStyle       string `toml:"border_style" validate:"omitempty,oneof=rounded normal thick double hidden block ascii"`
	ASCIIOnly         bool   `toml:"ascii_only"`
	AnimationsEnabled *bool  `toml:"animations_enabled"` // nil means enabled
	Theme             string `toml:"theme"`              // bubbletint id or custom theme name
}

// MovableConfig configures the movable panel. Distances are in terminal cells.
type MovableConfig struct {
	Placement       string          `toml:"placement" validate:"omitempty,oneof=top-start top top-end right-start right right-end bottom-start bottom bottom-end left-start left left-end center"`
	Margin          *float64        `toml:"margin" validate:"omitempty,gte=0"`
	Step            float64         `toml:"step" validate:"gte=0"`
	MaxAcceleration int             `toml:"max_acceleration" validate:"gte=0,lte=100"`
	Contain         *bool           `toml:"contain"`
	ResetOnClose    bool            `toml:"reset_on_close"`
	TransitionMS    int             `toml:"transition_ms" validate:"gte=0,lte=5000"`
	Snap            SnapConfig      `toml:"snap"`
	Threshold       ThresholdConfig `toml:"threshold"`
}

// SnapConfig configures snapping on release
type SnapConfig struct {
	Edges     *bool   `toml:"edges"`
	Corners   bool    `toml:"corners"`
	Outside   bool    `toml:"outside"`
	Offset    float64 `toml:"offset" validate:"gte=0"`
	Placement bool    `toml:"placement"`
}

// ThresholdConfig holds drag-to-close distances; unset edges are derived
type ThresholdConfig struct {
	Top    *float64 `toml:"top" validate:"omitempty,gte=0"`
	Right  *float64 `toml:"right" validate:"omitempty,gte=0"`
	Bottom *float64 `toml:"bottom" validate:"omitempty,gte=0"`
	Left   *float64 `toml:"left" validate:"omitempty,gte=0"`
}

// CollapseConfig bounds the accordion sidebar
type CollapseConfig struct {
	Min int `toml:"min" validate:"gte=0"`
	Max int `toml:"max" validate:"gte=0"` // 0 means unbounded
}

// NotificationsConfig configures the toast stack
type NotificationsConfig struct {
	DurationMS int `toml:"duration_ms" validate:"gte=0"`
	MaxVisible int `toml:"max_visible" validate:"gte=0,lte=20"`
}

// LogConfig configures the debug log
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `toml:"file"` // empty means $XDG_STATE_HOME/tuikit/tuikit.log
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Appearance: AppearanceConfig{
			BorderStyle:       "rounded",
			AnimationsEnabled: boolPtr(true),
		},
		Movable: MovableConfig{
			Placement:       string(movable.Center),
			Margin:          floatPtr(1),
			Step:            1,
			MaxAcceleration: movable.DefaultMaxAcceleration,
			Contain:         boolPtr(true),
			TransitionMS:    int(movable.DefaultTransition / time.Millisecond),
			Snap: SnapConfig{
				Edges:  boolPtr(true),
				Offset: 3,
			},
		},
		Collapse: CollapseConfig{
			Min: 1,
			Max: 1,
		},
		Notifications: NotificationsConfig{
			DurationMS: int(NotificationDuration / time.Millisecond),
			MaxVisible: MaxVisibleNotifications,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Keybindings: defaultKeybindings(),
	}
}

func boolPtr(v bool) *bool { return &v }
func floatPtr(v float64) *float64 { return &v }

// LoadUserConfig loads the user configuration from XDG config directory,
// creating a commented default file on first run.
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := xdg.SearchConfigFile(ConfigFile)
	if err != nil {
		path, err := xdg.ConfigFile(ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		return WriteDefaultConfig(path)
	}
	return LoadFile(configPath)
}

// LoadFile parses, completes and validates the config at path. Warnings are
// logged; errors fail the load.
func LoadFile(path string) (*UserConfig, error) {
	// #nosec G304 - reading the user's own config is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse config file %s at %d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	defaultCfg := DefaultConfig()
	fillMissingAppearance(&cfg, defaultCfg)
	fillMissingMovable(&cfg, defaultCfg)
	fillMissingNotifications(&cfg, defaultCfg)
	fillMissingLog(&cfg, defaultCfg)
	fillMissingKeybinds(&cfg, defaultCfg)

	validation := ValidateConfig(&cfg)
	for _, warn := range validation.Warnings {
		log.Warn("config warning", "section", warn.Field, "key", warn.Key, "msg", warn.Message)
	}
	if err := validation.Err(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteDefaultConfig writes the default config with its documentation header
// to path and returns it.
func WriteDefaultConfig(path string) (*UserConfig, error) {
	cfg := DefaultConfig()

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# tuikit Configuration File\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n")
	sb.WriteString("# For keybindings documentation, run: tuikit keybinds list\n\n")

	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# APPEARANCE\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# border_style: rounded, normal, thick, double, hidden, block, ascii\n")
	sb.WriteString("# theme: bubbletint theme id (e.g. dracula, nord). Leave empty for terminal colors.\n")
	sb.WriteString("#   Custom themes: " + filepath.Join(xdg.ConfigHome, "tuikit", "themes") + "/*.json\n")
	sb.WriteString("#\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# MOVABLE PANEL (distances in cells)\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# placement: top-start, top, top-end, right-start, right, right-end,\n")
	sb.WriteString("#            bottom-start, bottom, bottom-end, left-start, left, left-end, center\n")
	sb.WriteString("# margin: gap kept from the terminal edge\n")
	sb.WriteString("# step / max_acceleration: arrow key step and held-key multiplier cap\n")
	sb.WriteString("# snap.edges / snap.corners: snap to nearest edge or always to a corner\n")
	sb.WriteString("# snap.outside / snap.offset: allow peeking from outside, leaving offset cells visible\n")
	sb.WriteString("# threshold.*: drag distance that closes the panel (0 disables, unset derives)\n")
	sb.WriteString("#\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# COLLAPSE / NOTIFICATIONS / LOG\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# collapse.min / collapse.max: open section bounds (max 0 = unbounded)\n")
	sb.WriteString("# notifications.duration_ms: toast lifetime (persistent toasts have their own key)\n")
	sb.WriteString("# log.level: debug, info, warn, error\n")
	sb.WriteString("# ============================================================================\n\n")
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return nil, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfg, nil
}

// fillMissingAppearance fills in any missing appearance settings with defaults
func fillMissingAppearance(cfg, defaultCfg *UserConfig) {
	if cfg.Appearance.BorderStyle == "" {
		cfg.Appearance.BorderStyle = defaultCfg.Appearance.BorderStyle
	}
	if cfg.Appearance.AnimationsEnabled == nil {
		cfg.Appearance.AnimationsEnabled = defaultCfg.Appearance.AnimationsEnabled
	}
}

// fillMissingMovable fills in unset movable settings. Explicit zeros for
// step, threshold and snap offset are kept; disable transitions with
// appearance.animations_enabled instead of transition_ms = 0.
func fillMissingMovable(cfg, defaultCfg *UserConfig) {
	m, d := &cfg.Movable, defaultCfg.Movable
	if m.Placement == "" {
		m.Placement = d.Placement
	}
	if m.Margin == nil {
		m.Margin = d.Margin
	}
	if m.MaxAcceleration == 0 {
		m.MaxAcceleration = d.MaxAcceleration
	}
	if m.Contain == nil {
		m.Contain = d.Contain
	}
	if m.TransitionMS == 0 {
		m.TransitionMS = d.TransitionMS
	}
	if m.Snap.Edges == nil {
		m.Snap.Edges = d.Snap.Edges
	}
}

func fillMissingNotifications(cfg, defaultCfg *UserConfig) {
	if cfg.Notifications.DurationMS == 0 {
		cfg.Notifications.DurationMS = defaultCfg.Notifications.DurationMS
	}
	if cfg.Notifications.MaxVisible == 0 {
		cfg.Notifications.MaxVisible = defaultCfg.Notifications.MaxVisible
	}
}

func fillMissingLog(cfg, defaultCfg *UserConfig) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultCfg.Log.Level
	}
}

// fillMissingKeybinds fills in any missing keybindings with defaults
func fillMissingKeybinds(cfg, defaultCfg *UserConfig) {
	if cfg.Keybindings.Movable == nil {
		cfg.Keybindings.Movable = make(map[string][]string)
	}
	if cfg.Keybindings.Sections == nil {
		cfg.Keybindings.Sections = make(map[string][]string)
	}
	if cfg.Keybindings.Notifications == nil {
		cfg.Keybindings.Notifications = make(map[string][]string)
	}
	if cfg.Keybindings.System == nil {
		cfg.Keybindings.System = make(map[string][]string)
	}

	fillMapDefaults(cfg.Keybindings.Movable, defaultCfg.Keybindings.Movable)
	fillMapDefaults(cfg.Keybindings.Sections, defaultCfg.Keybindings.Sections)
	fillMapDefaults(cfg.Keybindings.Notifications, defaultCfg.Keybindings.Notifications)
	fillMapDefaults(cfg.Keybindings.System, defaultCfg.Keybindings.System)
}

func fillMapDefaults(target, defaults map[string][]string) {
	for k, v := range defaults {
		if _, exists := target[k]; !exists {
			target[k] = v
		}
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(ConfigFile)
	if err != nil {
		// Return where it would be created
		return xdg.ConfigFile(ConfigFile)
	}
	return path, nil
}

// ResetConfig overwrites the config file with defaults.
func ResetConfig() (string, error) {
	path, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := WriteDefaultConfig(path); err != nil {
		return "", err
	}
	return path, nil
}

// ConfigExists reports whether a config file has been written.
func ConfigExists() bool {
	path, err := xdg.SearchConfigFile(ConfigFile)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// MovableOptions converts the [movable] section into engine options.
func (c *UserConfig) MovableOptions() movable.Options {
	m := c.Movable
	opts := movable.DefaultOptions()
	opts.Placement = movable.Placement(m.Placement)
	if m.Margin != nil {
		opts.Margin = *m.Margin
	}
	opts.Step = m.Step
	opts.MaxAcceleration = m.MaxAcceleration
	if m.Contain != nil {
		opts.Contain = *m.Contain
	}
	opts.ResetOnClose = m.ResetOnClose
	opts.Transition = GetTransitionDuration(time.Duration(m.TransitionMS) * time.Millisecond)
	opts.Snap = movable.SnapOptions{
		Edges:     m.Snap.Edges == nil || *m.Snap.Edges,
		Corners:   m.Snap.Corners,
		Outside:   m.Snap.Outside,
		Offset:    m.Snap.Offset,
		Placement: m.Snap.Placement,
	}
	opts.Threshold = movable.Thresholds{
		Top:    m.Threshold.Top,
		Right:  m.Threshold.Right,
		Bottom: m.Threshold.Bottom,
		Left:   m.Threshold.Left,
	}
	return opts
}

// CollapseConstraints converts the [collapse] section into group constraints.
func (c *UserConfig) CollapseConstraints() collapse.Constraints {
	return collapse.Constraints{Min: c.Collapse.Min, Max: c.Collapse.Max}
}

// NotificationDuration returns the toast lifetime; zero never expires.
func (c *UserConfig) NotificationDuration() time.Duration {
	return time.Duration(c.Notifications.DurationMS) * time.Millisecond
}
