// Package tuikit exposes the movable panel engine, the collapse group and the
// notification stack for use in other programs, plus the bubbletea playground
// that drives all three.
//
// # Movable surfaces
//
// The engine tracks an offset for any element that can report its bounds and
// the viewport it moves in:
//
//	engine, err := tuikit.NewEngine(tuikit.DefaultMovableOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.Mount(myElement)
//	engine.StartDrag(tuikit.PointerEvent{Point: p, Button: tuikit.ButtonPrimary})
//
// # Playground
//
//	model, err := tuikit.New(tuikit.WithTheme("dracula"))
//	p := tea.NewProgram(model, tuikit.ProgramOptions()...)
package tuikit

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/app"
	"github.com/Gaurav-Gosain/tuikit/internal/collapse"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/input"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
	"github.com/Gaurav-Gosain/tuikit/internal/notify"
)

// Movable engine types.
type (
	Engine         = movable.Engine
	EngineOption   = movable.EngineOption
	MovableOptions = movable.Options
	SnapOptions    = movable.SnapOptions
	Thresholds     = movable.Thresholds
	Limits         = movable.Limits
	ResetOptions   = movable.ResetOptions
	State          = movable.State
	Element        = movable.Element
	Placement      = movable.Placement
	Edge           = movable.Edge
	Point          = movable.Point
	Size           = movable.Size
	Rect           = movable.Rect
	Sides          = movable.Sides
	PointerEvent   = movable.PointerEvent
	Button         = movable.Button
	Key            = movable.Key
)

// Pointer buttons.
const (
	ButtonPrimary   = movable.ButtonPrimary
	ButtonMiddle    = movable.ButtonMiddle
	ButtonSecondary = movable.ButtonSecondary
)

// Arrow keys understood by Engine.Step.
const (
	KeyUp    = movable.KeyUp
	KeyDown  = movable.KeyDown
	KeyLeft  = movable.KeyLeft
	KeyRight = movable.KeyRight
)

// Collapse group types.
type (
	Group          = collapse.Group
	GroupOption    = collapse.GroupOption
	Constraints    = collapse.Constraints
	SectionOptions = collapse.SectionOptions
	Section        = collapse.Section
	SectionInfo    = collapse.Info
	Counts         = collapse.Counts
)

// Notification types.
type (
	Notifications      = notify.Manager
	NotificationStack  = notify.Stack
	NotificationOption = notify.Option
	Notification       = notify.Notification
	NotificationRecord = notify.Record
	NotificationHandle = notify.Handle
	NotificationPatch  = notify.Patch
	RestartOptions     = notify.RestartOptions
	Kind               = notify.Kind
	Status             = notify.Status
)

// Notification kinds and terminal statuses.
const (
	KindInfo    = notify.KindInfo
	KindSuccess = notify.KindSuccess
	KindWarning = notify.KindWarning
	KindError   = notify.KindError

	StatusDismissed = notify.StatusDismissed
	StatusCancelled = notify.StatusCancelled
)

// DefaultMovableOptions returns the engine defaults.
func DefaultMovableOptions() MovableOptions { return movable.DefaultOptions() }

// NewEngine creates a movable engine.
func NewEngine(opts MovableOptions, options ...EngineOption) (*Engine, error) {
	return movable.New(opts, options...)
}

// NewGroup creates a collapse group bounded by c.
func NewGroup(c Constraints, options ...GroupOption) (*Group, error) {
	return collapse.NewGroup(c, options...)
}

// NewNotifications creates a notification manager.
func NewNotifications(options ...NotificationOption) *Notifications {
	return notify.NewManager(options...)
}

// Model is the playground model. It implements tea.Model.
type Model = app.Playground

// Options configures the playground.
type Options struct {
	// Theme is the color theme name (e.g., "dracula", "nord", "tokyonight").
	// Leave empty to use standard terminal colors.
	Theme string

	// Animations enables easing and transitions.
	Animations bool

	// ASCIIOnly uses ASCII characters instead of Nerd Font icons.
	ASCIIOnly bool

	// BorderStyle sets the panel border style.
	// Valid values: "rounded", "normal", "thick", "double", "hidden", "block", "ascii"
	BorderStyle string

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger

	// UserConfig is a custom user configuration. If nil, the user's config
	// file is loaded, falling back to defaults.
	UserConfig *config.UserConfig
}

// Option is a functional option for configuring the playground.
type Option func(*Options)

// WithTheme sets the color theme.
func WithTheme(name string) Option {
	return func(o *Options) {
		o.Theme = name
	}
}

// WithAnimations enables or disables easing.
func WithAnimations(enabled bool) Option {
	return func(o *Options) {
		o.Animations = enabled
	}
}

// WithASCIIOnly enables ASCII-only mode (no Nerd Font icons).
func WithASCIIOnly(enabled bool) Option {
	return func(o *Options) {
		o.ASCIIOnly = enabled
	}
}

// WithBorderStyle sets the panel border style.
func WithBorderStyle(style string) Option {
	return func(o *Options) {
		o.BorderStyle = style
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithUserConfig sets a custom user configuration.
func WithUserConfig(cfg *config.UserConfig) Option {
	return func(o *Options) {
		o.UserConfig = cfg
	}
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{Animations: true}
}

// New creates the playground model.
func New(opts ...Option) (*Model, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	app.SetInputHandler(input.HandleInput)

	userConfig := options.UserConfig
	if userConfig == nil {
		var err error
		userConfig, err = config.LoadUserConfig()
		if err != nil {
			userConfig = config.DefaultConfig()
		}
	}

	config.ApplyOverrides(config.Overrides{
		ASCIIOnly:    options.ASCIIOnly,
		BorderStyle:  options.BorderStyle,
		NoAnimations: !options.Animations,
		ThemeName:    options.Theme,
	}, userConfig)

	var appOpts []app.Option
	if options.Logger != nil {
		appOpts = append(appOpts, app.WithLogger(options.Logger))
	}
	return app.New(userConfig, appOpts...)
}

// ProgramOptions returns recommended tea.ProgramOption values for running the
// playground:
//
//	p := tea.NewProgram(model, tuikit.ProgramOptions()...)
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
		tea.WithFilter(FilterMouseMotion),
	}
}

// FilterMouseMotion is a tea.WithFilter function that drops pointer motion
// unless the panel is being dragged.
func FilterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	m, ok := model.(*Model)
	if !ok || m.Engine.Dragging() {
		return msg
	}
	return nil
}

// Config re-exports the config package for customization.
var Config = struct {
	// LoadUserConfig loads the user's configuration file.
	LoadUserConfig func() (*config.UserConfig, error)
	// DefaultConfig returns the default configuration.
	DefaultConfig func() *config.UserConfig
	// GetConfigPath returns the path to the configuration file.
	GetConfigPath func() (string, error)
}{
	LoadUserConfig: config.LoadUserConfig,
	DefaultConfig:  config.DefaultConfig,
	GetConfigPath:  config.GetConfigPath,
}
