package config

import (
	"fmt"
	"slices"
	"strings"
)

// KeybindingsConfig holds all keybinding configurations, grouped by what the
// keys drive. Each action maps to one or more keys.
type KeybindingsConfig struct {
	Movable       map[string][]string `toml:"movable"`
	Sections      map[string][]string `toml:"sections"`
	Notifications map[string][]string `toml:"notifications"`
	System        map[string][]string `toml:"system"`
}

// Action names bound in KeybindingsConfig.
const (
	ActionMoveUp              = "move_up"
	ActionMoveDown            = "move_down"
	ActionMoveLeft            = "move_left"
	ActionMoveRight           = "move_right"
	ActionSnap                = "snap"
	ActionReset               = "reset"
	ActionCyclePlacement      = "cycle_placement"
	ActionToggleSnapPlacement = "toggle_snap_placement"
	ActionToggleOutside       = "toggle_outside"
	ActionToggleCorners       = "toggle_corners"
	ActionToggleEnabled       = "toggle_enabled"

	ActionToggleSection1 = "toggle_section_1"
	ActionToggleSection2 = "toggle_section_2"
	ActionToggleSection3 = "toggle_section_3"
	ActionToggleSection4 = "toggle_section_4"

	ActionNotify              = "notify"
	ActionNotifyPersistent    = "notify_persistent"
	ActionRestartNotification = "restart_notification"
	ActionDismissNotification = "dismiss_notification"
	ActionClearNotifications  = "clear_notifications"

	ActionToggleHelp = "toggle_help"
	ActionQuit       = "quit"
)

func defaultKeybindings() KeybindingsConfig {
	return KeybindingsConfig{
		Movable: map[string][]string{
			ActionMoveUp:              {"up", "k"},
			ActionMoveDown:            {"down", "j"},
			ActionMoveLeft:            {"left", "h"},
			ActionMoveRight:           {"right", "l"},
			ActionSnap:                {"s"},
			ActionReset:               {"r"},
			ActionCyclePlacement:      {"p"},
			ActionToggleSnapPlacement: {"P"},
			ActionToggleOutside:       {"o"},
			ActionToggleCorners:       {"c"},
			ActionToggleEnabled:       {"e"},
		},
		Sections: map[string][]string{
			ActionToggleSection1: {"1"},
			ActionToggleSection2: {"2"},
			ActionToggleSection3: {"3"},
			ActionToggleSection4: {"4"},
		},
		Notifications: map[string][]string{
			ActionNotify:              {"n"},
			ActionNotifyPersistent:    {"N"},
			ActionRestartNotification: {"t"},
			ActionDismissNotification: {"d"},
			ActionClearNotifications:  {"D"},
		},
		System: map[string][]string{
			ActionToggleHelp: {"?"},
			ActionQuit:       {"q", "ctrl+c"},
		},
	}
}

// KeybindRegistry resolves pressed keys to actions.
type KeybindRegistry struct {
	byKey    map[string]string
	byAction map[string][]string
}

// NewKeybindRegistry builds a registry from cfg. When two actions claim the
// same key the first one in section order wins; Conflicts reports the rest.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		byKey:    make(map[string]string),
		byAction: make(map[string][]string),
	}
	for _, section := range cfg.Keybindings.sections() {
		for _, action := range sortedKeys(section) {
			keys := section[action]
			r.byAction[action] = keys
			for _, k := range keys {
				k = normalizeKey(k)
				if _, taken := r.byKey[k]; !taken {
					r.byKey[k] = action
				}
			}
		}
	}
	return r
}

func (k KeybindingsConfig) sections() []map[string][]string {
	return []map[string][]string{k.System, k.Movable, k.Sections, k.Notifications}
}

// Action returns the action bound to key, or "" when none is.
func (r *KeybindRegistry) Action(key string) string {
	return r.byKey[normalizeKey(key)]
}

// Keys returns the keys bound to action.
func (r *KeybindRegistry) Keys(action string) []string {
	return r.byAction[action]
}

// GetKeysForDisplay returns the keys bound to action joined for help text.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	return strings.Join(r.byAction[action], ", ")
}

// Conflicts returns keys bound to more than one action, mapped to every
// action claiming them.
func (r *KeybindRegistry) Conflicts() map[string][]string {
	claims := make(map[string][]string)
	for _, action := range sortedKeys(r.byAction) {
		for _, k := range r.byAction[action] {
			k = normalizeKey(k)
			if !slices.Contains(claims[k], action) {
				claims[k] = append(claims[k], action)
			}
		}
	}
	out := make(map[string][]string)
	for k, actions := range claims {
		if len(actions) > 1 {
			out[k] = actions
		}
	}
	return out
}

// normalizeKey lower-cases modifier names but keeps the case of the final key
// so "P" and "p" stay distinct.
func normalizeKey(k string) string {
	k = strings.TrimSpace(k)
	i := strings.LastIndex(k, "+")
	if i <= 0 || i == len(k)-1 {
		return k
	}
	return strings.ToLower(k[:i]) + k[i:]
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// GetKeybindings returns all keybinding sections for the help overlay and
// `tuikit keybinds list`. A nil registry uses the defaults.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(DefaultConfig())
	}

	var sections []KeybindingSection

	move := KeybindingSection{Title: "PANEL"}
	addBinding(&move, registry, ActionMoveUp, "Move up")
	addBinding(&move, registry, ActionMoveDown, "Move down")
	addBinding(&move, registry, ActionMoveLeft, "Move left")
	addBinding(&move, registry, ActionMoveRight, "Move right")
	addBinding(&move, registry, ActionSnap, "Snap to closest")
	addBinding(&move, registry, ActionReset, "Reset position")
	addBinding(&move, registry, ActionCyclePlacement, "Cycle placement")
	addBinding(&move, registry, ActionToggleSnapPlacement, "Toggle placement snapping")
	addBinding(&move, registry, ActionToggleOutside, "Toggle snap outside")
	addBinding(&move, registry, ActionToggleCorners, "Toggle corner snapping")
	addBinding(&move, registry, ActionToggleEnabled, "Enable/disable movement")
	if len(move.Bindings) > 0 {
		sections = append(sections, move)
	}

	accordion := KeybindingSection{Title: "SECTIONS"}
	for i := 1; i <= 4; i++ {
		addBinding(&accordion, registry, fmt.Sprintf("toggle_section_%d", i), fmt.Sprintf("Toggle section %d", i))
	}
	if len(accordion.Bindings) > 0 {
		sections = append(sections, accordion)
	}

	toasts := KeybindingSection{Title: "NOTIFICATIONS"}
	addBinding(&toasts, registry, ActionNotify, "Show notification")
	addBinding(&toasts, registry, ActionNotifyPersistent, "Show persistent notification")
	addBinding(&toasts, registry, ActionRestartNotification, "Restart newest timer")
	addBinding(&toasts, registry, ActionDismissNotification, "Dismiss oldest")
	addBinding(&toasts, registry, ActionClearNotifications, "Dismiss all")
	if len(toasts.Bindings) > 0 {
		sections = append(sections, toasts)
	}

	system := KeybindingSection{Title: "SYSTEM"}
	addBinding(&system, registry, ActionToggleHelp, "Toggle help")
	addBinding(&system, registry, ActionQuit, "Quit")
	if len(system.Bindings) > 0 {
		sections = append(sections, system)
	}

	return append(sections, getStaticHelpSections()...)
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}

// getStaticHelpSections returns help sections that don't need dynamic binding info
func getStaticHelpSections() []KeybindingSection {
	return []KeybindingSection{
		{
			Title: "MOUSE",
			Bindings: []Keybinding{
				{"Left drag", "Move the panel"},
				{"Release", "Snap or close past the threshold"},
				{"Click section", "Toggle section"},
				{"Click toast", "Dismiss notification"},
			},
		},
	}
}
