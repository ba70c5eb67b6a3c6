package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Gaurav-Gosain/tuikit/internal/validate"
)

// ValidationError is one problem found in the user config.
type ValidationError struct {
	Field   string // config section, e.g. movable.snap
	Key     string
	Message string
}

// ValidationResult collects errors, which fail loading, and warnings, which
// are only reported.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors reports whether loading should fail.
func (r *ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports whether there is anything to tell the user.
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// Err summarises the errors, or returns nil when there are none.
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, fmt.Sprintf("[%s] %s", e.Field, e.Message))
	}
	return fmt.Errorf("configuration has %d error(s): %s", len(r.Errors), strings.Join(msgs, "; "))
}

func (r *ValidationResult) addError(field, key, msg string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Key: key, Message: msg})
}

func (r *ValidationResult) addWarning(field, key, msg string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Key: key, Message: msg})
}

// ValidateConfig checks struct constraints, cross-field rules and keybinding
// conflicts.
func ValidateConfig(cfg *UserConfig) *ValidationResult {
	r := &ValidationResult{}

	issues := validate.Issues(cfg)
	namespaces := make([]string, 0, len(issues))
	for ns := range issues {
		namespaces = append(namespaces, ns)
	}
	slices.Sort(namespaces)
	for _, ns := range namespaces {
		field, key := splitNamespace(ns)
		r.addError(field, key, issues[ns])
	}

	if c := cfg.Collapse; c.Max > 0 && c.Min > c.Max {
		r.addError("collapse", "min", fmt.Sprintf("min %d exceeds max %d", c.Min, c.Max))
	}

	m := cfg.Movable
	if m.Snap.Outside && (m.Contain == nil || *m.Contain) {
		r.addWarning("movable.snap", "outside", "has no effect while movable.contain is true")
	}
	if m.Snap.Corners && m.Snap.Edges != nil && *m.Snap.Edges {
		r.addWarning("movable.snap", "corners", "corners takes precedence over edges")
	}
	if m.Step == 0 {
		r.addWarning("movable", "step", "0 disables keyboard movement")
	}

	conflicts := NewKeybindRegistry(cfg).Conflicts()
	keys := make([]string, 0, len(conflicts))
	for k := range conflicts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		r.addWarning("keybindings", k, fmt.Sprintf("bound to %s; %s wins", strings.Join(conflicts[k], ", "), firstClaim(cfg, k)))
	}

	return r
}

// splitNamespace turns "UserConfig.movable.snap.offset" into
// ("movable.snap", "offset").
func splitNamespace(ns string) (field, key string) {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	if len(parts) == 1 {
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], "."), parts[len(parts)-1]
}

func firstClaim(cfg *UserConfig, key string) string {
	return NewKeybindRegistry(cfg).Action(key)
}
