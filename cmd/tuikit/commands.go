package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/theme"
)

func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// findEditor returns the first usable editor from the environment or PATH.
func findEditor() (string, error) {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if e := strings.TrimSpace(os.Getenv(env)); e != "" {
			return e, nil
		}
	}
	for _, e := range []string{"vim", "vi", "nano", "emacs"} {
		if _, err := exec.LookPath(e); err == nil {
			return e, nil
		}
	}
	return "", fmt.Errorf("no editor found: set $EDITOR")
}

func editConfigFile() error {
	if !config.ConfigExists() {
		// Writes the documented default file.
		if _, err := config.LoadUserConfig(); err != nil {
			return err
		}
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	editor, err := findEditor()
	if err != nil {
		return err
	}

	parts := strings.Fields(editor)
	// #nosec G204 - the editor comes from the user's own environment
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor exited: %w", err)
	}

	if _, err := config.LoadFile(path); err != nil {
		return fmt.Errorf("saved config is invalid: %w", err)
	}
	return nil
}

func resetConfigToDefaults(yes bool) error {
	if !yes && config.ConfigExists() {
		path, _ := config.GetConfigPath()
		fmt.Printf("Overwrite %s with defaults? [y/N] ", path)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}
	path, err := config.ResetConfig()
	if err != nil {
		return fmt.Errorf("failed to reset config: %w", err)
	}
	fmt.Println("Configuration reset:", path)
	return nil
}

func validateConfigFile(path string) error {
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	result := config.ValidateConfig(cfg)
	ok := lipgloss.NewStyle().Foreground(theme.NotificationSuccess()).Bold(true)
	warn := lipgloss.NewStyle().Foreground(theme.NotificationWarning())
	for _, w := range result.Warnings {
		fmt.Println(warn.Render(fmt.Sprintf("warning [%s] %s", w.Field, w.Message)))
	}
	fmt.Println(ok.Render("valid:"), path)
	return nil
}

func listKeybindings() error {
	userConfig := loadConfig()
	registry := config.NewKeybindRegistry(userConfig)

	header := lipgloss.NewStyle().Foreground(theme.CLITableHeader()).Bold(true)
	key := lipgloss.NewStyle().Foreground(theme.CLITableKey()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.CLITableDim())
	box := lipgloss.NewStyle().
		Border(config.GetBorderForStyle()).
		BorderForeground(theme.CLITableBorder()).
		Padding(0, 1)

	var blocks []string
	for _, section := range config.GetKeybindings(registry) {
		width := 0
		for _, b := range section.Bindings {
			width = max(width, lipgloss.Width(b.Key))
		}
		rows := []string{header.Render(section.Title)}
		for _, b := range section.Bindings {
			pad := strings.Repeat(" ", width-lipgloss.Width(b.Key))
			rows = append(rows, key.Render(b.Key)+pad+"  "+dim.Render(b.Description))
		}
		blocks = append(blocks, box.Render(strings.Join(rows, "\n")))
	}

	if conflicts := registry.Conflicts(); len(conflicts) > 0 {
		warn := lipgloss.NewStyle().Foreground(theme.NotificationWarning())
		for k, actions := range conflicts {
			blocks = append(blocks, warn.Render(fmt.Sprintf("%q is bound to %s", k, strings.Join(actions, ", "))))
		}
	}

	lipgloss.Println(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return nil
}
