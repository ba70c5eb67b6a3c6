// Package main implements tuikit, a terminal playground for the movable
// panel, accordion and notification primitives.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Gaurav-Gosain/tuikit/internal/theme"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode    bool
	asciiOnly    bool
	themeName    string
	listThemes   bool
	borderStyle  string
	noAnimations bool
	placement    string
	snapOutside  bool
	snapCorners  bool
	logFile      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tuikit",
		Short: "Movable panel, accordion and notification playground",
		Long: `tuikit - terminal UI primitives playground

Drag the panel with the mouse or move it with the arrow keys and watch it
snap to edges, corners or outside the screen. The sidebar is an accordion
with bounded open sections and the top right corner shows a notification
stack with timed and persistent entries.`,
		Example: `  # Run the playground
  tuikit

  # Run with debug logging (written to the state directory)
  tuikit --debug

  # Start anchored to the top right corner with corner snapping
  tuikit --placement top-end --snap-corners

  # Allow snapping outside the screen
  tuikit --snap-outside

  # Run with a specific theme
  tuikit --theme dracula

  # List all available themes
  tuikit --list-themes

  # Compute a snap without a terminal
  tuikit snap --viewport 120x40 --drag -60,0

  # Replay a scripted session and check its expectations
  tuikit tape play examples/snap-left.tape

  # Edit configuration
  tuikit config edit

  # List all keybindings
  tuikit keybinds list`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listThemes {
				if err := theme.Initialize(""); err != nil {
					return fmt.Errorf("failed to initialize themes: %w", err)
				}
				for _, t := range theme.IDs() {
					fmt.Println(t)
				}
				return nil
			}
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&asciiOnly, "ascii-only", false, "Use ASCII characters instead of Nerd Font icons")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight). Leave empty to use standard terminal colors without theming")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().StringVar(&borderStyle, "border-style", "", "Panel border style: rounded, normal, thick, double, hidden, block, ascii (default: from config or rounded)")
	rootCmd.PersistentFlags().BoolVar(&noAnimations, "no-animations", false, "Disable easing and transitions")
	rootCmd.PersistentFlags().StringVar(&placement, "placement", "", "Initial panel placement, e.g. center, top-end, left-start (default: from config or center)")
	rootCmd.PersistentFlags().BoolVar(&snapOutside, "snap-outside", false, "Let the panel snap outside the screen")
	rootCmd.PersistentFlags().BoolVar(&snapCorners, "snap-corners", false, "Always snap to a corner")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file (default: from config or $XDG_STATE_HOME/tuikit/tuikit.log)")

	var snapFlags snapArgs
	snapCmd := &cobra.Command{
		Use:   "snap",
		Short: "Compute where a dragged panel ends up",
		Long: `Run the panel engine without a terminal

Mounts a panel of --size inside --viewport, drags it by --drag cells and
releases it. The resulting offset, placement and outside edge are printed,
or "closed" when the release crossed a close threshold. Options come from
the config file and the global flags.`,
		Example: `  # Drag a centred panel 60 cells left
  tuikit snap --drag -60,0

  # Same with outside snapping, as JSON
  tuikit snap --snap-outside --drag -80,0 --json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSnap(snapFlags)
		},
	}
	snapCmd.Flags().StringVar(&snapFlags.viewport, "viewport", "120x40", "Viewport size in cells (WIDTHxHEIGHT)")
	snapCmd.Flags().StringVar(&snapFlags.size, "size", "34x9", "Panel size in cells (WIDTHxHEIGHT)")
	snapCmd.Flags().StringVar(&snapFlags.drag, "drag", "0,0", "Drag distance in cells (DX,DY)")
	snapCmd.Flags().BoolVar(&snapFlags.json, "json", false, "Output as JSON")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tuikit configuration",
		Long:  `Manage tuikit configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Long:  `Print the path to the tuikit configuration file`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the tuikit configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return editConfigFile()
		},
	}

	var resetYes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the tuikit configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetConfigToDefaults(resetYes)
		},
	}
	configResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")

	var validateFile string
	configValidateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file",
		Long:  `Parse and validate the configuration file, reporting errors, warnings and key conflicts`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return validateConfigFile(validateFile)
		},
	}
	configValidateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Config file to check (default: the active config)")

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd, configValidateCmd)

	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
		Long:    `View and inspect tuikit keybinding configuration`,
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return listKeybindings()
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd)

	tapeCmd := &cobra.Command{
		Use:   "tape",
		Short: "Play scripted input against the playground",
		Long: `Tapes are line based scripts of key presses, clicks, drags and pauses
played against a playground without a terminal. Expect lines check the panel,
sections and notifications as the tape runs; the first failed expectation
stops playback and is reported with its line number.`,
	}

	tapePlayCmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Run a tape headlessly",
		Long:  `Run a tape file (a path, or a name in the tape directory) and print the final panel state`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return playTape(args[0])
		},
	}

	tapeValidateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check tape syntax",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return validateTape(args[0])
		},
	}

	tapeListCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tapes in the tape directory",
		RunE: func(_ *cobra.Command, _ []string) error {
			return listTapes()
		},
	}

	tapeDirCmd := &cobra.Command{
		Use:   "dir",
		Short: "Print the tape directory",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printTapeDir()
		},
	}

	tapeCmd.AddCommand(tapePlayCmd, tapeValidateCmd, tapeListCmd, tapeDirCmd)

	rootCmd.AddCommand(snapCmd, configCmd, keybindsCmd, tapeCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
