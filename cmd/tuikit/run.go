package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/tuikit/internal/app"
	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/input"
	"github.com/Gaurav-Gosain/tuikit/internal/logging"
	"github.com/Gaurav-Gosain/tuikit/internal/theme"
	"github.com/Gaurav-Gosain/tuikit/pkg/tuikit"
)

// loadConfig reads the user config and applies the global flags on top.
func loadConfig() *config.UserConfig {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}

	overrides := config.Overrides{
		ASCIIOnly:    asciiOnly,
		BorderStyle:  borderStyle,
		NoAnimations: noAnimations,
		ThemeName:    themeName,
		Placement:    placement,
		SnapOutside:  snapOutside,
		SnapCorners:  snapCorners,
	}
	if debugMode {
		overrides.LogLevel = "debug"
	}
	config.ApplyOverrides(overrides, userConfig)
	return userConfig
}

func runLocal() error {
	userConfig := loadConfig()

	name := logFile
	if name == "" {
		name = userConfig.Log.File
	}
	f, path, err := logging.OpenFile(name)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn("failed to close log file", "err", closeErr)
		}
	}()

	logger, err := logging.New(logging.Options{
		Writer:     f,
		Level:      userConfig.Log.Level,
		Timestamps: true,
	})
	if err != nil {
		return err
	}
	if debugMode {
		fmt.Println("Debug log:", path)
		configPath, _ := config.GetConfigPath()
		logger.Debug("starting playground", "config", configPath, "version", version,
			"theme", userConfig.Appearance.Theme, "border", theme.ColorToString(theme.PanelBorder()))
	}

	app.SetInputHandler(input.HandleInput)

	playground, err := app.New(userConfig, app.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create playground: %w", err)
	}
	defer playground.Close()

	p := tea.NewProgram(
		playground,
		tea.WithFPS(config.NormalFPS),
		tea.WithoutSignalHandler(),
		tea.WithFilter(tuikit.FilterMouseMotion),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	if n := playground.Closes(); n > 0 {
		logger.Info("session ended", "closes", n)
	}
	return nil
}
