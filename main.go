package main

import (
	"grannysporch/config"
	"grannysporch/discord"
	"grannysporch/logger"
	"grannysporch/storage"
	"grannysporch/ui"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
)

const appID = "com.grannysporch.sender"

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	store := newStorage(cfg, log)
	client := discord.NewClient(cfg.HTTPTimeout, log)

	// Check for command-line arguments
	if len(os.Args) > 1 {
		os.Exit(runConsole(os.Args[1:], store, client, os.Stdout))
	}

	// Normal GUI mode
	log.Info().Str("settings", store.SettingsPath()).Msg("Starting Granny's Porch...")
	mainWindow := ui.NewMainWindow(app.NewWithID(appID), ui.Options{
		Storage:       store,
		Sender:        client,
		BrandingImage: cfg.BrandingImage,
		Log:           log,
	})
	mainWindow.ShowAndRun()
}

func newStorage(cfg *config.Config, log zerolog.Logger) *storage.Manager {
	if cfg.SettingsDir != "" {
		return storage.NewManagerAt(cfg.SettingsDir, log)
	}
	return storage.NewManager(log)
}
