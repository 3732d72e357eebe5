package main

import (
	"context"
	"os"
	"strings"

	"github.com/desertthunder/trackport/internal/services"
	"github.com/desertthunder/trackport/internal/shared"
	"github.com/urfave/cli/v3"
)

const configEnv = "TRACKPORT_CONFIG"

func main() {
	configPath := os.Getenv(configEnv)
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			shared.NewLogger(nil).Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv()

	logger, closer := shared.NewConfiguredLogger(config.Logging)
	defer closer.Close()

	var catalog services.Service
	if hasCredentials(config.Credentials.Spotify) {
		svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map(), nil)
		if err != nil {
			logger.Warn("spotify catalog unavailable", "error", err)
		} else {
			svc.SetRateLimit(config.Credentials.Spotify.RateLimit)
			catalog = svc
		}
	} else {
		logger.Debug("spotify credentials not configured")
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    catalog,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "trackport",
		Usage:    "Import Spotify tracks into a local catalog",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Error("application error", "error", err)
		closer.Close()
		os.Exit(1)
	}
}

// hasCredentials reports whether real client credentials are present.
//
// The template placeholders from config.example.toml count as missing.
func hasCredentials(c shared.SpotifyConfig) bool {
	if c.ClientID == "" || c.ClientSecret == "" {
		return false
	}
	return !strings.HasPrefix(c.ClientID, "your_") && !strings.HasPrefix(c.ClientSecret, "your_")
}
