package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// envFiles are loaded in order. Variables already present in the process
// environment, or set by an earlier file, are never overwritten, so
// .env.local wins over .env.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() {
	for _, name := range envFiles {
		err := godotenv.Load(name)
		switch {
		case err == nil:
			slog.Debug("Loaded environment file", logfields.File(name))
		case errors.Is(err, fs.ErrNotExist):
		default:
			slog.Warn("Failed to load environment file", logfields.File(name), logfields.Error(err))
		}
	}
}
