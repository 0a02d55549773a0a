package main

import (
	"io"
	"log/slog"

	"github.com/aschmelyun/vnote/internal/config"
	"github.com/aschmelyun/vnote/internal/vault"
)

// app is what every command shares once flags and config are resolved.
type app struct {
	configPath string
	vaultPath  string

	cfg     *config.Config
	store   *vault.FS
	logger  *slog.Logger
	logFile io.Closer
}

// docEntry is one document as listed by `vnote ls`.
type docEntry struct {
	path  string
	media string
	notes int
}
