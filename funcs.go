package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/aschmelyun/vnote/internal/config"
	"github.com/aschmelyun/vnote/internal/session"
	"github.com/aschmelyun/vnote/internal/vault"
)

func styleOutput(statuses []string) string {
	var styledStatuses []string
	for i, status := range statuses {
		bullet := "├"
		if i == len(statuses)-1 {
			bullet = "└"
		}
		styledStatuses = append(styledStatuses, BulletStyle.Render(bullet)+TextStyle.Render(status))
	}
	return strings.Join(styledStatuses, "\n") + "\n"
}

func title() string {
	return BulletStyle.Render("┌") + TitleStyle.Render("vnote")
}

func checkDependency(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// requirements lists the external programs the player backends call out to.
func requirements(cfg *config.Config) []string {
	var lines []string
	for _, dependency := range []string{cfg.Player.MPVPath, cfg.Player.FFprobePath} {
		status := "✔ installed"
		if !checkDependency(dependency) {
			status = "✗ missing"
		}
		spaces := strings.Repeat(" ", max(10-len(dependency), 1))
		lines = append(lines, BulletStyle.Render("├────")+TextStyle.Render(dependency)+DimTextStyle.Render(spaces+status))
	}
	return lines
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger writes JSON logs to the configured file. The terminal belongs
// to the UI, so without a file nothing is logged.
func newLogger(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	if cfg.File == "" {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: cfg.Level})), f, nil
}

// docPath turns a document argument, relative to the working directory,
// into a vault path with the document extension.
func docPath(store *vault.FS, arg string) (string, error) {
	p, err := store.Rel(arg)
	if err != nil {
		return "", err
	}
	if filepath.Ext(p) == "" {
		p += session.Ext
	}
	return p, nil
}
