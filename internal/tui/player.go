package tui

import (
	"context"
	"log/slog"

	"github.com/aschmelyun/vnote/internal/config"
	"github.com/aschmelyun/vnote/internal/media"
	tea "github.com/charmbracelet/bubbletea"
)

// openPlayer starts the configured backend on the media file at abs.
func openPlayer(ctx context.Context, cfg config.PlayerConfig, abs string, logger *slog.Logger) (media.Player, error) {
	if cfg.Backend == config.BackendMPV {
		p, err := media.StartMPV(ctx, media.MPVConfig{
			Path:     cfg.MPVPath,
			Socket:   cfg.Socket,
			Loop:     cfg.Loop,
			Autoplay: cfg.Autoplay,
		}, abs, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Rate > 0 && cfg.Rate != 1 {
			if err := p.SetRate(cfg.Rate); err != nil {
				logger.Warn("player: set rate", slog.String("error", err.Error()))
			}
		}
		return p, nil
	}

	duration, err := media.ProbeDuration(ctx, cfg.FFprobePath, abs)
	if err != nil {
		logger.Warn("player: probe failed, duration unknown", slog.String("path", abs), slog.String("error", err.Error()))
		duration = 0
	}
	return media.NewTimeline(media.TimelineConfig{
		Duration: duration,
		Rate:     cfg.Rate,
		Loop:     cfg.Loop,
		Autoplay: cfg.Autoplay,
	}, nil), nil
}

func loadMediaCmd(ctx context.Context, cfg config.PlayerConfig, abs string, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		p, err := openPlayer(ctx, cfg, abs, logger)
		if err != nil {
			return mediaFailedMsg{err: err}
		}
		return mediaLoadedMsg{player: p, path: abs}
	}
}
