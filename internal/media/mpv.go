package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/DexterLB/mpvipc"
)

var ErrPlayerClosed = errors.New("media: player closed")

// MPVConfig controls how mpv is launched.
type MPVConfig struct {
	Path     string
	Socket   string
	Loop     bool
	Autoplay bool
	Timeout  time.Duration
}

// Observed property ids. mpv echoes the id on every property-change event.
const (
	obsTimePos int64 = iota + 1
	obsDuration
	obsPause
	obsSpeed
)

var observed = []struct {
	id   int64
	name string
}{
	{obsTimePos, "time-pos"},
	{obsDuration, "duration"},
	{obsPause, "pause"},
	{obsSpeed, "speed"},
}

// MPV drives an mpv process over its JSON IPC socket. Playback state comes
// from observed properties, so reads never wait on mpv; transport commands
// are sent as calls bounded by the configured timeout.
type MPV struct {
	cmd     *exec.Cmd
	conn    *mpvipc.Connection
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	pos    float64
	dur    float64
	paused bool
	rate   float64
	loop   bool

	done      chan struct{}
	closeOnce sync.Once
}

// StartMPV launches mpv on file and connects to its IPC socket.
func StartMPV(ctx context.Context, cfg MPVConfig, file string, logger *slog.Logger) (*MPV, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path := cfg.Path
	if path == "" {
		path = "mpv"
	}
	socket := cfg.Socket
	if socket == "" {
		socket = filepath.Join(os.TempDir(), fmt.Sprintf("vnote-mpv-%d.sock", os.Getpid()))
	}
	_ = os.Remove(socket)

	args := []string{"--input-ipc-server=" + socket, "--force-window=yes", "--keep-open=yes"}
	if !cfg.Autoplay {
		args = append(args, "--pause")
	}
	if cfg.Loop {
		args = append(args, "--loop-file=inf")
	}
	args = append(args, file)

	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("media: start mpv: %w", err)
	}

	conn, err := dialSocket(ctx, socket, 5*time.Second)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("media: connect mpv: %w", err)
	}

	m := newMPV(conn, cfg, logger)
	m.cmd = cmd
	logger.Info("mpv: started", slog.String("file", file), slog.String("socket", socket))
	return m, nil
}

// dialSocket retries until mpv has created its socket.
func dialSocket(ctx context.Context, socket string, wait time.Duration) (*mpvipc.Connection, error) {
	deadline := time.Now().Add(wait)
	for {
		conn := mpvipc.NewConnection(socket)
		err := conn.Open()
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// newMPV takes an open connection and starts observing playback state.
func newMPV(conn *mpvipc.Connection, cfg MPVConfig, logger *slog.Logger) *MPV {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &MPV{
		conn:    conn,
		logger:  logger,
		timeout: timeout,
		paused:  !cfg.Autoplay,
		rate:    1,
		loop:    cfg.Loop,
		done:    make(chan struct{}),
	}

	events, stop := conn.NewEventListener()
	go m.consume(events)
	go m.observe()
	go func() {
		conn.WaitUntilClosed()
		m.shutdown()
		stop <- struct{}{}
	}()
	return m
}

func (m *MPV) consume(events <-chan *mpvipc.Event) {
	for ev := range events {
		if ev.Name != "property-change" {
			m.logger.Debug("mpv: event", slog.String("event", ev.Name))
			continue
		}
		m.apply(ev.ID, ev.Data)
	}
}

// observe seeds the cache with one read per property, then subscribes.
func (m *MPV) observe() {
	for _, p := range observed {
		if v, err := m.call("get_property", p.name); err == nil {
			m.apply(p.id, v)
		}
		if _, err := m.call("observe_property", p.id, p.name); err != nil {
			if errors.Is(err, ErrPlayerClosed) {
				return
			}
			m.logger.Warn("mpv: observe", slog.String("property", p.name), slog.String("error", err.Error()))
		}
	}
}

// apply stores an observed value. Values of the wrong type, such as the null
// time-pos mpv reports while nothing is loaded, leave the cache alone.
func (m *MPV) apply(id int64, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch id {
	case obsTimePos:
		if v, ok := data.(float64); ok {
			m.pos = v
		}
	case obsDuration:
		if v, ok := data.(float64); ok {
			m.dur = v
		}
	case obsPause:
		if v, ok := data.(bool); ok {
			m.paused = v
		}
	case obsSpeed:
		if v, ok := data.(float64); ok && v > 0 {
			m.rate = v
		}
	}
}

func (m *MPV) shutdown() {
	m.closeOnce.Do(func() { close(m.done) })
}

type callResult struct {
	data any
	err  error
}

// call sends one command. mpvipc waits for the reply without a deadline, so
// the wait happens here instead.
func (m *MPV) call(args ...any) (any, error) {
	select {
	case <-m.done:
		return nil, ErrPlayerClosed
	default:
	}

	ch := make(chan callResult, 1)
	go func() {
		data, err := m.conn.Call(args...)
		ch <- callResult{data: data, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			select {
			case <-m.done:
				return nil, ErrPlayerClosed
			default:
			}
			return nil, fmt.Errorf("media: mpv %v: %w", args, r.err)
		}
		return r.data, nil
	case <-m.done:
		return nil, ErrPlayerClosed
	case <-time.After(m.timeout):
		return nil, fmt.Errorf("media: mpv %v: timed out", args)
	}
}

func (m *MPV) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

func (m *MPV) Seek(t float64) error {
	if t < 0 {
		t = 0
	}
	if _, err := m.call("set_property", "time-pos", t); err != nil {
		return err
	}
	m.mu.Lock()
	m.pos = t
	m.mu.Unlock()
	return nil
}

func (m *MPV) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dur
}

func (m *MPV) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *MPV) TogglePause() (bool, error) {
	next := !m.Paused()
	if _, err := m.call("set_property", "pause", next); err != nil {
		return !next, err
	}
	m.mu.Lock()
	m.paused = next
	m.mu.Unlock()
	return next, nil
}

func (m *MPV) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *MPV) SetRate(rate float64) error {
	if rate <= 0 {
		return ErrBadRate
	}
	if _, err := m.call("set_property", "speed", rate); err != nil {
		return err
	}
	m.mu.Lock()
	m.rate = rate
	m.mu.Unlock()
	return nil
}

func (m *MPV) Loop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loop
}

func (m *MPV) SetLoop(on bool) error {
	value := "no"
	if on {
		value = "inf"
	}
	if _, err := m.call("set_property", "loop-file", value); err != nil {
		return err
	}
	m.mu.Lock()
	m.loop = on
	m.mu.Unlock()
	return nil
}

// Close asks mpv to quit and releases the socket and process.
func (m *MPV) Close() error {
	select {
	case <-m.done:
	default:
		_, _ = m.call("quit")
	}
	err := m.conn.Close()
	m.shutdown()
	if m.cmd != nil {
		_ = m.cmd.Wait()
		m.logger.Info("mpv: stopped")
	}
	return err
}
