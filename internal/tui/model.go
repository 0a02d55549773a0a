// Package tui is the terminal front end: the note list of one document
// next to the transport of its media.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/aschmelyun/vnote/internal/arrayedit"
	"github.com/aschmelyun/vnote/internal/config"
	"github.com/aschmelyun/vnote/internal/media"
	"github.com/aschmelyun/vnote/internal/notes"
	"github.com/aschmelyun/vnote/internal/session"
	"github.com/aschmelyun/vnote/internal/vault"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeList mode = iota
	modeEdit
	modePicker
)

const (
	rateStep      = 0.25
	minRate       = 0.25
	maxRate       = 4.0
	previewHeight = 6
)

var writeClipboard = clipboard.WriteAll

// Options wires the model to an open session. Deck must be the clock the
// session's editor was built on.
type Options struct {
	Context context.Context
	Session *session.Session
	Store   vault.Storage
	Deck    *media.Deck
	Player  config.PlayerConfig
	UI      config.UIConfig
	Logger  *slog.Logger
}

type Model struct {
	ctx     context.Context
	sess    *session.Session
	store   vault.Storage
	deck    *media.Deck
	player  config.PlayerConfig
	tick    time.Duration
	preview bool
	logger  *slog.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model
	picker  *picker

	mode      mode
	editing   *notes.Note
	loading   bool
	pending   string
	mediaPath string
	notice    *session.Notice
	width     int
	height    int
	quitting  bool
}

func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.UI.Tick <= 0 {
		opts.UI.Tick = 250 * time.Millisecond
	}
	if opts.Player.SkipSeconds <= 0 {
		opts.Player.SkipSeconds = 5
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	in := textinput.New()
	in.Prompt = "note › "

	m := Model{
		ctx:     opts.Context,
		sess:    opts.Session,
		store:   opts.Store,
		deck:    opts.Deck,
		player:  opts.Player,
		tick:    opts.UI.Tick,
		preview: opts.UI.Preview,
		logger:  opts.Logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: s,
		input:   in,
		picker:  newPicker(),
	}

	abs, notice := m.sess.ResolveMedia()
	if abs != "" {
		m.loading = true
		m.pending = abs
	}
	m.notice = notice
	return m
}

// NewProgram builds the full-screen program around a new Model.
func NewProgram(opts Options) *tea.Program {
	m := New(opts)
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tickCmd()}
	if m.loading {
		cmds = append(cmds, m.spinner.Tick, loadMediaCmd(m.ctx, m.player, m.pending, m.logger))
	}
	return tea.Batch(cmds...)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) notes() *notes.NoteEditor { return m.sess.Editor() }

func (m *Model) list() *arrayedit.Editor[*notes.Note] { return m.sess.Editor().Editor() }

func (m *Model) fail(err error) {
	m.logger.Error("tui: action failed", slog.String("error", err.Error()))
	m.notice = session.Failure(err)
}

func (m *Model) info(format string, args ...any) {
	m.notice = session.Info(format, args...)
}

func (m *Model) warn(format string, args ...any) {
	m.notice = &session.Notice{Level: session.NoticeWarn, Message: fmt.Sprintf(format, args...)}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tickMsg:
		m.notes().Sync()
		return m, m.tickCmd()

	case FileChangedMsg:
		return m.reload()

	case mediaLoadedMsg:
		m.loading = false
		if err := m.deck.Load(msg.player); err != nil {
			m.logger.Warn("tui: close previous player", slog.String("error", err.Error()))
		}
		m.mediaPath = msg.path
		m.info("Loaded %s", filepath.Base(msg.path))
		// Time labels depend on the duration, which is known now.
		if err := m.list().RefreshList(m.ctx); err != nil {
			m.fail(err)
		}
		return m, nil

	case mediaFailedMsg:
		m.loading = false
		m.fail(msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modePicker:
			return m.updatePicker(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Add):
		added, err := m.notes().AddNote(m.ctx)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		if added {
			m.list().SetCursor(m.notes().Current())
			return m.beginEdit()
		}

	case key.Matches(msg, m.keys.Up):
		m.list().MoveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.list().MoveCursor(1)

	case key.Matches(msg, m.keys.Jump):
		m.press(notes.KeyJump)
		m.notes().Sync()

	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()

	case key.Matches(msg, m.keys.SetTime):
		m.press(notes.KeySetTime)

	case key.Matches(msg, m.keys.Delete):
		m.press(notes.KeyDelete)

	case key.Matches(msg, m.keys.Play):
		if !m.deck.Loaded() {
			m.info("No media loaded, press m to choose a file")
			return m, nil
		}
		if _, err := m.deck.TogglePause(); err != nil {
			m.fail(err)
		}

	case key.Matches(msg, m.keys.Back):
		m.skip(-m.player.SkipSeconds)

	case key.Matches(msg, m.keys.Forward):
		m.skip(m.player.SkipSeconds)

	case key.Matches(msg, m.keys.Slower):
		m.changeRate(-rateStep)

	case key.Matches(msg, m.keys.Faster):
		m.changeRate(rateStep)

	case key.Matches(msg, m.keys.Loop):
		if err := m.deck.SetLoop(!m.deck.Loop()); err != nil {
			m.fail(err)
		}

	case key.Matches(msg, m.keys.Media):
		return m.openPicker()

	case key.Matches(msg, m.keys.Export):
		out, err := m.sess.ExportVTT(m.ctx)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.info("Exported %s", out)

	case key.Matches(msg, m.keys.Copy):
		m.copyNote()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	}
	return m, nil
}

// press triggers a control on the row under the cursor.
func (m *Model) press(control string) {
	if len(m.list().Rows()) == 0 {
		return
	}
	err := m.list().Press(m.ctx, m.list().Cursor(), control)
	if err != nil && !errors.Is(err, arrayedit.ErrNoRow) {
		m.fail(err)
	}
}

func (m *Model) skip(delta float64) {
	if err := media.Skip(m.deck, delta); err != nil {
		m.fail(err)
		return
	}
	m.notes().Sync()
}

func (m *Model) changeRate(delta float64) {
	rate := min(max(m.deck.Rate()+delta, minRate), maxRate)
	if err := m.deck.SetRate(rate); err != nil {
		m.fail(err)
	}
}

// copyNote copies the active note, the one under the playhead, whatever
// row the cursor is on.
func (m *Model) copyNote() {
	note, ok := m.notes().Active()
	if !ok {
		return
	}
	text := fmt.Sprintf("[%s] %s", media.FormatClock(note.Time, m.deck.Duration()), note.Text)
	if err := writeClipboard(text); err != nil {
		m.fail(err)
		return
	}
	m.info("Copied note at %s", media.FormatClock(note.Time, m.deck.Duration()))
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	note, ok := m.notes().Selected()
	if !ok {
		return m, nil
	}
	m.editing = note
	m.input.SetValue(note.Text)
	m.input.CursorEnd()
	m.mode = modeEdit
	return m, m.input.Focus()
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.input.Blur()
		m.mode = modeList
		m.editing = nil
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.input.Blur()
		m.mode = modeList
		target := m.editing
		m.editing = nil
		// A reload while editing swaps every note; the edited one is gone.
		row := slices.IndexFunc(m.list().Displayed(), func(en arrayedit.Entry[*notes.Note]) bool {
			return en.Item == target
		})
		if row < 0 {
			m.warn("Note changed on disk; edit discarded")
			return m, nil
		}
		if err := m.list().Submit(m.ctx, row, notes.KeyEdit, m.input.Value()); err != nil {
			m.fail(err)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) openPicker() (tea.Model, tea.Cmd) {
	files, err := session.MediaFiles(m.store)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	if len(files) == 0 {
		m.info("No media files in the vault")
		return m, nil
	}
	if err := m.picker.open(m.ctx, files); err != nil {
		m.fail(err)
		return m, nil
	}
	m.mode = modePicker
	m.resize()
	return m, textinput.Blink
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.picker.close()
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		chosen, ok := m.picker.selected()
		m.picker.close()
		m.mode = modeList
		if !ok {
			return m, nil
		}
		if err := m.sess.SetMediaPath(m.ctx, chosen); err != nil {
			m.fail(err)
			return m, nil
		}
		return m.loadMedia()

	case msg.Type == tea.KeyUp:
		m.picker.editor.MoveCursor(-1)
		return m, nil

	case msg.Type == tea.KeyDown:
		m.picker.editor.MoveCursor(1)
		return m, nil
	}

	before := m.picker.query.Value()
	var cmd tea.Cmd
	m.picker.query, cmd = m.picker.query.Update(msg)
	if m.picker.query.Value() != before {
		if err := m.picker.refilter(m.ctx); err != nil {
			m.fail(err)
		}
	}
	return m, cmd
}

// loadMedia resolves the document's media and starts loading it, or
// unloads the deck when there is nothing to play.
func (m Model) loadMedia() (tea.Model, tea.Cmd) {
	abs, notice := m.sess.ResolveMedia()
	m.notice = notice
	if abs == "" {
		if err := m.deck.Load(nil); err != nil {
			m.logger.Warn("tui: close player", slog.String("error", err.Error()))
		}
		m.mediaPath = ""
		return m, nil
	}
	m.loading = true
	m.pending = abs
	return m, tea.Batch(m.spinner.Tick, loadMediaCmd(m.ctx, m.player, abs, m.logger))
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	changed, err := m.sess.Reload(m.ctx)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	if !changed {
		return m, nil
	}
	m.info("Reloaded %s", filepath.Base(m.sess.Path()))
	if abs, _ := m.sess.ResolveMedia(); abs != m.mediaPath {
		return m.loadMedia()
	}
	return m, nil
}

func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	m.help.Width = m.width
	m.input.Width = max(m.width-lipgloss.Width(m.input.Prompt)-1, 1)

	chrome := 3 + lipgloss.Height(m.help.View(m.keys))
	if m.preview {
		chrome += previewHeight + 1
	}
	body := max(m.height-chrome, 1)
	m.list().SetSize(m.width, body)
	m.picker.setSize(m.width, body)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := BulletStyle.Render("┌") + TitleStyle.Render("vnote") + " " + DimTextStyle.Render(m.sess.Name())
	parts := []string{title, BulletStyle.Render("├") + m.statusLine()}

	if m.mode == modePicker {
		parts = append(parts, m.picker.view())
	} else {
		parts = append(parts, m.list().View())
		if m.preview {
			parts = append(parts, m.previewPane())
		}
	}

	if m.mode == modeEdit {
		parts = append(parts, m.input.View())
	} else {
		parts = append(parts, BulletStyle.Render("└")+m.noticeLine())
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) statusLine() string {
	if m.loading {
		return m.spinner.View() + TextStyle.Render("Loading "+filepath.Base(m.pending))
	}
	if !m.deck.Loaded() {
		return DimTextStyle.Render("no media")
	}
	state := "▶"
	if m.deck.Paused() {
		state = "⏸"
	}
	loop := ""
	if m.deck.Loop() {
		loop = " ⟳"
	}
	return TextStyle.Render(fmt.Sprintf("%s %s", state, filepath.Base(m.mediaPath))) +
		TimestampStyle.Render(media.FormatPosition(m.deck.CurrentTime(), m.deck.Duration())) +
		DimTextStyle.Render(fmt.Sprintf("  %.2fx%s", m.deck.Rate(), loop))
}

func (m Model) noticeLine() string {
	if m.notice == nil {
		return ""
	}
	switch m.notice.Level {
	case session.NoticeError:
		return ErrorStyle.Render(m.notice.Message)
	case session.NoticeWarn:
		return WarnStyle.Render(m.notice.Message)
	default:
		return SuccessStyle.Render(m.notice.Message)
	}
}

func (m Model) previewPane() string {
	var body string
	if note, ok := m.notes().Active(); ok {
		body = renderMarkdown(note.Text, m.width-2)
	}
	if body == "" {
		body = DimTextStyle.Render("  nothing to preview")
	}
	return PreviewStyle.Width(max(m.width, 1)).Render(clip(body, previewHeight))
}
