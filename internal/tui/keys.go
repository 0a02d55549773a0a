package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add     key.Binding
	Up      key.Binding
	Down    key.Binding
	Jump    key.Binding
	Edit    key.Binding
	SetTime key.Binding
	Delete  key.Binding
	Play    key.Binding
	Back    key.Binding
	Forward key.Binding
	Slower  key.Binding
	Faster  key.Binding
	Loop    key.Binding
	Media   key.Binding
	Export  key.Binding
	Copy    key.Binding
	Help    key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add note")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Jump:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "jump to note")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		SetTime: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "set time")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Play:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Back:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "skip back")),
		Forward: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "skip forward")),
		Slower:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "slower")),
		Faster:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "faster")),
		Loop:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "loop")),
		Media:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "choose media")),
		Export:  key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "export vtt")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy note")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Jump, k.Play, k.Edit, k.Media, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Edit, k.SetTime, k.Delete, k.Copy},
		{k.Up, k.Down, k.Jump},
		{k.Play, k.Back, k.Forward, k.Slower, k.Faster, k.Loop},
		{k.Media, k.Export, k.Help, k.Quit},
	}
}
