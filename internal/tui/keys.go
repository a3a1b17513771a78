package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the browser.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Enter        key.Binding
	Back         key.Binding
	Root         key.Binding
	Pin          key.Binding
	Delete       key.Binding
	Select       key.Binding
	SelectAll    key.Binding
	ClearSelect  key.Binding
	BulkPin      key.Binding
	BulkDelete   key.Binding
	BulkDownload key.Binding
	CycleMode    key.Binding
	CycleSort    key.Binding
	Search       key.Binding
	Jump         key.Binding
	Refresh      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		Enter: key.NewBinding(
			key.WithKeys("l", "right", "enter"),
			key.WithHelp("l/enter", "open / enter folder"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "go up"),
		),
		Root: key.NewBinding(
			key.WithKeys("~"),
			key.WithHelp("~", "go to library root"),
		),
		Pin: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "pin/unpin"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Select: key.NewBinding(
			key.WithKeys("v", " "),
			key.WithHelp("v/space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("V"),
			key.WithHelp("V", "select all visible"),
		),
		ClearSelect: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection"),
		),
		BulkPin: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "pin selection"),
		),
		BulkDelete: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete selection"),
		),
		BulkDownload: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "download selection"),
		),
		CycleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "cycle view mode"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "cycle sort"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Jump: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fuzzy jump"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
