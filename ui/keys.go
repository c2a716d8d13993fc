package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle key.Binding
	Slower key.Binding
	Faster key.Binding
	Tone   key.Binding
	Once   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Slower, k.Faster, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Once},
		{k.Slower, k.Faster, k.Tone},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Toggle: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space/p", "play/pause"),
	),
	Slower: key.NewBinding(
		key.WithKeys("left", "["),
		key.WithHelp("←/[", "slower"),
	),
	Faster: key.NewBinding(
		key.WithKeys("right", "]"),
		key.WithHelp("→/]", "faster"),
	),
	Tone: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "next tone"),
	),
	Once: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "one click"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
