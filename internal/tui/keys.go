package tui

import "github.com/charmbracelet/bubbles/key"

// BrowserKeys are the key bindings of the catalog browser.
type BrowserKeys struct {
	Quit       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	ColLeft    key.Binding
	ColRight   key.Binding
	Sort       key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Search     key.Binding
	Scope      key.Binding
	Details    key.Binding
	Help       key.Binding
	Submit     key.Binding
	CancelEdit key.Binding
}

// NewBrowserKeys creates the browser key bindings.
func NewBrowserKeys() BrowserKeys {
	return BrowserKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		ColLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "column left"),
		),
		ColRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "column right"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Scope: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "search scope"),
		),
		Details: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "details"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run search"),
		),
		CancelEdit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave input"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k BrowserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Sort, k.NextPage, k.PrevPage, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k BrowserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Details},
		{k.ColLeft, k.ColRight, k.Sort},
		{k.NextPage, k.PrevPage},
		{k.Search, k.Scope, k.Submit, k.CancelEdit},
		{k.Help, k.Quit},
	}
}
