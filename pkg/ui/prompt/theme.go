package prompt

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed theme.yaml
var embeddedTheme []byte

// ColorDef is an adaptive color in theme.yaml
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// Theme holds the named colors of the prompt UI.
type Theme struct {
	Colors map[string]ColorDef `yaml:"colors"`
}

var requiredColors = []string{"accent", "text", "muted", "error", "background"}

// LoadTheme parses a theme definition.
func LoadTheme(data []byte) (*Theme, error) {
	var theme Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme: %w", err)
	}
	for _, name := range requiredColors {
		if _, ok := theme.Colors[name]; !ok {
			return nil, fmt.Errorf("theme is missing color %q", name)
		}
	}
	return &theme, nil
}

// DefaultTheme returns the embedded theme.
func DefaultTheme() *Theme {
	theme, err := LoadTheme(embeddedTheme)
	if err != nil {
		panic(fmt.Sprintf("embedded theme is invalid: %v", err))
	}
	return theme
}

// Color returns a named color. Unknown names yield the terminal default.
func (t *Theme) Color(name string) lipgloss.TerminalColor {
	def, ok := t.Colors[name]
	if !ok {
		return lipgloss.NoColor{}
	}
	return lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Box     lipgloss.Style
	Title   lipgloss.Style
	Message lipgloss.Style
	Error   lipgloss.Style

	// Form themes the huh prompts.
	Form *huh.Theme
}

// Styles builds the styles for the theme. plain drops every color and
// keeps only the layout.
func (t *Theme) Styles(plain bool) Styles {
	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Padding(0, 1)
	title := lipgloss.NewStyle().Bold(true)
	message := lipgloss.NewStyle()
	errStyle := lipgloss.NewStyle().Bold(true)

	if plain {
		return Styles{Box: box, Title: title, Message: message, Error: errStyle, Form: huh.ThemeBase()}
	}

	return Styles{
		Box: box.
			BorderForeground(t.Color("accent")).
			Background(t.Color("background")),
		Title:   title.Foreground(t.Color("accent")).Background(t.Color("background")),
		Message: message.Foreground(t.Color("text")).Background(t.Color("background")),
		Error:   errStyle.Foreground(t.Color("error")),
		Form:    t.FormTheme(),
	}
}

// FormTheme colors the huh prompts: titles and selectors in the accent
// color, options and typed text in the text color, hints muted.
func (t *Theme) FormTheme() *huh.Theme {
	var (
		accent = t.Color("accent")
		text   = t.Color("text")
		muted  = t.Color("muted")
		errFg  = t.Color("error")
		bg     = t.Color("background")
	)

	ft := huh.ThemeBase()
	f := &ft.Focused
	f.Base = f.Base.BorderForeground(accent)
	f.Card = f.Base
	f.Title = f.Title.Foreground(accent).Bold(true)
	f.NoteTitle = f.NoteTitle.Foreground(accent).Bold(true)
	f.Description = f.Description.Foreground(muted)
	f.ErrorIndicator = f.ErrorIndicator.Foreground(errFg)
	f.ErrorMessage = f.ErrorMessage.Foreground(errFg)
	f.SelectSelector = f.SelectSelector.Foreground(accent)
	f.NextIndicator = f.NextIndicator.Foreground(accent)
	f.PrevIndicator = f.PrevIndicator.Foreground(accent)
	f.Option = f.Option.Foreground(text)
	f.SelectedOption = f.SelectedOption.Foreground(accent)
	f.UnselectedOption = f.UnselectedOption.Foreground(muted)
	f.FocusedButton = f.FocusedButton.Foreground(bg).Background(accent)
	f.BlurredButton = f.BlurredButton.Foreground(muted).Background(bg)
	f.Next = f.FocusedButton
	f.TextInput.Cursor = f.TextInput.Cursor.Foreground(accent)
	f.TextInput.Placeholder = f.TextInput.Placeholder.Foreground(muted)
	f.TextInput.Prompt = f.TextInput.Prompt.Foreground(accent)
	f.TextInput.Text = f.TextInput.Text.Foreground(text)

	ft.Blurred = ft.Focused
	ft.Blurred.Base = ft.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	ft.Blurred.Card = ft.Blurred.Base
	ft.Blurred.Title = ft.Blurred.Title.Foreground(muted)
	ft.Blurred.MultiSelectSelector = lipgloss.NewStyle().SetString("  ")
	ft.Blurred.NextIndicator = lipgloss.NewStyle()
	ft.Blurred.PrevIndicator = lipgloss.NewStyle()

	ft.Group.Title = ft.Focused.Title
	ft.Group.Description = ft.Focused.Description
	return ft
}

// RenderAlert draws an alert box.
func (s Styles) RenderAlert(title, message string) string {
	body := s.Title.Render(title)
	if message != "" {
		body += "\n\n" + s.Message.Render(message)
	}
	return s.Box.Render(body)
}
