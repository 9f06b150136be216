package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Quizzie styling.
type TextInput struct {
	Model textinput.Model
	Label string
}

// NewTextInput creates a focused text input.
func NewTextInput(label, placeholder string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
		ti.SetWidth(maxWidth)
	}

	return TextInput{Model: ti, Label: label}
}

// NewPasswordInput is NewTextInput with masked echo.
func NewPasswordInput(label, placeholder string, maxWidth int) TextInput {
	t := NewTextInput(label, placeholder, maxWidth)
	t.Model.EchoMode = textinput.EchoPassword
	t.Model.EchoCharacter = '•'
	return t
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

// Blur removes the cursor.
func (t *TextInput) Blur() { t.Model.Blur() }

// Focused reports whether the input has the cursor.
func (t TextInput) Focused() bool { return t.Model.Focused() }

// View renders the label above the input.
func (t TextInput) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.Model.Focused() {
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	view := t.Model.View()
	if t.Label == "" {
		return view
	}
	return labelStyle.Render(t.Label) + "\n" + view
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// Form cycles focus across a fixed set of inputs with tab / shift+tab.
type Form struct {
	Inputs []TextInput
	Focus  int
}

// NewForm focuses the first input and blurs the rest.
func NewForm(inputs ...TextInput) Form {
	f := Form{Inputs: inputs}
	for i := range f.Inputs {
		if i != 0 {
			f.Inputs[i].Blur()
		}
	}
	return f
}

// Update routes key presses to the focused input and moves focus on
// tab, shift+tab, up and down.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if len(f.Inputs) == 0 {
		return f, nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return f, f.move(1)
		case "shift+tab", "up":
			return f, f.move(-1)
		}
	}
	var cmd tea.Cmd
	f.Inputs[f.Focus], cmd = f.Inputs[f.Focus].Update(msg)
	return f, cmd
}

func (f *Form) move(delta int) tea.Cmd {
	f.Inputs[f.Focus].Blur()
	f.Focus = (f.Focus + delta + len(f.Inputs)) % len(f.Inputs)
	return f.Inputs[f.Focus].Focus()
}

// Last reports whether the final input has focus.
func (f Form) Last() bool { return f.Focus == len(f.Inputs)-1 }

// Next moves focus forward.
func (f *Form) Next() tea.Cmd { return f.move(1) }

// Value returns the value of input i.
func (f Form) Value(i int) string { return f.Inputs[i].Value() }

// View renders the inputs stacked with a blank line between them.
func (f Form) View() string {
	parts := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		parts[i] = in.View()
	}
	return strings.Join(parts, "\n\n")
}
