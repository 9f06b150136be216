package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// Loader is a spinner with a caption, shown while a request is in flight.
type Loader struct {
	Spinner spinner.Model
	Caption string
}

// NewLoader creates a loader with the arcade spinner style.
func NewLoader(caption string) Loader {
	return Loader{
		Spinner: spinner.New(
			spinner.WithSpinner(spinner.Points),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.ArcadeYellow)),
		),
		Caption: caption,
	}
}

// Init starts the animation.
func (l Loader) Init() tea.Cmd {
	return l.Spinner.Tick
}

// Update advances the animation.
func (l Loader) Update(msg tea.Msg) (Loader, tea.Cmd) {
	var cmd tea.Cmd
	l.Spinner, cmd = l.Spinner.Update(msg)
	return l, cmd
}

// View renders the spinner and caption.
func (l Loader) View() string {
	return l.Spinner.View() + "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(l.Caption)
}
