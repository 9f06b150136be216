package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/quizziebot/quizzie/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscInterceptor is implemented by screens that handle Esc themselves
// instead of letting the app pop them, e.g. to ask for confirmation or to
// leave a text field.
type EscInterceptor interface {
	InterceptsEsc() bool
}

// Closer is implemented by screens that hold resources which must be
// released when they leave the stack, such as a live quiz session.
type Closer interface {
	Close()
}
