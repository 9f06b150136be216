package home

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// MascotVariant is the bot's mood on the home screen.
type MascotVariant int

const (
	MascotIdle MascotVariant = iota
	// MascotCelebrating follows a score increase.
	MascotCelebrating
	// MascotAlert means the backend could not be reached.
	MascotAlert
)

type mascotPose struct {
	art     string
	color   color.Color
	caption string
}

var mascotPoses = map[MascotVariant]mascotPose{
	MascotIdle: {
		art: `┌─────┐
│ ◉ ◉ │
│  ?  │
│ ABC │
└─────┘`,
		color:   theme.ArcadeCyan,
		caption: "Pick a quiz!",
	},
	MascotCelebrating: {
		art: `┌─────┐
│ ★ ★ │
│  ▿  │
│ ABC │
└─╥═╥─┘
  ╚═╝`,
		color:   theme.ArcadeYellow,
		caption: "New high score!",
	},
	MascotAlert: {
		art: `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ ABC │
└─────┘`,
		color:   theme.Accent,
		caption: "Can't reach the server",
	},
}

// renderMascot draws the bot with its caption underneath.
func renderMascot(v MascotVariant) string {
	pose, ok := mascotPoses[v]
	if !ok {
		pose = mascotPoses[MascotIdle]
	}
	art := lipgloss.NewStyle().Foreground(pose.color).Render(pose.art)
	caption := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(pose.caption)
	return lipgloss.JoinVertical(lipgloss.Center, art, caption)
}
