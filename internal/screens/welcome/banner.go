package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/quizziebot/quizzie/internal/ui/theme"
)

// BannerArt is the block-letter logo.
const BannerArt = `
  ██████╗ ██╗   ██╗██╗███████╗███████╗██╗███████╗
 ██╔═══██╗██║   ██║██║╚══███╔╝╚══███╔╝██║██╔════╝
 ██║   ██║██║   ██║██║  ███╔╝   ███╔╝ ██║█████╗
 ██║▄▄ ██║██║   ██║██║ ███╔╝   ███╔╝  ██║██╔══╝
 ╚██████╔╝╚██████╔╝██║███████╗███████╗██║███████╗
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚══════╝╚═╝╚══════╝`

// BannerCompact fits narrow terminals.
const BannerCompact = "Q U I Z Z I E"

// bannerMinWidth is the narrowest terminal that fits BannerArt.
const bannerMinWidth = 51

// RenderBanner returns the QUIZZIE banner in arcade yellow, or a compact
// fallback on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(BannerCompact)
	}
	return style.Render(BannerArt)
}
