package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/iboite/internal/model"
)

// Palette. Each pair is (dark terminal, light terminal).
var (
	ColorInk    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#1F4E8C"}
	ColorPost   = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorAlert  = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOK     = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorViolet = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is the top bar carrying the account name and sync state.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorInk).
	Padding(0, 1)

var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle frames the right-hand pane and the overlays.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

var ListItemStyle = lipgloss.NewStyle().PaddingLeft(2)

// SelectedItemStyle marks the highlighted row and the active sidebar entry.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorInk).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorInk)

// PageStyle outlines a letter page in the preview.
var PageStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(ColorGray).
	Padding(0, 1)

var SidebarStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.NormalBorder(), false, true, false, false).
	BorderForeground(ColorBorder)

var (
	UnreadStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorGray)
)

var tagStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

// BadgeStyle renders a channel counter. Highlighted badges ask for action.
func BadgeStyle(highlight bool) lipgloss.Style {
	if highlight {
		return tagStyle.Foreground(ColorWhite).Background(ColorAlert)
	}
	return tagStyle.Foreground(ColorGray)
}

// StampStyle colours the stamp drawn on a letter.
func StampStyle(c model.StampColor) lipgloss.Style {
	switch c {
	case model.StampRed:
		return tagStyle.Foreground(ColorAlert)
	case model.StampBlue:
		return tagStyle.Foreground(ColorInk)
	case model.StampGreen:
		return tagStyle.Foreground(ColorOK)
	default:
		return tagStyle.Foreground(ColorGray)
	}
}

// ParcelStatusStyle colours a parcel status label. Delivered parcels are
// muted.
func ParcelStatusStyle(s model.ParcelStatus) lipgloss.Style {
	switch s {
	case model.ParcelAvailable:
		return tagStyle.Foreground(ColorOK)
	case model.ParcelTransit:
		return tagStyle.Foreground(ColorPost)
	case model.ParcelPending:
		return tagStyle.Foreground(ColorViolet)
	default:
		return tagStyle.Foreground(ColorGray)
	}
}

func NoticeStyle(isError bool) lipgloss.Style {
	if isError {
		return tagStyle.Foreground(ColorWhite).Background(ColorAlert)
	}
	return tagStyle.Foreground(ColorWhite).Background(ColorOK)
}
