package report

import "github.com/charmbracelet/lipgloss"

var (
	colorText     = lipgloss.Color("#CDD6F4")
	colorSubtext  = lipgloss.Color("#A6ADC8")
	colorDim      = lipgloss.Color("#585B70")
	colorAccent   = lipgloss.Color("#CBA6F7")
	colorBlue     = lipgloss.Color("#89B4FA")
	colorGreen    = lipgloss.Color("#A6E3A1")
	colorYellow   = lipgloss.Color("#F9E2AF")
	colorPeach    = lipgloss.Color("#FAB387")
	colorLavender = lipgloss.Color("#B4BEFE")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue).
				MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorLavender)

	premiumStyle  = lipgloss.NewStyle().Foreground(colorPeach)
	standardStyle = lipgloss.NewStyle().Foreground(colorGreen)
	unknownStyle  = lipgloss.NewStyle().Foreground(colorYellow)
)

func categoryStyle(category string) lipgloss.Style {
	switch category {
	case "premium":
		return premiumStyle
	case "standard":
		return standardStyle
	default:
		return unknownStyle
	}
}
