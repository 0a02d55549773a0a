package tui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	BulletStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	TextStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	DimTextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	SpinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	TimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingLeft(2)
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	WarnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	PreviewStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(lipgloss.Color("8"))
)
