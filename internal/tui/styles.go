package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	faceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	reviewBox    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2).Align(lipgloss.Center)
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	activePane   = paneStyle.BorderForeground(lipgloss.Color("62"))
	modalStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("160")).Padding(1, 3)
	disabledHint = faintStyle.Strikethrough(true)
)
