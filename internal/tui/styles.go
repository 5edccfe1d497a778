package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary = lipgloss.Color("#7C3AED") // Purple
	Correct = lipgloss.Color("#10B981") // Green
	Wrong   = lipgloss.Color("#EF4444") // Red
	Muted   = lipgloss.Color("#6B7280") // Gray
	Warning = lipgloss.Color("#F59E0B") // Amber

	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Status = lipgloss.NewStyle().
		Foreground(Muted)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 4).
		Width(40).
		Align(lipgloss.Center)

	Prompt = lipgloss.NewStyle().
		Bold(true)

	Answer = lipgloss.NewStyle().
		Foreground(Primary).
		Italic(true)

	CorrectText = lipgloss.NewStyle().Foreground(Correct).Bold(true)
	WrongText   = lipgloss.NewStyle().Foreground(Wrong).Bold(true)
	SkippedText = lipgloss.NewStyle().Foreground(Muted)

	Notice = lipgloss.NewStyle().Foreground(Warning)
	Error  = lipgloss.NewStyle().Foreground(Wrong)

	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	TableCell = lipgloss.NewStyle().Padding(0, 1)
)
