package termui

import "github.com/charmbracelet/lipgloss"

var (
	borderASCII = lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	paneStyle      = lipgloss.NewStyle().Border(borderASCII).BorderForeground(lipgloss.Color("238")).Padding(0, 1).Width(38)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	labelStyle     = lipgloss.NewStyle().Bold(true)
	valueMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	criticalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	highPriority   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	lowPriority    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	mediumPriority = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	statusStyles = map[string]lipgloss.Style{
		"badge--todo":  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		"badge--doing": lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"badge--done":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

func priorityStyle(class string) lipgloss.Style {
	switch class {
	case "priority--high":
		return highPriority
	case "priority--low":
		return lowPriority
	}
	return mediumPriority
}

func statusStyle(class string) lipgloss.Style {
	if s, ok := statusStyles[class]; ok {
		return s
	}
	return valueMuted
}
