package planview

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/slatehq/slate/internal/ui/style"
)

type styleSet struct {
	title     lipgloss.Style
	project   lipgloss.Style
	header    lipgloss.Style
	normal    lipgloss.Style
	done      lipgloss.Style
	active    lipgloss.Style
	waiting   lipgloss.Style
	doneRow   lipgloss.Style
	predicted lipgloss.Style
	blocked   lipgloss.Style
}

func newStyles(ren *lipgloss.Renderer) styleSet {
	return styleSet{
		title: ren.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Indigo).
			Foreground(style.White),
		project: ren.NewStyle().
			Bold(true),
		header: ren.NewStyle().
			Foreground(style.Slate),
		normal: ren.NewStyle(),
		done: ren.NewStyle().
			Foreground(style.Green),
		active: ren.NewStyle().
			Foreground(style.Indigo),
		waiting: ren.NewStyle().
			Foreground(style.Slate),
		doneRow: ren.NewStyle().
			Foreground(style.Slate).
			Faint(true),
		predicted: ren.NewStyle().
			Foreground(style.Yellow),
		blocked: ren.NewStyle().
			Foreground(style.Red),
	}
}
