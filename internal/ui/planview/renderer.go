// Package planview renders the computed schedule as a plain-text table.
package planview

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/ui/output"
	"github.com/slatehq/slate/internal/ui/style"
)

// Row is one line of the plan table. Rows arrive already ordered; the
// renderer never sorts.
type Row struct {
	ID           string
	Title        string
	Start        *domain.Date
	Due          *domain.Date
	DurationDays *int
	Predicted    bool
	Done         bool
	Blocked      bool
	Bottleneck   string
}

// Renderer writes plan tables with the shared color palette. Color degrades
// to plain text when the writer is not a terminal or NO_COLOR is set.
type Renderer struct {
	w      io.Writer
	styles styleSet
}

// NewRenderer creates a Renderer writing to w. A nil writer falls back to
// stdout.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}

	ren := lipgloss.NewRenderer(w,
		termenv.WithProfile(output.ColorProfile()),
		termenv.WithTTY(true),
	)

	return &Renderer{w: w, styles: newStyles(ren)}
}

// Table renders the schedule table for a project.
func (r *Renderer) Table(project string, scale Scale, rows []Row) error {
	var b strings.Builder

	b.WriteString(r.renderHeader(project, scale, len(rows)) + "\n")

	if len(rows) == 0 {
		b.WriteString("\n  no tasks yet\n")
		_, err := io.WriteString(r.w, b.String())
		return err
	}

	b.WriteString("\n")

	idWidth, titleWidth := columnWidths(rows)
	for _, row := range rows {
		b.WriteString(r.renderRow(row, scale, idWidth, titleWidth) + "\n")
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) renderHeader(project string, scale Scale, count int) string {
	header := r.styles.title.Render("PLAN")
	if project != "" {
		header += " " + r.styles.project.Render(project)
	}

	taskWord := "tasks"
	if count == 1 {
		taskWord = "task"
	}
	header += " " + r.styles.header.Render(fmt.Sprintf("(%d %s, by %s)", count, taskWord, scale))

	return header
}

func (r *Renderer) renderRow(row Row, scale Scale, idWidth, titleWidth int) string {
	rowStyle := r.styles.normal
	if row.Done {
		rowStyle = r.styles.doneRow
	}

	id := rowStyle.Render(pad(row.ID, idWidth))
	title := rowStyle.Render(pad(row.Title, titleWidth))
	dates := rowStyle.Render(fmt.Sprintf("%11s %s %-10s", startCell(row), style.Arrow, dueCell(row)))
	dur := rowStyle.Render(fmt.Sprintf("%4s", durationCell(row, scale)))

	line := fmt.Sprintf("  %s %s  %s  %s  %s", r.icon(row), id, title, dates, dur)
	if notes := r.annotations(row); notes != "" {
		line += "  " + notes
	}
	return line
}

func (r *Renderer) icon(row Row) string {
	switch {
	case row.Done:
		return r.styles.done.Render(style.Check)
	case row.Blocked:
		return r.styles.waiting.Render(style.Circle)
	default:
		return r.styles.active.Render(style.Dot)
	}
}

func (r *Renderer) annotations(row Row) string {
	var notes []string
	if row.Predicted && !row.Done {
		notes = append(notes, r.styles.predicted.Render("predicted"))
	}
	if row.Blocked {
		note := "blocked"
		if row.Bottleneck != "" {
			note += " by " + row.Bottleneck
		}
		notes = append(notes, r.styles.blocked.Render(note))
	}
	return strings.Join(notes, ", ")
}

func startCell(row Row) string {
	if row.Start == nil {
		return "-"
	}
	if row.Predicted {
		return style.Tilde + row.Start.String()
	}
	return row.Start.String()
}

func dueCell(row Row) string {
	if row.Due == nil {
		return "-"
	}
	return row.Due.String()
}

func durationCell(row Row, scale Scale) string {
	if row.DurationDays == nil {
		return "-"
	}
	return scale.FormatDays(*row.DurationDays)
}

// pad right-pads by display width, not byte length, so wide characters in
// titles keep the columns aligned.
func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func columnWidths(rows []Row) (idWidth, titleWidth int) {
	for _, row := range rows {
		idWidth = max(idWidth, lipgloss.Width(row.ID))
		titleWidth = max(titleWidth, lipgloss.Width(row.Title))
	}
	return idWidth, titleWidth
}
