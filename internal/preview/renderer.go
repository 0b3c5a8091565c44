package preview

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/theme"
)

// A terminal cell is treated as 6pt wide and 12pt tall.
const (
	pointsPerCol = 6.0
	pointsPerRow = 12.0
)

// minCols and minRows bound the smallest page box worth drawing with a
// frame. Anything smaller falls back to a single summary line.
const (
	minCols = 12
	minRows = 5
)

// Renderer draws the selected letter as a page scaled to the viewport.
// The scale is recomputed whenever the viewport or the letter changes.
type Renderer struct {
	page     Size
	viewport Size
	cols     int
	rows     int
	letter   *model.Letter
	scale    float64
}

// NewRenderer creates a renderer for pages of the given size. A degenerate
// page size falls back to A4.
func NewRenderer(page Size) *Renderer {
	if page.degenerate() {
		page = A4
	}
	return &Renderer{page: page}
}

// SetViewport records the available area in terminal cells.
func (r *Renderer) SetViewport(cols, rows int) {
	r.cols = max(cols, 0)
	r.rows = max(rows, 0)
	r.viewport = Size{W: float64(r.cols) * pointsPerCol, H: float64(r.rows) * pointsPerRow}
	r.recompute()
}

// SetLetter changes the displayed letter. nil clears the preview.
func (r *Renderer) SetLetter(l *model.Letter) {
	if l == nil {
		r.letter = nil
	} else {
		cp := *l
		r.letter = &cp
	}
	r.recompute()
}

func (r *Renderer) recompute() {
	r.scale = Scale(r.page, r.viewport)
}

// Scale returns the current scale factor.
func (r *Renderer) Scale() float64 {
	return r.scale
}

// Viewport returns the current viewport in points.
func (r *Renderer) Viewport() Size {
	return r.viewport
}

// PageCells returns the size of the scaled page box in terminal cells.
func (r *Renderer) PageCells() (cols, rows int) {
	cols = int(math.Floor(r.page.W * r.scale / pointsPerCol))
	rows = int(math.Floor(r.page.H * r.scale / pointsPerRow))
	return min(cols, r.cols), min(rows, r.rows)
}

// View renders the preview.
func (r *Renderer) View() string {
	if r.letter == nil {
		return theme.MutedStyle.Render("Select a letter to preview it.")
	}

	cols, rows := r.PageCells()
	if cols < minCols || rows < minRows {
		return truncate(fmt.Sprintf("%s · %s", r.letter.Sender, r.letter.Subject), r.cols)
	}

	// Border takes two rows; border plus padding takes four columns.
	inner := cols - 4
	content := lipgloss.NewStyle().
		Width(inner).
		MaxHeight(rows - 2).
		Render(renderLetter(*r.letter, inner))

	return theme.PageStyle.
		Width(cols - 2).
		Height(rows - 2).
		Render(content)
}

func renderLetter(l model.Letter, width int) string {
	color := l.StampColor
	if color == "" {
		color = model.StampColorFor(l.Urgency)
	}
	stamp := theme.StampStyle(color).Render("■ " + urgencyLabel(l.Urgency))

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, stamp))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(l.Sender))
	b.WriteString("\n")
	if l.SenderAddress != "" {
		b.WriteString(theme.MutedStyle.Render(l.SenderAddress))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	to := l.Recipient
	if l.RecipientAddress != "" {
		to += "\n" + l.RecipientAddress
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, to))
	b.WriteString("\n\n")

	if !l.CreatedAt.IsZero() {
		b.WriteString(theme.MutedStyle.Render(l.CreatedAt.Format("02/01/2006")))
		b.WriteString("\n")
	}
	if l.DueDate != nil {
		b.WriteString(theme.StampStyle(model.StampRed).Render("Due " + l.DueDate.Format("02/01/2006")))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Underline(true).Render("Objet : " + l.Subject))
	b.WriteString("\n\n")
	b.WriteString(l.Body)

	if len(l.Attachments) > 0 {
		b.WriteString("\n\n")
		for _, a := range l.Attachments {
			b.WriteString(theme.MutedStyle.Render(fmt.Sprintf("📎 %s (%s)", a.Name, humanSize(a.Size))))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func urgencyLabel(u model.Urgency) string {
	switch u {
	case model.UrgencyActionRequired:
		return "Action required"
	case model.UrgencyInformational:
		return "Information"
	default:
		return "Standard"
	}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
