package preview

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/nhle/iboite/internal/model"
)

func testLetter() *model.Letter {
	return &model.Letter{
		ID:        "l1",
		Sender:    "Ministère de l'Intérieur",
		Recipient: "Député",
		Subject:   "Convocation",
		Body:      "Vous êtes prié de vous présenter en commission.",
		Urgency:   model.UrgencyActionRequired,
		CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Attachments: []model.Attachment{
			{Name: "ordre-du-jour.pdf", Size: 2048},
		},
	}
}

func TestRenderer_RecomputesOnViewport(t *testing.T) {
	r := NewRenderer(A4)
	require.Zero(t, r.Scale())

	// 50x25 cells is 300x300 points.
	r.SetViewport(50, 25)
	require.Equal(t, Size{300, 300}, r.Viewport())
	require.InDelta(t, 0.357, r.Scale(), 0.001)

	r.SetViewport(200, 100)
	require.Equal(t, 1.0, r.Scale())
}

func TestRenderer_RecomputesOnLetter(t *testing.T) {
	r := NewRenderer(A4)
	r.SetViewport(50, 25)
	before := r.Scale()

	r.SetLetter(testLetter())
	require.Equal(t, before, r.Scale())

	r.SetLetter(nil)
	require.Equal(t, before, r.Scale())
}

func TestRenderer_DegeneratePageFallsBackToA4(t *testing.T) {
	r := NewRenderer(Size{})
	r.SetViewport(50, 25)
	require.InDelta(t, Scale(A4, Size{300, 300}), r.Scale(), 1e-9)
}

func TestRenderer_ViewWithoutLetter(t *testing.T) {
	r := NewRenderer(A4)
	r.SetViewport(80, 40)
	require.Contains(t, r.View(), "Select a letter")
}

func TestRenderer_ViewFitsViewport(t *testing.T) {
	r := NewRenderer(A4)
	r.SetViewport(120, 60)
	r.SetLetter(testLetter())

	out := r.View()
	require.Contains(t, out, "Convocation")
	require.Contains(t, out, "ordre-du-jour.pdf")
	require.LessOrEqual(t, lipgloss.Width(out), 120)
	require.LessOrEqual(t, lipgloss.Height(out), 60)
}

func TestRenderer_TinyViewportUsesSummary(t *testing.T) {
	r := NewRenderer(A4)
	r.SetViewport(20, 3)
	r.SetLetter(testLetter())

	out := r.View()
	require.False(t, strings.Contains(out, "\n"))
	require.LessOrEqual(t, lipgloss.Width(out), 20)
}

func TestRenderer_SetLetterCopies(t *testing.T) {
	l := testLetter()
	r := NewRenderer(A4)
	r.SetViewport(120, 60)
	r.SetLetter(l)
	l.Subject = "changed"

	require.Contains(t, r.View(), "Convocation")
}
