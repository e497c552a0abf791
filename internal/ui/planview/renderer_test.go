package planview_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/ui/planview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) *domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func days(n int) *int {
	return &n
}

func sampleRows(t *testing.T) []planview.Row {
	t.Helper()
	return []planview.Row{
		{
			ID:           "2qhAgfwT",
			Title:        "Design review",
			Start:        day(t, "2025-01-01"),
			Due:          day(t, "2025-01-10"),
			DurationDays: days(10),
			Done:         true,
		},
		{
			ID:           "2qhAhJ3M",
			Title:        "Build it",
			Start:        day(t, "2025-01-10"),
			Due:          day(t, "2025-01-24"),
			DurationDays: days(15),
			Predicted:    true,
		},
		{
			ID:         "2qhAifPx",
			Title:      "Ship it",
			Blocked:    true,
			Bottleneck: "2qhAhJ3M",
		},
		{
			ID:           "2qhAjj5B",
			Title:        "Write docs",
			Start:        day(t, "2025-01-05"),
			DurationDays: days(3),
		},
	}
}

func newTestRenderer(t *testing.T) (*planview.Renderer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	return planview.NewRenderer(&buf), &buf
}

func TestRenderer_Table(t *testing.T) {
	r, buf := newTestRenderer(t)

	require.NoError(t, r.Table("website", planview.Day, sampleRows(t)))

	g := goldie.New(t)
	g.Assert(t, "table_basic", buf.Bytes())
}

func TestRenderer_Table_WeekScale(t *testing.T) {
	r, buf := newTestRenderer(t)

	require.NoError(t, r.Table("website", planview.Week, sampleRows(t)))

	g := goldie.New(t)
	g.Assert(t, "table_week", buf.Bytes())
}

func TestRenderer_Table_Empty(t *testing.T) {
	r, buf := newTestRenderer(t)

	require.NoError(t, r.Table("website", planview.Day, nil))

	g := goldie.New(t)
	g.Assert(t, "table_empty", buf.Bytes())
}

func TestRenderer_Table_SingleTask(t *testing.T) {
	r, buf := newTestRenderer(t)

	require.NoError(t, r.Table("", planview.Day, sampleRows(t)[3:]))

	g := goldie.New(t)
	g.Assert(t, "table_single", buf.Bytes())
}

func TestNewRenderer_NilWriter(t *testing.T) {
	r := planview.NewRenderer(nil)
	assert.NotNil(t, r)
}
