package schedule_test

import (
	"testing"

	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/engine/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_DueDateEdit(t *testing.T) {
	task := domain.Task{
		ID:           "t",
		Start:        dayPtr("2025-01-01"),
		Due:          dayPtr("2025-01-05"),
		DurationDays: num(5),
	}

	out, err := schedule.Reconcile(task, domain.Edit{Due: dayPtr("2025-01-10")})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-10", out.Due.String())
	assert.True(t, out.DueFixed)
	assert.Equal(t, 10, *out.DurationDays)
	assert.Equal(t, "2025-01-01", out.Start.String(), "start is untouched")
}

func TestReconcile_DueDateEditWithoutStart(t *testing.T) {
	out, err := schedule.Reconcile(domain.Task{ID: "t"}, domain.Edit{Due: dayPtr("2025-01-10")})
	require.NoError(t, err)

	assert.True(t, out.DueFixed)
	assert.Nil(t, out.DurationDays, "no start to span from")
	assert.Nil(t, out.Start)
}

func TestReconcile_DurationEdit(t *testing.T) {
	task := domain.Task{
		ID:           "t",
		Start:        dayPtr("2025-01-01"),
		Due:          dayPtr("2025-01-10"),
		DueFixed:     true,
		DurationDays: num(10),
	}

	out, err := schedule.Reconcile(task, domain.Edit{DurationDays: num(3)})
	require.NoError(t, err)

	assert.False(t, out.DueFixed, "a duration edit unpins the due date")
	assert.Equal(t, 3, *out.DurationDays)
	assert.Equal(t, "2025-01-03", out.Due.String())
}

func TestReconcile_DurationEditWithoutStart(t *testing.T) {
	task := domain.Task{ID: "t", Due: dayPtr("2025-04-01"), DueFixed: true}

	out, err := schedule.Reconcile(task, domain.Edit{DurationDays: num(4)})
	require.NoError(t, err)

	assert.Equal(t, 4, *out.DurationDays)
	assert.False(t, out.DueFixed)
	assert.Equal(t, "2025-04-01", out.Due.String(), "no start to derive a new due date from")
}

func TestReconcile_DueDateWinsOverDuration(t *testing.T) {
	task := domain.Task{ID: "t", Start: dayPtr("2025-01-01")}

	out, err := schedule.Reconcile(task, domain.Edit{
		Due:          dayPtr("2025-01-04"),
		DurationDays: num(99),
	})
	require.NoError(t, err)

	assert.True(t, out.DueFixed)
	assert.Equal(t, "2025-01-04", out.Due.String())
	assert.Equal(t, 4, *out.DurationDays, "duration follows the due date edit")
}

func TestReconcile_StartEdit(t *testing.T) {
	t.Run("slides unpinned due date", func(t *testing.T) {
		task := domain.Task{
			ID:           "t",
			Start:        dayPtr("2025-01-01"),
			Due:          dayPtr("2025-01-05"),
			DurationDays: num(5),
		}

		out, err := schedule.Reconcile(task, domain.Edit{Start: dayPtr("2025-02-01")})
		require.NoError(t, err)

		assert.Equal(t, "2025-02-01", out.Start.String())
		assert.Equal(t, "2025-02-05", out.Due.String())
		assert.Equal(t, 5, *out.DurationDays)
		assert.Equal(t, domain.OriginUser, out.StartOrigin)
	})

	t.Run("rederives duration against pinned due date", func(t *testing.T) {
		task := domain.Task{
			ID:           "t",
			Start:        dayPtr("2025-01-01"),
			Due:          dayPtr("2025-01-10"),
			DueFixed:     true,
			DurationDays: num(10),
		}

		out, err := schedule.Reconcile(task, domain.Edit{Start: dayPtr("2025-01-06")})
		require.NoError(t, err)

		assert.Equal(t, "2025-01-10", out.Due.String(), "pinned due date holds")
		assert.Equal(t, 5, *out.DurationDays)
	})

	t.Run("derives missing duration from previous span", func(t *testing.T) {
		task := domain.Task{
			ID:    "t",
			Start: dayPtr("2025-01-01"),
			Due:   dayPtr("2025-01-03"),
		}

		out, err := schedule.Reconcile(task, domain.Edit{Start: dayPtr("2025-03-01")})
		require.NoError(t, err)

		assert.Equal(t, 3, *out.DurationDays)
		assert.Equal(t, "2025-03-03", out.Due.String())
	})

	t.Run("start alone stays alone", func(t *testing.T) {
		out, err := schedule.Reconcile(domain.Task{ID: "t"}, domain.Edit{Start: dayPtr("2025-01-01")})
		require.NoError(t, err)

		assert.Equal(t, "2025-01-01", out.Start.String())
		assert.Nil(t, out.Due)
		assert.Nil(t, out.DurationDays)
	})
}

func TestReconcile_Rejections(t *testing.T) {
	t.Run("due before start", func(t *testing.T) {
		task := domain.Task{ID: "t", Start: dayPtr("2025-01-10")}

		_, err := schedule.Reconcile(task, domain.Edit{Due: dayPtr("2025-01-05")})

		require.ErrorIs(t, err, domain.ErrDueBeforeStart)
	})

	t.Run("start after pinned due", func(t *testing.T) {
		task := domain.Task{
			ID:           "t",
			Start:        dayPtr("2025-01-01"),
			Due:          dayPtr("2025-01-05"),
			DueFixed:     true,
			DurationDays: num(5),
		}

		_, err := schedule.Reconcile(task, domain.Edit{Start: dayPtr("2025-02-01")})

		require.ErrorIs(t, err, domain.ErrDueBeforeStart)
	})

	t.Run("zero duration", func(t *testing.T) {
		_, err := schedule.Reconcile(domain.Task{ID: "t"}, domain.Edit{DurationDays: num(0)})

		require.ErrorIs(t, err, domain.ErrInvalidDuration)
	})

	t.Run("negative duration", func(t *testing.T) {
		_, err := schedule.Reconcile(domain.Task{ID: "t"}, domain.Edit{DurationDays: num(-3)})

		require.ErrorIs(t, err, domain.ErrInvalidDuration)
	})
}

func TestReconcile_SameDayDue(t *testing.T) {
	task := domain.Task{ID: "t", Start: dayPtr("2025-01-05")}

	out, err := schedule.Reconcile(task, domain.Edit{Due: dayPtr("2025-01-05")})
	require.NoError(t, err)

	assert.Equal(t, 1, *out.DurationDays, "same start and due spans one day")
}

func TestReconcile_TitleAndList(t *testing.T) {
	title := "renamed"
	list := "done"

	out, err := schedule.Reconcile(domain.Task{ID: "t", Title: "old"}, domain.Edit{Title: &title, List: &list})
	require.NoError(t, err)

	assert.Equal(t, "renamed", out.Title)
	assert.Equal(t, "done", out.List)
}

func TestReconcile_UntouchedFieldsRetained(t *testing.T) {
	task := domain.Task{
		ID:           "t",
		Title:        "keep me",
		List:         "doing",
		DependsOn:    []domain.TaskID{"a"},
		Start:        dayPtr("2025-01-01"),
		Due:          dayPtr("2025-01-05"),
		DurationDays: num(5),
	}

	out, err := schedule.Reconcile(task, domain.Edit{Due: dayPtr("2025-01-07")})
	require.NoError(t, err)

	assert.Equal(t, "keep me", out.Title)
	assert.Equal(t, "doing", out.List)
	assert.Equal(t, []domain.TaskID{"a"}, out.DependsOn)
	assert.Equal(t, "2025-01-01", out.Start.String())
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	task := domain.Task{
		ID:           "t",
		Start:        dayPtr("2025-01-01"),
		Due:          dayPtr("2025-01-05"),
		DurationDays: num(5),
	}

	_, err := schedule.Reconcile(task, domain.Edit{Start: dayPtr("2025-06-01")})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", task.Start.String())
	assert.Equal(t, "2025-01-05", task.Due.String())
	assert.Equal(t, 5, *task.DurationDays)
}
