package schedule_test

import (
	"testing"

	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/engine/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *domain.Date {
	d := day(s)
	return &d
}

func num(n int) *int {
	return &n
}

func TestEffectiveStart(t *testing.T) {
	tests := []struct {
		name string
		deps []domain.Task
		task domain.Task
		want *domain.Date
	}{
		{
			name: "no dependencies",
			task: domain.Task{ID: "t"},
			want: nil,
		},
		{
			name: "all dependencies dangling",
			task: domain.Task{ID: "t", DependsOn: []domain.TaskID{"ghost1", "ghost2"}},
			want: nil,
		},
		{
			name: "pending dependency with due date",
			deps: []domain.Task{
				{ID: "a", Due: dayPtr("2025-01-10")},
			},
			task: domain.Task{ID: "t", DependsOn: []domain.TaskID{"a"}},
			want: dayPtr("2025-01-10"),
		},
		{
			name: "latest due date wins",
			deps: []domain.Task{
				{ID: "a", Due: dayPtr("2025-01-10")},
				{ID: "b", Due: dayPtr("2025-02-01")},
				{ID: "c", Due: dayPtr("2025-01-20")},
			},
			task: domain.Task{ID: "t", DependsOn: []domain.TaskID{"a", "b", "c"}},
			want: dayPtr("2025-02-01"),
		},
		{
			name: "pending dependencies without due dates",
			deps: []domain.Task{
				{ID: "a", Start: dayPtr("2025-01-01")},
				{ID: "b"},
			},
			task: domain.Task{ID: "t", DependsOn: []domain.TaskID{"a", "b"}},
			want: nil,
		},
		{
			name: "all completed uses latest completion",
			deps: []domain.Task{
				{ID: "a", Completed: true, CompletedAt: dayPtr("2025-01-05")},
				{ID: "b", Completed: true, CompletedAt: dayPtr("2025-01-12")},
			},
			task: domain.Task{ID: "t", DependsOn: []domain.TaskID{"a", "b"}},
			want: dayPtr("2025-01-12"),
		},
		{
			name: "all completed ignores due dates",
			deps: []domain.Task{
				{ID: "a", Completed: true, CompletedAt: dayPtr("2025-01-05"), Due: dayPtr("2025-03-01")},
			},
			task: domain.Task{ID: "t", DependsOn: []domain.TaskID{"a"}},
			want: dayPtr("2025-01-05"),
		},
		{
			name: "all completed without completion dates",
			deps: []domain.Task{
				{ID: "a", Completed: true},
				{ID: "b", Completed: true},
			},
			task: domain.Task{ID: "t", DependsOn: []domain.TaskID{"a", "b"}},
			want: nil,
		},
		{
			name: "mixed completion uses due dates only",
			deps: []domain.Task{
				{ID: "a", Completed: true, CompletedAt: dayPtr("2025-12-31")},
				{ID: "b", Due: dayPtr("2025-01-15")},
			},
			task: domain.Task{ID: "t", DependsOn: []domain.TaskID{"a", "b"}},
			want: dayPtr("2025-01-15"),
		},
		{
			name: "completed dependency due date still counts",
			deps: []domain.Task{
				{ID: "a", Completed: true, Due: dayPtr("2025-01-10")},
				{ID: "b", Due: dayPtr("2025-01-08")},
			},
			task: domain.Task{ID: "t", DependsOn: []domain.TaskID{"a", "b"}},
			want: dayPtr("2025-01-10"),
		},
		{
			name: "dangling id among real dependencies",
			deps: []domain.Task{
				{ID: "a", Due: dayPtr("2025-01-10")},
			},
			task: domain.Task{ID: "t", DependsOn: []domain.TaskID{"ghost", "a"}},
			want: dayPtr("2025-01-10"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := domain.NewSnapshot(tt.deps)

			got := schedule.EffectiveStart(tt.task, snap)

			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}
