package schedule

import (
	"github.com/slatehq/slate/internal/core/domain"
)

// IsBlocked reports whether the task is waiting on at least one incomplete
// dependency. Completed tasks are never blocked, and dependency ids that
// resolve to no task do not block.
func IsBlocked(task domain.Task, src TaskSource) bool {
	if task.Completed {
		return false
	}
	for _, id := range task.DependsOn {
		if dep, ok := src.Task(id); ok && !dep.Completed {
			return true
		}
	}
	return false
}

// Bottleneck names the dependency that determines the task's effective
// start: the one whose completion or due date pushes the start the latest.
// A tie goes to the dependency listed first. It returns nil when no
// resolved dependency carries a deciding date.
func Bottleneck(task domain.Task, src TaskSource) *domain.TaskID {
	deps := resolveDeps(task, src)
	if len(deps) == 0 {
		return nil
	}

	done := allCompleted(deps)

	var (
		winner *domain.TaskID
		latest *domain.Date
	)
	for _, dep := range deps {
		candidate := dep.Due
		if done {
			candidate = dep.CompletedAt
		}
		if candidate == nil {
			continue
		}
		if latest == nil || candidate.After(*latest) {
			id := dep.ID
			d := *candidate
			winner = &id
			latest = &d
		}
	}
	return winner
}

// Predicted reports whether the task's start is scheduler-derived rather
// than user-chosen: either the stored start was computed from dependencies,
// or the task has no start yet but its dependencies already imply one.
// Completed tasks are never predicted.
func Predicted(task domain.Task, src TaskSource) bool {
	if task.Completed {
		return false
	}
	if task.Start == nil {
		return EffectiveStart(task, src) != nil
	}
	return task.StartOrigin == domain.OriginDerived
}

// ClampStart bounds a requested start date by the task's effective start.
// It returns the date to use and whether the request was clamped.
func ClampStart(requested domain.Date, task domain.Task, src TaskSource) (domain.Date, bool) {
	if eff := EffectiveStart(task, src); eff != nil && eff.After(requested) {
		return *eff, true
	}
	return requested, false
}
