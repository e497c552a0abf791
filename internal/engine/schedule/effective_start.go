// Package schedule implements the scheduling engine: effective start
// calculation, start/due/duration reconciliation, cascade propagation and
// schedule analysis. Everything in here is pure. Task state comes in through
// a TaskSource and results go out as values or mutation batches; nothing
// touches a store.
package schedule

import (
	"github.com/slatehq/slate/internal/core/domain"
)

// TaskSource resolves task ids during scheduling computations. It is
// satisfied by *domain.Snapshot and by the working overlay a cascade
// maintains internally.
type TaskSource interface {
	Task(id domain.TaskID) (domain.Task, bool)
}

// EffectiveStart computes the earliest date a task may start, given its
// dependencies:
//
//   - no dependencies, or none that resolve: nil, the task is unconstrained
//   - every resolved dependency completed: the latest completion date, or
//     nil when no completion carries one
//   - otherwise: the latest due date among the resolved dependencies, or
//     nil when none has one
//
// Dependency ids that resolve to no task are dead ends and do not
// constrain the task.
func EffectiveStart(task domain.Task, src TaskSource) *domain.Date {
	deps := resolveDeps(task, src)
	if len(deps) == 0 {
		return nil
	}

	done := allCompleted(deps)

	var latest *domain.Date
	for _, dep := range deps {
		candidate := dep.Due
		if done {
			candidate = dep.CompletedAt
		}
		if candidate == nil {
			continue
		}
		if latest == nil || candidate.After(*latest) {
			d := *candidate
			latest = &d
		}
	}
	return latest
}

func resolveDeps(task domain.Task, src TaskSource) []domain.Task {
	deps := make([]domain.Task, 0, len(task.DependsOn))
	for _, id := range task.DependsOn {
		dep, ok := src.Task(id)
		if !ok {
			// Dangling reference, dead end.
			continue
		}
		deps = append(deps, dep)
	}
	return deps
}

func allCompleted(deps []domain.Task) bool {
	for _, dep := range deps {
		if !dep.Completed {
			return false
		}
	}
	return true
}
