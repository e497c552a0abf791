package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/zerr"

	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/core/ports"
	"github.com/slatehq/slate/internal/engine/schedule"
)

// AddDependency makes task depend on dep. The edge is rejected before any
// date computation when it would close a cycle; a self-reference is always a
// cycle. The task's own start may be pulled forward to the dependency's
// finish, and its dependents follow.
func (a *App) AddDependency(ctx context.Context, taskRef, depRef string) (*domain.Task, error) {
	return traced(ctx, a.tracer, "dep.add", func(ctx context.Context, span ports.Span) (*domain.Task, error) {
		s, err := a.session()
		if err != nil {
			return nil, err
		}

		task, err := resolve(s.snap, taskRef)
		if err != nil {
			return nil, err
		}
		dep, err := resolve(s.snap, depRef)
		if err != nil {
			return nil, err
		}
		span.SetAttribute("task", task.ID.String())
		span.SetAttribute("dependency", dep.ID.String())

		if task.ID == dep.ID || s.snap.WouldCreateCycle(task.ID, dep.ID) {
			err := zerr.With(domain.ErrDependencyCycle, "task_id", task.ID.String())
			return nil, zerr.With(err, "dependency_id", dep.ID.String())
		}
		if task.DependsOnTask(dep.ID) {
			err := zerr.With(domain.ErrDependencyExists, "task_id", task.ID.String())
			return nil, zerr.With(err, "dependency_id", dep.ID.String())
		}

		updated := task.Clone()
		updated.DependsOn = append(updated.DependsOn, dep.ID)

		// Completed tasks keep their dates; only the edge changes.
		if !task.Completed {
			if adjusted, moved := schedule.Adjust(updated, s.snap.WithTask(updated)); moved {
				updated = adjusted
			}
		}

		rescheduled, err := a.commitDependsOn(ctx, s, task, updated)
		if err != nil {
			return nil, err
		}

		a.logger.Info(fmt.Sprintf("task %s now depends on %s", task.ID, dep.ID))
		if rescheduled > 0 {
			a.logger.Info(fmt.Sprintf("rescheduled %d dependent task(s)", rescheduled))
		}
		return &updated, nil
	})
}

// RemoveDependency drops a dependency edge. The reference is matched against
// the task's own dependency list, so an edge left dangling by a removed task
// can still be dropped. A derived start may relax backward once the edge is
// gone; a user-chosen start stays put.
func (a *App) RemoveDependency(ctx context.Context, taskRef, depRef string) (*domain.Task, error) {
	return traced(ctx, a.tracer, "dep.remove", func(ctx context.Context, span ports.Span) (*domain.Task, error) {
		s, err := a.session()
		if err != nil {
			return nil, err
		}

		task, err := resolve(s.snap, taskRef)
		if err != nil {
			return nil, err
		}
		span.SetAttribute("task", task.ID.String())

		depID, err := resolveListed(task, depRef)
		if err != nil {
			return nil, err
		}
		span.SetAttribute("dependency", depID.String())

		updated := task.Clone()
		updated.DependsOn = slices.DeleteFunc(updated.DependsOn, func(id domain.TaskID) bool {
			return id == depID
		})

		if !task.Completed {
			if adjusted, moved := schedule.Adjust(updated, s.snap.WithTask(updated)); moved {
				updated = adjusted
			}
		}

		rescheduled, err := a.commitDependsOn(ctx, s, task, updated)
		if err != nil {
			return nil, err
		}

		a.logger.Info(fmt.Sprintf("task %s no longer depends on %s", task.ID, depID))
		if rescheduled > 0 {
			a.logger.Info(fmt.Sprintf("rescheduled %d dependent task(s)", rescheduled))
		}
		return &updated, nil
	})
}

// commitDependsOn persists a dependency-list change together with whatever
// the adjustment did to the task's dates, then cascades to dependents when
// the due date moved. It returns the number of re-timed dependents.
func (a *App) commitDependsOn(ctx context.Context, s *session, before, updated domain.Task) (int, error) {
	fields := updated.SchedulingFields()
	deps := slices.Clone(updated.DependsOn)
	fields.DependsOn = &deps
	batch := []domain.Mutation{{ID: updated.ID, Fields: fields}}

	var cascade []domain.Mutation
	if dueChanged(before.Due, updated.Due) {
		cascade = schedule.Propagate(s.snap.WithTask(updated), updated.ID)
		batch = append(batch, cascade...)
	}

	if err := a.commit(ctx, s, batch); err != nil {
		return 0, err
	}
	return len(cascade), nil
}

// resolveListed matches a reference against the ids a task lists as
// dependencies, the same way resolve matches against the snapshot.
func resolveListed(task domain.Task, ref string) (domain.TaskID, error) {
	if ref == "" {
		return "", zerr.With(domain.ErrDependencyNotFound, "ref", ref)
	}

	if slices.Contains(task.DependsOn, domain.TaskID(ref)) {
		return domain.TaskID(ref), nil
	}

	var matches []domain.TaskID
	for _, id := range task.DependsOn {
		if strings.HasPrefix(id.String(), ref) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		err := zerr.With(domain.ErrDependencyNotFound, "task_id", task.ID.String())
		return "", zerr.With(err, "ref", ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, id := range matches {
			ids[i] = id.String()
		}
		err := zerr.With(domain.ErrAmbiguousTaskID, "ref", ref)
		return "", zerr.With(err, "matches", strings.Join(ids, ", "))
	}
}
