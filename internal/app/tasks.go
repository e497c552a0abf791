package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"

	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/core/ports"
	"github.com/slatehq/slate/internal/engine/schedule"
)

// Init creates a fresh project in the current directory. An empty name
// defaults to the directory name.
func (a *App) Init(ctx context.Context, name string) (*domain.Project, error) {
	return traced(ctx, a.tracer, "project.init", func(_ context.Context, _ ports.Span) (*domain.Project, error) {
		dir, err := a.cwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to resolve working directory")
		}

		if name == "" {
			name = filepath.Base(dir)
		}

		project, err := a.loader.Init(dir, name)
		if err != nil {
			return nil, err
		}

		a.logger.Info(fmt.Sprintf("initialized project %q in %s", project.Name, domain.DefaultSlatePath(dir)))
		return project, nil
	})
}

// AddOptions are the fields a new task can be created with. Dependencies are
// given as id references and resolved before the task is written.
type AddOptions struct {
	Title     string
	List      string
	Start     *domain.Date
	Due       *domain.Date
	Duration  *int
	DependsOn []string
}

// AddTask creates a task. Date fields run through the reconciler so the
// stored start, due date and duration are consistent from the first write.
func (a *App) AddTask(ctx context.Context, opts AddOptions) (*domain.Task, error) {
	return traced(ctx, a.tracer, "task.add", func(ctx context.Context, span ports.Span) (*domain.Task, error) {
		if strings.TrimSpace(opts.Title) == "" {
			return nil, domain.ErrTitleRequired
		}

		s, err := a.session()
		if err != nil {
			return nil, err
		}

		var deps []domain.TaskID
		for _, ref := range opts.DependsOn {
			dep, err := resolve(s.snap, ref)
			if err != nil {
				return nil, err
			}
			if !slices.Contains(deps, dep.ID) {
				deps = append(deps, dep.ID)
			}
		}

		now := a.now().UTC()
		task := domain.Task{
			ID:        domain.NewTaskID(),
			Title:     strings.TrimSpace(opts.Title),
			List:      opts.List,
			DependsOn: deps,
			CreatedAt: now,
			UpdatedAt: now,
		}

		task, err = schedule.Reconcile(task, domain.Edit{
			Start:        opts.Start,
			Due:          opts.Due,
			DurationDays: opts.Duration,
		})
		if err != nil {
			return nil, err
		}

		if err := a.store.Put(s.project.Root, task); err != nil {
			return nil, err
		}

		span.SetAttribute("task", task.ID.String())
		a.logger.Info(fmt.Sprintf("added task %s %q", task.ID, task.Title))
		return &task, nil
	})
}

// EditTask merges a partial edit into a task and reschedules its dependents
// when the committed due date moved. Date edits to completed tasks are
// rejected; their schedule is frozen.
func (a *App) EditTask(ctx context.Context, ref string, edit domain.Edit) (*domain.Task, error) {
	return traced(ctx, a.tracer, "task.edit", func(ctx context.Context, span ports.Span) (*domain.Task, error) {
		if edit.Title != nil && strings.TrimSpace(*edit.Title) == "" {
			return nil, domain.ErrTitleRequired
		}

		s, err := a.session()
		if err != nil {
			return nil, err
		}

		task, err := resolve(s.snap, ref)
		if err != nil {
			return nil, err
		}
		span.SetAttribute("task", task.ID.String())

		if task.Completed && (edit.Start != nil || edit.Due != nil || edit.DurationDays != nil) {
			return nil, zerr.With(domain.ErrTaskAlreadyCompleted, "task_id", task.ID.String())
		}

		updated, err := schedule.Reconcile(task, edit)
		if err != nil {
			return nil, err
		}

		fields := updated.SchedulingFields()
		fields.Title = edit.Title
		fields.List = edit.List
		batch := []domain.Mutation{{ID: task.ID, Fields: fields}}

		var cascade []domain.Mutation
		if dueChanged(task.Due, updated.Due) {
			cascade = schedule.Propagate(s.snap.WithTask(updated), task.ID)
			batch = append(batch, cascade...)
		}

		if err := a.commit(ctx, s, batch); err != nil {
			return nil, err
		}

		updated.UpdatedAt = a.now().UTC()
		a.logger.Info(fmt.Sprintf("updated task %s", task.ID))
		if len(cascade) > 0 {
			a.logger.Info(fmt.Sprintf("rescheduled %d dependent task(s)", len(cascade)))
		}
		return &updated, nil
	})
}

// MoveResult reports where a task actually landed after a move.
type MoveResult struct {
	Task        domain.Task
	Requested   domain.Date
	Clamped     bool
	Rescheduled int
}

// MoveTask sets a task's start date. A start before the finish of the task's
// dependencies is clamped forward to the earliest possible day, and the rest
// of the schedule follows through the usual cascade.
func (a *App) MoveTask(ctx context.Context, ref string, start domain.Date) (*MoveResult, error) {
	return traced(ctx, a.tracer, "task.move", func(ctx context.Context, span ports.Span) (*MoveResult, error) {
		s, err := a.session()
		if err != nil {
			return nil, err
		}

		task, err := resolve(s.snap, ref)
		if err != nil {
			return nil, err
		}
		span.SetAttribute("task", task.ID.String())

		if task.Completed {
			return nil, zerr.With(domain.ErrTaskAlreadyCompleted, "task_id", task.ID.String())
		}

		clamped, wasClamped := schedule.ClampStart(start, task, s.snap)
		updated, err := schedule.Reconcile(task, domain.Edit{Start: &clamped})
		if err != nil {
			return nil, err
		}

		batch := []domain.Mutation{{ID: task.ID, Fields: updated.SchedulingFields()}}

		var cascade []domain.Mutation
		if dueChanged(task.Due, updated.Due) {
			cascade = schedule.Propagate(s.snap.WithTask(updated), task.ID)
			batch = append(batch, cascade...)
		}

		if err := a.commit(ctx, s, batch); err != nil {
			return nil, err
		}

		updated.UpdatedAt = a.now().UTC()
		if wasClamped {
			a.logger.Warn(fmt.Sprintf("start clamped to %s, dependencies finish later", clamped))
		}
		a.logger.Info(fmt.Sprintf("moved task %s to %s", task.ID, clamped))
		if len(cascade) > 0 {
			a.logger.Info(fmt.Sprintf("rescheduled %d dependent task(s)", len(cascade)))
		}
		return &MoveResult{Task: updated, Requested: start, Clamped: wasClamped, Rescheduled: len(cascade)}, nil
	})
}

// CompleteTask marks a task done as of today. Its dates freeze and dependents
// waiting on it are rescheduled against the completion day.
func (a *App) CompleteTask(ctx context.Context, ref string) (*domain.Task, error) {
	return traced(ctx, a.tracer, "task.complete", func(ctx context.Context, span ports.Span) (*domain.Task, error) {
		s, err := a.session()
		if err != nil {
			return nil, err
		}

		task, err := resolve(s.snap, ref)
		if err != nil {
			return nil, err
		}
		span.SetAttribute("task", task.ID.String())

		if task.Completed {
			return nil, zerr.With(domain.ErrTaskAlreadyCompleted, "task_id", task.ID.String())
		}

		at := a.today()
		updated := task.Clone()
		updated.Completed = true
		updated.CompletedAt = &at

		completion := domain.Completion{Done: true, At: &at}
		batch := []domain.Mutation{{ID: task.ID, Fields: domain.TaskFields{Completion: &completion}}}
		cascade := schedule.Propagate(s.snap.WithTask(updated), task.ID)
		batch = append(batch, cascade...)

		if err := a.commit(ctx, s, batch); err != nil {
			return nil, err
		}

		a.logger.Info(fmt.Sprintf("completed task %s", task.ID))
		if len(cascade) > 0 {
			a.logger.Info(fmt.Sprintf("rescheduled %d dependent task(s)", len(cascade)))
		}
		return &updated, nil
	})
}

// ReopenTask clears a task's completion. Dependents that were rescheduled
// against the completion day are re-timed against its due date again.
func (a *App) ReopenTask(ctx context.Context, ref string) (*domain.Task, error) {
	return traced(ctx, a.tracer, "task.reopen", func(ctx context.Context, span ports.Span) (*domain.Task, error) {
		s, err := a.session()
		if err != nil {
			return nil, err
		}

		task, err := resolve(s.snap, ref)
		if err != nil {
			return nil, err
		}
		span.SetAttribute("task", task.ID.String())

		if !task.Completed {
			return nil, zerr.With(domain.ErrTaskNotCompleted, "task_id", task.ID.String())
		}

		updated := task.Clone()
		updated.Completed = false
		updated.CompletedAt = nil

		completion := domain.Completion{Done: false}
		batch := []domain.Mutation{{ID: task.ID, Fields: domain.TaskFields{Completion: &completion}}}
		cascade := schedule.Propagate(s.snap.WithTask(updated), task.ID)
		batch = append(batch, cascade...)

		if err := a.commit(ctx, s, batch); err != nil {
			return nil, err
		}

		a.logger.Info(fmt.Sprintf("reopened task %s", task.ID))
		if len(cascade) > 0 {
			a.logger.Info(fmt.Sprintf("rescheduled %d dependent task(s)", len(cascade)))
		}
		return &updated, nil
	})
}

// RemoveTask deletes a task. References other tasks hold to it are left in
// place; the scheduler treats them as dead ends. Dependents are re-timed
// against their remaining dependencies.
func (a *App) RemoveTask(ctx context.Context, ref string) (*domain.Task, error) {
	return traced(ctx, a.tracer, "task.remove", func(ctx context.Context, span ports.Span) (*domain.Task, error) {
		s, err := a.session()
		if err != nil {
			return nil, err
		}

		task, err := resolve(s.snap, ref)
		if err != nil {
			return nil, err
		}
		span.SetAttribute("task", task.ID.String())

		batch := []domain.Mutation{{ID: task.ID, Remove: true}}
		cascade := schedule.Propagate(s.snap.WithoutTask(task.ID), task.ID)
		batch = append(batch, cascade...)

		if err := a.commit(ctx, s, batch); err != nil {
			return nil, err
		}

		a.logger.Info(fmt.Sprintf("removed task %s %q", task.ID, task.Title))
		if len(cascade) > 0 {
			a.logger.Info(fmt.Sprintf("rescheduled %d dependent task(s)", len(cascade)))
		}
		return &task, nil
	})
}
