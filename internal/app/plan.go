package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.trai.ch/zerr"

	"github.com/slatehq/slate/internal/adapters/planfile"
	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/core/ports"
	"github.com/slatehq/slate/internal/engine/schedule"
)

// ScheduleEntry is one task in the computed schedule, together with what the
// engine derived about it.
type ScheduleEntry struct {
	Task           domain.Task
	EffectiveStart *domain.Date
	Predicted      bool
	Blocked        bool
	Bottleneck     *domain.TaskID
}

// Schedule is the computed schedule of a whole project in dependency order.
type Schedule struct {
	Project  string
	Revision domain.Revision
	Entries  []ScheduleEntry
}

// Plan computes the schedule for every task in the project. Tasks come out
// in dependency order, so a task is always listed after the tasks it waits
// on. Entries do not modify the store; predicted dates stay computed.
func (a *App) Plan(ctx context.Context) (*Schedule, error) {
	return traced(ctx, a.tracer, "plan", func(_ context.Context, _ ports.Span) (*Schedule, error) {
		s, err := a.session()
		if err != nil {
			return nil, err
		}
		return buildSchedule(s)
	})
}

func buildSchedule(s *session) (*Schedule, error) {
	order, err := s.snap.TopoOrder()
	if err != nil {
		return nil, err
	}

	entries := make([]ScheduleEntry, 0, len(order))
	for _, id := range order {
		task, _ := s.snap.Task(id)
		entries = append(entries, ScheduleEntry{
			Task:           task,
			EffectiveStart: schedule.EffectiveStart(task, s.snap),
			Predicted:      schedule.Predicted(task, s.snap),
			Blocked:        schedule.IsBlocked(task, s.snap),
			Bottleneck:     schedule.Bottleneck(task, s.snap),
		})
	}

	return &Schedule{Project: s.project.Name, Revision: s.rev, Entries: entries}, nil
}

// TaskDetail is a single task with its derived scheduling state, as shown by
// the show command.
type TaskDetail struct {
	Task           domain.Task
	EffectiveStart *domain.Date
	Predicted      bool
	Blocked        bool
	Bottleneck     *domain.TaskID
	Dependents     []domain.TaskID
}

// ShowTask reports one task plus everything the engine derives about it.
func (a *App) ShowTask(ctx context.Context, ref string) (*TaskDetail, error) {
	return traced(ctx, a.tracer, "task.show", func(_ context.Context, span ports.Span) (*TaskDetail, error) {
		s, err := a.session()
		if err != nil {
			return nil, err
		}

		task, err := resolve(s.snap, ref)
		if err != nil {
			return nil, err
		}
		span.SetAttribute("task", task.ID.String())

		return &TaskDetail{
			Task:           task,
			EffectiveStart: schedule.EffectiveStart(task, s.snap),
			Predicted:      schedule.Predicted(task, s.snap),
			Blocked:        schedule.IsBlocked(task, s.snap),
			Bottleneck:     schedule.Bottleneck(task, s.snap),
			Dependents:     s.snap.Dependents(task.ID),
		}, nil
	})
}

// ListTasks returns the project's tasks in id order, optionally filtered by
// list name.
func (a *App) ListTasks(ctx context.Context, list string) ([]domain.Task, error) {
	return traced(ctx, a.tracer, "task.list", func(_ context.Context, _ ports.Span) ([]domain.Task, error) {
		s, err := a.session()
		if err != nil {
			return nil, err
		}

		tasks := make([]domain.Task, 0, s.snap.Len())
		for task := range s.snap.Tasks() {
			if list != "" && task.List != list {
				continue
			}
			tasks = append(tasks, task)
		}
		return tasks, nil
	})
}

// ImportResult reports what an import created. IDs maps the plan's local
// references to the ids the tasks were minted under.
type ImportResult struct {
	Imported int
	IDs      map[string]domain.TaskID
}

// ImportPlan reads a plan document and creates its tasks. Plan references
// are replaced by freshly minted ids, dependency edges are rewired
// accordingly, and the whole file is rejected if its tasks form a cycle.
// Nothing is written until the full plan has been validated.
func (a *App) ImportPlan(ctx context.Context, r io.Reader) (*ImportResult, error) {
	return traced(ctx, a.tracer, "plan.import", func(_ context.Context, span ports.Span) (*ImportResult, error) {
		s, err := a.session()
		if err != nil {
			return nil, err
		}

		plan, err := a.plans.Decode(r)
		if err != nil {
			return nil, err
		}

		ids := make(map[string]domain.TaskID, len(plan.Tasks))
		for _, pt := range plan.Tasks {
			ids[pt.ID] = domain.NewTaskID()
		}

		now := a.now().UTC()
		tasks := make([]domain.Task, 0, len(plan.Tasks))
		merged := s.snap
		for _, pt := range plan.Tasks {
			task, err := taskFromPlan(pt, ids, now)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
			merged = merged.WithTask(task)
		}

		if err := merged.Validate(); err != nil {
			return nil, zerr.Wrap(err, domain.ErrPlanInvalid.Error())
		}

		for _, task := range tasks {
			if err := a.store.Put(s.project.Root, task); err != nil {
				return nil, err
			}
		}

		span.SetAttribute("tasks", len(tasks))
		a.logger.Info(fmt.Sprintf("imported %d task(s)", len(tasks)))
		return &ImportResult{Imported: len(tasks), IDs: ids}, nil
	})
}

// taskFromPlan converts one plan entry into a task document. The start, due
// date and duration are completed against each other the same way the
// reconciler would, with the due date taking precedence when all three are
// present.
func taskFromPlan(pt planfile.Task, ids map[string]domain.TaskID, now time.Time) (domain.Task, error) {
	deps := make([]domain.TaskID, 0, len(pt.DependsOn))
	for _, ref := range pt.DependsOn {
		deps = append(deps, ids[ref])
	}
	if len(deps) == 0 {
		deps = nil
	}

	task := domain.Task{
		ID:        ids[pt.ID],
		Title:     pt.Title,
		List:      pt.List,
		DependsOn: deps,
		DueFixed:  pt.Fixed,
		Completed: pt.Done,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pt.Start != nil {
		start := *pt.Start
		task.Start = &start
		task.StartOrigin = domain.OriginUser
	}
	if pt.Due != nil {
		due := *pt.Due
		task.Due = &due
	}
	if pt.Duration != nil {
		d := *pt.Duration
		task.DurationDays = &d
	}
	if pt.Done && pt.CompletedAt != nil {
		at := *pt.CompletedAt
		task.CompletedAt = &at
	}

	switch {
	case task.Start != nil && task.Due != nil:
		if task.Due.Before(*task.Start) {
			err := zerr.With(domain.ErrDueBeforeStart, "plan_ref", pt.ID)
			return domain.Task{}, zerr.Wrap(err, domain.ErrPlanInvalid.Error())
		}
		days := task.Start.DaysUntil(*task.Due) + 1
		task.DurationDays = &days
	case task.Start != nil && task.DurationDays != nil && !task.DueFixed:
		due := task.Start.AddDays(*task.DurationDays - 1)
		task.Due = &due
	}

	return task, nil
}

// ExportPlan writes the project as a plan document. Tasks are exported in
// dependency order under their store ids; dependency edges whose target no
// longer exists are dropped so the document always imports cleanly.
func (a *App) ExportPlan(ctx context.Context, w io.Writer) (int, error) {
	return traced(ctx, a.tracer, "plan.export", func(_ context.Context, span ports.Span) (int, error) {
		s, err := a.session()
		if err != nil {
			return 0, err
		}

		order, err := s.snap.TopoOrder()
		if err != nil {
			return 0, err
		}

		plan := &planfile.Plan{
			Version: planfile.PlanVersion,
			Project: s.project.Name,
			Tasks:   make([]planfile.Task, 0, len(order)),
		}
		for _, id := range order {
			task, _ := s.snap.Task(id)
			plan.Tasks = append(plan.Tasks, planToTask(task, s.snap))
		}

		if err := a.plans.Encode(w, plan); err != nil {
			return 0, err
		}

		span.SetAttribute("tasks", len(plan.Tasks))
		a.logger.Info(fmt.Sprintf("exported %d task(s)", len(plan.Tasks)))
		return len(plan.Tasks), nil
	})
}

func planToTask(task domain.Task, snap *domain.Snapshot) planfile.Task {
	pt := planfile.Task{
		ID:          task.ID.String(),
		Title:       task.Title,
		List:        task.List,
		Start:       task.Start,
		Due:         task.Due,
		Duration:    task.DurationDays,
		Fixed:       task.DueFixed,
		Done:        task.Completed,
		CompletedAt: task.CompletedAt,
	}
	for _, dep := range task.DependsOn {
		if _, ok := snap.Task(dep); ok {
			pt.DependsOn = append(pt.DependsOn, dep.String())
		}
	}
	return pt
}
