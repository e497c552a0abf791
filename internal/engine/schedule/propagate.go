package schedule

import (
	"slices"

	"github.com/slatehq/slate/internal/core/domain"
)

// overlay layers the working copies of re-timed tasks over a base snapshot
// so each cascade step sees the results of the steps before it.
type overlay struct {
	base    *domain.Snapshot
	changed map[domain.TaskID]domain.Task
}

func (o *overlay) Task(id domain.TaskID) (domain.Task, bool) {
	if t, ok := o.changed[id]; ok {
		return t, true
	}
	return o.base.Task(id)
}

// Propagate re-times everything downstream of changed and returns the field
// updates to persist, in application order. Dependents are collected
// breadth-first over the reverse-dependency index, ordered topologically,
// and each is adjusted exactly once against the results of the tasks before
// it, so a second run over the applied result yields no further updates.
// Completed tasks keep their dates. Tasks on a dependency cycle never
// become ready and are left untouched, which bounds the cascade even on a
// malformed snapshot.
func Propagate(snap *domain.Snapshot, changed domain.TaskID) []domain.Mutation {
	closure := dependentClosure(snap, changed)
	if len(closure) == 0 {
		return nil
	}

	src := &overlay{base: snap, changed: make(map[domain.TaskID]domain.Task, len(closure))}
	var batch []domain.Mutation

	for _, id := range closureOrder(snap, closure) {
		task, ok := snap.Task(id)
		if !ok || task.Completed {
			continue
		}
		updated, moved := Adjust(task, src)
		if !moved {
			continue
		}
		src.changed[id] = updated
		batch = append(batch, domain.Mutation{ID: id, Fields: updated.SchedulingFields()})
	}

	return batch
}

// Adjust re-times a single task against its dependencies. It returns the
// updated task and whether anything moved. The start moves forward whenever
// the dependencies demand a later date. It moves backward only when the
// current start was derived by the scheduler, so a date the user chose is
// never pulled earlier. Any start the adjustment sets is tagged as derived.
// A task whose pinned due date cannot accommodate the new start is left
// untouched.
func Adjust(task domain.Task, src TaskSource) (domain.Task, bool) {
	eff := EffectiveStart(task, src)
	if eff == nil {
		return task, false
	}

	move := false
	switch {
	case task.Start == nil:
		move = true
	case eff.After(*task.Start):
		move = true
	case eff.Before(*task.Start):
		move = task.StartOrigin == domain.OriginDerived
	}
	if !move {
		return task, false
	}

	updated, err := Reconcile(task, domain.Edit{Start: eff})
	if err != nil {
		return task, false
	}
	updated.StartOrigin = domain.OriginDerived
	return updated, true
}

// dependentClosure collects every task reachable from changed through the
// reverse-dependency index. The changed task itself already carries its new
// state and is never part of the closure.
func dependentClosure(snap *domain.Snapshot, changed domain.TaskID) map[domain.TaskID]bool {
	closure := make(map[domain.TaskID]bool)
	queue := []domain.TaskID{changed}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, dependent := range snap.Dependents(id) {
			if closure[dependent] || dependent == changed {
				continue
			}
			closure[dependent] = true
			queue = append(queue, dependent)
		}
	}

	return closure
}

// closureOrder orders closure members so every task comes after the members
// it depends on, with ties broken by id for stable batches. Dependencies
// outside the closure are already settled and impose no ordering.
func closureOrder(snap *domain.Snapshot, closure map[domain.TaskID]bool) []domain.TaskID {
	degree := make(map[domain.TaskID]int, len(closure))
	for id := range closure {
		task, _ := snap.Task(id)
		for _, dep := range task.DependsOn {
			if closure[dep] {
				degree[id]++
			}
		}
	}

	ready := make([]domain.TaskID, 0, len(closure))
	for id := range closure {
		if degree[id] == 0 {
			ready = append(ready, id)
		}
	}
	slices.Sort(ready)

	order := make([]domain.TaskID, 0, len(closure))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, dependent := range snap.Dependents(id) {
			if !closure[dependent] {
				continue
			}
			degree[dependent]--
			if degree[dependent] == 0 {
				at, _ := slices.BinarySearch(ready, dependent)
				ready = slices.Insert(ready, at, dependent)
			}
		}
	}

	return order
}
