package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Revision identifies the state of the task store at the moment a snapshot
// was read. Updates computed against a snapshot are rejected when the store
// has moved on to a different revision.
type Revision string

// Snapshot is an immutable view of all tasks at one point in time. Every
// scheduling computation runs against an explicit snapshot; there is no
// ambient task state. Dependency ids that resolve to no task are tolerated
// everywhere and treated as dead ends.
type Snapshot struct {
	tasks      map[TaskID]Task
	dependents map[TaskID][]TaskID
	ids        []TaskID
}

// NewSnapshot builds a snapshot from a task list. The reverse-dependency
// index is computed once here so cascades never rescan the full task set.
func NewSnapshot(tasks []Task) *Snapshot {
	s := &Snapshot{
		tasks:      make(map[TaskID]Task, len(tasks)),
		dependents: make(map[TaskID][]TaskID),
	}
	for _, t := range tasks {
		if _, seen := s.tasks[t.ID]; !seen {
			s.ids = append(s.ids, t.ID)
		}
		s.tasks[t.ID] = t
	}
	slices.Sort(s.ids)
	for _, id := range s.ids {
		for _, dep := range s.tasks[id].DependsOn {
			s.dependents[dep] = append(s.dependents[dep], id)
		}
	}
	return s
}

// Task returns the task with the given id.
func (s *Snapshot) Task(id TaskID) (Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// Len returns the number of tasks in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.tasks)
}

// Tasks returns an iterator over all tasks in id order.
func (s *Snapshot) Tasks() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, id := range s.ids {
			if !yield(s.tasks[id]) {
				return
			}
		}
	}
}

// Dependents returns the ids of tasks that list id as a direct dependency.
func (s *Snapshot) Dependents(id TaskID) []TaskID {
	return s.dependents[id]
}

// WithTask returns a new snapshot with t inserted or replaced. The receiver
// is left untouched.
func (s *Snapshot) WithTask(t Task) *Snapshot {
	tasks := make([]Task, 0, len(s.ids)+1)
	replaced := false
	for _, id := range s.ids {
		if id == t.ID {
			tasks = append(tasks, t)
			replaced = true
			continue
		}
		tasks = append(tasks, s.tasks[id])
	}
	if !replaced {
		tasks = append(tasks, t)
	}
	return NewSnapshot(tasks)
}

// WithoutTask returns a new snapshot with the task removed. References to
// the removed id in other tasks are left in place as dangling dead ends.
func (s *Snapshot) WithoutTask(id TaskID) *Snapshot {
	tasks := make([]Task, 0, len(s.ids))
	for _, existing := range s.ids {
		if existing == id {
			continue
		}
		tasks = append(tasks, s.tasks[existing])
	}
	return NewSnapshot(tasks)
}

// WouldCreateCycle reports whether adding candidate as a dependency of
// taskID would close a cycle. A task depending on itself always counts. The
// walk is iterative with an explicit stack and a visited set, so it is
// bounded even on malformed graphs; unknown ids end their branch.
func (s *Snapshot) WouldCreateCycle(taskID, candidate TaskID) bool {
	if taskID == candidate {
		return true
	}

	visited := make(map[TaskID]bool, len(s.tasks))
	stack := []TaskID{candidate}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == taskID {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		t, ok := s.tasks[id]
		if !ok {
			// Dangling reference, dead end.
			continue
		}
		stack = append(stack, t.DependsOn...)
	}

	return false
}

// TopoOrder returns all task ids ordered so that every task appears after
// its dependencies, with ties broken by id for stable output. It fails with
// ErrDependencyCycle when the graph contains a cycle; the error metadata
// carries the cycle path.
func (s *Snapshot) TopoOrder() ([]TaskID, error) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)

	order := make([]TaskID, 0, len(s.tasks))
	state := make(map[TaskID]int, len(s.tasks))

	for _, root := range s.ids {
		if state[root] != unvisited {
			continue
		}

		stack := []frame{{id: root}}
		state[root] = visiting

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := s.tasks[top.id].DependsOn

			if top.next < len(deps) {
				dep := deps[top.next]
				top.next++

				if _, ok := s.tasks[dep]; !ok {
					// Dangling reference, dead end.
					continue
				}
				switch state[dep] {
				case visiting:
					return nil, s.cycleError(stack, dep)
				case unvisited:
					state[dep] = visiting
					stack = append(stack, frame{id: dep})
				}
				continue
			}

			state[top.id] = done
			order = append(order, top.id)
			stack = stack[:len(stack)-1]
		}
	}

	return order, nil
}

// Validate checks that the dependency graph is acyclic.
func (s *Snapshot) Validate() error {
	_, err := s.TopoOrder()
	return err
}

// frame is one level of the iterative DFS in TopoOrder: a task id and how
// far through its dependency list the walk has progressed.
type frame struct {
	id   TaskID
	next int
}

func (s *Snapshot) cycleError(stack []frame, dep TaskID) error {
	start := 0
	for i, f := range stack {
		if f.id == dep {
			start = i
			break
		}
	}

	var b strings.Builder
	for i := start; i < len(stack); i++ {
		b.WriteString(stack[i].id.String())
		b.WriteString(" -> ")
	}
	b.WriteString(dep.String())

	return zerr.With(ErrDependencyCycle, "cycle", b.String())
}
