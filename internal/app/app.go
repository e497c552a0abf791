// Package app implements the use cases of the slate CLI. Every operation
// follows the same shape: load a snapshot of the store, run the scheduling
// engine against it, and commit the resulting mutation batch in one
// revision-checked write. The engine itself never touches disk.
package app

import (
	"context"
	"os"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"github.com/slatehq/slate/internal/adapters/planfile"
	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/core/ports"
)

// App wires the scheduling engine to the adapters around it.
type App struct {
	loader  ports.ManifestLoader
	store   ports.TaskStore
	plans   *planfile.Codec
	watcher ports.Watcher
	logger  ports.Logger
	tracer  ports.Tracer

	now func() time.Time
	cwd func() (string, error)
}

// New creates an App from its collaborators.
func New(loader ports.ManifestLoader, store ports.TaskStore, plans *planfile.Codec, watcher ports.Watcher, logger ports.Logger, tracer ports.Tracer) *App {
	return &App{
		loader:  loader,
		store:   store,
		plans:   plans,
		watcher: watcher,
		logger:  logger,
		tracer:  tracer,
		now:     time.Now,
		cwd:     os.Getwd,
	}
}

// WithNow overrides the clock. Used by tests.
func (a *App) WithNow(now func() time.Time) *App {
	a.now = now
	return a
}

// WithWorkingDir pins the directory project discovery starts from. Used by
// tests.
func (a *App) WithWorkingDir(dir string) *App {
	a.cwd = func() (string, error) { return dir, nil }
	return a
}

// session is one consistent view of the project: the manifest, a snapshot of
// every task, and the store revision the snapshot was read at.
type session struct {
	project *domain.Project
	snap    *domain.Snapshot
	rev     domain.Revision
}

func (a *App) session() (*session, error) {
	dir, err := a.cwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve working directory")
	}

	project, err := a.loader.Load(dir)
	if err != nil {
		return nil, err
	}

	tasks, rev, err := a.store.Load(project.Root)
	if err != nil {
		return nil, err
	}

	return &session{project: project, snap: domain.NewSnapshot(tasks), rev: rev}, nil
}

// resolve finds the task a user-supplied reference points at. An exact id
// match wins; otherwise the reference is treated as an id prefix and must
// match exactly one task.
func resolve(snap *domain.Snapshot, ref string) (domain.Task, error) {
	if ref == "" {
		return domain.Task{}, zerr.With(domain.ErrTaskNotFound, "ref", ref)
	}

	if task, ok := snap.Task(domain.TaskID(ref)); ok {
		return task, nil
	}

	var matches []domain.Task
	for task := range snap.Tasks() {
		if strings.HasPrefix(task.ID.String(), ref) {
			matches = append(matches, task)
		}
	}

	switch len(matches) {
	case 0:
		return domain.Task{}, zerr.With(domain.ErrTaskNotFound, "ref", ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID.String()
		}
		err := zerr.With(domain.ErrAmbiguousTaskID, "ref", ref)
		return domain.Task{}, zerr.With(err, "matches", strings.Join(ids, ", "))
	}
}

// traced runs fn inside a span and records its error, if any.
func traced[T any](ctx context.Context, tracer ports.Tracer, name string, fn func(ctx context.Context, span ports.Span) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	v, err := fn(ctx, span)
	if err != nil {
		span.RecordError(err)
	}
	return v, err
}

// dueChanged reports whether two due dates differ. Cascades fire only when
// the committed due date moved; edits that merely rebalance the duration
// against a pinned due date leave dependents alone.
func dueChanged(before, after *domain.Date) bool {
	switch {
	case before == nil && after == nil:
		return false
	case before == nil || after == nil:
		return true
	default:
		return !before.Equal(*after)
	}
}

// commit persists a mutation batch against the session's revision. Batches
// with downstream entries announce the cascade to the tracer first.
func (a *App) commit(ctx context.Context, s *session, batch []domain.Mutation) error {
	if len(batch) > 1 {
		ids := make([]string, 0, len(batch)-1)
		for _, m := range batch[1:] {
			ids = append(ids, m.ID.String())
		}
		a.tracer.EmitCascade(ctx, ids)
	}
	return a.store.Apply(ctx, s.project.Root, s.rev, batch)
}

func (a *App) today() domain.Date {
	return domain.DateOf(a.now().UTC())
}
