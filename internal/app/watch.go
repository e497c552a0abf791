package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/slatehq/slate/internal/adapters/watcher"
	"github.com/slatehq/slate/internal/core/domain"
)

// Watch recomputes the schedule whenever the task store changes on disk and
// hands each fresh schedule to onChange, starting with the current one.
// Bursts of file events collapse into a single reload, and reloads that do
// not move the store revision are skipped. Watch blocks until ctx is
// cancelled.
func (a *App) Watch(ctx context.Context, onChange func(*Schedule)) error {
	s, err := a.session()
	if err != nil {
		return err
	}

	sched, err := buildSchedule(s)
	if err != nil {
		return err
	}
	onChange(sched)

	g, ctx := errgroup.WithContext(ctx)

	if err := a.watcher.Start(ctx, domain.DefaultSlatePath(s.project.Root)); err != nil {
		return err
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Error(err)
		}
	}()

	reload := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func([]string) {
		select {
		case reload <- struct{}{}:
		default:
		}
	})

	// The event channel closes when ctx is cancelled, ending the pump.
	g.Go(func() error {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})

	a.logger.Info(fmt.Sprintf("watching %s", s.project.Root))

	last := s.rev
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-reload:
				tasks, rev, err := a.store.Load(s.project.Root)
				if err != nil {
					a.logger.Error(err)
					continue
				}
				if rev == last {
					continue
				}
				last = rev

				next := &session{project: s.project, snap: domain.NewSnapshot(tasks), rev: rev}
				sched, err := buildSchedule(next)
				if err != nil {
					a.logger.Error(err)
					continue
				}
				onChange(sched)
			}
		}
	})

	return g.Wait()
}
