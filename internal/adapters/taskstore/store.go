// Package taskstore persists task documents as one JSON file per task.
package taskstore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sethvargo/go-retry"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/slatehq/slate/internal/core/domain"
)

const (
	writeRetries   = 3
	writeRetryBase = 10 * time.Millisecond
)

// Store implements ports.TaskStore using a file-per-task strategy under
// <root>/.slate/tasks. The store revision is a hash over every document, so
// any concurrent write is visible as a revision change.
type Store struct {
	now func() time.Time
}

// NewStore creates a new TaskStore. All operations take an explicit project
// root; the store itself holds no path state.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Load reads every task document under root and the revision at read time.
// Documents are read and decoded concurrently; the digest runs over the
// directory listing afterwards so the revision only depends on the contents.
func (s *Store) Load(root string) ([]domain.Task, domain.Revision, error) {
	dir := domain.DefaultTasksPath(root)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, emptyRevision(), nil
		}
		return nil, "", zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}

	docs := make([][]byte, len(names))
	tasks := make([]domain.Task, len(names))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, name := range names {
		g.Go(func() error {
			//nolint:gosec // Path joins a trusted directory with its own listing.
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
			}
			if err := json.Unmarshal(data, &tasks[i]); err != nil {
				return zerr.With(
					zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()),
					"file", name,
				)
			}
			docs[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	// ReadDir sorts by name, so the digest is order-independent.
	digest := xxhash.New()
	for i, name := range names {
		digest.WriteString(name)
		digest.Write(docs[i])
	}

	return tasks, revisionOf(digest), nil
}

// Get retrieves a single task by id.
// Returns nil, nil if not found.
func (s *Store) Get(root string, id domain.TaskID) (*domain.Task, error) {
	//nolint:gosec // Path is constructed from the trusted root and a task id.
	data, err := os.ReadFile(s.filename(root, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
	}

	return &task, nil
}

// Put stores the task document verbatim, creating the store directory if
// needed.
func (s *Store) Put(root string, task domain.Task) error {
	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.filename(root, task.ID)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from the trusted root and a task id.
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

// Delete removes the task document. Deleting an absent task is not an error.
func (s *Store) Delete(root string, id domain.TaskID) error {
	if err := os.Remove(s.filename(root, id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, domain.ErrStoreDeleteFailed.Error())
	}
	return nil
}

// Apply persists a mutation batch in order, but only while the store is
// still at rev. Each document write is retried with exponential backoff
// before the batch fails.
func (s *Store) Apply(ctx context.Context, root string, rev domain.Revision, batch []domain.Mutation) error {
	_, current, err := s.Load(root)
	if err != nil {
		return err
	}
	if current != rev {
		staleErr := zerr.With(domain.ErrStaleSnapshot, "snapshot_revision", string(rev))
		return zerr.With(staleErr, "store_revision", string(current))
	}

	backoff := retry.WithMaxRetries(writeRetries, retry.NewExponential(writeRetryBase))

	for _, m := range batch {
		if m.Remove {
			if err := s.Delete(root, m.ID); err != nil {
				return err
			}
			continue
		}

		task, err := s.Get(root, m.ID)
		if err != nil {
			return err
		}
		if task == nil {
			return zerr.With(domain.ErrTaskNotFound, "task_id", m.ID.String())
		}

		task.Apply(m.Fields)
		task.UpdatedAt = s.now().UTC()

		err = retry.Do(ctx, backoff, func(context.Context) error {
			if err := s.Put(root, *task); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) filename(root string, id domain.TaskID) string {
	return filepath.Join(domain.DefaultTasksPath(root), id.String()+".json")
}

func revisionOf(digest *xxhash.Digest) domain.Revision {
	return domain.Revision(strconv.FormatUint(digest.Sum64(), 16))
}

func emptyRevision() domain.Revision {
	return revisionOf(xxhash.New())
}
