// Package domain contains the core domain models for dependency-aware task scheduling.
package domain

import (
	"slices"
	"time"

	"github.com/segmentio/ksuid"
	"go.trai.ch/zerr"
)

// TaskID uniquely identifies a task document.
type TaskID string

// NewTaskID mints a new sortable unique task id.
func NewTaskID() TaskID {
	return TaskID(ksuid.New().String())
}

// String returns the id as a string.
func (id TaskID) String() string {
	return string(id)
}

// StartOrigin records how a task's start date came to be. The scheduler may
// pull a derived start backward when dependencies relax, but it never moves
// a start the user pinned explicitly.
type StartOrigin uint8

const (
	// OriginUser means the start date was set explicitly by the user.
	OriginUser StartOrigin = iota
	// OriginDerived means the start date was computed from dependencies.
	OriginDerived
)

// String returns the origin as a stable wire token.
func (o StartOrigin) String() string {
	if o == OriginDerived {
		return "derived"
	}
	return "user"
}

// MarshalText implements encoding.TextMarshaler.
func (o StartOrigin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *StartOrigin) UnmarshalText(text []byte) error {
	switch string(text) {
	case "user", "":
		*o = OriginUser
	case "derived":
		*o = OriginDerived
	default:
		return zerr.With(ErrInvalidStartOrigin, "value", string(text))
	}
	return nil
}

// Task represents a unit of work on a board. Dates are day-precision;
// DurationDays counts both endpoints, so a task starting and ending on the
// same day has a duration of one.
type Task struct {
	ID           TaskID      `json:"id"`
	Title        string      `json:"title"`
	List         string      `json:"list,omitempty"`
	DependsOn    []TaskID    `json:"dependsOn,omitempty"`
	Start        *Date       `json:"startDate,omitempty"`
	Due          *Date       `json:"dueDate,omitempty"`
	DurationDays *int        `json:"durationDays,omitempty"`
	DueFixed     bool        `json:"isDueDateFixed"`
	StartOrigin  StartOrigin `json:"startOrigin"`
	Completed    bool        `json:"completed"`
	CompletedAt  *Date       `json:"completedAt,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// DependsOnTask reports whether id is listed as a direct dependency.
func (t Task) DependsOnTask(id TaskID) bool {
	return slices.Contains(t.DependsOn, id)
}

// Clone returns a deep copy of the task. Pointer fields are duplicated so
// mutating the clone never aliases the original.
func (t Task) Clone() Task {
	c := t
	c.DependsOn = slices.Clone(t.DependsOn)
	c.Start = cloneDate(t.Start)
	c.Due = cloneDate(t.Due)
	c.CompletedAt = cloneDate(t.CompletedAt)
	if t.DurationDays != nil {
		d := *t.DurationDays
		c.DurationDays = &d
	}
	return c
}

// SchedulingFields captures the task's full scheduling state as a patch.
// Propagation batches carry these so applying a batch in order reproduces
// the computed schedule exactly.
func (t Task) SchedulingFields() TaskFields {
	fixed := t.DueFixed
	origin := t.StartOrigin
	f := TaskFields{
		Start:       cloneDate(t.Start),
		Due:         cloneDate(t.Due),
		DueFixed:    &fixed,
		StartOrigin: &origin,
	}
	if t.DurationDays != nil {
		d := *t.DurationDays
		f.DurationDays = &d
	}
	return f
}

// Edit describes a user-requested partial change to a task. A nil field
// means the field was not touched by the edit.
type Edit struct {
	Title        *string
	List         *string
	Due          *Date
	DurationDays *int
	Start        *Date
}

// Completion bundles the completed flag with its timestamp so the two
// always change together. A nil At clears the timestamp on reopen.
type Completion struct {
	Done bool
	At   *Date
}

// TaskFields is a partial update to a task document. Nil fields are left
// untouched when the update is applied.
type TaskFields struct {
	Title        *string
	List         *string
	DependsOn    *[]TaskID
	Start        *Date
	Due          *Date
	DurationDays *int
	DueFixed     *bool
	StartOrigin  *StartOrigin
	Completion   *Completion
}

// Apply merges the present fields into the task.
func (t *Task) Apply(f TaskFields) {
	if f.Title != nil {
		t.Title = *f.Title
	}
	if f.List != nil {
		t.List = *f.List
	}
	if f.DependsOn != nil {
		t.DependsOn = slices.Clone(*f.DependsOn)
	}
	if f.Start != nil {
		t.Start = cloneDate(f.Start)
	}
	if f.Due != nil {
		t.Due = cloneDate(f.Due)
	}
	if f.DurationDays != nil {
		d := *f.DurationDays
		t.DurationDays = &d
	}
	if f.DueFixed != nil {
		t.DueFixed = *f.DueFixed
	}
	if f.StartOrigin != nil {
		t.StartOrigin = *f.StartOrigin
	}
	if f.Completion != nil {
		t.Completed = f.Completion.Done
		t.CompletedAt = cloneDate(f.Completion.At)
	}
}

// Mutation is one element of an update batch: a set of field changes for a
// single task, or its removal.
type Mutation struct {
	ID     TaskID
	Fields TaskFields
	Remove bool
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
