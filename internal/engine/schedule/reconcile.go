package schedule

import (
	"go.trai.ch/zerr"

	"github.com/slatehq/slate/internal/core/domain"
)

// Reconcile merges a partial edit into a task and restores the relation
// between start date, due date and duration. Date edits win over stored
// values in a fixed precedence:
//
//   - a due date edit pins the due date; when a start is known the duration
//     is rederived from the span
//   - otherwise a duration edit unpins the due date; when a start is known
//     the due date is rederived from the duration
//   - otherwise a start edit slides an unpinned task keeping its duration,
//     or rederives the duration when the due date is pinned
//
// Untouched fields are retained. A start set by an edit is tagged as
// user-chosen. The edit is rejected with ErrDueBeforeStart when it would
// place the due date before the start, and with ErrInvalidDuration when the
// requested duration is below one day.
func Reconcile(task domain.Task, edit domain.Edit) (domain.Task, error) {
	out := task.Clone()

	if edit.Title != nil {
		out.Title = *edit.Title
	}
	if edit.List != nil {
		out.List = *edit.List
	}
	if edit.Start != nil {
		start := *edit.Start
		out.Start = &start
		out.StartOrigin = domain.OriginUser
	}

	switch {
	case edit.Due != nil:
		due := *edit.Due
		out.Due = &due
		out.DueFixed = true
		if out.Start != nil {
			days := out.Start.DaysUntil(due) + 1
			out.DurationDays = &days
		}

	case edit.DurationDays != nil:
		if *edit.DurationDays < 1 {
			return domain.Task{}, zerr.With(domain.ErrInvalidDuration, "duration_days", *edit.DurationDays)
		}
		days := *edit.DurationDays
		out.DurationDays = &days
		out.DueFixed = false
		if out.Start != nil {
			due := out.Start.AddDays(days - 1)
			out.Due = &due
		}

	case edit.Start != nil:
		if out.DueFixed {
			if out.Due != nil {
				days := out.Start.DaysUntil(*out.Due) + 1
				out.DurationDays = &days
			}
			break
		}
		days := out.DurationDays
		if days == nil && task.Start != nil && out.Due != nil {
			// A start and due without a stored duration still span a
			// definite number of days; the move keeps that span.
			span := task.Start.DaysUntil(*out.Due) + 1
			days = &span
		}
		if days != nil {
			d := *days
			out.DurationDays = &d
			due := out.Start.AddDays(d - 1)
			out.Due = &due
		}
	}

	if out.Start != nil && out.Due != nil && out.Due.Before(*out.Start) {
		err := zerr.With(domain.ErrDueBeforeStart, "start_date", out.Start.String())
		return domain.Task{}, zerr.With(err, "due_date", out.Due.String())
	}

	return out, nil
}
