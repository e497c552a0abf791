package domain

import "go.trai.ch/zerr"

var (
	// ErrDependencyCycle is returned when an edit would close a cycle in the
	// task dependency graph, or when an imported graph contains one.
	ErrDependencyCycle = zerr.New("dependency cycle detected")

	// ErrTaskNotFound is returned when a referenced task does not exist.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrAmbiguousTaskID is returned when an id prefix matches more than one task.
	ErrAmbiguousTaskID = zerr.New("task id prefix is ambiguous")

	// ErrTitleRequired is returned when a task is created without a title.
	ErrTitleRequired = zerr.New("task title is required")

	// ErrDependencyExists is returned when adding a dependency that is already listed.
	ErrDependencyExists = zerr.New("dependency already exists")

	// ErrDependencyNotFound is returned when removing a dependency that is not listed.
	ErrDependencyNotFound = zerr.New("dependency not found")

	// ErrDueBeforeStart is returned when an edit would place a due date before the start date.
	ErrDueBeforeStart = zerr.New("due date is before start date")

	// ErrInvalidDuration is returned when a duration is shorter than one day.
	ErrInvalidDuration = zerr.New("duration must be at least one day")

	// ErrInvalidDate is returned when a date does not parse in the 2006-01-02 layout.
	ErrInvalidDate = zerr.New("invalid date, expected format: 2006-01-02")

	// ErrInvalidStartOrigin is returned when a start origin token is unknown.
	ErrInvalidStartOrigin = zerr.New("invalid start origin, expected 'user' or 'derived'")

	// ErrUnknownScale is returned when a timeline scale token is unknown.
	ErrUnknownScale = zerr.New("unknown scale, expected 'day' or 'week'")

	// ErrTaskAlreadyCompleted is returned when completing a task twice.
	ErrTaskAlreadyCompleted = zerr.New("task is already completed")

	// ErrTaskNotCompleted is returned when reopening a task that is not completed.
	ErrTaskNotCompleted = zerr.New("task is not completed")

	// ErrStaleSnapshot is returned when the task store changed between taking
	// a snapshot and applying the updates computed from it.
	ErrStaleSnapshot = zerr.New("task store changed since snapshot was taken")

	// ErrStoreCreateFailed is returned when the task store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create task store directory")

	// ErrStoreReadFailed is returned when a task document cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read task document")

	// ErrStoreUnmarshalFailed is returned when a task document cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal task document")

	// ErrStoreMarshalFailed is returned when a task document cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal task document")

	// ErrStoreWriteFailed is returned when a task document cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write task document")

	// ErrStoreDeleteFailed is returned when a task document cannot be deleted.
	ErrStoreDeleteFailed = zerr.New("failed to delete task document")

	// ErrManifestNotFound is returned when no project manifest is found in the
	// working directory or any of its parents.
	ErrManifestNotFound = zerr.New("could not find slate.yaml")

	// ErrManifestReadFailed is returned when the manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read project manifest")

	// ErrManifestParseFailed is returned when the manifest cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse project manifest")

	// ErrManifestWriteFailed is returned when the manifest cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write project manifest")

	// ErrProjectExists is returned when initializing a directory that already has a manifest.
	ErrProjectExists = zerr.New("project already initialized")

	// ErrInvalidProjectName is returned when a project name is invalid.
	ErrInvalidProjectName = zerr.New("project name can only contain alphanumeric characters, hyphens and underscores")

	// ErrPlanReadFailed is returned when a plan file cannot be read.
	ErrPlanReadFailed = zerr.New("failed to read plan file")

	// ErrPlanParseFailed is returned when a plan file cannot be parsed.
	ErrPlanParseFailed = zerr.New("failed to parse plan file")

	// ErrPlanInvalid is returned when a plan file fails schema validation.
	ErrPlanInvalid = zerr.New("plan file failed validation")

	// ErrDuplicatePlanID is returned when a plan file reuses a task id.
	ErrDuplicatePlanID = zerr.New("duplicate task id in plan file")

	// ErrUnknownPlanDependency is returned when a plan task depends on an id
	// that is not defined in the same plan file.
	ErrUnknownPlanDependency = zerr.New("plan dependency references unknown task id")

	// ErrPlanWriteFailed is returned when a plan file cannot be written.
	ErrPlanWriteFailed = zerr.New("failed to write plan file")
)
