package app_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/slatehq/slate/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Plan(t *testing.T) {
	design := seedTask(idDesign, "Design")
	start := day(t, "2025-01-01")
	due := day(t, "2025-01-10")
	design.Start = &start
	design.Due = &due
	design.DurationDays = intPtr(10)

	build := seedTask(idBuild, "Build")
	build.DependsOn = []domain.TaskID{design.ID}

	f := newFixture(t)
	f.expectSession(design, build)

	sched, err := f.app.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "site", sched.Project)
	assert.Equal(t, domain.Revision("rev1"), sched.Revision)
	require.Len(t, sched.Entries, 2)

	// Dependency order: design before the task waiting on it.
	assert.Equal(t, design.ID, sched.Entries[0].Task.ID)
	assert.False(t, sched.Entries[0].Predicted)
	assert.False(t, sched.Entries[0].Blocked)

	entry := sched.Entries[1]
	assert.Equal(t, build.ID, entry.Task.ID)
	require.NotNil(t, entry.EffectiveStart)
	assert.Equal(t, day(t, "2025-01-10"), *entry.EffectiveStart)
	assert.True(t, entry.Predicted)
	assert.True(t, entry.Blocked)
	require.NotNil(t, entry.Bottleneck)
	assert.Equal(t, design.ID, *entry.Bottleneck)
}

func TestApp_Plan_BlockedWithoutDates(t *testing.T) {
	design := seedTask(idDesign, "Design")

	build := seedTask(idBuild, "Build")
	build.DependsOn = []domain.TaskID{design.ID}

	f := newFixture(t)
	f.expectSession(design, build)

	sched, err := f.app.Plan(context.Background())
	require.NoError(t, err)
	require.Len(t, sched.Entries, 2)

	// The dependency carries no dates, so the dependent is blocked with no
	// effective start and no nameable bottleneck.
	entry := sched.Entries[1]
	assert.True(t, entry.Blocked)
	assert.Nil(t, entry.EffectiveStart)
	assert.Nil(t, entry.Bottleneck)
}

func TestApp_Plan_CyclicStore(t *testing.T) {
	design := seedTask(idDesign, "Design")
	build := seedTask(idBuild, "Build")
	design.DependsOn = []domain.TaskID{build.ID}
	build.DependsOn = []domain.TaskID{design.ID}

	f := newFixture(t)
	f.expectSession(design, build)

	_, err := f.app.Plan(context.Background())
	require.ErrorIs(t, err, domain.ErrDependencyCycle)
}

func TestApp_ShowTask(t *testing.T) {
	design := seedTask(idDesign, "Design")
	due := day(t, "2025-01-10")
	design.Due = &due
	design.DueFixed = true
	design.Start = dayPtr(t, "2025-01-01")
	design.DurationDays = intPtr(10)

	build := seedTask(idBuild, "Build")
	build.DependsOn = []domain.TaskID{design.ID}

	f := newFixture(t)
	f.expectSession(design, build)

	detail, err := f.app.ShowTask(context.Background(), "2bGlh")
	require.NoError(t, err)

	assert.Equal(t, design.ID, detail.Task.ID)
	assert.False(t, detail.Blocked)
	assert.Equal(t, []domain.TaskID{build.ID}, detail.Dependents)
}

func TestApp_ListTasks(t *testing.T) {
	design := seedTask(idDesign, "Design")
	design.List = "doing"
	build := seedTask(idBuild, "Build")
	build.List = "backlog"

	f := newFixture(t)
	f.expectSession(design, build)

	tasks, err := f.app.ListTasks(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestApp_ListTasks_FilterByList(t *testing.T) {
	design := seedTask(idDesign, "Design")
	design.List = "doing"
	build := seedTask(idBuild, "Build")
	build.List = "backlog"

	f := newFixture(t)
	f.expectSession(design, build)

	tasks, err := f.app.ListTasks(context.Background(), "backlog")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, build.ID, tasks[0].ID)
}

func TestApp_ImportPlan(t *testing.T) {
	const doc = `version: 1
project: site
tasks:
  - id: design
    title: Design
    start: 2025-01-01
    duration: 5
  - id: build
    title: Build
    depends_on: [design]
`

	f := newFixture(t)
	f.expectSession()
	stored := f.expectPut(2)

	res, err := f.app.ImportPlan(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.IDs, 2)
	assert.NotEqual(t, res.IDs["design"], res.IDs["build"])
	assert.Len(t, res.IDs["design"].String(), 27)

	require.Len(t, *stored, 2)
	byTitle := map[string]domain.Task{}
	for _, task := range *stored {
		byTitle[task.Title] = task
	}

	design := byTitle["Design"]
	assert.Equal(t, res.IDs["design"], design.ID)
	require.NotNil(t, design.Due)
	assert.Equal(t, day(t, "2025-01-05"), *design.Due)
	assert.False(t, design.DueFixed)
	assert.Equal(t, domain.OriginUser, design.StartOrigin)

	build := byTitle["Build"]
	assert.Equal(t, []domain.TaskID{res.IDs["design"]}, build.DependsOn)
	assert.Nil(t, build.Start)
}

func TestApp_ImportPlan_RejectsCycle(t *testing.T) {
	const doc = `version: 1
tasks:
  - id: a
    title: First
    depends_on: [b]
  - id: b
    title: Second
    depends_on: [a]
`

	f := newFixture(t)
	f.expectSession()

	_, err := f.app.ImportPlan(context.Background(), strings.NewReader(doc))
	require.ErrorIs(t, err, domain.ErrDependencyCycle)
}

func TestApp_ImportPlan_RejectsDueBeforeStart(t *testing.T) {
	const doc = `version: 1
tasks:
  - id: a
    title: Backwards
    start: 2025-01-10
    due: 2025-01-05
`

	f := newFixture(t)
	f.expectSession()

	_, err := f.app.ImportPlan(context.Background(), strings.NewReader(doc))
	require.ErrorIs(t, err, domain.ErrDueBeforeStart)
}

func TestApp_ExportPlan(t *testing.T) {
	ghost := domain.TaskID("2bGlkWb3yT0mQxHcPnRdAfUe9Lz")

	design := seedTask(idDesign, "Design")
	design.Start = dayPtr(t, "2025-01-01")
	design.Due = dayPtr(t, "2025-01-10")
	design.DurationDays = intPtr(10)

	build := seedTask(idBuild, "Build")
	build.DependsOn = []domain.TaskID{design.ID, ghost}

	f := newFixture(t)
	f.expectSession(design, build)

	var buf bytes.Buffer
	count, err := f.app.ExportPlan(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.Contains(t, out, "version: 1")
	assert.Contains(t, out, "project: site")
	assert.Contains(t, out, idDesign)
	assert.Contains(t, out, idBuild)
	// The dangling edge is dropped so the document imports cleanly.
	assert.NotContains(t, out, ghost.String())
}

func TestApp_ExportImportRoundTrip(t *testing.T) {
	design := seedTask(idDesign, "Design")
	design.Start = dayPtr(t, "2025-01-01")
	design.Due = dayPtr(t, "2025-01-10")
	design.DurationDays = intPtr(10)

	build := seedTask(idBuild, "Build")
	build.DependsOn = []domain.TaskID{design.ID}

	f := newFixture(t)
	f.expectSession(design, build)

	var buf bytes.Buffer
	_, err := f.app.ExportPlan(context.Background(), &buf)
	require.NoError(t, err)

	f.expectSession()
	stored := f.expectPut(2)

	res, err := f.app.ImportPlan(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	require.Len(t, *stored, 2)
	for _, task := range *stored {
		if task.Title == "Design" {
			require.NotNil(t, task.Due)
			assert.Equal(t, day(t, "2025-01-10"), *task.Due)
			assert.False(t, task.DueFixed)
		}
	}
}
