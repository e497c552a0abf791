package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/slatehq/slate/internal/adapters/planfile"
	"github.com/slatehq/slate/internal/app"
	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/core/ports"
	"github.com/slatehq/slate/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const projectRoot = "/work/site"

func newTestComponents(t *testing.T) (*app.Components, *mocks.MockManifestLoader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockManifestLoader(ctrl)
	store := mocks.NewMockTaskStore(ctrl)
	watcher := mocks.NewMockWatcher(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	tracer := mocks.NewMockTracer(ctrl)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		}).
		AnyTimes()

	logger.EXPECT().SetOutput(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	codec, err := planfile.NewCodec()
	require.NoError(t, err)

	application := app.New(loader, store, codec, watcher, logger, tracer)
	return app.NewComponents(application, logger), loader, logger
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	components, _, _ := newTestComponents(t)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	components, loader, logger := newTestComponents(t)
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	loader.EXPECT().Load(projectRoot).Return(nil, errors.New("load failed"))

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"plan"}, stderr, provider, func(a *app.App) {
		a.WithWorkingDir(projectRoot)
	})

	assert.Equal(t, 1, exitCode)
}

// TestRun_Signal verifies that the context is canceled on signal.
func TestRun_Signal(t *testing.T) {
	components, loader, logger := newTestComponents(t)
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	// The session load blocks until the test releases it, standing in for a
	// command that is mid-flight when the signal arrives.
	blockCh := make(chan struct{})
	loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(string) (*domain.Project, error) {
		select {
		case <-blockCh:
			return nil, context.Canceled
		case <-time.After(5 * time.Second):
			return nil, errors.New("timeout in mock")
		}
	})

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"plan"}, io.Discard, provider, func(a *app.App) {
			a.WithWorkingDir(projectRoot)
		})
	}()

	// Wait a bit to ensure run() reaches Load()
	time.Sleep(100 * time.Millisecond)

	cancel()
	close(blockCh)

	select {
	case ret := <-errCh:
		assert.NotEqual(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
