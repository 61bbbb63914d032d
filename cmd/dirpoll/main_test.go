package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/dirpoll/internal/adapters/fs"
	"go.trai.ch/dirpoll/internal/adapters/metrics"
	"go.trai.ch/dirpoll/internal/adapters/telemetry/progrock"
	"go.trai.ch/dirpoll/internal/app"
	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/dirpoll/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newProvider(t *testing.T, ctrl *gomock.Controller, log *mocks.MockLogger) ComponentProvider {
	t.Helper()
	application := app.New(
		mocks.NewMockConfigLoader(ctrl),
		fs.NewScanner(fs.NewWalker(log)),
		log,
		progrock.New(),
		metrics.New(),
	)
	return func(context.Context) (*app.Components, error) {
		return &app.Components{App: application, Logger: log}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	stdout := new(bytes.Buffer)
	exitCode := run(t.Context(), []string{"version"}, stdout, new(bytes.Buffer), newProvider(t, ctrl, log))

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "dirpoll version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, error) {
		return nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(t.Context(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that command failures are logged and exit with 1.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Cond(func(err error) bool {
		return errors.Is(err, domain.ErrNotADirectory)
	})).Times(1)

	missing := filepath.Join(t.TempDir(), "absent")
	exitCode := run(t.Context(), []string{"scan", missing}, new(bytes.Buffer), new(bytes.Buffer), newProvider(t, ctrl, log))

	assert.Equal(t, 1, exitCode)
}

// TestRun_UnreadableScanRootIsLogged verifies that a scan failure is logged even
// though it carries the same sentinel the watcher reports on its own.
func TestRun_UnreadableScanRootIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Cond(func(err error) bool {
		return errors.Is(err, domain.ErrRootUnreadable)
	})).Times(1)

	root := t.TempDir()
	scanner := mocks.NewMockScanner(ctrl)
	scanner.EXPECT().StatRoot(root).Return(time.Unix(1, 0), nil)
	scanner.EXPECT().Scan(gomock.Any(), root, gomock.Any()).
		Return(domain.Snapshot{}, zerr.With(zerr.Wrap(domain.ErrRootUnreadable, "permission denied"), "root", root))

	application := app.New(mocks.NewMockConfigLoader(ctrl), scanner, log, progrock.New(), metrics.New())
	provider := func(context.Context) (*app.Components, error) {
		return &app.Components{App: application, Logger: log}, nil
	}

	exitCode := run(t.Context(), []string{"scan", root}, new(bytes.Buffer), new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
}
