package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/mock/gomock"

	"logviewer/internal/app/cli"
	"logviewer/internal/config/logger"
)

// mockLifecycle implements fx.Lifecycle for testing
type mockLifecycle struct {
	onAppend func(fx.Hook)
}

func (m *mockLifecycle) Append(hook fx.Hook) {
	if m.onAppend != nil {
		m.onAppend(hook)
	}
}

// mockShutdowner implements fx.Shutdowner for testing
type mockShutdowner struct {
	calls int
	err   error
}

func (m *mockShutdowner) Shutdown(...fx.ShutdownOption) error {
	m.calls++
	return m.err
}

func Test_NewApp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCLI := cli.NewMockCLI(ctrl)
	mockLogger := logger.NewMockLogger(ctrl)
	shutdowner := &mockShutdowner{}

	application := NewApp(mockCLI, shutdowner, mockLogger)

	assert.NotNil(t, application)
	assert.Equal(t, mockCLI, application.cli)
	assert.Equal(t, shutdowner, application.shutdowner)
	assert.Equal(t, mockLogger, application.log)
}

func Test_execute(t *testing.T) {
	tests := []struct {
		name     string
		before   func(mockCLI *cli.MockCLI, mockLogger *logger.MockLogger)
		expected int
	}{
		{
			name: "Success",
			before: func(mockCLI *cli.MockCLI, mockLogger *logger.MockLogger) {
				mockCLI.EXPECT().Execute().Return(0, nil)
			},
			expected: 0,
		},
		{
			name: "Failure",
			before: func(mockCLI *cli.MockCLI, mockLogger *logger.MockLogger) {
				mockCLI.EXPECT().Execute().Return(1, errors.New("run failed"))
				mockLogger.EXPECT().Debug().Return(nil)
			},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCLI := cli.NewMockCLI(ctrl)
			mockLogger := logger.NewMockLogger(ctrl)
			tt.before(mockCLI, mockLogger)

			app := NewApp(mockCLI, &mockShutdowner{}, mockLogger)
			assert.Equal(t, tt.expected, app.execute())
		})
	}
}

func Test_App_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCLI := cli.NewMockCLI(ctrl)
	mockLogger := logger.NewMockLogger(ctrl)
	shutdowner := &mockShutdowner{err: errors.New("already stopped")}

	mockCLI.EXPECT().Execute().Return(0, nil)
	mockLogger.EXPECT().Error().Return(nil)

	app := NewApp(mockCLI, shutdowner, mockLogger)
	app.Run()

	assert.Equal(t, 1, shutdowner.calls)

	select {
	case <-app.done:
	default:
		t.Fatal("done channel should be closed")
	}
}

func Test_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCLI := cli.NewMockCLI(ctrl)
	mockLogger := logger.NewMockLogger(ctrl)
	app := NewApp(mockCLI, &mockShutdowner{}, mockLogger)

	var (
		registered   bool
		capturedHook fx.Hook
	)

	testLifecycle := &mockLifecycle{
		onAppend: func(hook fx.Hook) {
			registered = true
			capturedHook = hook
		},
	}

	Register(testLifecycle, app)

	assert.True(t, registered)
	assert.NotNil(t, capturedHook.OnStart)
	assert.NotNil(t, capturedHook.OnStop)
}

func Test_Register_OnStopHook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app := NewApp(cli.NewMockCLI(ctrl), &mockShutdowner{}, logger.NewMockLogger(ctrl))

	var capturedHook fx.Hook

	Register(&mockLifecycle{onAppend: func(hook fx.Hook) { capturedHook = hook }}, app)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := capturedHook.OnStop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(app.done)
	assert.NoError(t, capturedHook.OnStop(context.Background()))
}
