package runner

import (
	"context"

	"github.com/looplab/fsm"

	"logviewer/internal/config/logger"
)

// Run states
const (
	Idle      = "idle"
	Running   = "running"
	Completed = "completed"
	Cancelled = "cancelled"
	Failed    = "failed"
)

// Run events
const (
	Start    = "start"
	Complete = "complete"
	Cancel   = "cancel"
	Fail     = "fail"
)

// newRunFSM creates the state machine guarding the filtering run lifecycle
func newRunFSM(log logger.Logger) *fsm.FSM {
	return fsm.NewFSM(
		Idle,
		fsm.Events{
			{Name: Start, Src: []string{Idle, Completed, Cancelled, Failed}, Dst: Running},
			{Name: Complete, Src: []string{Running}, Dst: Completed},
			{Name: Cancel, Src: []string{Running}, Dst: Cancelled},
			{Name: Fail, Src: []string{Running}, Dst: Failed},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				log.Debug().Msgf("STATE %s → %s (trigger: %s)", e.Src, e.Dst, e.Event)
			},
		},
	)
}
