package sim

import (
	"log"
)

// ActionLogger is a hook that prints the information of each fired action.
type ActionLogger struct {
	*log.Logger
}

// NewActionLogger returns a new ActionLogger which will write in to the
// logger.
func NewActionLogger(logger *log.Logger) *ActionLogger {
	h := new(ActionLogger)
	h.Logger = logger
	return h
}

// Func writes the action information into the logger.
func (h *ActionLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeAction {
		return
	}

	info, ok := ctx.Item.(ActionInfo)
	if !ok {
		return
	}

	kind := "once"
	if info.Repeating {
		kind = "repeating"
	}

	h.Logger.Printf("%d, step %d, action %d (%s)",
		int64(info.Time), info.Step, info.ID, kind)
}
