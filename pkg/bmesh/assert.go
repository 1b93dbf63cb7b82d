package bmesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/logger"
)

var bmeshLog = logger.NewComponent("bmesh")

func log() *zap.Logger {
	return bmeshLog.Logger()
}

// assert reports a broken invariant. Debug builds (tag meshdebug) panic;
// release builds log and carry on.
func assert(cond bool, msg string, fields ...zap.Field) {
	if cond {
		return
	}
	log().Error("invariant violated: "+msg, fields...)
	if debugAssert {
		panic("bmesh: " + msg)
	}
}
