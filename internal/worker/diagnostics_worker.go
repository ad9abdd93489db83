package worker

import (
	"github.com/spec-kit/shift-roster/internal/service"
)

// StartDiagnosticsWorker registers diagnostics handlers and returns the
// function that unregisters them.
func StartDiagnosticsWorker(diagnostics *service.DiagnosticsService) (stop func()) {
	if diagnostics == nil {
		return func() {}
	}
	diagnostics.RegisterHandlers()
	return diagnostics.Stop
}
