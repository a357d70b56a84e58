package cli

import (
	"errors"

	"github.com/ppiankov/kepler/internal/model"
)

// Process exit codes by error category
const (
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitSource        = 3
	ExitCollaborator  = 4
	ExitSchema        = 5
)

// ExitCode maps an error returned by Execute to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, model.ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, model.ErrSourceUnavailable):
		return ExitSource
	case errors.Is(err, model.ErrSchemaViolation):
		return ExitSchema
	case errors.Is(err, model.ErrCollaboratorFailure):
		return ExitCollaborator
	default:
		return ExitFailure
	}
}
