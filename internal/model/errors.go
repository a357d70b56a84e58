package model

import (
	"errors"
	"fmt"
)

// Error categories surfaced by the comparison pipeline
var (
	// ErrConfiguration marks a missing credential or invalid setting; nothing has been processed yet
	ErrConfiguration = errors.New("configuration error")

	// ErrSourceUnavailable marks a case source that cannot be opened or parsed
	ErrSourceUnavailable = errors.New("case source unavailable")

	// ErrCollaboratorFailure marks a verifier that failed or returned a malformed result
	ErrCollaboratorFailure = errors.New("collaborator failure")

	// ErrSchemaViolation marks a verdict or confidence outside its allowed domain
	ErrSchemaViolation = errors.New("schema violation")

	// ErrNoRecords is returned when statistics are requested over zero cases
	ErrNoRecords = errors.New("no comparison records")
)

// CaseError attaches the failing case and strategy to an error
type CaseError struct {
	CaseID   int
	Strategy Strategy
	Kind     error // One of the category sentinels above
	Err      error
}

// NewCaseError wraps err with case/strategy context under the given category
func NewCaseError(caseID int, strategy Strategy, kind error, err error) *CaseError {
	return &CaseError{
		CaseID:   caseID,
		Strategy: strategy,
		Kind:     kind,
		Err:      err,
	}
}

func (e *CaseError) Error() string {
	where := fmt.Sprintf("case %d", e.CaseID)
	if e.Strategy != "" {
		where = fmt.Sprintf("case %d (%s)", e.CaseID, e.Strategy)
	}
	if e.Kind == nil || errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%s: %v", where, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", where, e.Kind, e.Err)
}

// Unwrap exposes both the category and the cause to errors.Is / errors.As
func (e *CaseError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// SchemaViolation builds an ErrSchemaViolation with a formatted detail
func SchemaViolation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchemaViolation, fmt.Sprintf(format, args...))
}
