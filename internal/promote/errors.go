package promote

import (
	"errors"
	"fmt"
	"strings"
)

const (
	alreadyPreparedMessageConstant         = "already prepared"
	alreadyReleasedMessageConstant         = "already released"
	unknownPhaseMessageConstant            = "unknown phase"
	alreadyReleasedTemplateConstant        = "%s is already released as stable."
	alreadyPreparedStableTemplateConstant  = "%s is already prepared for stable release. Please trigger RELEASE pipeline."
	alreadyPreparedPreviewTemplateConstant = "%s is already prepared for preview release. Please trigger RELEASE pipeline."
	structuralErrorTemplateConstant        = "%s %s: %v"
	structuralErrorWithoutCauseTemplate    = "%s %s"
	scopeViolationTemplateConstant         = "refusing to write %s outside of %s"
	projectNotFoundTemplateConstant        = "project %s was not found in the workspace"
	scopeViolationRootsSeparatorConstant   = " or "
)

var (
	// ErrAlreadyPrepared matches precondition failures for packages already prepared for the requested phase.
	ErrAlreadyPrepared = errors.New(alreadyPreparedMessageConstant)
	// ErrAlreadyReleased matches precondition failures for packages already released as stable.
	ErrAlreadyReleased = errors.New(alreadyReleasedMessageConstant)
	// ErrUnknownPhase reports a phase outside preview and stable.
	ErrUnknownPhase = errors.New(unknownPhaseMessageConstant)
)

// PreconditionError reports a package that is not in a state the requested phase can start from.
type PreconditionError struct {
	Identity string
	Reason   error
	Message  string
}

// Error returns the user-facing message.
func (preconditionError *PreconditionError) Error() string {
	return preconditionError.Message
}

// Unwrap exposes the sentinel reason.
func (preconditionError *PreconditionError) Unwrap() error {
	return preconditionError.Reason
}

func newAlreadyReleasedError(identity string) *PreconditionError {
	return &PreconditionError{
		Identity: identity,
		Reason:   ErrAlreadyReleased,
		Message:  fmt.Sprintf(alreadyReleasedTemplateConstant, identity),
	}
}

func newAlreadyPreparedError(identity string, messageTemplate string) *PreconditionError {
	return &PreconditionError{
		Identity: identity,
		Reason:   ErrAlreadyPrepared,
		Message:  fmt.Sprintf(messageTemplate, identity),
	}
}

// StructuralError reports a mandatory workspace file that is missing or malformed.
type StructuralError struct {
	Subject string
	Problem string
	Cause   error
}

func (structuralError *StructuralError) Error() string {
	if structuralError.Cause == nil {
		return fmt.Sprintf(structuralErrorWithoutCauseTemplate, structuralError.Subject, structuralError.Problem)
	}
	return fmt.Sprintf(structuralErrorTemplateConstant, structuralError.Subject, structuralError.Problem, structuralError.Cause)
}

func (structuralError *StructuralError) Unwrap() error {
	return structuralError.Cause
}

// ScopeViolationError reports a staged write the renamer is not allowed to perform.
type ScopeViolationError struct {
	Path         string
	AllowedRoots []string
}

func (scopeError *ScopeViolationError) Error() string {
	return fmt.Sprintf(scopeViolationTemplateConstant, scopeError.Path, strings.Join(scopeError.AllowedRoots, scopeViolationRootsSeparatorConstant))
}

// ProjectNotFoundError reports an identity absent from the workspace.
type ProjectNotFoundError struct {
	Identity string
}

func (notFoundError *ProjectNotFoundError) Error() string {
	return fmt.Sprintf(projectNotFoundTemplateConstant, notFoundError.Identity)
}
