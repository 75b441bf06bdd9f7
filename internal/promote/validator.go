package promote

import (
	"fmt"

	"github.com/temirov/promote/internal/workspace"
)

// PhaseValidator rejects promotions that the package's lifecycle state cannot start from.
type PhaseValidator struct {
	previewSuffix string
}

// NewPhaseValidator constructs a validator for the configured preview suffix.
func NewPhaseValidator(previewSuffix string) PhaseValidator {
	return PhaseValidator{previewSuffix: previewSuffix}
}

// Validate checks the package state against the requested phase before any tree write.
func (validator PhaseValidator) Validate(identity string, manifest *workspace.Manifest, phase Phase) error {
	state := workspace.DetectLifecycleState(identity, manifest.Version(), manifest.Private(), validator.previewSuffix)

	switch phase {
	case PhaseStable:
		switch state {
		case workspace.LifecycleReleasedStable:
			return newAlreadyReleasedError(identity)
		case workspace.LifecyclePreparedStable:
			return newAlreadyPreparedError(identity, alreadyPreparedStableTemplateConstant)
		}
		return nil
	case PhasePreview:
		switch state {
		case workspace.LifecycleReleasedStable:
			return newAlreadyReleasedError(identity)
		case workspace.LifecyclePreparedStable:
			return newAlreadyPreparedError(identity, alreadyPreparedStableTemplateConstant)
		case workspace.LifecyclePreview:
			return newAlreadyPreparedError(identity, alreadyPreparedPreviewTemplateConstant)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPhase, phase)
	}
}
