package promote

import (
	"fmt"

	"github.com/temirov/promote/internal/utils/flags"
)

// Phase is the lifecycle phase a promotion moves a package into.
type Phase string

const (
	PhasePreview Phase = "preview"
	PhaseStable  Phase = "stable"
)

// PhaseChoices lists accepted phase values in display order.
func PhaseChoices() []string {
	return []string{string(PhasePreview), string(PhaseStable)}
}

// ParsePhase normalizes and validates a phase value.
func ParsePhase(value string) (Phase, error) {
	parsedValue, parseError := flags.ParseChoice(value, PhaseChoices())
	if parseError != nil {
		return "", fmt.Errorf("%w: %w", ErrUnknownPhase, parseError)
	}
	return Phase(parsedValue), nil
}
