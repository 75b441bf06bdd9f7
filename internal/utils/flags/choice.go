package flags

import (
	"fmt"
	"slices"
	"strings"
)

const (
	choiceSeparatorLiteral = "|"
	choiceInvalidTemplate  = "unsupported value %q; expected one of %s"
)

// FormatChoiceUsage renders "`<preview|STABLE>` description", upper-casing the default choice.
// Blank and case-insensitive duplicate choices are omitted.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	displayed := make([]string, 0, len(choices))
	for _, choice := range distinctChoices(choices) {
		if strings.EqualFold(choice, strings.TrimSpace(defaultChoice)) {
			choice = strings.ToUpper(choice)
		}
		displayed = append(displayed, choice)
	}

	usage := "`<" + strings.Join(displayed, choiceSeparatorLiteral) + ">`"
	if trimmedDescription := strings.TrimSpace(description); len(trimmedDescription) > 0 {
		usage += " " + trimmedDescription
	}
	return usage
}

// ParseChoice returns the canonical choice matching value, ignoring case and surrounding whitespace.
func ParseChoice(value string, choices []string) (string, error) {
	trimmedValue := strings.TrimSpace(value)
	choiceIndex := slices.IndexFunc(choices, func(choice string) bool {
		return strings.EqualFold(strings.TrimSpace(choice), trimmedValue)
	})
	if choiceIndex < 0 {
		return "", fmt.Errorf(choiceInvalidTemplate, value, strings.Join(choices, choiceSeparatorLiteral))
	}
	return choices[choiceIndex], nil
}

func distinctChoices(choices []string) []string {
	distinct := make([]string, 0, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}
		if slices.ContainsFunc(distinct, func(existing string) bool { return strings.EqualFold(existing, trimmedChoice) }) {
			continue
		}
		distinct = append(distinct, trimmedChoice)
	}
	return distinct
}
