package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue               = "true"
	toggleFalseCanonicalValue              = "false"
	toggleParseErrorTemplate               = "invalid toggle value %q"
	toggleArgumentTruePlaceholderConstant  = "<YES|no>"
	toggleArgumentFalsePlaceholderConstant = "<yes|NO>"
	longFlagPrefixConstant                 = "--"
	shortFlagPrefixConstant                = "-"
	flagValueSeparatorConstant             = "="
)

var (
	toggleLiteralValues = map[string]bool{
		"true":  true,
		"yes":   true,
		"on":    true,
		"1":     true,
		"t":     true,
		"y":     true,
		"false": false,
		"no":    false,
		"off":   false,
		"0":     false,
		"f":     false,
		"n":     false,
	}

	toggleFlagRegistryMutex sync.RWMutex
	toggleFlagNames         = map[string]struct{}{}
)

// AddToggleFlag registers a boolean toggle flag that accepts yes/no style values.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	toggleValue := newToggleFlagValue(defaultValue, target)
	flagSet.VarP(toggleValue, name, shorthand, usage)

	flag := flagSet.Lookup(name)
	if flag == nil {
		return
	}
	flag.NoOptDefVal = toggleTrueCanonicalValue
	flag.Usage = formatToggleUsage(usage, defaultValue)

	toggleFlagRegistryMutex.Lock()
	defer toggleFlagRegistryMutex.Unlock()
	toggleFlagNames[longFlagPrefixConstant+name] = struct{}{}
	if len(shorthand) > 0 {
		toggleFlagNames[shortFlagPrefixConstant+shorthand] = struct{}{}
	}
}

// NormalizeToggleArguments rewrites "--flag value" into "--flag=value" for registered toggles.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	toggleFlagRegistryMutex.RLock()
	defer toggleFlagRegistryMutex.RUnlock()

	normalized := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		current := arguments[argumentIndex]
		if current == longFlagPrefixConstant {
			return append(normalized, arguments[argumentIndex:]...)
		}

		_, isToggle := toggleFlagNames[current]
		hasFollowingValue := argumentIndex+1 < len(arguments) && !strings.HasPrefix(arguments[argumentIndex+1], shortFlagPrefixConstant)
		if isToggle && hasFollowingValue && isToggleLiteral(arguments[argumentIndex+1]) {
			normalized = append(normalized, current+flagValueSeparatorConstant+arguments[argumentIndex+1])
			argumentIndex++
			continue
		}
		normalized = append(normalized, current)
	}
	return normalized
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleArgumentFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleArgumentTruePlaceholderConstant
	}
	trimmed := strings.TrimSpace(description)
	if len(trimmed) == 0 {
		return fmt.Sprintf("`%s`", placeholder)
	}
	return fmt.Sprintf("`%s` %s", placeholder, trimmed)
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleFlagValue{currentValue: defaultValue, target: target}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggleValue(rawValue)
	if parseError != nil {
		return parseError
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || !value.currentValue {
		return toggleFalseCanonicalValue
	}
	return toggleTrueCanonicalValue
}

func (value *toggleFlagValue) Type() string {
	return "bool"
}

func parseToggleValue(rawValue string) (bool, error) {
	trimmedValue := strings.TrimSpace(rawValue)
	if len(trimmedValue) == 0 {
		return true, nil
	}
	parsedValue, known := toggleLiteralValues[strings.ToLower(trimmedValue)]
	if !known {
		return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}
	return parsedValue, nil
}

func isToggleLiteral(rawValue string) bool {
	_, known := toggleLiteralValues[strings.ToLower(strings.TrimSpace(rawValue))]
	return known
}
