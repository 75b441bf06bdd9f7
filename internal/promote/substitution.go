package promote

import (
	"sort"
	"strings"

	"github.com/temirov/promote/internal/workspace"
)

// TokenReplacement maps an identity token to its replacement.
type TokenReplacement struct {
	Old string
	New string
}

// ReplaceTokens substitutes every bounded occurrence of each Old token.
//
// An occurrence is bounded when the characters around it cannot continue an
// identity, so "@x/a-preview" never matches inside "@x/a-preview-extra".
// Longer tokens are applied first. The returned count is the number of
// substitutions performed.
func ReplaceTokens(content string, replacements []TokenReplacement) (string, int) {
	orderedReplacements := append([]TokenReplacement{}, replacements...)
	sort.SliceStable(orderedReplacements, func(left int, right int) bool {
		return len(orderedReplacements[left].Old) > len(orderedReplacements[right].Old)
	})

	totalCount := 0
	for _, replacement := range orderedReplacements {
		if len(replacement.Old) == 0 || replacement.Old == replacement.New {
			continue
		}
		var replacementCount int
		content, replacementCount = replaceBoundedToken(content, replacement.Old, replacement.New)
		totalCount += replacementCount
	}
	return content, totalCount
}

func replaceBoundedToken(content string, oldToken string, newToken string) (string, int) {
	var builder strings.Builder
	replacementCount := 0
	cursor := 0
	searchOffset := 0
	for {
		relativeIndex := strings.Index(content[searchOffset:], oldToken)
		if relativeIndex < 0 {
			break
		}
		matchStart := searchOffset + relativeIndex
		matchEnd := matchStart + len(oldToken)
		if !tokenBounded(content, matchStart, matchEnd) {
			searchOffset = matchStart + 1
			continue
		}
		builder.WriteString(content[cursor:matchStart])
		builder.WriteString(newToken)
		cursor = matchEnd
		searchOffset = matchEnd
		replacementCount++
	}
	if replacementCount == 0 {
		return content, 0
	}
	builder.WriteString(content[cursor:])
	return builder.String(), replacementCount
}

func tokenBounded(content string, matchStart int, matchEnd int) bool {
	if matchStart > 0 && isIdentityCharacter(content[matchStart-1]) {
		return false
	}
	if matchEnd < len(content) && isIdentityCharacter(content[matchEnd]) {
		return false
	}
	return true
}

func isIdentityCharacter(character byte) bool {
	switch {
	case character >= 'a' && character <= 'z':
		return true
	case character >= 'A' && character <= 'Z':
		return true
	case character >= '0' && character <= '9':
		return true
	case character == '_' || character == '-' || character == '@':
		return true
	default:
		return false
	}
}

// RewriteImportSpecifiers replaces quoted module specifiers naming oldIdentity,
// or a subpath of it, with newIdentity. Subpaths are carried over only when
// keepSubpath is set. Runs of blanks between the import keyword and the
// rewritten specifier are collapsed to their first blank.
func RewriteImportSpecifiers(content string, oldIdentity string, newIdentity string, keepSubpath bool) (string, int) {
	var builder strings.Builder
	replacementCount := 0
	cursor := 0
	for _, specifier := range workspace.FindImportSpecifiers(content) {
		subpath, targetsIdentity := workspace.SpecifierTargets(specifier.Value, oldIdentity)
		if !targetsIdentity {
			continue
		}
		replacement := newIdentity
		if keepSubpath {
			replacement += subpath
		}
		quoteOffset := specifier.Start - 1
		builder.WriteString(content[cursor:specifier.KeywordStart])
		builder.WriteString(collapseBlanks(content[specifier.KeywordStart:quoteOffset]))
		builder.WriteString(content[quoteOffset:specifier.Start])
		builder.WriteString(replacement)
		cursor = specifier.End
		replacementCount++
	}
	if replacementCount == 0 {
		return content, 0
	}
	builder.WriteString(content[cursor:])
	return builder.String(), replacementCount
}

func collapseBlanks(segment string) string {
	var builder strings.Builder
	previousBlank := false
	for _, character := range segment {
		isBlank := character == ' ' || character == '\t'
		if isBlank && previousBlank {
			continue
		}
		builder.WriteRune(character)
		previousBlank = isBlank
	}
	return builder.String()
}
