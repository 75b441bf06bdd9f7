package ui

import (
	"fmt"
	"io"
	"strings"

	udiff "github.com/aymanbagabas/go-udiff"
	"github.com/fatih/color"

	"github.com/temirov/promote/internal/stagedtree"
)

const (
	diffFromPrefixConstant        = "a/"
	diffToPrefixConstant          = "b/"
	diffAdditionPrefixConstant    = "+"
	diffRemovalPrefixConstant     = "-"
	diffHunkPrefixConstant        = "@@"
	diffHeaderFromPrefixConstant  = "---"
	diffHeaderToPrefixConstant    = "+++"
	changeHeaderTemplateConstant  = "%s %s"
	changeSummaryTemplateConstant = "%d file(s) staged"
	noChangesMessageConstant      = "No staged changes"
	commandsHeaderConstant        = "Queued commands:"
	commandLineTemplateConstant   = "  %d. %s"
	noCommandsMessageConstant     = "No queued commands"
	diffLineSeparatorConstant     = "\n"
)

// ChangeRenderer prints staged changes as unified diffs.
type ChangeRenderer struct {
	output   io.Writer
	header   *color.Color
	addition *color.Color
	removal  *color.Color
	hunk     *color.Color
	plain    *color.Color
}

// NewChangeRenderer constructs a renderer writing to output. Colors are emitted only when colorEnabled is set.
func NewChangeRenderer(output io.Writer, colorEnabled bool) *ChangeRenderer {
	if output == nil {
		output = io.Discard
	}
	renderer := &ChangeRenderer{
		output:   output,
		header:   color.New(color.Bold),
		addition: color.New(color.FgGreen),
		removal:  color.New(color.FgRed),
		hunk:     color.New(color.FgCyan),
		plain:    color.New(),
	}
	for _, palette := range []*color.Color{renderer.header, renderer.addition, renderer.removal, renderer.hunk, renderer.plain} {
		if colorEnabled {
			palette.EnableColor()
		} else {
			palette.DisableColor()
		}
	}
	return renderer
}

// RenderChanges writes one header and diff per change, followed by a summary line.
func (renderer *ChangeRenderer) RenderChanges(changes []stagedtree.FileChange) error {
	if len(changes) == 0 {
		_, writeError := fmt.Fprintln(renderer.output, noChangesMessageConstant)
		return writeError
	}
	for _, change := range changes {
		if _, writeError := renderer.header.Fprintln(renderer.output, fmt.Sprintf(changeHeaderTemplateConstant, strings.ToUpper(string(change.Type)), change.Path)); writeError != nil {
			return writeError
		}
		diff := udiff.Unified(diffFromPrefixConstant+change.Path, diffToPrefixConstant+change.Path, string(change.Before), string(change.After))
		if writeError := renderer.renderDiff(diff); writeError != nil {
			return writeError
		}
	}
	_, writeError := fmt.Fprintln(renderer.output, fmt.Sprintf(changeSummaryTemplateConstant, len(changes)))
	return writeError
}

func (renderer *ChangeRenderer) renderDiff(diff string) error {
	trimmedDiff := strings.TrimRight(diff, diffLineSeparatorConstant)
	if len(trimmedDiff) == 0 {
		return nil
	}
	for _, line := range strings.Split(trimmedDiff, diffLineSeparatorConstant) {
		if _, writeError := renderer.paletteFor(line).Fprintln(renderer.output, line); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (renderer *ChangeRenderer) paletteFor(line string) *color.Color {
	switch {
	case strings.HasPrefix(line, diffHeaderFromPrefixConstant), strings.HasPrefix(line, diffHeaderToPrefixConstant):
		return renderer.header
	case strings.HasPrefix(line, diffHunkPrefixConstant):
		return renderer.hunk
	case strings.HasPrefix(line, diffAdditionPrefixConstant):
		return renderer.addition
	case strings.HasPrefix(line, diffRemovalPrefixConstant):
		return renderer.removal
	default:
		return renderer.plain
	}
}

// RenderCommands lists queued command lines in execution order.
func (renderer *ChangeRenderer) RenderCommands(commandLines []string) error {
	if len(commandLines) == 0 {
		_, writeError := fmt.Fprintln(renderer.output, noCommandsMessageConstant)
		return writeError
	}
	if _, writeError := renderer.header.Fprintln(renderer.output, commandsHeaderConstant); writeError != nil {
		return writeError
	}
	for commandIndex, commandLine := range commandLines {
		if _, writeError := fmt.Fprintln(renderer.output, fmt.Sprintf(commandLineTemplateConstant, commandIndex+1, commandLine)); writeError != nil {
			return writeError
		}
	}
	return nil
}
