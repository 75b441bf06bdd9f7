package plan

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	planPathRequiredMessageConstant    = "promotion plan path must be provided"
	planEmptyMessageConstant           = "promotion plan must list at least one promotion"
	planLoadErrorTemplateConstant      = "failed to load promotion plan: %w"
	planParseErrorTemplateConstant     = "failed to parse promotion plan: %w"
	planProjectMissingTemplateConstant = "promotion %d is missing a project"
	planPhaseMissingTemplateConstant   = "promotion %d (%s) is missing a phase"
	planDuplicatePromotionTemplate     = "promotion %d repeats %s"
)

var (
	// ErrPlanPathRequired indicates that no plan path was supplied.
	ErrPlanPathRequired = errors.New(planPathRequiredMessageConstant)
	// ErrEmptyPlan indicates a plan without promotions.
	ErrEmptyPlan = errors.New(planEmptyMessageConstant)
)

// Promotion is one requested phase transition.
type Promotion struct {
	Project string `yaml:"project"`
	Phase   string `yaml:"phase"`
}

// Plan lists promotions executed in order against one workspace.
type Plan struct {
	Promotions []Promotion `yaml:"promotions"`
}

// Load reads and validates the plan stored at filePath.
func Load(filePath string) (Plan, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Plan{}, ErrPlanPathRequired
	}
	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Plan{}, fmt.Errorf(planLoadErrorTemplateConstant, readError)
	}
	return Parse(contentBytes)
}

// Parse decodes a YAML plan and validates it. Unknown fields are rejected.
func Parse(content []byte) (Plan, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var plan Plan
	if decodeError := decoder.Decode(&plan); decodeError != nil {
		return Plan{}, fmt.Errorf(planParseErrorTemplateConstant, decodeError)
	}
	if validationError := plan.Validate(); validationError != nil {
		return Plan{}, validationError
	}
	return plan, nil
}

// Validate trims every promotion and rejects blank or repeated entries.
func (plan *Plan) Validate() error {
	if len(plan.Promotions) == 0 {
		return ErrEmptyPlan
	}
	seen := make(map[string]struct{}, len(plan.Promotions))
	for promotionIndex := range plan.Promotions {
		promotion := &plan.Promotions[promotionIndex]
		promotion.Project = strings.TrimSpace(promotion.Project)
		promotion.Phase = strings.TrimSpace(promotion.Phase)
		position := promotionIndex + 1
		if len(promotion.Project) == 0 {
			return fmt.Errorf(planProjectMissingTemplateConstant, position)
		}
		if len(promotion.Phase) == 0 {
			return fmt.Errorf(planPhaseMissingTemplateConstant, position, promotion.Project)
		}
		key := promotion.Project + " " + strings.ToLower(promotion.Phase)
		if _, duplicate := seen[key]; duplicate {
			return fmt.Errorf(planDuplicatePromotionTemplate, position, promotion.Project)
		}
		seen[key] = struct{}{}
	}
	return nil
}
