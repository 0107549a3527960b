package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Recipe is a declarative CI test description: a templated training script
// plus the parameter matrix it is expanded against.
type Recipe struct {
	Type          string
	FormatVersion int
	Maintainers   []string
	Loggers       []string
	Spec          RecipeSpec
	Products      []ProductGroup

	// SourcePath is where the recipe was read from, kept for error reporting.
	SourcePath string
}

// RecipeSpec holds the shared job template: the name pattern, resource
// requirements, and the setup/main script bodies.
type RecipeSpec struct {
	Name        string
	Model       string
	Build       string
	Nodes       int
	GPUs        int
	Platforms   string
	TimeLimit   int
	NRepeat     int
	Artifacts   []ArtifactMount
	ScriptSetup string
	Script      string

	// Extra carries spec fields beyond the known set, in document order.
	// They participate in the job variable namespace like any other field.
	Extra []SpecField
}

type SpecField struct {
	Key   string
	Value string
}

// ArtifactMount maps a workspace destination to a data-store source.
type ArtifactMount struct {
	Dest   string
	Source string
}

// ProductGroup pairs a set of test-case identifiers with the axis bindings
// they are expanded against.
type ProductGroup struct {
	TestCases []string
	Bindings  []AxisBinding
}

// AxisBinding is one entry of a group's products list: an ordered set of
// axes, each with its enumerated value list.
type AxisBinding struct {
	Axes []Axis
}

// Axis is a named template variable with its allowed values, in document
// order. Order is load-bearing: expansion order follows it.
type Axis struct {
	Key    string
	Values []string
}

// ValidateBasicShape performs lightweight structural checks on a parsed
// recipe without expanding it.
func (r Recipe) ValidateBasicShape() error {
	if strings.TrimSpace(r.Type) == "" {
		return errors.New("type is required")
	}
	if r.FormatVersion <= 0 {
		return errors.New("format_version must be positive")
	}
	if len(r.Maintainers) == 0 {
		return errors.New("maintainers must be non-empty")
	}
	if strings.TrimSpace(r.Spec.Name) == "" {
		return errors.New("spec.name is required")
	}
	if strings.TrimSpace(r.Spec.Script) == "" {
		return errors.New("spec.script is required")
	}
	if r.Products == nil {
		return errors.New("products are required")
	}
	for i, group := range r.Products {
		if len(group.TestCases) == 0 {
			return fmt.Errorf("products[%d] test_case is required", i)
		}
		for _, tc := range group.TestCases {
			if strings.TrimSpace(tc) == "" {
				return fmt.Errorf("products[%d] test_case entries must be non-empty", i)
			}
		}
	}
	return nil
}

// AxisKeySet returns the set of axis keys declared across a group's bindings.
func (g ProductGroup) AxisKeySet() map[string]struct{} {
	keys := make(map[string]struct{})
	for _, binding := range g.Bindings {
		for _, axis := range binding.Axes {
			keys[axis.Key] = struct{}{}
		}
	}
	return keys
}
