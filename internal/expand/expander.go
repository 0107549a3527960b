// Package expand turns a parsed Recipe into its concrete job matrix.
//
// Expansion is a pure, single-pass computation. Order is fully determined
// by document order: group order, then test_case order, then the cartesian
// product of the group's axes left-to-right with values in listed order.
// Downstream CI job naming depends on reproducible ordering, so nothing on
// this path iterates a map.
package expand

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lattice-ci/lattice-go/internal/domain"
	"github.com/lattice-ci/lattice-go/internal/goldens"
	"github.com/lattice-ci/lattice-go/internal/template"
)

// DuplicateAxisKeyError reports an axis declared twice within one product
// group. Only raised in strict mode; the default policy is last-write-wins
// because recipes rely on override semantics.
type DuplicateAxisKeyError struct {
	Path  string
	Group int
	Axis  string
}

func (e *DuplicateAxisKeyError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("duplicate axis key %q in %s products[%d]", e.Axis, e.Path, e.Group)
	}
	return fmt.Sprintf("duplicate axis key %q in products[%d]", e.Axis, e.Group)
}

type Options struct {
	// StrictAxes upgrades duplicate axis keys from a logged warning to a
	// DuplicateAxisKeyError.
	StrictAxes bool
	Logger     *slog.Logger
}

// Expand enumerates the ordered job sequence for a recipe.
func Expand(r domain.Recipe, opts Options) ([]domain.Job, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var jobs []domain.Job
	for gi, group := range r.Products {
		// No binding, no job: a group with test cases but an empty
		// products list yields nothing.
		if len(group.Bindings) == 0 {
			continue
		}
		axes, err := mergeGroupAxes(r.SourcePath, gi, group.Bindings, opts.StrictAxes, logger)
		if err != nil {
			return nil, err
		}
		combos := cartesian(axes)
		for _, testCase := range group.TestCases {
			for _, combo := range combos {
				job, err := buildJob(r, gi, testCase, axes, combo)
				if err != nil {
					return nil, wrapGroupErr(r.SourcePath, gi, err)
				}
				jobs = append(jobs, job)
			}
		}
	}
	return jobs, nil
}

// mergeGroupAxes flattens a group's bindings into one ordered axis list.
// A redeclared axis keeps its first position; the later value set wins.
func mergeGroupAxes(path string, group int, bindings []domain.AxisBinding, strict bool, logger *slog.Logger) ([]domain.Axis, error) {
	var axes []domain.Axis
	index := make(map[string]int)
	for _, binding := range bindings {
		for _, axis := range binding.Axes {
			at, exists := index[axis.Key]
			if !exists {
				index[axis.Key] = len(axes)
				axes = append(axes, axis)
				continue
			}
			if strict {
				return nil, &DuplicateAxisKeyError{Path: path, Group: group, Axis: axis.Key}
			}
			logger.Warn("duplicate axis key, later declaration wins",
				"recipe", path,
				"group", group,
				"axis", axis.Key,
			)
			axes[at].Values = axis.Values
		}
	}
	return axes, nil
}

// cartesian enumerates value combinations with the first axis outermost and
// the last axis varying fastest. No axes means a single empty combination.
func cartesian(axes []domain.Axis) [][]string {
	combos := [][]string{{}}
	for _, axis := range axes {
		next := make([][]string, 0, len(combos)*len(axis.Values))
		for _, combo := range combos {
			for _, value := range axis.Values {
				grown := make([]string, len(combo), len(combo)+1)
				copy(grown, combo)
				next = append(next, append(grown, value))
			}
		}
		combos = next
	}
	return combos
}

func buildJob(r domain.Recipe, group int, testCase string, axes []domain.Axis, combo []string) (domain.Job, error) {
	vars := baseVars(r.Spec)
	vars["test_case"] = testCase
	for i, axis := range axes {
		vars[axis.Key] = combo[i]
	}

	name, err := template.Resolve(r.Spec.Name, vars)
	if err != nil {
		return domain.Job{}, fmt.Errorf("resolve name: %w", err)
	}
	scriptSetup, err := template.Resolve(r.Spec.ScriptSetup, vars)
	if err != nil {
		return domain.Job{}, fmt.Errorf("resolve script_setup: %w", err)
	}
	script, err := template.Resolve(r.Spec.Script, vars)
	if err != nil {
		return domain.Job{}, fmt.Errorf("resolve script: %w", err)
	}

	nodes, err := intVar(vars, "nodes", r.Spec.Nodes)
	if err != nil {
		return domain.Job{}, err
	}
	gpus, err := intVar(vars, "gpus", r.Spec.GPUs)
	if err != nil {
		return domain.Job{}, err
	}
	timeLimit, err := intVar(vars, "time_limit", r.Spec.TimeLimit)
	if err != nil {
		return domain.Job{}, err
	}
	nRepeat, err := intVar(vars, "n_repeat", r.Spec.NRepeat)
	if err != nil {
		return domain.Job{}, err
	}

	artifacts := make([]domain.ArtifactMount, 0, len(r.Spec.Artifacts))
	for _, mount := range r.Spec.Artifacts {
		dest, err := template.Resolve(mount.Dest, vars)
		if err != nil {
			return domain.Job{}, fmt.Errorf("resolve artifact dest: %w", err)
		}
		source, err := template.Resolve(mount.Source, vars)
		if err != nil {
			return domain.Job{}, fmt.Errorf("resolve artifact source: %w", err)
		}
		artifacts = append(artifacts, domain.ArtifactMount{Dest: dest, Source: source})
	}

	return domain.Job{
		Name:        name,
		TestCase:    testCase,
		GroupIndex:  group,
		Vars:        vars,
		ScriptSetup: scriptSetup,
		Script:      script,
		Resources: domain.Resources{
			Nodes:    nodes,
			GPUs:     gpus,
			Platform: vars["platforms"],
		},
		Artifacts:        artifacts,
		GoldenValuesPath: goldens.PathFor(vars["model"], testCase, vars["environment"], vars["platforms"]),
		TimeLimit:        timeLimit,
		NRepeat:          nRepeat,
	}, nil
}

// baseVars seeds the variable namespace from the spec's scalar fields.
// test_case and axis values are layered on top, later sources winning.
func baseVars(spec domain.RecipeSpec) map[string]string {
	vars := make(map[string]string, 8+len(spec.Extra))
	if spec.Model != "" {
		vars["model"] = spec.Model
	}
	if spec.Build != "" {
		vars["build"] = spec.Build
	}
	if spec.Platforms != "" {
		vars["platforms"] = spec.Platforms
	}
	if spec.Nodes > 0 {
		vars["nodes"] = strconv.Itoa(spec.Nodes)
	}
	if spec.GPUs > 0 {
		vars["gpus"] = strconv.Itoa(spec.GPUs)
	}
	if spec.TimeLimit > 0 {
		vars["time_limit"] = strconv.Itoa(spec.TimeLimit)
	}
	if spec.NRepeat > 0 {
		vars["n_repeat"] = strconv.Itoa(spec.NRepeat)
	}
	for _, field := range spec.Extra {
		vars[field.Key] = field.Value
	}
	return vars
}

func intVar(vars map[string]string, key string, fallback int) (int, error) {
	raw, ok := vars[key]
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("variable %s must be an integer (got %q)", key, raw)
	}
	return n, nil
}

func wrapGroupErr(path string, group int, err error) error {
	if path != "" {
		return fmt.Errorf("recipe %s: products[%d]: %w", path, group, err)
	}
	return fmt.Errorf("products[%d]: %w", group, err)
}
