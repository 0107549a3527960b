package recipe

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lattice-ci/lattice-go/internal/domain"
)

// Parse decodes recipe text into a structured Recipe. It is a pure parse:
// no expansion, no side effects. Axis bindings and extra spec fields are
// walked through yaml.Node so document order survives; expansion order
// depends on it.
func Parse(src []byte) (domain.Recipe, error) {
	return parse(src, "")
}

// ParseFile reads and parses the recipe at path. The path is recorded on
// the Recipe and carried into every error this package reports.
func ParseFile(path string) (domain.Recipe, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("read recipe: %w", err)
	}
	return parse(src, path)
}

func parse(src []byte, path string) (domain.Recipe, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return domain.Recipe{}, &MalformedRecipeError{Path: path, Reason: fmt.Sprintf("invalid yaml: %v", err)}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return domain.Recipe{}, &MalformedRecipeError{Path: path, Reason: "empty document"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return domain.Recipe{}, &MalformedRecipeError{Path: path, Reason: "document root must be a mapping"}
	}

	recipe := domain.Recipe{SourcePath: path}
	seen := map[string]bool{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		value := root.Content[i+1]
		seen[key] = true
		var err error
		switch key {
		case "type":
			recipe.Type, err = scalarString(value, path, key)
		case "format_version":
			recipe.FormatVersion, err = scalarInt(value, path, key)
		case "maintainers":
			recipe.Maintainers, err = stringList(value, path, key)
		case "loggers":
			recipe.Loggers, err = stringList(value, path, key)
		case "spec":
			recipe.Spec, err = parseSpec(value, path)
		case "products":
			recipe.Products, err = parseProducts(value, path)
		}
		if err != nil {
			return domain.Recipe{}, err
		}
	}

	for _, required := range []string{"type", "spec", "products"} {
		if !seen[required] {
			return domain.Recipe{}, &MalformedRecipeError{Path: path, Field: required, Reason: "required key is absent"}
		}
	}
	if err := recipe.ValidateBasicShape(); err != nil {
		return domain.Recipe{}, &MalformedRecipeError{Path: path, Reason: err.Error()}
	}
	return recipe, nil
}

func parseSpec(node *yaml.Node, path string) (domain.RecipeSpec, error) {
	if node.Kind != yaml.MappingNode {
		return domain.RecipeSpec{}, &MalformedRecipeError{Path: path, Field: "spec", Reason: "must be a mapping"}
	}

	var spec domain.RecipeSpec
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]
		field := "spec." + key
		var err error
		switch key {
		case "name":
			spec.Name, err = scalarString(value, path, field)
		case "model":
			spec.Model, err = scalarString(value, path, field)
		case "build":
			spec.Build, err = scalarString(value, path, field)
		case "nodes":
			spec.Nodes, err = scalarInt(value, path, field)
		case "gpus":
			spec.GPUs, err = scalarInt(value, path, field)
		case "platforms":
			spec.Platforms, err = scalarString(value, path, field)
		case "time_limit":
			spec.TimeLimit, err = scalarInt(value, path, field)
		case "n_repeat":
			spec.NRepeat, err = scalarInt(value, path, field)
		case "artifacts":
			spec.Artifacts, err = parseArtifacts(value, path)
		case "script_setup":
			spec.ScriptSetup, err = scalarString(value, path, field)
		case "script":
			spec.Script, err = scalarString(value, path, field)
		default:
			if value.Kind != yaml.ScalarNode {
				return domain.RecipeSpec{}, &MalformedRecipeError{Path: path, Field: field, Reason: "must be a scalar"}
			}
			spec.Extra = append(spec.Extra, domain.SpecField{Key: key, Value: value.Value})
		}
		if err != nil {
			return domain.RecipeSpec{}, err
		}
	}
	return spec, nil
}

func parseArtifacts(node *yaml.Node, path string) ([]domain.ArtifactMount, error) {
	if node.Kind != yaml.MappingNode {
		return nil, &MalformedRecipeError{Path: path, Field: "spec.artifacts", Reason: "must be a mapping"}
	}
	mounts := make([]domain.ArtifactMount, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		dest := node.Content[i].Value
		source := node.Content[i+1]
		if source.Kind != yaml.ScalarNode {
			return nil, &MalformedRecipeError{Path: path, Field: "spec.artifacts", Reason: fmt.Sprintf("source for %q must be a scalar", dest)}
		}
		mounts = append(mounts, domain.ArtifactMount{Dest: dest, Source: source.Value})
	}
	return mounts, nil
}

func parseProducts(node *yaml.Node, path string) ([]domain.ProductGroup, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, &MalformedRecipeError{Path: path, Field: "products", Reason: "must be a list"}
	}
	groups := make([]domain.ProductGroup, 0, len(node.Content))
	for gi, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return nil, &MalformedRecipeError{Path: path, Field: fmt.Sprintf("products[%d]", gi), Reason: "must be a mapping"}
		}
		var group domain.ProductGroup
		sawTestCase := false
		for i := 0; i+1 < len(item.Content); i += 2 {
			key := item.Content[i].Value
			value := item.Content[i+1]
			switch key {
			case "test_case":
				sawTestCase = true
				cases, err := stringList(value, path, fmt.Sprintf("products[%d].test_case", gi))
				if err != nil {
					return nil, err
				}
				group.TestCases = cases
			case "products":
				bindings, err := parseBindings(value, path, gi)
				if err != nil {
					return nil, err
				}
				group.Bindings = bindings
			default:
				return nil, &MalformedRecipeError{
					Path:   path,
					Field:  fmt.Sprintf("products[%d].%s", gi, key),
					Reason: "unknown product group key",
				}
			}
		}
		if !sawTestCase {
			return nil, &MalformedRecipeError{Path: path, Field: fmt.Sprintf("products[%d].test_case", gi), Reason: "required key is absent"}
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func parseBindings(node *yaml.Node, path string, group int) ([]domain.AxisBinding, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, &MalformedRecipeError{Path: path, Field: fmt.Sprintf("products[%d].products", group), Reason: "must be a list"}
	}
	bindings := make([]domain.AxisBinding, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return nil, &MalformedRecipeError{Path: path, Field: fmt.Sprintf("products[%d].products", group), Reason: "entries must be mappings"}
		}
		var binding domain.AxisBinding
		for i := 0; i+1 < len(item.Content); i += 2 {
			axisKey := item.Content[i].Value
			value := item.Content[i+1]
			if value.Kind != yaml.SequenceNode {
				return nil, &InvalidAxisError{Path: path, Group: group, Axis: axisKey, Reason: "value set must be a list"}
			}
			if len(value.Content) == 0 {
				return nil, &InvalidAxisError{Path: path, Group: group, Axis: axisKey, Reason: "value set is empty"}
			}
			values := make([]string, 0, len(value.Content))
			for _, v := range value.Content {
				if v.Kind != yaml.ScalarNode {
					return nil, &InvalidAxisError{Path: path, Group: group, Axis: axisKey, Reason: "values must be scalars"}
				}
				values = append(values, v.Value)
			}
			binding.Axes = append(binding.Axes, domain.Axis{Key: axisKey, Values: values})
		}
		bindings = append(bindings, binding)
	}
	return bindings, nil
}

func scalarString(node *yaml.Node, path, field string) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", &MalformedRecipeError{Path: path, Field: field, Reason: "must be a scalar"}
	}
	return node.Value, nil
}

func scalarInt(node *yaml.Node, path, field string) (int, error) {
	raw, err := scalarString(node, path, field)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &MalformedRecipeError{Path: path, Field: field, Reason: fmt.Sprintf("must be an integer (got %q)", raw)}
	}
	return n, nil
}

func stringList(node *yaml.Node, path, field string) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, &MalformedRecipeError{Path: path, Field: field, Reason: "must be a list"}
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, &MalformedRecipeError{Path: path, Field: field, Reason: "entries must be scalars"}
		}
		out = append(out, item.Value)
	}
	return out, nil
}
