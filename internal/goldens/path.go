package goldens

import (
	"fmt"
	"strings"
)

// PathFor derives the golden-value baseline path for one job. The layout
// mirrors the test-case tree the training repo keeps its accepted baselines
// in; downstream diffing resolves the path, we only thread it through.
//
// Returns "" when any coordinate is missing: not every job carries a
// baseline (for example, build-only scopes).
func PathFor(model, testCase, environment, platform string) string {
	model = strings.TrimSpace(model)
	testCase = strings.TrimSpace(testCase)
	environment = strings.TrimSpace(environment)
	platform = strings.TrimSpace(platform)
	if model == "" || testCase == "" || environment == "" || platform == "" {
		return ""
	}
	return fmt.Sprintf("test_cases/%s/%s/golden_values_%s_%s.json", model, testCase, environment, platform)
}
