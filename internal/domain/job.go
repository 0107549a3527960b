package domain

// Job is one fully-resolved test invocation derived from a Recipe. Jobs are
// recomputed on every expansion and never exist apart from their recipe.
type Job struct {
	Name       string
	TestCase   string
	GroupIndex int

	// Vars is the merged variable set: spec defaults, then the test_case
	// value, then one concrete value per axis, later sources winning.
	Vars map[string]string

	// ScriptSetup and Script have job-scoped placeholders resolved;
	// ${{...}} environment placeholders are left for the executor.
	ScriptSetup string
	Script      string

	Resources Resources
	Artifacts []ArtifactMount

	// GoldenValuesPath locates the accepted baseline for regression
	// comparison. Opaque here; the diffing tool interprets it.
	GoldenValuesPath string

	TimeLimit int
	NRepeat   int
}

// Resources describes the hardware a job requires.
type Resources struct {
	Nodes    int
	GPUs     int
	Platform string
}
