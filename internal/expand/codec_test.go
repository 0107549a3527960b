package expand

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/lattice-ci/lattice-go/internal/domain"
)

func TestMarshalJobsStableBytes(t *testing.T) {
	jobs := []domain.Job{{
		Name:       "A_dev",
		TestCase:   "A",
		GroupIndex: 0,
		Vars: map[string]string{
			"test_case":   "A",
			"environment": "dev",
			"model":       "gpt3",
		},
		Script:           "bash test.sh A",
		Resources:        domain.Resources{Nodes: 1, GPUs: 8, Platform: "dgx_h100"},
		Artifacts:        []domain.ArtifactMount{{Dest: "/workspace/data", Source: "data/pile"}},
		GoldenValuesPath: "test_cases/gpt3/A/golden_values_dev_dgx_h100.json",
		TimeLimit:        1200,
		NRepeat:          1,
	}}

	first, err := MarshalJobs(jobs)
	if err != nil {
		t.Fatalf("MarshalJobs() err=%v", err)
	}
	second, err := MarshalJobs(jobs)
	if err != nil {
		t.Fatalf("MarshalJobs() err=%v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("identical jobs produced different bytes")
	}

	back, err := UnmarshalJobs(first)
	if err != nil {
		t.Fatalf("UnmarshalJobs() err=%v", err)
	}
	if !reflect.DeepEqual(jobs, back) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, jobs)
	}
}

func TestUnmarshalJobsRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalJobs([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
