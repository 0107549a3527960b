package expand

import (
	"encoding/json"

	"github.com/lattice-ci/lattice-go/internal/domain"
)

// MarshalJobs serializes a job sequence with stable field names. Map keys
// marshal sorted, so identical expansions produce identical bytes.
func MarshalJobs(jobs []domain.Job) ([]byte, error) {
	payload := make([]jobPayload, 0, len(jobs))
	for _, job := range jobs {
		payload = append(payload, jobPayload{
			Name:             job.Name,
			TestCase:         job.TestCase,
			GroupIndex:       job.GroupIndex,
			Vars:             job.Vars,
			ScriptSetup:      job.ScriptSetup,
			Script:           job.Script,
			Resources:        resourcesPayloadFromDomain(job.Resources),
			Artifacts:        artifactPayloadFromDomain(job.Artifacts),
			GoldenValuesPath: job.GoldenValuesPath,
			TimeLimitSeconds: job.TimeLimit,
			NRepeat:          job.NRepeat,
		})
	}
	return json.Marshal(payload)
}

// UnmarshalJobs parses a persisted job sequence back into domain Jobs.
func UnmarshalJobs(raw []byte) ([]domain.Job, error) {
	var payload []jobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	jobs := make([]domain.Job, 0, len(payload))
	for _, item := range payload {
		artifacts := make([]domain.ArtifactMount, 0, len(item.Artifacts))
		for _, mount := range item.Artifacts {
			artifacts = append(artifacts, domain.ArtifactMount{Dest: mount.Dest, Source: mount.Source})
		}
		jobs = append(jobs, domain.Job{
			Name:        item.Name,
			TestCase:    item.TestCase,
			GroupIndex:  item.GroupIndex,
			Vars:        item.Vars,
			ScriptSetup: item.ScriptSetup,
			Script:      item.Script,
			Resources: domain.Resources{
				Nodes:    item.Resources.Nodes,
				GPUs:     item.Resources.GPUs,
				Platform: item.Resources.Platform,
			},
			Artifacts:        artifacts,
			GoldenValuesPath: item.GoldenValuesPath,
			TimeLimit:        item.TimeLimitSeconds,
			NRepeat:          item.NRepeat,
		})
	}
	return jobs, nil
}

type jobPayload struct {
	Name             string            `json:"name"`
	TestCase         string            `json:"testCase"`
	GroupIndex       int               `json:"groupIndex"`
	Vars             map[string]string `json:"vars"`
	ScriptSetup      string            `json:"scriptSetup,omitempty"`
	Script           string            `json:"script"`
	Resources        resourcesPayload  `json:"resources"`
	Artifacts        []artifactPayload `json:"artifacts,omitempty"`
	GoldenValuesPath string            `json:"goldenValuesPath,omitempty"`
	TimeLimitSeconds int               `json:"timeLimitSeconds,omitempty"`
	NRepeat          int               `json:"nRepeat,omitempty"`
}

type resourcesPayload struct {
	Nodes    int    `json:"nodes"`
	GPUs     int    `json:"gpus"`
	Platform string `json:"platform,omitempty"`
}

type artifactPayload struct {
	Dest   string `json:"dest"`
	Source string `json:"source"`
}

func resourcesPayloadFromDomain(res domain.Resources) resourcesPayload {
	return resourcesPayload{
		Nodes:    res.Nodes,
		GPUs:     res.GPUs,
		Platform: res.Platform,
	}
}

func artifactPayloadFromDomain(mounts []domain.ArtifactMount) []artifactPayload {
	out := make([]artifactPayload, 0, len(mounts))
	for _, mount := range mounts {
		out = append(out, artifactPayload{Dest: mount.Dest, Source: mount.Source})
	}
	return out
}
