package main

import (
	"net/http"
	"strings"

	"github.com/lattice-ci/lattice-go/internal/expand"
	"github.com/lattice-ci/lattice-go/internal/recipe"
)

type validateRecipeRequest struct {
	Recipe     string `json:"recipe"`
	RecipePath string `json:"recipePath,omitempty"`
	Strict     *bool  `json:"strict,omitempty"`
}

type validateRecipeResponse struct {
	Valid    bool     `json:"valid"`
	JobCount int      `json:"jobCount,omitempty"`
	Issues   []string `json:"issues,omitempty"`
}

// handleValidateRecipe parses and dry-run expands a recipe without
// persisting anything. CI lint stages call this before merging recipe
// changes.
func (api *matrixAPI) handleValidateRecipe(w http.ResponseWriter, r *http.Request) {
	var req validateRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}
	if strings.TrimSpace(req.Recipe) == "" {
		api.writeError(w, r, http.StatusBadRequest, "recipe_required")
		return
	}

	parsed, err := recipe.Parse([]byte(req.Recipe))
	if err != nil {
		api.writeJSON(w, http.StatusOK, validateRecipeResponse{
			Valid:  false,
			Issues: []string{err.Error()},
		})
		return
	}
	parsed.SourcePath = strings.TrimSpace(req.RecipePath)

	strict := api.strictAxes
	if req.Strict != nil {
		strict = *req.Strict
	}
	jobs, err := expand.Expand(parsed, expand.Options{StrictAxes: strict, Logger: api.logger})
	if err != nil {
		api.writeJSON(w, http.StatusOK, validateRecipeResponse{
			Valid:  false,
			Issues: []string{err.Error()},
		})
		return
	}

	api.writeJSON(w, http.StatusOK, validateRecipeResponse{
		Valid:    true,
		JobCount: len(jobs),
	})
}
