package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lattice-ci/lattice-go/internal/expand"
	"github.com/lattice-ci/lattice-go/internal/platform/auth"
	"github.com/lattice-ci/lattice-go/internal/recipe"
	"github.com/lattice-ci/lattice-go/internal/repo"
	"github.com/lattice-ci/lattice-go/internal/repo/postgres"
)

type createExpansionRequest struct {
	Recipe     string `json:"recipe"`
	RecipePath string `json:"recipePath,omitempty"`
	Strict     *bool  `json:"strict,omitempty"`
}

type expansionResponse struct {
	ExpansionID  string          `json:"expansionId"`
	RecipePath   string          `json:"recipePath,omitempty"`
	RecipeSHA256 string          `json:"recipeSha256"`
	JobCount     int             `json:"jobCount"`
	Jobs         json.RawMessage `json:"jobs,omitempty"`
	CreatedBy    string          `json:"createdBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (api *matrixAPI) handleCreateExpansion(w http.ResponseWriter, r *http.Request) {
	var req createExpansionRequest
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
		if code, ok := recipeErrorCode(err); ok {
			api.writeRecipeError(w, r, code, err)
			return
		}
		api.writeError(w, r, http.StatusInternalServerError, "internal_error")
		return
	}
	parsed.SourcePath = strings.TrimSpace(req.RecipePath)

	strict := api.strictAxes
	if req.Strict != nil {
		strict = *req.Strict
	}
	jobs, err := expand.Expand(parsed, expand.Options{StrictAxes: strict, Logger: api.logger})
	if err != nil {
		if code, ok := recipeErrorCode(err); ok {
			api.writeRecipeError(w, r, code, err)
			return
		}
		api.writeRecipeError(w, r, "invalid_recipe", err)
		return
	}

	jobsJSON, err := expand.MarshalJobs(jobs)
	if err != nil {
		api.writeError(w, r, http.StatusInternalServerError, "internal_error")
		return
	}

	sum := sha256.Sum256([]byte(req.Recipe))
	recipeSHA := hex.EncodeToString(sum[:])

	createdBy := ""
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		createdBy = identity.Subject
	}

	store := postgres.NewExpansionStore(api.db)
	record, err := store.CreateExpansion(r.Context(), uuid.NewString(), parsed.SourcePath, recipeSHA, len(jobs), jobsJSON, createdBy)
	if err != nil {
		api.logger.Error("persist expansion failed", "request_id", r.Header.Get("X-Request-Id"), "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error")
		return
	}

	api.writeJSON(w, http.StatusCreated, expansionResponse{
		ExpansionID:  record.ID,
		RecipePath:   record.RecipePath,
		RecipeSHA256: record.RecipeSHA256,
		JobCount:     record.JobCount,
		Jobs:         json.RawMessage(record.Jobs),
		CreatedBy:    record.CreatedBy,
		CreatedAt:    record.CreatedAt,
	})
}

func (api *matrixAPI) handleGetExpansion(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("expansion_id"))
	if id == "" {
		api.writeError(w, r, http.StatusBadRequest, "expansion_id_required")
		return
	}

	store := postgres.NewExpansionStore(api.db)
	record, err := store.GetExpansion(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, r, http.StatusNotFound, "expansion_not_found")
			return
		}
		api.writeError(w, r, http.StatusInternalServerError, "internal_error")
		return
	}

	api.writeJSON(w, http.StatusOK, expansionResponse{
		ExpansionID:  record.ID,
		RecipePath:   record.RecipePath,
		RecipeSHA256: record.RecipeSHA256,
		JobCount:     record.JobCount,
		Jobs:         json.RawMessage(record.Jobs),
		CreatedBy:    record.CreatedBy,
		CreatedAt:    record.CreatedAt,
	})
}

func (api *matrixAPI) handleListExpansions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			api.writeError(w, r, http.StatusBadRequest, "invalid_limit")
			return
		}
		limit = parsed
	}

	store := postgres.NewExpansionStore(api.db)
	records, err := store.ListRecentExpansions(r.Context(), limit)
	if err != nil {
		api.writeError(w, r, http.StatusInternalServerError, "internal_error")
		return
	}

	// Job payloads are omitted from listings; fetch one expansion for the
	// full matrix.
	items := make([]expansionResponse, 0, len(records))
	for _, record := range records {
		items = append(items, expansionResponse{
			ExpansionID:  record.ID,
			RecipePath:   record.RecipePath,
			RecipeSHA256: record.RecipeSHA256,
			JobCount:     record.JobCount,
			CreatedBy:    record.CreatedBy,
			CreatedAt:    record.CreatedAt,
		})
	}
	api.writeJSON(w, http.StatusOK, map[string]any{"expansions": items})
}
