package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lattice-ci/lattice-go/internal/expand"
	"github.com/lattice-ci/lattice-go/internal/goldens"
	"github.com/lattice-ci/lattice-go/internal/recipe"
	"github.com/lattice-ci/lattice-go/internal/template"
)

const maxRecipeBytes = 4 << 20

type matrixAPI struct {
	logger       *slog.Logger
	db           *sql.DB
	goldens      *goldens.Store
	strictAxes   bool
	goldenURLTTL time.Duration
}

func newMatrixAPI(logger *slog.Logger, db *sql.DB, goldenStore *goldens.Store, strictAxes bool, goldenURLTTL time.Duration) *matrixAPI {
	return &matrixAPI{
		logger:       logger,
		db:           db,
		goldens:      goldenStore,
		strictAxes:   strictAxes,
		goldenURLTTL: goldenURLTTL,
	}
}

func (api *matrixAPI) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /expansions", api.handleCreateExpansion)
	mux.HandleFunc("GET /expansions", api.handleListExpansions)
	mux.HandleFunc("GET /expansions/{expansion_id}", api.handleGetExpansion)
	mux.HandleFunc("POST /recipes/validate", api.handleValidateRecipe)
	mux.HandleFunc("GET /goldens/{model}/{test_case}", api.handleGetGolden)
}

func (api *matrixAPI) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(body)
}

func (api *matrixAPI) writeError(w http.ResponseWriter, r *http.Request, status int, code string) {
	api.writeJSON(w, status, map[string]any{
		"error":      code,
		"request_id": r.Header.Get("X-Request-Id"),
	})
}

func (api *matrixAPI) writeRecipeError(w http.ResponseWriter, r *http.Request, code string, err error) {
	api.writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":      code,
		"detail":     err.Error(),
		"request_id": r.Header.Get("X-Request-Id"),
	})
}

func decodeJSON(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRecipeBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// recipeErrorCode maps the recipe error taxonomy to API error codes.
// Anything outside the taxonomy is an internal error.
func recipeErrorCode(err error) (string, bool) {
	var malformed *recipe.MalformedRecipeError
	var invalidAxis *recipe.InvalidAxisError
	var duplicateAxis *expand.DuplicateAxisKeyError
	var unbound *template.UnboundPlaceholderError
	switch {
	case errors.As(err, &malformed):
		return "malformed_recipe", true
	case errors.As(err, &invalidAxis):
		return "invalid_axis", true
	case errors.As(err, &duplicateAxis):
		return "duplicate_axis_key", true
	case errors.As(err, &unbound):
		return "unbound_placeholder", true
	default:
		return "", false
	}
}
