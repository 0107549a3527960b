package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

type apiClient struct {
	baseURL string
	http    *http.Client
}

// newAPIClient targets a matrix service. When LATTICE_OIDC_TOKEN_URL is
// set, requests carry a client-credentials bearer token; otherwise they go
// out bare (for servers running with auth disabled).
func newAPIClient(ctx context.Context, baseURL string) *apiClient {
	client := &http.Client{Timeout: 30 * time.Second}

	if tokenURL := strings.TrimSpace(os.Getenv("LATTICE_OIDC_TOKEN_URL")); tokenURL != "" {
		cfg := clientcredentials.Config{
			ClientID:     os.Getenv("LATTICE_OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("LATTICE_OIDC_CLIENT_SECRET"),
			TokenURL:     tokenURL,
		}
		client = cfg.Client(ctx)
		client.Timeout = 30 * time.Second
	}

	return &apiClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    client,
	}
}

type expansionResult struct {
	ExpansionID string          `json:"expansionId"`
	JobCount    int             `json:"jobCount"`
	Jobs        json.RawMessage `json:"jobs"`
}

func (c *apiClient) createExpansion(ctx context.Context, recipeText, recipePath string, strict bool) (expansionResult, error) {
	payload, err := json.Marshal(map[string]any{
		"recipe":     recipeText,
		"recipePath": recipePath,
		"strict":     strict,
	})
	if err != nil {
		return expansionResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/expansions", bytes.NewReader(payload))
	if err != nil {
		return expansionResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return expansionResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return expansionResult{}, err
	}
	if resp.StatusCode != http.StatusCreated {
		return expansionResult{}, fmt.Errorf("create expansion: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result expansionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return expansionResult{}, err
	}
	return result, nil
}
