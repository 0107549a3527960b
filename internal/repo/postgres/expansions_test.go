package postgres

import (
	"context"
	"strings"
	"testing"
)

func TestExpansionQueriesShape(t *testing.T) {
	if !strings.Contains(insertExpansionQuery, "RETURNING expansion_id") {
		t.Fatalf("expected insert query to return the stored record")
	}
	if !strings.Contains(selectExpansionByIDQuery, "expansion_id = $1") {
		t.Fatalf("expected expansion_id predicate in lookup query")
	}
	if !strings.Contains(selectRecentExpansionsQuery, "ORDER BY created_at DESC, expansion_id DESC") {
		t.Fatalf("expected stable recency ordering in list query")
	}
	if !strings.Contains(selectRecentExpansionsQuery, "LIMIT $1") {
		t.Fatalf("expected limit parameter in list query")
	}
}

func TestCreateExpansionRejectsInvalidInput(t *testing.T) {
	store := NewExpansionStore(nil)
	if store != nil {
		t.Fatalf("NewExpansionStore(nil) should return nil")
	}
	if _, err := store.CreateExpansion(context.Background(), "id", "p", "sha", 1, []byte("[]"), "alice"); err == nil {
		t.Fatalf("expected error for uninitialized store")
	}
}
