package db

import (
	"strings"
	"testing"
)

func TestStatements(t *testing.T) {
	stmts := Statements()
	if len(stmts) != 10 {
		t.Fatalf("expected 10 statements, got %d", len(stmts))
	}
	for _, table := range []string{"users", "navigation_items", "companies", "dropdown_options", "auth_events", "items", "item_summary_rows"} {
		found := false
		for _, s := range stmts {
			if strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing table %s", table)
		}
	}
}
