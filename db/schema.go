// Package db embeds the Postgres schema used by the API.
package db

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var schema string

// Statements returns schema.sql split into individual statements.
func Statements() []string {
	var out []string
	for _, stmt := range strings.Split(schema, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
