package dal

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// SchemaStatements returns the idempotent statements creating the database schema.
func SchemaStatements() []string {
	parts := strings.Split(schemaSQL, ";")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
