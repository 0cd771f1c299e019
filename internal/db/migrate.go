package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema/mysql.sql
var mysqlSchema string

// Statements splits a schema file into individual statements.
func Statements(schema string) []string {
	parts := strings.Split(schema, ";")

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		stmt := strings.TrimSpace(part)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}

	return out
}

// Migrate applies the bundled schema. Every statement is idempotent, so
// running it against an existing database is safe.
func (d *DB) Migrate(ctx context.Context) (int, error) {
	if d.dialect != MySQL {
		return 0, fmt.Errorf("no schema is bundled for the %s dialect", d.dialect)
	}

	applied := 0
	for _, stmt := range Statements(mysqlSchema) {
		if _, err := d.conn.ExecContext(ctx, stmt); err != nil {
			return applied, fmt.Errorf("failed to apply statement %d: %w", applied+1, err)
		}
		applied++
	}

	return applied, nil
}
