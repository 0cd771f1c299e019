package db

import (
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect selects the SQL flavour the single store implementation speaks.
// MySQL is the primary schema; PostgreSQL is kept as a compatibility target.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

func (d Dialect) Placeholder() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

func (d Dialect) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder())
}

// Contains matches term anywhere in any of the columns, case-insensitively.
// MySQL's default collations already compare case-insensitively.
func (d Dialect) Contains(term string, columns ...string) sq.Sqlizer {
	pattern := "%" + escapeLike(term) + "%"

	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		if d == Postgres {
			or = append(or, sq.ILike{col: pattern})
			continue
		}
		or = append(or, sq.Like{col: pattern})
	}
	return or
}

// FullText searches columns covered by a FULLTEXT index on MySQL and falls
// back to Contains elsewhere.
func (d Dialect) FullText(term string, columns ...string) sq.Sqlizer {
	if d != MySQL {
		return d.Contains(term, columns...)
	}
	return sq.Expr(fmt.Sprintf("MATCH(%s) AGAINST (? IN BOOLEAN MODE)", strings.Join(columns, ", ")), term)
}

// JSONArrayContains matches rows whose JSON array column holds value.
func (d Dialect) JSONArrayContains(column, value string) sq.Sqlizer {
	if d == Postgres {
		encoded, _ := json.Marshal([]string{value})
		return sq.Expr(fmt.Sprintf("%s::jsonb @> ?::jsonb", column), string(encoded))
	}
	return sq.Expr(fmt.Sprintf("JSON_CONTAINS(%s, JSON_QUOTE(?))", column), value)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
