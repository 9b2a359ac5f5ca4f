// Package pgstats implements the operation catalogue as SQL pushed down to
// PostgreSQL. Statements are parameterized throughout; identifiers never
// come from request input, they are resolved through the closed column
// map in expr.go.
package pgstats

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/boxline/boxline-data/internal/catalogue"
)

// Querier is the query surface the backend needs. *pgxpool.Pool satisfies
// it, and so does pgxmock's pool interface in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Backend computes catalogue operations by query pushdown.
type Backend struct {
	q       Querier
	exclude []string
}

var _ catalogue.Analyzer = (*Backend)(nil)

// New creates a Backend. The duplicate-name exclusion list is always
// applied; extraExclude adds to it.
func New(q Querier, extraExclude ...string) *Backend {
	exclude := make([]string, 0, len(catalogue.DuplicateNamePlayers)+len(extraExclude))
	exclude = append(exclude, catalogue.DuplicateNamePlayers...)
	exclude = append(exclude, extraExclude...)
	return &Backend{q: q, exclude: exclude}
}

// args accumulates positional query arguments. add returns the placeholder
// for the value it appends, so clauses can be built inline.
type args struct {
	vals []any
}

func (a *args) add(v any) string {
	a.vals = append(a.vals, v)
	return "$" + strconv.Itoa(len(a.vals))
}

// scopeClause renders the shared preconditions: league, game type, played
// rows only, and the name exclusion list. The fragment starts with a
// condition, not AND, so callers splice it into WHERE directly.
func (b *Backend) scopeClause(s catalogue.Scope, a *args) string {
	league := s.League
	if league == "" {
		league = "NBA"
	}
	clauses := []string{
		"g.league = " + a.add(league),
		"b.played",
	}

	gt := s.GameType
	if gt == "" {
		gt = catalogue.GameTypeRegular
	}
	switch gt {
	case catalogue.GameTypeRegular:
		clauses = append(clauses, "g.is_regular")
	case catalogue.GameTypePlayoff:
		clauses = append(clauses, "NOT g.is_regular", "NOT COALESCE(g.is_playin, false)")
	case catalogue.GameTypeFinal:
		clauses = append(clauses, "g.is_final")
	case catalogue.GameTypeAll:
	}

	if len(b.exclude) > 0 {
		clauses = append(clauses, "b.player_name != ALL("+a.add(b.exclude)+")")
	}
	return strings.Join(clauses, "\n    AND ")
}

func limitOf(n int) int {
	if n <= 0 {
		return 100
	}
	return n
}

// quoteIdent quotes a result column alias. Labels are pre-validated and
// cannot contain a double quote, but escaping is cheap enough to keep.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// query runs sql and collects the rows into a result table, taking the
// column names from the statement's own aliases.
func (b *Backend) query(ctx context.Context, sql string, a *args) (*catalogue.Result, error) {
	rows, err := b.q.Query(ctx, sql, a.vals...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}
	res := catalogue.NewResult(cols...)

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		cells := make([]any, len(vals))
		copy(cells, vals)
		res.Append(cells...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return res, nil
}
