package catalogue

import "encoding/json"

// PlayerColumn is the identity column name shared by every result table.
// Consumers chart and enrich against it; for duels it holds the pairing
// string ("A vs B").
const PlayerColumn = "playerName"

// Result is an ordered result table. Row order is the final rank order;
// consumers must not re-sort.
type Result struct {
	Columns []string
	Rows    [][]any
}

// NewResult allocates a result with the given column set.
func NewResult(columns ...string) *Result {
	return &Result{Columns: columns}
}

// Append adds one row. Callers are responsible for matching the column
// arity; Append is not a validation point.
func (r *Result) Append(cells ...any) {
	r.Rows = append(r.Rows, cells)
}

// Empty reports whether the result holds no rows.
func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ColumnIndex returns the index of the named column, or -1.
func (r *Result) ColumnIndex(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// PrependColumn inserts a new leading column, computing each row's cell
// from the existing row. Used by the dispatch layer for image enrichment.
func (r *Result) PrependColumn(name string, cell func(row []any) any) {
	r.Columns = append([]string{name}, r.Columns...)
	for i, row := range r.Rows {
		r.Rows[i] = append([]any{cell(row)}, row...)
	}
}

// MarshalJSON renders the table as {"columns": [...], "rows": [[...]]}
// preserving rank order.
func (r *Result) MarshalJSON() ([]byte, error) {
	type wire struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}
	w := wire{Columns: r.Columns, Rows: r.Rows}
	if w.Rows == nil {
		w.Rows = [][]any{}
	}
	return json.Marshal(w)
}
