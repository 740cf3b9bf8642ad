// Package querybuilder assembles PostgreSQL statements with numbered
// placeholders for sqlx.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition renders one WHERE predicate.
type Condition interface {
	render(w *writer)
}

// writer accumulates SQL text and the matching positional arguments.
type writer struct {
	sql  strings.Builder
	args []any
}

func (w *writer) text(parts ...string) {
	for _, p := range parts {
		w.sql.WriteString(p)
	}
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.sql.WriteString("$")
	w.sql.WriteString(strconv.Itoa(len(w.args)))
}

// expr writes raw SQL, binding each '?' to the next value.
func (w *writer) expr(sql string, values []any) {
	next := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' && next < len(values) {
			w.bind(values[next])
			next++
			continue
		}
		w.sql.WriteByte(sql[i])
	}
}

func (w *writer) where(conds []Condition) {
	if len(conds) == 0 {
		return
	}
	w.text(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			w.text(" AND ")
		}
		c.render(w)
	}
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) render(w *writer) {
	w.text(c.column, " ", c.op, " ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition  { return compare{column: column, op: "=", value: value} }
func Gte(column string, value any) Condition { return compare{column: column, op: ">=", value: value} }

type in struct {
	column string
	values []any
}

// In matches any of values; an empty list matches nothing.
func In[T any](column string, values []T) Condition {
	boxed := make([]any, len(values))
	for i, v := range values {
		boxed[i] = v
	}
	return in{column: column, values: boxed}
}

func (c in) render(w *writer) {
	if len(c.values) == 0 {
		w.text("1=0")
		return
	}
	w.text(c.column, " IN (")
	for i, v := range c.values {
		if i > 0 {
			w.text(", ")
		}
		w.bind(v)
	}
	w.text(")")
}

type isNull string

func IsNull(column string) Condition { return isNull(column) }

func (c isNull) render(w *writer) { w.text(string(c), " IS NULL") }

type rawExpr struct {
	sql    string
	values []any
}

// Expr is an escape hatch for predicates the helpers do not cover.
func Expr(sql string, values ...any) Condition { return rawExpr{sql: sql, values: values} }

func (c rawExpr) render(w *writer) { w.expr(c.sql, c.values) }

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
	suffix  string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder { b.table = table; return b }

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(n int) *SelectBuilder { b.limit = n; return b }

// Suffix appends a trailing clause such as FOR UPDATE.
func (b *SelectBuilder) Suffix(sql string) *SelectBuilder { b.suffix = strings.TrimSpace(sql); return b }

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var w writer
	w.text("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.text(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.text(" LIMIT ", strconv.Itoa(b.limit))
	}
	if b.suffix != "" {
		w.text(" ", b.suffix)
	}
	return w.sql.String(), w.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder { return &InsertBuilder{table: table} }

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder { b.suffix = strings.TrimSpace(sql); return b }

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var w writer
	w.text("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			w.text(", ")
		}
		w.text("(")
		for j, v := range row {
			if j > 0 {
				w.text(", ")
			}
			w.bind(v)
		}
		w.text(")")
	}
	if b.suffix != "" {
		w.text(" ", b.suffix)
	}
	return w.sql.String(), w.args, nil
}

type assignment struct {
	column string
	value  any
	raw    *rawExpr
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder { return &UpdateBuilder{table: table} }

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

func (b *UpdateBuilder) SetExpr(column, sql string, values ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, raw: &rawExpr{sql: sql, values: values}})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var w writer
	w.text("UPDATE ", b.table, " SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.text(", ")
		}
		w.text(s.column, " = ")
		if s.raw != nil {
			s.raw.render(&w)
			continue
		}
		w.bind(s.value)
	}
	w.where(b.where)
	return w.sql.String(), w.args, nil
}
