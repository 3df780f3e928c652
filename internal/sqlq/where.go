// Package sqlq assembles WHERE and LIMIT clauses for Postgres while keeping
// every value in the bound argument list.
//
// Conditions are written with "?" placeholders, which are rewritten to
// positional $n parameters in the order they are added:
//
//	var w sqlq.Where
//	w.And("c.collection_status = ?", status)
//	w.AndIf(personID != "", "o.delivery_person_id = ?", personID)
//	sql := "SELECT ... FROM cod_collections c" + w.SQL() + w.Page(20, 0)
//	rows, err := pool.Query(ctx, sql, w.Args()...)
package sqlq

import (
	"strconv"
	"strings"
)

type Where struct {
	conds []string
	args  []any
}

// Bind appends v to the argument list and returns its placeholder.
func (w *Where) Bind(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

// And adds a condition. The number of "?" in cond must match len(args).
func (w *Where) And(cond string, args ...any) *Where {
	if strings.Count(cond, "?") != len(args) {
		panic("sqlq: placeholder count does not match arguments in " + strconv.Quote(cond))
	}
	var sb strings.Builder
	i := 0
	for _, r := range cond {
		if r == '?' {
			sb.WriteString(w.Bind(args[i]))
			i++
			continue
		}
		sb.WriteRune(r)
	}
	w.conds = append(w.conds, sb.String())
	return w
}

// AndIf adds the condition only when ok is true.
func (w *Where) AndIf(ok bool, cond string, args ...any) *Where {
	if ok {
		w.And(cond, args...)
	}
	return w
}

// SQL renders " WHERE a AND b", or "" when no condition was added.
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// Page binds limit and offset and renders " LIMIT $n OFFSET $m".
func (w *Where) Page(limit, offset int) string {
	l := w.Bind(limit)
	o := w.Bind(offset)
	return " LIMIT " + l + " OFFSET " + o
}

func (w *Where) Args() []any { return w.args }

// NormalizePage clamps pagination the same way across list endpoints:
// limit defaults to 20 and is capped at 100, offset is never negative.
func NormalizePage(limit, offset int) (int, int) {
	switch {
	case limit <= 0:
		limit = 20
	case limit > 100:
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
