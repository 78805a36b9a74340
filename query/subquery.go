/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/uptrace/bun"
)

// SubQuery is a single-column SELECT used on the right-hand side of a
// comparison, e.g. "m.age = (SELECT MAX(ms.age) FROM tbl_member AS ms)".
type SubQuery struct {
	sel *bun.SelectQuery
	err error
}

// Sub selects expr from the given table. Use a dedicated alias for from so the
// inner columns do not collide with the outer query.
func Sub(f *Factory, from EntityPath, expr Expressible) *SubQuery {
	e := expr.Expr()
	return &SubQuery{sel: f.fromTable(from).ColumnExpr(e.sql)}
}

// Where restricts the sub-query; nil predicates are skipped.
func (s *SubQuery) Where(predicates ...*Predicate) *SubQuery {
	cond := AllOf(predicates...)
	if cond == nil {
		return s
	}
	sql, args, err := cond.ToSql()
	if err != nil {
		s.err = err
		return s
	}
	s.sel = s.sel.Where(sql, args...)
	return s
}

func (s *SubQuery) compare(column, op string) *Predicate {
	return newPredicate(subqueryComparison{column: column, op: op, sub: s})
}

type subqueryComparison struct {
	column string
	op     string
	sub    *SubQuery
}

var _ sq.Sqlizer = subqueryComparison{}

// ToSql passes the Bun sub-query through as an argument; Bun renders it in
// place when the outer statement is formatted.
func (c subqueryComparison) ToSql() (string, []interface{}, error) {
	if c.sub == nil {
		return "", nil, fmt.Errorf("query: nil sub-query for %s", c.column)
	}
	if c.sub.err != nil {
		return "", nil, c.sub.err
	}
	return fmt.Sprintf("%s %s (?)", c.column, c.op), []interface{}{c.sub.sel}, nil
}
