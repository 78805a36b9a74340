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
	sq "github.com/Masterminds/squirrel"
)

// Predicate is a boolean SQL condition. The zero value is not usable; a nil
// *Predicate stands for an absent condition.
type Predicate struct {
	expr sq.Sqlizer
}

var _ sq.Sqlizer = (*Predicate)(nil)

func newPredicate(expr sq.Sqlizer) *Predicate {
	return &Predicate{expr: expr}
}

// Raw builds a predicate from a SQL fragment using '?' placeholders.
func Raw(sql string, args ...interface{}) *Predicate {
	return newPredicate(sq.Expr(sql, args...))
}

// ToSql renders the predicate. A nil predicate renders to an empty string.
func (p *Predicate) ToSql() (string, []interface{}, error) {
	if p == nil || p.expr == nil {
		return "", nil, nil
	}
	return p.expr.ToSql()
}

// And combines the receiver and others with AND, skipping nil operands.
// It returns nil when every operand is nil.
func (p *Predicate) And(others ...*Predicate) *Predicate {
	return AllOf(append([]*Predicate{p}, others...)...)
}

// Or combines the receiver and others with OR, skipping nil operands.
func (p *Predicate) Or(others ...*Predicate) *Predicate {
	return AnyOf(append([]*Predicate{p}, others...)...)
}

// Not negates the predicate. Negating an absent condition keeps it absent.
func (p *Predicate) Not() *Predicate {
	if p == nil {
		return nil
	}
	return newPredicate(sq.Expr("NOT (?)", p.expr))
}

// AllOf joins the present predicates with AND.
func AllOf(predicates ...*Predicate) *Predicate {
	present := compact(predicates)
	switch len(present) {
	case 0:
		return nil
	case 1:
		return present[0]
	}
	return newPredicate(sq.And(sqlizers(present)))
}

// AnyOf joins the present predicates with OR.
func AnyOf(predicates ...*Predicate) *Predicate {
	present := compact(predicates)
	switch len(present) {
	case 0:
		return nil
	case 1:
		return present[0]
	}
	return newPredicate(sq.Or(sqlizers(present)))
}

func compact(predicates []*Predicate) []*Predicate {
	present := make([]*Predicate, 0, len(predicates))
	for _, p := range predicates {
		if p != nil && p.expr != nil {
			present = append(present, p)
		}
	}
	return present
}

func sqlizers(predicates []*Predicate) []sq.Sqlizer {
	out := make([]sq.Sqlizer, len(predicates))
	for i, p := range predicates {
		out[i] = p.expr
	}
	return out
}
