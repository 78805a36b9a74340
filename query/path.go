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
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// EntityPath identifies a table and the alias it is queried under.
type EntityPath interface {
	TableName() string
	Alias() string
}

// Number is the set of column types a NumberPath can hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func qualify(alias, column string) string {
	if alias == "" {
		return column
	}
	return alias + "." + column
}

// NumberPath is a numeric column of an aliased table.
type NumberPath[N Number] struct {
	column string
}

// NewNumberPath returns the path alias.column.
func NewNumberPath[N Number](alias, column string) NumberPath[N] {
	return NumberPath[N]{column: qualify(alias, column)}
}

func (p NumberPath[N]) String() string { return p.column }

// Expr returns the column as a selectable expression.
func (p NumberPath[N]) Expr() Expression { return Expression{sql: p.column} }

func (p NumberPath[N]) Eq(v N) *Predicate  { return newPredicate(sq.Eq{p.column: v}) }
func (p NumberPath[N]) Ne(v N) *Predicate  { return newPredicate(sq.NotEq{p.column: v}) }
func (p NumberPath[N]) Gt(v N) *Predicate  { return newPredicate(sq.Gt{p.column: v}) }
func (p NumberPath[N]) Goe(v N) *Predicate { return newPredicate(sq.GtOrEq{p.column: v}) }
func (p NumberPath[N]) Lt(v N) *Predicate  { return newPredicate(sq.Lt{p.column: v}) }
func (p NumberPath[N]) Loe(v N) *Predicate { return newPredicate(sq.LtOrEq{p.column: v}) }

// In matches any of the values. An empty list matches nothing.
func (p NumberPath[N]) In(values ...N) *Predicate {
	return newPredicate(sq.Eq{p.column: values})
}

// NotIn matches none of the values. An empty list matches everything.
func (p NumberPath[N]) NotIn(values ...N) *Predicate {
	return newPredicate(sq.NotEq{p.column: values})
}

// Between is inclusive on both ends.
func (p NumberPath[N]) Between(from, to N) *Predicate {
	return newPredicate(sq.Expr(p.column+" BETWEEN ? AND ?", from, to))
}

func (p NumberPath[N]) IsNull() *Predicate    { return newPredicate(sq.Eq{p.column: nil}) }
func (p NumberPath[N]) IsNotNull() *Predicate { return newPredicate(sq.NotEq{p.column: nil}) }

// EqPath compares two columns, typically to express a join condition.
func (p NumberPath[N]) EqPath(other NumberPath[N]) *Predicate {
	return newPredicate(sq.Expr(p.column + " = " + other.column))
}

func (p NumberPath[N]) EqSub(sub *SubQuery) *Predicate  { return sub.compare(p.column, "=") }
func (p NumberPath[N]) GtSub(sub *SubQuery) *Predicate  { return sub.compare(p.column, ">") }
func (p NumberPath[N]) GoeSub(sub *SubQuery) *Predicate { return sub.compare(p.column, ">=") }
func (p NumberPath[N]) LtSub(sub *SubQuery) *Predicate  { return sub.compare(p.column, "<") }
func (p NumberPath[N]) LoeSub(sub *SubQuery) *Predicate { return sub.compare(p.column, "<=") }
func (p NumberPath[N]) InSub(sub *SubQuery) *Predicate  { return sub.compare(p.column, "IN") }

func (p NumberPath[N]) Count() Expression         { return aggregate("COUNT", p.column) }
func (p NumberPath[N]) CountDistinct() Expression { return aggregate("COUNT", "DISTINCT "+p.column) }
func (p NumberPath[N]) Sum() Expression           { return aggregate("SUM", p.column) }
func (p NumberPath[N]) Avg() Expression           { return aggregate("AVG", p.column) }
func (p NumberPath[N]) Max() Expression           { return aggregate("MAX", p.column) }
func (p NumberPath[N]) Min() Expression           { return aggregate("MIN", p.column) }

func (p NumberPath[N]) Asc() OrderSpecifier  { return OrderSpecifier{target: p.column, order: Asc} }
func (p NumberPath[N]) Desc() OrderSpecifier { return OrderSpecifier{target: p.column, order: Desc} }

// StringPath is a character column of an aliased table.
type StringPath struct {
	column string
}

// NewStringPath returns the path alias.column.
func NewStringPath(alias, column string) StringPath {
	return StringPath{column: qualify(alias, column)}
}

func (p StringPath) String() string { return p.column }

// Expr returns the column as a selectable expression.
func (p StringPath) Expr() Expression { return Expression{sql: p.column} }

// Eq is an exact, case-sensitive comparison.
func (p StringPath) Eq(v string) *Predicate { return newPredicate(sq.Eq{p.column: v}) }
func (p StringPath) Ne(v string) *Predicate { return newPredicate(sq.NotEq{p.column: v}) }

// EqIgnoreCase compares both sides lower-cased.
func (p StringPath) EqIgnoreCase(v string) *Predicate {
	return newPredicate(sq.Expr("LOWER("+p.column+") = ?", strings.ToLower(v)))
}

func (p StringPath) In(values ...string) *Predicate {
	return newPredicate(sq.Eq{p.column: values})
}

func (p StringPath) NotIn(values ...string) *Predicate {
	return newPredicate(sq.NotEq{p.column: values})
}

// Like uses the pattern as given, wildcards included.
func (p StringPath) Like(pattern string) *Predicate {
	return newPredicate(sq.Like{p.column: pattern})
}

func (p StringPath) NotLike(pattern string) *Predicate {
	return newPredicate(sq.NotLike{p.column: pattern})
}

func (p StringPath) Contains(s string) *Predicate   { return p.Like("%" + s + "%") }
func (p StringPath) StartsWith(s string) *Predicate { return p.Like(s + "%") }
func (p StringPath) EndsWith(s string) *Predicate   { return p.Like("%" + s) }

func (p StringPath) IsNull() *Predicate    { return newPredicate(sq.Eq{p.column: nil}) }
func (p StringPath) IsNotNull() *Predicate { return newPredicate(sq.NotEq{p.column: nil}) }

func (p StringPath) EqSub(sub *SubQuery) *Predicate { return sub.compare(p.column, "=") }
func (p StringPath) InSub(sub *SubQuery) *Predicate { return sub.compare(p.column, "IN") }

func (p StringPath) Count() Expression { return aggregate("COUNT", p.column) }
func (p StringPath) Max() Expression   { return aggregate("MAX", p.column) }
func (p StringPath) Min() Expression   { return aggregate("MIN", p.column) }

func (p StringPath) Asc() OrderSpecifier  { return OrderSpecifier{target: p.column, order: Asc} }
func (p StringPath) Desc() OrderSpecifier { return OrderSpecifier{target: p.column, order: Desc} }
