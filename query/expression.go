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

// Expressible is anything that can appear in a SELECT or GROUP BY list.
type Expressible interface {
	Expr() Expression
}

// Expression is a SQL expression with an optional result alias.
type Expression struct {
	sql   string
	alias string
}

func aggregate(fn, arg string) Expression {
	return Expression{sql: fn + "(" + arg + ")"}
}

// Column references a column by its SQL text, e.g. "member_id" or "m.age".
func Column(sql string) Expression {
	return Expression{sql: sql}
}

// Count returns COUNT(*).
func Count() Expression {
	return Expression{sql: "COUNT(*)"}
}

// Expr returns the expression itself.
func (e Expression) Expr() Expression { return e }

// As names the expression in the result set. The alias must match the bun
// column of the projection struct the query scans into.
func (e Expression) As(alias string) Expression {
	e.alias = alias
	return e
}

func (e Expression) String() string { return e.sql }

// Alias returns the result alias, or an empty string.
func (e Expression) Alias() string { return e.alias }

func (e Expression) Eq(v interface{}) *Predicate  { return newPredicate(sq.Eq{e.sql: v}) }
func (e Expression) Gt(v interface{}) *Predicate  { return newPredicate(sq.Gt{e.sql: v}) }
func (e Expression) Goe(v interface{}) *Predicate { return newPredicate(sq.GtOrEq{e.sql: v}) }
func (e Expression) Lt(v interface{}) *Predicate  { return newPredicate(sq.Lt{e.sql: v}) }
func (e Expression) Loe(v interface{}) *Predicate { return newPredicate(sq.LtOrEq{e.sql: v}) }

func (e Expression) Asc() OrderSpecifier  { return OrderSpecifier{target: e.sql, order: Asc} }
func (e Expression) Desc() OrderSpecifier { return OrderSpecifier{target: e.sql, order: Desc} }
