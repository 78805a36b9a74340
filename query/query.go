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
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/tomoncle/study/types"
	"github.com/uptrace/bun"
)

// Query is a SELECT whose rows are scanned into *T.
//
// Queries built with SelectFrom scan into a Bun model (T must be a Bun model
// such as entity.Member); queries built with Select scan a projection into a
// plain struct whose bun tags match the expression aliases. A Query is
// consumed by its terminal operation and must not be reused.
type Query[T any] struct {
	sel        *bun.SelectQuery
	rows       *[]*T
	projection bool
	err        error
}

// SelectFrom starts a query returning whole entities of type T.
func SelectFrom[T any](f *Factory) *Query[T] {
	rows := make([]*T, 0)
	q := &Query[T]{rows: &rows}
	q.sel = f.db.NewSelect().Model(q.rows)
	return q
}

// Select starts a projection over from. Each expression becomes one result
// column named after its alias.
func Select[T any](f *Factory, from EntityPath, exprs ...Expressible) *Query[T] {
	rows := make([]*T, 0)
	q := &Query[T]{rows: &rows, projection: true}
	q.sel = f.fromTable(from)
	for _, x := range exprs {
		e := x.Expr()
		if e.alias == "" {
			q.sel = q.sel.ColumnExpr(e.sql)
			continue
		}
		q.sel = q.sel.ColumnExpr("? AS ?", bun.Safe(e.sql), bun.Ident(e.alias))
	}
	return q
}

func (q *Query[T]) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

func (q *Query[T]) render(p sq.Sqlizer) (string, []interface{}, bool) {
	if p == nil {
		return "", nil, false
	}
	sql, args, err := p.ToSql()
	if err != nil {
		q.fail(err)
		return "", nil, false
	}
	// bun warns about non-nil args on a clause without placeholders, e.g. the
	// (1=0) of an empty IN list
	if len(args) == 0 {
		args = nil
	}
	return sql, args, sql != ""
}

// Where adds the present predicates, combined with AND.
func (q *Query[T]) Where(predicates ...*Predicate) *Query[T] {
	for _, p := range predicates {
		if p == nil {
			continue
		}
		if sql, args, ok := q.render(p); ok {
			q.sel = q.sel.Where(sql, args...)
		}
	}
	return q
}

// Join adds an INNER JOIN on target. At least one ON predicate is required.
func (q *Query[T]) Join(target EntityPath, on ...*Predicate) *Query[T] {
	return q.join("JOIN", target, on)
}

// LeftJoin adds a LEFT JOIN on target. Conditions placed in on restrict the
// joined rows only; rows of the main table are always kept.
func (q *Query[T]) LeftJoin(target EntityPath, on ...*Predicate) *Query[T] {
	return q.join("LEFT JOIN", target, on)
}

func (q *Query[T]) join(kind string, target EntityPath, on []*Predicate) *Query[T] {
	cond := AllOf(on...)
	if cond == nil {
		q.fail(fmt.Errorf("query: %s %s without ON condition", kind, target.TableName()))
		return q
	}
	sql, args, ok := q.render(cond)
	if !ok {
		return q
	}
	q.sel = q.sel.
		Join(kind+" ? AS ?", bun.Ident(target.TableName()), bun.Ident(target.Alias())).
		JoinOn(sql, args...)
	return q
}

// FetchJoin eagerly loads a Bun relation of the entity (e.g. "Team").
func (q *Query[T]) FetchJoin(relation string) *Query[T] {
	if q.projection {
		q.fail(errors.New("query: fetch join is not available on projections"))
		return q
	}
	q.sel = q.sel.Relation(relation)
	return q
}

func (q *Query[T]) GroupBy(exprs ...Expressible) *Query[T] {
	for _, x := range exprs {
		q.sel = q.sel.GroupExpr(x.Expr().sql)
	}
	return q
}

func (q *Query[T]) Having(predicates ...*Predicate) *Query[T] {
	if sql, args, ok := q.render(AllOf(predicates...)); ok {
		q.sel = q.sel.Having(sql, args...)
	}
	return q
}

func (q *Query[T]) OrderBy(orders ...OrderSpecifier) *Query[T] {
	for _, o := range orders {
		q.sel = q.sel.OrderExpr(o.String())
	}
	return q
}

func (q *Query[T]) Distinct() *Query[T] {
	q.sel = q.sel.Distinct()
	return q
}

func (q *Query[T]) Offset(n int) *Query[T] {
	q.sel = q.sel.Offset(n)
	return q
}

func (q *Query[T]) Limit(n int) *Query[T] {
	q.sel = q.sel.Limit(n)
	return q
}

func (q *Query[T]) scan(ctx context.Context) error {
	if q.err != nil {
		return q.err
	}
	if q.projection {
		return q.sel.Scan(ctx, q.rows)
	}
	return q.sel.Scan(ctx)
}

// Fetch returns every matching row; an empty slice when there is none.
func (q *Query[T]) Fetch(ctx context.Context) ([]*T, error) {
	if err := q.scan(ctx); err != nil {
		return nil, err
	}
	return *q.rows, nil
}

// FetchOne returns the single matching row. It fails with ErrNoResult when
// nothing matches and with ErrNonUniqueResult when more than one row does.
func (q *Query[T]) FetchOne(ctx context.Context) (*T, error) {
	rows, err := q.Limit(2).Fetch(ctx)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, ErrNoResult
	case 1:
		return rows[0], nil
	default:
		return nil, ErrNonUniqueResult
	}
}

// FetchFirst returns the first matching row in query order.
func (q *Query[T]) FetchFirst(ctx context.Context) (*T, error) {
	rows, err := q.Limit(1).Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoResult
	}
	return rows[0], nil
}

// FetchCount returns the number of matching rows, ignoring offset and limit.
func (q *Query[T]) FetchCount(ctx context.Context) (int, error) {
	if q.err != nil {
		return 0, q.err
	}
	return q.sel.Count(ctx)
}

func (q *Query[T]) Exists(ctx context.Context) (bool, error) {
	if q.err != nil {
		return false, q.err
	}
	return q.sel.Exists(ctx)
}

// Page applies the request's filter and orders, counts the matching rows and
// fetches the requested page.
func (q *Query[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	if sql, args, ok := q.render(page.GetFilter()); ok {
		q.sel = q.sel.Where(sql, args...)
	}
	pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())
	total, err := q.FetchCount(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	for _, o := range page.GetOrders() {
		q.sel = q.sel.OrderExpr(o)
	}
	rows, err := q.Offset(page.GetOffset()).Limit(page.GetPageSize()).Fetch(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = rows
	return pagination, nil
}
