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

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/study/query"
)

var (
	age    = query.NewNumberPath[int]("m", "age")
	teamID = query.NewNumberPath[int64]("m", "team_id")
	name   = query.NewStringPath("m", "user_name")
	tid    = query.NewNumberPath[int64]("t", "team_id")
)

func render(t *testing.T, p *query.Predicate) (string, []interface{}) {
	t.Helper()
	sql, args, err := p.ToSql()
	require.NoError(t, err)
	return sql, args
}

func TestPredicateRendering(t *testing.T) {
	cases := []struct {
		name string
		p    *query.Predicate
		sql  string
		args []interface{}
	}{
		{"eq", age.Eq(10), "m.age = ?", []interface{}{10}},
		{"ne", age.Ne(10), "m.age <> ?", []interface{}{10}},
		{"gt", age.Gt(10), "m.age > ?", []interface{}{10}},
		{"goe", age.Goe(10), "m.age >= ?", []interface{}{10}},
		{"lt", age.Lt(10), "m.age < ?", []interface{}{10}},
		{"loe", age.Loe(10), "m.age <= ?", []interface{}{10}},
		{"in", age.In(10, 20), "m.age IN (?,?)", []interface{}{10, 20}},
		{"not in", age.NotIn(10), "m.age NOT IN (?)", []interface{}{10}},
		{"between", age.Between(10, 30), "m.age BETWEEN ? AND ?", []interface{}{10, 30}},
		{"is null", teamID.IsNull(), "m.team_id IS NULL", nil},
		{"is not null", teamID.IsNotNull(), "m.team_id IS NOT NULL", nil},
		{"eq path", tid.EqPath(teamID), "t.team_id = m.team_id", nil},
		{"string eq", name.Eq("member1"), "m.user_name = ?", []interface{}{"member1"}},
		{"like", name.Like("member_"), "m.user_name LIKE ?", []interface{}{"member_"}},
		{"contains", name.Contains("ber1"), "m.user_name LIKE ?", []interface{}{"%ber1%"}},
		{"starts with", name.StartsWith("mem"), "m.user_name LIKE ?", []interface{}{"mem%"}},
		{"ends with", name.EndsWith("12"), "m.user_name LIKE ?", []interface{}{"%12"}},
		{"not like", name.NotLike("x%"), "m.user_name NOT LIKE ?", []interface{}{"x%"}},
		{"ignore case", name.EqIgnoreCase("MEMBER1"), "LOWER(m.user_name) = ?", []interface{}{"member1"}},
		{"raw", query.Raw("m.age % ? = 0", 5), "m.age % ? = 0", []interface{}{5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := render(t, tc.p)
			assert.Equal(t, tc.sql, sql)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestEmptyInListRendering(t *testing.T) {
	sql, _ := render(t, age.In())
	assert.Equal(t, "(1=0)", sql)
	sql, _ = render(t, age.NotIn())
	assert.Equal(t, "(1=1)", sql)
}

func TestCombinatorsSkipAbsentPredicates(t *testing.T) {
	var absent *query.Predicate

	assert.Nil(t, query.AllOf())
	assert.Nil(t, query.AllOf(nil, nil))
	assert.Nil(t, query.AnyOf(absent))
	assert.Nil(t, absent.Not())
	assert.Nil(t, absent.And(nil))

	sql, args := render(t, absent)
	assert.Empty(t, sql)
	assert.Empty(t, args)

	single := query.AllOf(nil, age.Eq(10), nil)
	sql, args = render(t, single)
	assert.Equal(t, "m.age = ?", sql)
	assert.Equal(t, []interface{}{10}, args)

	sql, args = render(t, absent.And(name.Eq("a"), nil, age.Gt(3)))
	assert.Equal(t, "(m.user_name = ? AND m.age > ?)", sql)
	assert.Equal(t, []interface{}{"a", 3}, args)

	sql, args = render(t, name.Eq("a").Or(age.Lt(3)))
	assert.Equal(t, "(m.user_name = ? OR m.age < ?)", sql)
	assert.Equal(t, []interface{}{"a", 3}, args)

	sql, args = render(t, age.Eq(1).Or(age.Eq(2)).And(teamID.IsNotNull()).Not())
	assert.Equal(t, "NOT (((m.age = ? OR m.age = ?) AND m.team_id IS NOT NULL))", sql)
	assert.Equal(t, []interface{}{1, 2}, args)
}

func TestOrderSpecifier(t *testing.T) {
	assert.Equal(t, "m.age ASC", age.Asc().String())
	assert.Equal(t, "m.age DESC", age.Desc().String())
	assert.Equal(t, "m.team_id ASC NULLS LAST", teamID.Asc().NullsLast().String())
	assert.Equal(t, "m.user_name DESC NULLS FIRST", name.Desc().NullsFirst().String())
	assert.Equal(t, "AVG(m.age) DESC", age.Avg().Desc().String())
	assert.Equal(t, []string{"m.age DESC", "m.user_name ASC"}, query.Orders(age.Desc(), name.Asc()))
}

func TestExpressions(t *testing.T) {
	assert.Equal(t, "COUNT(*)", query.Count().String())
	assert.Equal(t, "COUNT(DISTINCT m.team_id)", teamID.CountDistinct().String())
	assert.Equal(t, "SUM(m.age)", age.Sum().String())
	assert.Equal(t, "MAX(m.user_name)", name.Max().String())

	avg := age.Avg().As("avg_age")
	assert.Equal(t, "AVG(m.age)", avg.String())
	assert.Equal(t, "avg_age", avg.Alias())
	assert.Empty(t, age.Avg().Alias())

	sql, args := render(t, age.Avg().Goe(30))
	assert.Equal(t, "AVG(m.age) >= ?", sql)
	assert.Equal(t, []interface{}{30}, args)
}
