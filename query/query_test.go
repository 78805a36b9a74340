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
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/study/database"
	"github.com/tomoncle/study/entity"
	"github.com/tomoncle/study/internal/dbtest"
	"github.com/tomoncle/study/query"
	"github.com/tomoncle/study/types"
	"github.com/uptrace/bun"
)

func memberIDs(members []*entity.Member) []int64 {
	out := make([]int64, len(members))
	for i, m := range members {
		out[i] = m.ID
	}
	return out
}

func seeded(t *testing.T) (*query.Factory, *dbtest.Fixture) {
	db, f := dbtest.OpenSeeded(t)
	return query.NewFactory(db), f
}

func TestSearch(t *testing.T) {
	f, _ := seeded(t)
	m := entity.QMember

	found, err := query.SelectFrom[entity.Member](f).
		Where(m.UserName.Eq("member1"), m.Age.Eq(10)).
		FetchOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.ID)
	assert.Equal(t, "member1", found.UserName)
	assert.Equal(t, 10, found.Age)
}

func TestSearchAndOr(t *testing.T) {
	f, _ := seeded(t)
	m := entity.QMember

	members, err := query.SelectFrom[entity.Member](f).
		Where(m.UserName.Eq("member1").Or(m.Age.Eq(20))).
		OrderBy(m.ID.Asc()).
		Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 11, 12}, memberIDs(members))

	members, err = query.SelectFrom[entity.Member](f).
		Where(m.Age.Between(10, 30), m.TeamID.IsNull()).
		Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, memberIDs(members))
}

func TestEmptyInList(t *testing.T) {
	f, _ := seeded(t)
	m := entity.QMember
	ctx := context.Background()

	var warnings bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&warnings)
	bun.SetLogger(logger)
	t.Cleanup(func() { bun.SetLogger(nil) })

	members, err := query.SelectFrom[entity.Member](f).Where(m.ID.In()).Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)

	count, err := query.SelectFrom[entity.Member](f).Where(m.ID.NotIn()).FetchCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	assert.Empty(t, warnings.String())
}

func TestFetchResults(t *testing.T) {
	f, _ := seeded(t)
	m := entity.QMember
	ctx := context.Background()

	all, err := query.SelectFrom[entity.Member](f).Fetch(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 12)

	none, err := query.SelectFrom[entity.Member](f).Where(m.Age.Gt(100)).Fetch(ctx)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = query.SelectFrom[entity.Member](f).FetchOne(ctx)
	assert.ErrorIs(t, err, query.ErrNonUniqueResult)

	_, err = query.SelectFrom[entity.Member](f).Where(m.Age.Gt(100)).FetchOne(ctx)
	assert.ErrorIs(t, err, query.ErrNoResult)

	first, err := query.SelectFrom[entity.Member](f).OrderBy(m.Age.Desc()).FetchFirst(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), first.ID)

	_, err = query.SelectFrom[entity.Member](f).Where(m.Age.Gt(100)).FetchFirst(ctx)
	assert.ErrorIs(t, err, query.ErrNoResult)

	count, err := query.SelectFrom[entity.Member](f).Where(m.TeamID.IsNotNull()).Offset(3).Limit(2).FetchCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	exists, err := query.SelectFrom[entity.Member](f).Where(m.UserName.Eq("member12")).Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = query.SelectFrom[entity.Member](f).Where(m.UserName.Eq("member11")).Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSort(t *testing.T) {
	f, _ := seeded(t)
	m := entity.QMember
	ctx := context.Background()

	members, err := query.SelectFrom[entity.Member](f).
		OrderBy(m.Age.Desc(), m.ID.Asc()).
		Fetch(ctx)
	require.NoError(t, err)
	ages := make([]int, len(members))
	for i, x := range members {
		ages[i] = x.Age
	}
	assert.Equal(t, []int{60, 55, 50, 45, 40, 35, 30, 25, 20, 20, 15, 10}, ages)
	assert.Equal(t, int64(2), members[8].ID)
	assert.Equal(t, int64(12), members[9].ID)

	members, err = query.SelectFrom[entity.Member](f).
		OrderBy(m.TeamID.Desc().NullsLast(), m.ID.Asc()).
		Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 6, 9, 11, 1, 2, 5, 8, 12, 7, 10}, memberIDs(members))

	members, err = query.SelectFrom[entity.Member](f).
		OrderBy(m.TeamID.Asc().NullsFirst(), m.UserName.Desc()).
		Limit(2).
		Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 10}, memberIDs(members))
}

func TestPaging(t *testing.T) {
	f, _ := seeded(t)
	m := entity.QMember
	ctx := context.Background()

	members, err := query.SelectFrom[entity.Member](f).
		OrderBy(m.ID.Asc()).
		Offset(3).
		Limit(3).
		Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6}, memberIDs(members))

	page, err := query.SelectFrom[entity.Member](f).
		Page(ctx, types.NewPageRequestWithOrders(2, 3, query.Orders(m.ID.Asc())))
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 4, page.TotalPages())
	assert.True(t, page.HasNext())
	assert.Equal(t, []int64{4, 5, 6}, memberIDs(page.Items))

	page, err = query.SelectFrom[entity.Member](f).
		Page(ctx, types.NewPageRequest(1, 10,
			types.NewQueryFilter("m.age >= ?", 50),
			query.Orders(m.Age.Asc())))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.False(t, page.HasNext())
	assert.Equal(t, []int64{5, 11, 6}, memberIDs(page.Items))

	page, err = query.SelectFrom[entity.Member](f).
		Page(ctx, types.NewPageRequestWithFilter(5, 3, m.Age.Lt(0)))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
}

type ageSummary struct {
	Count int     `bun:"cnt"`
	Sum   int     `bun:"total"`
	Avg   float64 `bun:"avg_age"`
	Max   int     `bun:"max_age"`
	Min   int     `bun:"min_age"`
}

func TestAggregation(t *testing.T) {
	f, _ := seeded(t)
	m := entity.QMember

	summary, err := query.Select[ageSummary](f, m,
		query.Count().As("cnt"),
		m.Age.Sum().As("total"),
		m.Age.Avg().As("avg_age"),
		m.Age.Max().As("max_age"),
		m.Age.Min().As("min_age"),
	).FetchOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ageSummary{Count: 12, Sum: 405, Avg: 33.75, Max: 60, Min: 10}, *summary)
}

type teamAvg struct {
	TeamName string  `bun:"team_name"`
	AvgAge   float64 `bun:"avg_age"`
	Teamed   int     `bun:"teamed"`
}

func TestGroupBy(t *testing.T) {
	f, _ := seeded(t)
	m, tm := entity.QMember, entity.QTeam
	ctx := context.Background()

	rows, err := query.Select[teamAvg](f, m,
		tm.Name.Expr().As("team_name"),
		m.Age.Avg().As("avg_age"),
		m.TeamID.Count().As("teamed"),
	).
		Join(tm, tm.ID.EqPath(m.TeamID)).
		GroupBy(tm.Name).
		OrderBy(tm.Name.Asc()).
		Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, teamAvg{TeamName: "teamA", AvgAge: 25, Teamed: 5}, *rows[0])
	assert.Equal(t, teamAvg{TeamName: "teamB", AvgAge: 44, Teamed: 5}, *rows[1])

	rows, err = query.Select[teamAvg](f, m,
		tm.Name.Expr().As("team_name"),
		m.Age.Avg().As("avg_age"),
	).
		Join(tm, tm.ID.EqPath(m.TeamID)).
		GroupBy(tm.Name).
		Having(m.Age.Avg().Gt(30)).
		Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "teamB", rows[0].TeamName)
}

func TestJoin(t *testing.T) {
	f, fx := seeded(t)
	m, tm := entity.QMember, entity.QTeam

	members, err := query.SelectFrom[entity.Member](f).
		Join(tm, tm.ID.EqPath(m.TeamID)).
		Where(tm.Name.Eq("teamA")).
		OrderBy(m.ID.Asc()).
		Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 5, 8, 12}, memberIDs(members))
	for _, x := range members {
		assert.Equal(t, fx.TeamA.ID, *x.TeamID)
		assert.Nil(t, x.Team)
	}
}

func TestThetaJoin(t *testing.T) {
	db, _ := dbtest.OpenSeeded(t)
	f := query.NewFactory(db)
	m, tm := entity.QMember, entity.QTeam
	ctx := context.Background()

	for _, n := range []string{"teamA", "teamB", "teamC"} {
		_, err := db.NewInsert().Model(entity.NewMember(n, 0, nil)).Exec(ctx)
		require.NoError(t, err)
	}

	members, err := query.SelectFrom[entity.Member](f).
		Join(tm, query.Raw("m.user_name = t.name")).
		OrderBy(m.UserName.Asc()).
		Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "teamA", members[0].UserName)
	assert.Equal(t, "teamB", members[1].UserName)
}

type memberTeam struct {
	MemberID int64   `bun:"member_id"`
	TeamName *string `bun:"team_name"`
}

func TestLeftJoinOnFilter(t *testing.T) {
	f, _ := seeded(t)
	m, tm := entity.QMember, entity.QTeam

	rows, err := query.Select[memberTeam](f, m,
		m.ID.Expr().As("member_id"),
		tm.Name.Expr().As("team_name"),
	).
		LeftJoin(tm, tm.ID.EqPath(m.TeamID), tm.Name.Eq("teamA")).
		OrderBy(m.ID.Asc()).
		Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 12)

	var withTeam []int64
	for _, r := range rows {
		if r.TeamName != nil {
			assert.Equal(t, "teamA", *r.TeamName)
			withTeam = append(withTeam, r.MemberID)
		}
	}
	assert.Equal(t, []int64{1, 2, 5, 8, 12}, withTeam)
}

func TestJoinRequiresOnCondition(t *testing.T) {
	f, _ := seeded(t)

	_, err := query.SelectFrom[entity.Member](f).Join(entity.QTeam).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without ON condition")

	_, err = query.SelectFrom[entity.Member](f).LeftJoin(entity.QTeam, nil).FetchCount(context.Background())
	assert.Error(t, err)
}

func TestFetchJoin(t *testing.T) {
	f, fx := seeded(t)
	m := entity.QMember
	ctx := context.Background()

	found, err := query.SelectFrom[entity.Member](f).
		FetchJoin("Team").
		Where(m.ID.Eq(3)).
		FetchOne(ctx)
	require.NoError(t, err)
	require.NotNil(t, found.Team)
	assert.True(t, fx.TeamB.Equal(found.Team))
	assert.Equal(t, "teamB", found.Team.Name)

	_, err = query.Select[memberTeam](f, m, m.ID.Expr().As("member_id")).
		FetchJoin("Team").
		Fetch(ctx)
	assert.Error(t, err)
}

func TestSubQuery(t *testing.T) {
	f, _ := seeded(t)
	m, ms := entity.QMember, entity.NewQMember("ms")
	ctx := context.Background()

	oldest, err := query.SelectFrom[entity.Member](f).
		Where(m.Age.EqSub(query.Sub(f, ms, ms.Age.Max()))).
		Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{6}, memberIDs(oldest))

	aboveAvg, err := query.SelectFrom[entity.Member](f).
		Where(m.Age.GoeSub(query.Sub(f, ms, ms.Age.Avg()))).
		OrderBy(m.ID.Asc()).
		Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6, 9, 10, 11}, memberIDs(aboveAvg))

	in, err := query.SelectFrom[entity.Member](f).
		Where(m.Age.InSub(query.Sub(f, ms, ms.Age).Where(ms.Age.Gt(50)))).
		OrderBy(m.ID.Asc()).
		Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 11}, memberIDs(in))

	// correlated: the oldest member of each team
	tm := entity.QTeam
	teamOldest, err := query.SelectFrom[entity.Member](f).
		Join(tm, tm.ID.EqPath(m.TeamID)).
		Where(m.Age.EqSub(query.Sub(f, ms, ms.Age.Max()).Where(ms.TeamID.EqPath(m.TeamID)))).
		OrderBy(m.ID.Asc()).
		Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, memberIDs(teamOldest))
}

type memberName struct {
	UserName string `bun:"user_name"`
}

func TestDistinct(t *testing.T) {
	f, _ := seeded(t)
	m := entity.QMember

	names, err := query.Select[memberName](f, m, m.UserName.Expr().As("user_name")).
		Distinct().
		OrderBy(m.UserName.Asc()).
		Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, names, 11)
	assert.Equal(t, "member1", names[0].UserName)
}

func TestFactoryBoundToTransaction(t *testing.T) {
	db, _ := dbtest.OpenSeeded(t)
	ctx := context.Background()
	rollback := errors.New("rollback")

	err := database.Transactional(ctx, db, func(ctx context.Context, tx bun.Tx) error {
		f := query.NewFactory(db).WithTx(tx)
		if _, err := tx.NewInsert().Model(entity.NewMember("member13", 13, nil)).Exec(ctx); err != nil {
			return err
		}
		n, err := query.SelectFrom[entity.Member](f).FetchCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 13, n)
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	n, err := query.SelectFrom[entity.Member](query.NewFactory(db)).FetchCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}
