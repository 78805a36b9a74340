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

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomoncle/study/entity"
	"github.com/tomoncle/study/query"
	"github.com/tomoncle/study/types"
	"github.com/uptrace/bun"
)

// MemberSearchCondition filters Search. Nil fields impose no condition.
type MemberSearchCondition struct {
	UserName *string
	TeamName *string
	AgeGoe   *int
	AgeLoe   *int
}

// MemberTeamRow is a member joined with its team. The team columns are nil
// for members without a team.
type MemberTeamRow struct {
	MemberID int64   `bun:"member_id"`
	UserName string  `bun:"user_name"`
	Age      int     `bun:"age"`
	TeamID   *int64  `bun:"team_id"`
	TeamName *string `bun:"team_name"`
}

// TeamAgeStat aggregates the members of one team.
type TeamAgeStat struct {
	TeamName    string  `bun:"team_name"`
	MemberCount int     `bun:"member_count"`
	AvgAge      float64 `bun:"avg_age"`
	MaxAge      int     `bun:"max_age"`
	MinAge      int     `bun:"min_age"`
}

// MemberRepository is the member repository with the study's custom queries.
type MemberRepository struct {
	Repository[entity.Member]
}

// NewMemberRepository returns a member repository bound to db.
func NewMemberRepository(db bun.IDB) *MemberRepository {
	return &MemberRepository{Repository: NewRepository[entity.Member](db, "member_id")}
}

// FindByName returns the members whose user name equals name exactly.
func (r *MemberRepository) FindByName(ctx context.Context, name string) ([]*entity.Member, error) {
	m := entity.QMember
	return query.SelectFrom[entity.Member](r.Factory()).
		Where(m.UserName.Eq(name)).
		OrderBy(m.ID.Asc()).
		Fetch(ctx)
}

// FindUser returns the members matching the given name and age. A nil (or
// blank) name and a nil age impose no condition; with both absent every
// member is returned.
func (r *MemberRepository) FindUser(ctx context.Context, name *string, age *int) ([]*entity.Member, error) {
	m := entity.QMember
	return query.SelectFrom[entity.Member](r.Factory()).
		Where(userNameEq(name), ageEq(age)).
		OrderBy(m.ID.Asc()).
		Fetch(ctx)
}

// FindOneByName returns the only member called name. It fails with
// query.ErrNoResult or query.ErrNonUniqueResult otherwise.
func (r *MemberRepository) FindOneByName(ctx context.Context, name string) (*entity.Member, error) {
	return query.SelectFrom[entity.Member](r.Factory()).
		Where(entity.QMember.UserName.Eq(name)).
		FetchOne(ctx)
}

// FindByTeamName returns the members of the team called name.
func (r *MemberRepository) FindByTeamName(ctx context.Context, name string) ([]*entity.Member, error) {
	m, t := entity.QMember, entity.QTeam
	return query.SelectFrom[entity.Member](r.Factory()).
		Join(t, t.ID.EqPath(m.TeamID)).
		Where(t.Name.Eq(name)).
		OrderBy(m.ID.Asc()).
		Fetch(ctx)
}

// FindAllWithTeam returns every member with its Team loaded in the same
// statement.
func (r *MemberRepository) FindAllWithTeam(ctx context.Context) ([]*entity.Member, error) {
	return query.SelectFrom[entity.Member](r.Factory()).
		FetchJoin("Team").
		OrderBy(entity.QMember.ID.Asc()).
		Fetch(ctx)
}

// Search returns members left-joined with their team, filtered by cond.
func (r *MemberRepository) Search(ctx context.Context, cond MemberSearchCondition) ([]*MemberTeamRow, error) {
	return r.searchQuery(cond).OrderBy(entity.QMember.ID.Asc()).Fetch(ctx)
}

// SearchPage is Search with paging. The page orders are appended after the
// member id when present; by default rows are ordered by member id.
func (r *MemberRepository) SearchPage(ctx context.Context, cond MemberSearchCondition, page *types.PageRequest) (*types.Pagination[MemberTeamRow], error) {
	q := r.searchQuery(cond)
	if len(page.GetOrders()) == 0 {
		q = q.OrderBy(entity.QMember.ID.Asc())
	}
	return q.Page(ctx, page)
}

func (r *MemberRepository) searchQuery(cond MemberSearchCondition) *query.Query[MemberTeamRow] {
	m, t := entity.QMember, entity.QTeam
	return query.Select[MemberTeamRow](r.Factory(), m,
		m.ID.Expr().As("member_id"),
		m.UserName.Expr().As("user_name"),
		m.Age.Expr().As("age"),
		t.ID.Expr().As("team_id"),
		t.Name.Expr().As("team_name"),
	).
		LeftJoin(t, t.ID.EqPath(m.TeamID)).
		Where(
			userNameEq(cond.UserName),
			teamNameEq(cond.TeamName),
			ageGoe(cond.AgeGoe),
			ageLoe(cond.AgeLoe),
		)
}

// TeamAgeStats aggregates member ages per team, ordered by team name.
// Members without a team are not counted.
func (r *MemberRepository) TeamAgeStats(ctx context.Context) ([]*TeamAgeStat, error) {
	m, t := entity.QMember, entity.QTeam
	return query.Select[TeamAgeStat](r.Factory(), m,
		t.Name.Expr().As("team_name"),
		query.Count().As("member_count"),
		m.Age.Avg().As("avg_age"),
		m.Age.Max().As("max_age"),
		m.Age.Min().As("min_age"),
	).
		Join(t, t.ID.EqPath(m.TeamID)).
		GroupBy(t.Name).
		OrderBy(t.Name.Asc()).
		Fetch(ctx)
}

// LoadTeam returns the team of m, querying it on first access only and
// caching it on m. A member without team yields nil.
func (r *MemberRepository) LoadTeam(ctx context.Context, m *entity.Member) (*entity.Team, error) {
	if m.Team != nil || m.TeamID == nil {
		return m.Team, nil
	}
	team, err := NewTeamRepository(r.DB()).GetOne(ctx, *m.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team of member %d: %w", m.ID, err)
	}
	m.Team = team
	return team, nil
}

func userNameEq(name *string) *query.Predicate {
	if name == nil || strings.TrimSpace(*name) == "" {
		return nil
	}
	return entity.QMember.UserName.Eq(*name)
}

func teamNameEq(name *string) *query.Predicate {
	if name == nil || strings.TrimSpace(*name) == "" {
		return nil
	}
	return entity.QTeam.Name.Eq(*name)
}

func ageEq(age *int) *query.Predicate {
	if age == nil {
		return nil
	}
	return entity.QMember.Age.Eq(*age)
}

func ageGoe(age *int) *query.Predicate {
	if age == nil {
		return nil
	}
	return entity.QMember.Age.Goe(*age)
}

func ageLoe(age *int) *query.Predicate {
	if age == nil {
		return nil
	}
	return entity.QMember.Age.Loe(*age)
}
