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

	"github.com/tomoncle/study/entity"
	"github.com/tomoncle/study/query"
	"github.com/uptrace/bun"
)

// TeamRepository is the team repository.
type TeamRepository struct {
	Repository[entity.Team]
}

// NewTeamRepository returns a team repository bound to db.
func NewTeamRepository(db bun.IDB) *TeamRepository {
	return &TeamRepository{Repository: NewRepository[entity.Team](db, "team_id")}
}

// FindByName returns the teams called name.
func (r *TeamRepository) FindByName(ctx context.Context, name string) ([]*entity.Team, error) {
	t := entity.QTeam
	return query.SelectFrom[entity.Team](r.Factory()).
		Where(t.Name.Eq(name)).
		OrderBy(t.ID.Asc()).
		Fetch(ctx)
}

// Members returns the current members of team, by ascending id. It reads
// tbl_member.team_id and never uses team.Members.
func (r *TeamRepository) Members(ctx context.Context, team *entity.Team) ([]*entity.Member, error) {
	m := entity.QMember
	return query.SelectFrom[entity.Member](r.Factory()).
		Where(m.TeamID.Eq(team.ID)).
		OrderBy(m.ID.Asc()).
		Fetch(ctx)
}

// FindAllWithMembers returns every team with Members populated.
func (r *TeamRepository) FindAllWithMembers(ctx context.Context) ([]*entity.Team, error) {
	return query.SelectFrom[entity.Team](r.Factory()).
		FetchJoin("Members").
		OrderBy(entity.QTeam.ID.Asc()).
		Fetch(ctx)
}
