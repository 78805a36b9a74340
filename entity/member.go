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

package entity

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// ErrUnsavedTeam is returned when a member is written while its team has no
// identifier yet.
var ErrUnsavedTeam = errors.New("entity: member references an unsaved team")

// Member is a person that may belong to a team.
type Member struct {
	bun.BaseModel `bun:"table:tbl_member,alias:m"`

	ID       int64  `bun:"member_id,pk,autoincrement" json:"id"`
	UserName string `bun:"user_name" json:"userName"`
	Age      int    `bun:"age,notnull" json:"age"`
	TeamID   *int64 `bun:"team_id" json:"teamId,omitempty"`
	Team     *Team  `bun:"rel:belongs-to,join:team_id=team_id,on_delete:SET NULL" json:"-"`
}

// NewMember returns an unsaved member, placed in team when team is not nil.
func NewMember(userName string, age int, team *Team) *Member {
	m := &Member{UserName: userName, Age: age}
	if team != nil {
		m.ChangeTeam(team)
	}
	return m
}

// ChangeTeam moves the member to team. A nil team removes the member from
// its current team. TeamID is left nil while team is unsaved and resolved
// when the member is written.
func (m *Member) ChangeTeam(team *Team) {
	m.Team = team
	m.TeamID = nil
	if team != nil && !team.IsNew() {
		id := team.ID
		m.TeamID = &id
	}
}

var _ bun.BeforeAppendModelHook = (*Member)(nil)

// BeforeAppendModel copies the identifier of the attached team into TeamID on
// insert and update. A team that is still unsaved is an error. The empty team
// a join leaves on a member without a team is ignored.
func (m *Member) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		if m.Team == nil || (m.Team.IsNew() && m.Team.Name == "") {
			return nil
		}
		if m.Team.IsNew() {
			return fmt.Errorf("%w: %s", ErrUnsavedTeam, m.Team.Name)
		}
		id := m.Team.ID
		m.TeamID = &id
	}
	return nil
}

// IsNew reports whether the member has not been persisted yet.
func (m *Member) IsNew() bool {
	return m.ID == 0
}

// Equal compares members by identifier. Unsaved members are only equal to
// themselves.
func (m *Member) Equal(other *Member) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.IsNew() || other.IsNew() {
		return m == other
	}
	return m.ID == other.ID
}

// String prints the scalar fields only; the team is left out.
func (m *Member) String() string {
	return fmt.Sprintf("Member(id=%d, userName=%s, age=%d)", m.ID, m.UserName, m.Age)
}
