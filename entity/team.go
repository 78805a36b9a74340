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
	"fmt"

	"github.com/uptrace/bun"
)

// Team is a group of members.
type Team struct {
	bun.BaseModel `bun:"table:tbl_team,alias:t"`

	ID      int64     `bun:"team_id,pk,autoincrement" json:"id"`
	Name    string    `bun:"name" json:"name"`
	Members []*Member `bun:"rel:has-many,join:team_id=team_id" json:"-"`
}

// NewTeam returns an unsaved team.
func NewTeam(name string) *Team {
	return &Team{Name: name}
}

// IsNew reports whether the team has not been persisted yet.
func (t *Team) IsNew() bool {
	return t.ID == 0
}

// Equal compares teams by identifier. Unsaved teams are only equal to
// themselves.
func (t *Team) Equal(other *Team) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.IsNew() || other.IsNew() {
		return t == other
	}
	return t.ID == other.ID
}

func (t *Team) String() string {
	return fmt.Sprintf("Team(id=%d, name=%s)", t.ID, t.Name)
}
