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
	"github.com/tomoncle/study/query"
)

// MemberPath is the typed path set of tbl_member under one alias.
type MemberPath struct {
	alias string

	ID       query.NumberPath[int64]
	UserName query.StringPath
	Age      query.NumberPath[int]
	TeamID   query.NumberPath[int64]
}

// NewQMember returns the member paths under alias. Sub-queries use their
// own alias, e.g. NewQMember("ms").
func NewQMember(alias string) *MemberPath {
	return &MemberPath{
		alias:    alias,
		ID:       query.NewNumberPath[int64](alias, "member_id"),
		UserName: query.NewStringPath(alias, "user_name"),
		Age:      query.NewNumberPath[int](alias, "age"),
		TeamID:   query.NewNumberPath[int64](alias, "team_id"),
	}
}

func (p *MemberPath) TableName() string { return "tbl_member" }
func (p *MemberPath) Alias() string     { return p.alias }

// TeamPath is the typed path set of tbl_team under one alias.
type TeamPath struct {
	alias string

	ID   query.NumberPath[int64]
	Name query.StringPath
}

func NewQTeam(alias string) *TeamPath {
	return &TeamPath{
		alias: alias,
		ID:    query.NewNumberPath[int64](alias, "team_id"),
		Name:  query.NewStringPath(alias, "name"),
	}
}

func (p *TeamPath) TableName() string { return "tbl_team" }
func (p *TeamPath) Alias() string     { return p.alias }

// Default path sets, matching the aliases declared on the models.
var (
	QMember = NewQMember("m")
	QTeam   = NewQTeam("t")
)
