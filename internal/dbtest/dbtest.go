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

// Package dbtest opens migrated in-memory sqlite databases for tests and
// seeds the member/team fixture.
package dbtest

import (
	"context"
	"fmt"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/study/database"
	"github.com/tomoncle/study/entity"
	"github.com/uptrace/bun"
)

var dbSeq atomic.Int64

var nameCleanRe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Config returns a configuration for a private in-memory sqlite database
// with migrations enabled.
func Config(t testing.TB) *database.Config {
	name := fmt.Sprintf("%s_%d", nameCleanRe.ReplaceAllString(t.Name(), "_"), dbSeq.Add(1))
	return &database.Config{
		ConnectionConfig: database.ConnectionConfig{
			Type:   "sqlite",
			DBName: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		},
		DataMigrateConfig: database.DataMigrateConfig{
			EnableMigrateOnStartup: true,
			EnableForeignKey:       true,
		},
	}
}

// Open returns a migrated, empty database closed at the end of the test.
func Open(t testing.TB) *bun.DB {
	t.Helper()
	factory, err := database.Open(context.Background(), Config(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })
	return factory.GetDB()
}

// Fixture is the seeded data set: two teams and twelve members, ten of
// them in a team. Members are in id order.
type Fixture struct {
	TeamA   *entity.Team
	TeamB   *entity.Team
	Members []*entity.Member
}

// Member returns the fixture member with the given 1-based id.
func (f *Fixture) Member(id int64) *entity.Member {
	return f.Members[id-1]
}

// Seed inserts the fixture:
//
//	id name     age team     id name     age team
//	1  member1  10  teamA    7  member7  15  -
//	2  member2  20  teamA    8  member8  25  teamA
//	3  member3  30  teamB    9  member9  35  teamB
//	4  member4  40  teamB    10 member10 45  -
//	5  member5  50  teamA    11 member1  55  teamB
//	6  member6  60  teamB    12 member12 20  teamA
func Seed(t testing.TB, db bun.IDB) *Fixture {
	t.Helper()
	ctx := context.Background()

	f := &Fixture{TeamA: entity.NewTeam("teamA"), TeamB: entity.NewTeam("teamB")}
	for _, team := range []*entity.Team{f.TeamA, f.TeamB} {
		_, err := db.NewInsert().Model(team).Exec(ctx)
		require.NoError(t, err)
	}

	rows := []struct {
		name string
		age  int
		team *entity.Team
	}{
		{"member1", 10, f.TeamA},
		{"member2", 20, f.TeamA},
		{"member3", 30, f.TeamB},
		{"member4", 40, f.TeamB},
		{"member5", 50, f.TeamA},
		{"member6", 60, f.TeamB},
		{"member7", 15, nil},
		{"member8", 25, f.TeamA},
		{"member9", 35, f.TeamB},
		{"member10", 45, nil},
		{"member1", 55, f.TeamB},
		{"member12", 20, f.TeamA},
	}
	for _, row := range rows {
		m := entity.NewMember(row.name, row.age, row.team)
		_, err := db.NewInsert().Model(m).Exec(ctx)
		require.NoError(t, err)
		// loaded relations are never part of a fresh query result
		m.Team = nil
		f.Members = append(f.Members, m)
	}
	return f
}

// OpenSeeded opens a database and seeds the fixture.
func OpenSeeded(t testing.TB) (*bun.DB, *Fixture) {
	db := Open(t)
	return db, Seed(t, db)
}
