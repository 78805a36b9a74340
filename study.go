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

// Package study wires the member/team persistence layer: it opens the
// database, runs the migrations and exposes the typed query factory and the
// repositories, either over the connection pool or bound to a unit of work.
package study

import (
	"context"
	"fmt"

	"github.com/tomoncle/study/database"
	"github.com/tomoncle/study/query"
	"github.com/tomoncle/study/repository"
	"github.com/uptrace/bun"
)

// App is the application context. Its query factory and repositories run
// against the connection pool and are safe for concurrent use.
type App struct {
	DB      *bun.DB
	Queries *query.Factory
	Members *repository.MemberRepository
	Teams   *repository.TeamRepository

	factory *database.BaseDatabaseFactory
}

// UnitOfWork groups the query factory and repositories bound to one
// transaction. It must not be shared across goroutines.
type UnitOfWork struct {
	Tx      bun.Tx
	Queries *query.Factory
	Members *repository.MemberRepository
	Teams   *repository.TeamRepository
}

func newUnitOfWork(tx bun.Tx) *UnitOfWork {
	return &UnitOfWork{
		Tx:      tx,
		Queries: query.NewFactory(tx),
		Members: repository.NewMemberRepository(tx),
		Teams:   repository.NewTeamRepository(tx),
	}
}

// Open connects to the database described by cfg and initializes it as
// configured. The caller must Close the returned App.
func Open(ctx context.Context, cfg *database.Config) (*App, error) {
	factory, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newApp(factory), nil
}

// OpenFrom opens the App from a configuration provider such as config.Config.
func OpenFrom(ctx context.Context, provider database.AbstractDatabaseConfigProvider) (*App, error) {
	if provider == nil {
		return nil, fmt.Errorf("database configuration provider cannot be nil")
	}
	return Open(ctx, provider.ConfigLoader())
}

func newApp(factory *database.BaseDatabaseFactory) *App {
	db := factory.GetDB()
	return &App{
		DB:      db,
		Queries: query.NewFactory(db),
		Members: repository.NewMemberRepository(db),
		Teams:   repository.NewTeamRepository(db),
		factory: factory,
	}
}

// Transactional runs fn in a unit of work. The work is committed when fn
// returns nil and rolled back otherwise.
func (a *App) Transactional(ctx context.Context, fn func(ctx context.Context, uow *UnitOfWork) error) error {
	return database.Transactional(ctx, a.DB, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, newUnitOfWork(tx))
	})
}

// Migrate applies the pending schema migrations.
func (a *App) Migrate(ctx context.Context) error {
	return a.factory.GetManager().RunMigrations(ctx)
}

// InitData executes the SQL seed files.
func (a *App) InitData(ctx context.Context) error {
	return a.factory.GetManager().InitData(ctx)
}

func (a *App) Health(ctx context.Context) *database.HealthStatus {
	return a.factory.GetHealthStatus(ctx)
}

func (a *App) Stats() *database.DBStats {
	return a.factory.GetStats()
}

// Close releases the connection pool.
func (a *App) Close() error {
	return a.factory.Close()
}
