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

	"github.com/tomoncle/study/query"
	"github.com/tomoncle/study/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// Persistable is implemented by models that know whether they were saved.
type Persistable interface {
	IsNew() bool
}

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	// GetOne fails with query.ErrNoResult when no row has the identifier.
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	// List returns the rows matching every present predicate.
	List(ctx context.Context, predicates ...*query.Predicate) ([]*T, error)

	// Query filters with a raw WHERE clause using '?' placeholders.
	Query(ctx context.Context, where string, args ...interface{}) ([]*T, error)

	Count(ctx context.Context, predicates ...*query.Predicate) (int, error)

	// Save inserts a new entity (see Persistable) and updates a stored one.
	Save(ctx context.Context, entity *T) error

	Create(ctx context.Context, entity ...*T) error

	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error

	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id any) error
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository combines CRUD and pagination and exposes the session, the
// query factory and Bun query builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	DB() bun.IDB
	Factory() *query.Factory
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
