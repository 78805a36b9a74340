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
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tomoncle/study/query"
	"github.com/tomoncle/study/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db      bun.IDB
	factory *query.Factory
	pk      string
}

// NewRepository returns a generic repository of the Bun model T over db.
// pk is the primary key column used by GetOne, Delete and Upsert.
func NewRepository[T any](db bun.IDB, pk string) Repository[T] {
	return newBaseRepository[T](db, pk)
}

func newBaseRepository[T any](db bun.IDB, pk string) *baseRepositoryImpl[T] {
	return &baseRepositoryImpl[T]{db: db, factory: query.NewFactory(db), pk: pk}
}

func (r *baseRepositoryImpl[T]) DB() bun.IDB { return r.db }

func (r *baseRepositoryImpl[T]) Factory() *query.Factory { return r.factory }

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	entity := new(T)
	err := r.db.NewSelect().
		Model(entity).
		Where("?TableAlias.? = ?", bun.Ident(r.pk), id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s = %v", query.ErrNoResult, r.pk, id)
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.List(ctx)
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, predicates ...*query.Predicate) ([]*T, error) {
	return query.SelectFrom[T](r.factory).
		Where(predicates...).
		OrderBy(query.Column(r.pk).Asc()).
		Fetch(ctx)
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, where string, args ...interface{}) ([]*T, error) {
	entities := make([]*T, 0)
	err := r.db.NewSelect().Model(&entities).Where(where, args...).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, predicates ...*query.Predicate) (int, error) {
	return query.SelectFrom[T](r.factory).Where(predicates...).FetchCount(ctx)
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	return query.SelectFrom[T](r.factory).Page(ctx, page)
}

func (r *baseRepositoryImpl[T]) Save(ctx context.Context, entity *T) error {
	if p, ok := any(entity).(Persistable); ok && !p.IsNew() {
		return r.Update(ctx, entity)
	}
	_, err := r.db.NewInsert().Model(entity).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	if len(entity) == 0 {
		return nil
	}
	entities := valsToSlice(entity...)
	_, err := r.db.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	_, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	_, err := r.db.NewDelete().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(r.pk), id).
		Exec(ctx)
	return err
}

// Upsert inserts entities and, on a conflict over duplicateKeys (the primary
// key by default), overwrites fields. Dialects without native upsert fall
// back to insert-then-update per entity.
func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}
	if len(entity) == 0 {
		return nil
	}
	entities := valsToSlice(entity...)

	features := r.db.Dialect().Features()
	switch {
	case features.Has(feature.InsertOnConflict):
		return r.upsertOnConflict(ctx, fields, duplicateKeys, entities)
	case features.Has(feature.InsertOnDuplicateKey):
		return r.upsertOnDuplicateKey(ctx, fields, entities)
	default:
		return r.upsertFallback(ctx, entities)
	}
}

func (r *baseRepositoryImpl[T]) upsertOnDuplicateKey(ctx context.Context, fields []string, entities []*T) error {
	sets := make([]string, 0, len(fields))
	for _, field := range fields {
		sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", field, field))
	}
	_, err := r.db.NewInsert().
		Model(&entities).
		On("DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertOnConflict(ctx context.Context, fields []string, duplicateKeys []string, entities []*T) error {
	if len(duplicateKeys) == 0 {
		duplicateKeys = []string{r.pk}
	}
	sets := make([]string, 0, len(fields))
	for _, field := range fields {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", field, field))
	}
	_, err := r.db.NewInsert().
		Model(&entities).
		On("CONFLICT (" + strings.Join(duplicateKeys, ", ") + ") DO UPDATE").
		Set(strings.Join(sets, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, entities []*T) error {
	for _, entity := range entities {
		if _, err := r.db.NewInsert().Model(entity).Exec(ctx); err != nil {
			if _, updateErr := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx); updateErr != nil {
				return fmt.Errorf("upsert failed for entity: insert error: %v, update error: %w", err, updateErr)
			}
		}
	}
	return nil
}

func valsToSlice[T any](entity ...*T) []*T {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return entities
}
