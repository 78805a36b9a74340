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

// Package query provides a typed, fluent query builder on top of Bun.
//
// Columns are addressed through explicit path values (StringPath, NumberPath)
// declared per entity, predicates are rendered with squirrel, and the final
// statement is executed by Bun against the bound bun.IDB (a *bun.DB or a
// transaction). A nil *Predicate means "no condition" and is skipped wherever
// predicates are combined.
package query
