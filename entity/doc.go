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

// Package entity holds the Bun models of the study domain together with
// their typed path sets.
//
// A Member optionally belongs to one Team; a Team has many Members. The
// association is owned by the member side (tbl_member.team_id). Relations
// are never loaded implicitly: use the repository helpers or a fetch join.
package entity
