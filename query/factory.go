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

package query

import (
	"github.com/uptrace/bun"
)

// Factory creates queries bound to one Bun session: the connection pool or a
// single transaction. It holds no other state and may be shared by the
// goroutines that share its session.
type Factory struct {
	db bun.IDB
}

// NewFactory returns a factory executing against db.
func NewFactory(db bun.IDB) *Factory {
	return &Factory{db: db}
}

// DB returns the session the factory is bound to.
func (f *Factory) DB() bun.IDB {
	return f.db
}

// WithTx returns a factory bound to tx.
func (f *Factory) WithTx(tx bun.Tx) *Factory {
	return &Factory{db: tx}
}

func (f *Factory) fromTable(from EntityPath) *bun.SelectQuery {
	return f.db.NewSelect().TableExpr("? AS ?", bun.Ident(from.TableName()), bun.Ident(from.Alias()))
}
