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

package database

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/tomoncle/study/utils"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/extra/bundebug"
)

var bunSqlSilentMode atomic.Bool

// EnableBunSqlSilent mutes the query hooks, e.g. while migrations run.
func EnableBunSqlSilent(b bool) {
	bunSqlSilentMode.Store(b)
}

func installQueryHooks(db *bun.DB, cfg *ConnectionConfig, logger Logger) {
	if cfg.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}
	db.AddQueryHook(&QueryHook{
		slowTime: cfg.SlowQueryTime,
		logger:   logger,
	})
}

// QueryHook reports failed and slow statements through the database logger.
// sql.ErrNoRows is not a failure. A zero slowTime disables slow reporting.
type QueryHook struct {
	slowTime time.Duration
	logger   Logger
}

var _ bun.QueryHook = (*QueryHook)(nil)

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if bunSqlSilentMode.Load() || h.logger == nil {
		return
	}
	duration := time.Since(event.StartTime)

	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) && !errors.Is(event.Err, sql.ErrTxDone):
		h.logger.Warn(color.New(color.FgRed).Sprint("Database query failed"),
			"operation", event.Operation(),
			"duration", utils.Since(event.StartTime),
			"error", event.Err,
			"query", event.Query,
		)
	case event.Err == nil && h.slowTime > 0 && duration > h.slowTime:
		h.logger.Warn(color.New(color.FgYellow, color.BlinkSlow).Sprint("Database slow query detected"),
			"operation", event.Operation(),
			"duration", utils.Since(event.StartTime),
			"slow_threshold", h.slowTime,
			"query", operationColor(event.Operation()).Sprint(event.Query),
		)
	}
}

func operationColor(operation string) *color.Color {
	switch operation {
	case "SELECT":
		return color.New(color.FgGreen)
	case "INSERT":
		return color.New(color.FgBlue)
	case "UPDATE":
		return color.New(color.FgYellow)
	case "DELETE":
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgRed)
	}
}
