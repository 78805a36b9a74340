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
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func memoryConfig(name string) *Config {
	return &Config{
		ConnectionConfig: ConnectionConfig{
			Type:   "sqlite",
			DBName: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		},
	}
}

func openMemory(t *testing.T, cfg *Config) *BaseDatabaseFactory {
	t.Helper()
	factory, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })
	return factory
}

type logRecord struct {
	level  string
	msg    string
	fields []interface{}
}

// recordingLogger keeps every entry for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	records []logRecord
}

func (l *recordingLogger) add(level, msg string, fields []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, logRecord{level, msg, fields})
}

func (l *recordingLogger) SetLevel(LogLevel)                       {}
func (l *recordingLogger) Debug(msg string, fields ...interface{}) { l.add("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields ...interface{})  { l.add("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...interface{})  { l.add("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...interface{}) { l.add("error", msg, fields) }

func (l *recordingLogger) byLevel(level string) []logRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logRecord
	for _, r := range l.records {
		if r.level == level {
			out = append(out, r)
		}
	}
	return out
}
