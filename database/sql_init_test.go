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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSQL(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSplitSQLStatements(t *testing.T) {
	content := `-- teams
INSERT INTO t (name)
VALUES ('a');

INSERT INTO t (name) VALUES ('b');
-- trailing statement without semicolon
DELETE FROM t WHERE name = 'c'`

	stmts := splitSQLStatements(content)
	assert.Equal(t, []string{
		"INSERT INTO t (name) VALUES ('a');",
		"INSERT INTO t (name) VALUES ('b');",
		"DELETE FROM t WHERE name = 'c'",
	}, stmts)
}

func TestParseFileOrder(t *testing.T) {
	assert.Equal(t, 1, parseFileOrder("001_teams.sql"))
	assert.Equal(t, 20, parseFileOrder("20_members.sql"))
	assert.Equal(t, unorderedSQLFile, parseFileOrder("members.sql"))
}

func TestGetSQLFilesOrder(t *testing.T) {
	root := t.TempDir()
	writeSQL(t, root, "common/010_b.sql", "")
	writeSQL(t, root, "common/002_a.sql", "")
	writeSQL(t, root, "common/readme.txt", "")
	writeSQL(t, root, "environments/test/001_env.sql", "")
	writeSQL(t, root, "environments/prod/001_prod.sql", "")

	s := NewSQLInitManager(nil, "test")
	s.SetSQLRootPath(root)
	files, err := s.GetSQLFiles()
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"002_a.sql", "010_b.sql", "001_env.sql"}, names)
	assert.Equal(t, "test", files[2].Environment)
}

func TestExecuteInitialization(t *testing.T) {
	db := newCounterTable(t, "sql_init_exec")
	root := t.TempDir()
	writeSQL(t, root, "common/001_counter.sql", "INSERT INTO counter (label) VALUES ('a');\nINSERT INTO counter (label) VALUES ('b');\n")
	writeSQL(t, root, "environments/test/001_env.sql", "INSERT INTO counter (label) VALUES ('{{.ENVIRONMENT}}');\n")

	s := NewSQLInitManager(db, "test")
	s.SetSQLRootPath(root)
	s.EnableTemplate(true)
	results, err := s.ExecuteInitialization(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(2), results[0].RowsAffected)
	assert.Equal(t, 3, countRows(t, db))

	var label string
	require.NoError(t, db.NewSelect().TableExpr("counter").Column("label").Where("id = ?", 3).Scan(context.Background(), &label))
	assert.Equal(t, "test", label)
}

func TestExecuteInitializationStopsOnFailure(t *testing.T) {
	db := newCounterTable(t, "sql_init_fail")
	root := t.TempDir()
	writeSQL(t, root, "common/001_ok.sql", "INSERT INTO counter (label) VALUES ('a');")
	writeSQL(t, root, "common/002_bad.sql", "INSERT INTO counter (label) VALUES ('b');\nINSERT INTO missing (x) VALUES (1);")
	writeSQL(t, root, "common/003_never.sql", "INSERT INTO counter (label) VALUES ('c');")

	s := NewSQLInitManager(db, "")
	s.SetSQLRootPath(root)
	results, err := s.ExecuteInitialization(context.Background())
	require.Error(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[1].Success)
	// the failing file is rolled back as a whole
	assert.Equal(t, 1, countRows(t, db))
}

func TestExecuteInitializationWithoutFiles(t *testing.T) {
	s := NewSQLInitManager(nil, "dev")
	s.SetSQLRootPath(filepath.Join(t.TempDir(), "absent"))
	results, err := s.ExecuteInitialization(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, results)
}
