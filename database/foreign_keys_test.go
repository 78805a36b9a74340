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

func TestDefaultForeignKeySQL(t *testing.T) {
	fks := DefaultForeignKeyConstraints()
	require.Len(t, fks, 1)
	assert.Equal(t, "fk_tbl_member_team_id", fks[0].GenerateConstraintName())
	assert.Equal(t,
		"ALTER TABLE tbl_member ADD CONSTRAINT fk_tbl_member_team_id FOREIGN KEY (team_id) REFERENCES tbl_team(team_id) ON DELETE SET NULL",
		fks[0].GenerateSQL())
}

func TestValidateConstraints(t *testing.T) {
	fkm := &ForeignKeyManager{
		constraints: []ForeignKeyConstraint{
			{Table: "tbl_member", Column: "team_id", ReferenceTable: "tbl_team", ReferenceColumn: "team_id", OnDelete: "cascade"},
			{Table: "tbl_member", OnDelete: "DROP"},
		},
		logger: GetLogger(),
	}
	errs := fkm.ValidateConstraints()
	// second constraint: column, reference table, reference column, delete policy
	assert.Len(t, errs, 4)
	assert.Len(t, fkm.GetConstraintsByTable("TBL_MEMBER"), 2)
}

func TestConfigurableForeignKeyManager(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fk.yaml")
	yamlDoc := `foreign_keys:
  - table: tbl_member
    column: team_id
    reference_table: tbl_team
    reference_column: team_id
    on_delete: CASCADE
    constraint_name: fk_member_team
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	fkm := NewConfigurableForeignKeyManager(nil, path)
	fks := fkm.ListAllConstraints()
	require.Len(t, fks, 1)
	assert.Equal(t, "fk_member_team", fks[0].GenerateConstraintName())
	assert.Equal(t, "CASCADE", fks[0].OnDelete)

	out := filepath.Join(dir, "export", "fk.yaml")
	require.NoError(t, fkm.ExportToConfig(out))
	loaded, err := LoadForeignKeyConstraints(out)
	require.NoError(t, err)
	assert.Equal(t, fks, loaded)
}

func TestConfigurableForeignKeyManagerFallsBack(t *testing.T) {
	fkm := NewConfigurableForeignKeyManager(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, DefaultForeignKeyConstraints(), fkm.ListAllConstraints())
}

func TestAddAndRemoveForeignKeysOnSQLite(t *testing.T) {
	db := openMemory(t, memoryConfig("fk_sqlite")).GetDB()
	ctx := context.Background()
	_, err := db.ExecContext(ctx, "CREATE TABLE parent (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "CREATE TABLE child (id INTEGER PRIMARY KEY, parent_id INTEGER)")
	require.NoError(t, err)

	rec := &recordingLogger{}
	fkm := NewForeignKeyManager(rec)
	fkm.constraints = []ForeignKeyConstraint{
		{Table: "child", Column: "parent_id", ReferenceTable: "parent", ReferenceColumn: "id"},
		{Table: "child", Column: "other_id", ReferenceTable: "parent", ReferenceColumn: "id"},
	}

	// sqlite cannot alter constraints: the first failure stops the run
	err = fkm.AddAllForeignKeys(ctx, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fk_child_parent_id")
	require.Len(t, rec.byLevel("error"), 1)
	assert.Equal(t, "Failed to add foreign key constraint", rec.byLevel("error")[0].msg)

	assert.Error(t, fkm.RemoveForeignKey(ctx, db, "child", "fk_child_parent_id"))
}
