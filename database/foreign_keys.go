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
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

var validFKActions = []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"}

// ForeignKeyConstraint describes a foreign key relationship between tables.
type ForeignKeyConstraint struct {
	Table           string `yaml:"table"`
	Column          string `yaml:"column"`
	ReferenceTable  string `yaml:"reference_table"`
	ReferenceColumn string `yaml:"reference_column"`
	OnDelete        string `yaml:"on_delete,omitempty"` // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string `yaml:"on_update,omitempty"`
	ConstraintName  string `yaml:"constraint_name,omitempty"`
}

// ForeignKeyConfig is the YAML document listing foreign key constraints.
type ForeignKeyConfig struct {
	ForeignKeys []ForeignKeyConstraint `yaml:"foreign_keys"`
}

// GenerateConstraintName returns the explicit name or fk_<table>_<column>.
func (fk *ForeignKeyConstraint) GenerateConstraintName() string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// GenerateSQL returns the ALTER TABLE statement to add the constraint.
func (fk *ForeignKeyConstraint) GenerateSQL() string {
	sql := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		fk.Table, fk.GenerateConstraintName(), fk.Column, fk.ReferenceTable, fk.ReferenceColumn)

	if fk.OnDelete != "" {
		sql += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		sql += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return sql
}

// DefaultForeignKeyConstraints are the constraints of the study schema.
// Deleting a team keeps its members and clears their team.
func DefaultForeignKeyConstraints() []ForeignKeyConstraint {
	return []ForeignKeyConstraint{
		{
			Table:           "tbl_member",
			Column:          "team_id",
			ReferenceTable:  "tbl_team",
			ReferenceColumn: "team_id",
			OnDelete:        "SET NULL",
		},
	}
}

// LoadForeignKeyConstraints reads constraints from a YAML file.
func LoadForeignKeyConstraints(path string) ([]ForeignKeyConstraint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign key file: %w", err)
	}
	var config ForeignKeyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse foreign key file: %w", err)
	}
	return config.ForeignKeys, nil
}

// ForeignKeyManager manages adding and validating foreign key constraints.
type ForeignKeyManager struct {
	constraints []ForeignKeyConstraint
	logger      Logger
}

// NewForeignKeyManager creates a manager with the default constraints.
func NewForeignKeyManager(logger Logger) *ForeignKeyManager {
	if logger == nil {
		logger = GetLogger()
	}
	return &ForeignKeyManager{
		constraints: DefaultForeignKeyConstraints(),
		logger:      logger,
	}
}

// NewConfigurableForeignKeyManager loads constraints from configPath and
// falls back to the default constraints when the file cannot be used.
func NewConfigurableForeignKeyManager(logger Logger, configPath string) *ForeignKeyManager {
	fkm := NewForeignKeyManager(logger)
	if configPath == "" {
		return fkm
	}
	constraints, err := LoadForeignKeyConstraints(configPath)
	if err != nil {
		fkm.logger.Debug("Failed to load foreign key constraints from config, using code-defined defaults", "error", err, "config_path", configPath)
		return fkm
	}
	fkm.constraints = constraints
	return fkm
}

// AddAllForeignKeys adds every constraint in order and stops at the first
// one the database rejects.
func (fkm *ForeignKeyManager) AddAllForeignKeys(ctx context.Context, db bun.IDB) error {
	for _, constraint := range fkm.constraints {
		if _, err := db.ExecContext(ctx, constraint.GenerateSQL()); err != nil {
			fkm.logger.Error("Failed to add foreign key constraint", "constraint", constraint.GenerateConstraintName(), "error", err)
			return fmt.Errorf("failed to add foreign key %s: %w", constraint.GenerateConstraintName(), err)
		}
		fkm.logger.Debug("Successfully added foreign key constraint", "constraint", constraint.GenerateConstraintName())
	}
	return nil
}

// RemoveForeignKey drops a named foreign key from a table.
func (fkm *ForeignKeyManager) RemoveForeignKey(ctx context.Context, db bun.IDB, tableName, constraintName string) error {
	keyword := "CONSTRAINT"
	if db.Dialect().Name().String() == "mysql" {
		keyword = "FOREIGN KEY"
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s DROP %s %s", tableName, keyword, constraintName))
	return err
}

// GetConstraintsByTable returns the constraints defined for a table.
func (fkm *ForeignKeyManager) GetConstraintsByTable(tableName string) []ForeignKeyConstraint {
	var result []ForeignKeyConstraint
	for _, constraint := range fkm.constraints {
		if strings.EqualFold(constraint.Table, tableName) {
			result = append(result, constraint)
		}
	}
	return result
}

// ListAllConstraints returns all configured constraints.
func (fkm *ForeignKeyManager) ListAllConstraints() []ForeignKeyConstraint {
	return fkm.constraints
}

// ValidateConstraints checks the configured constraints for missing names and
// unknown referential actions.
func (fkm *ForeignKeyManager) ValidateConstraints() []error {
	var errs []error
	for _, c := range fkm.constraints {
		if c.Table == "" {
			errs = append(errs, fmt.Errorf("table name cannot be empty"))
		}
		if c.Column == "" {
			errs = append(errs, fmt.Errorf("column name cannot be empty: %s", c.Table))
		}
		if c.ReferenceTable == "" {
			errs = append(errs, fmt.Errorf("reference table name cannot be empty: %s.%s", c.Table, c.Column))
		}
		if c.ReferenceColumn == "" {
			errs = append(errs, fmt.Errorf("reference column name cannot be empty: %s.%s -> %s", c.Table, c.Column, c.ReferenceTable))
		}
		if c.OnDelete != "" && !validFKAction(c.OnDelete) {
			errs = append(errs, fmt.Errorf("invalid delete policy: %s, constraint: %s", c.OnDelete, c.GenerateConstraintName()))
		}
		if c.OnUpdate != "" && !validFKAction(c.OnUpdate) {
			errs = append(errs, fmt.Errorf("invalid update policy: %s, constraint: %s", c.OnUpdate, c.GenerateConstraintName()))
		}
	}
	return errs
}

// ExportToConfig writes the current constraints to a YAML file.
func (fkm *ForeignKeyManager) ExportToConfig(outputPath string) error {
	data, err := yaml.Marshal(&ForeignKeyConfig{ForeignKeys: fkm.constraints})
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func validFKAction(action string) bool {
	for _, a := range validFKActions {
		if strings.EqualFold(action, a) {
			return true
		}
	}
	return false
}
