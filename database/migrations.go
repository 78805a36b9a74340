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
	"sort"
	"time"

	"github.com/tomoncle/study/utils"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

const defaultEnvironment = "development"

// MigrationManager applies versioned migrations and seeds data.
type MigrationManager struct {
	db     *bun.DB
	config *Config
	logger Logger
}

// Migration is an applied migration record.
type Migration struct {
	bun.BaseModel `bun:"table:study_migrations"`

	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at"`
	Description string    `bun:"description"`
}

// MigrationFunc is a migration step executed within a transaction.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

// MigrationItem describes a single migration version.
type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
}

// NewMigrationManager returns a manager for db. A nil config enables the
// table migration only.
func NewMigrationManager(db *bun.DB, config *Config, logger Logger) *MigrationManager {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = GetLogger()
	}
	return &MigrationManager{db: db, config: config, logger: logger}
}

func (mm *MigrationManager) environment() string {
	if env := mm.config.DataInitConfig.Environment; env != "" {
		return env
	}
	return defaultEnvironment
}

// RunMigrations creates the tracking table when needed and applies every
// pending migration in ascending version order, each in its own transaction.
func (mm *MigrationManager) RunMigrations(ctx context.Context) error {
	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}

	// silent migration
	if !utils.EnvDefaultBool("BUNDEBUG_MIGRATION", false) {
		EnableBunSqlSilent(true)
		defer EnableBunSqlSilent(false)
	}

	if err := mm.createMigrationTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := mm.getAllMigrations()
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	for _, migration := range migrations {
		if err := mm.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}

	mm.logger.Info("Database migrations completed!")
	return nil
}

func (mm *MigrationManager) createMigrationTable(ctx context.Context) error {
	_, err := mm.db.NewCreateTable().
		Model((*Migration)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (mm *MigrationManager) getAllMigrations() []MigrationItem {
	migrations := []MigrationItem{
		{
			Version:     "001",
			Name:        "create_base_tables",
			Description: "Create base table structure",
			Up:          mm.createBaseTables,
		},
	}
	if mm.config.DataMigrateConfig.EnableForeignKey {
		migrations = append(migrations, MigrationItem{
			Version:     "002",
			Name:        "add_foreign_keys",
			Description: "Add table foreign key constraints",
			Up:          mm.addForeignKeys,
		})
	}
	if mm.config.DataInitConfig.AutoInitOnMigration {
		migrations = append(migrations, MigrationItem{
			Version:     "003",
			Name:        "seed_initial_data",
			Description: "Seed initial data",
			Up:          mm.seedInitialData,
		})
	}
	return migrations
}

func (mm *MigrationManager) runMigration(ctx context.Context, migration MigrationItem) error {
	exists, err := mm.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", migration.Version).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = Transactional(ctx, mm.db, func(ctx context.Context, tx bun.Tx) error {
		if err := migration.Up(ctx, tx); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(&Migration{
				Version:     migration.Version,
				Name:        migration.Name,
				AppliedAt:   time.Now(),
				Description: migration.Description,
			}).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	mm.logger.Info("Migration executed successfully", "version", migration.Version, "name", migration.Name)
	return nil
}

// createBaseTables creates the registered tables in priority order. On sqlite,
// which cannot add constraints to an existing table, the foreign keys
// declared by belongs-to relations are created with the tables.
func (mm *MigrationManager) createBaseTables(ctx context.Context, db bun.IDB) error {
	inlineFKs := db.Dialect().Name() == dialect.SQLite
	for _, model := range RegisteredModelInstances() {
		q := db.NewCreateTable().
			Model(model).
			IfNotExists()
		if inlineFKs {
			q = q.WithForeignKeys()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %s: %w", getModelName(model), err)
		}
	}
	return nil
}

// addForeignKeys adds the configured constraints with ALTER TABLE. On sqlite
// the constraints already exist since createBaseTables; it only checks that
// every configured one is present.
func (mm *MigrationManager) addForeignKeys(ctx context.Context, db bun.IDB) error {
	if db.Dialect().Name() == dialect.SQLite {
		return mm.checkSQLiteForeignKeys(ctx, db)
	}

	configPath := mm.config.DataMigrateConfig.ForeignKeyFile
	fkManager := NewConfigurableForeignKeyManager(mm.logger, configPath)
	if errs := fkManager.ValidateConstraints(); len(errs) > 0 {
		for _, err := range errs {
			mm.logger.Debug("Foreign key constraint validation failed", "error", err)
		}
		return fmt.Errorf("foreign key constraint validation failed, %d errors in total", len(errs))
	}
	return fkManager.AddAllForeignKeys(ctx, db)
}

func (mm *MigrationManager) checkSQLiteForeignKeys(ctx context.Context, db bun.IDB) error {
	fkManager := NewConfigurableForeignKeyManager(mm.logger, mm.config.DataMigrateConfig.ForeignKeyFile)
	for _, c := range fkManager.ListAllConstraints() {
		var n int
		err := db.NewRaw(
			"SELECT COUNT(*) FROM pragma_foreign_key_list(?) WHERE \"from\" = ? AND \"table\" = ? AND \"to\" = ?",
			c.Table, c.Column, c.ReferenceTable, c.ReferenceColumn,
		).Scan(ctx, &n)
		if err != nil {
			return fmt.Errorf("failed to read foreign keys of %s: %w", c.Table, err)
		}
		if n > 0 {
			continue
		}
		exists, err := db.NewSelect().
			TableExpr("sqlite_master").
			Where("type = 'table' AND name = ?", c.Table).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to look up table %s: %w", c.Table, err)
		}
		if !exists {
			mm.logger.Debug("Skipping foreign key on unmanaged table", "constraint", c.GenerateConstraintName())
			continue
		}
		return fmt.Errorf("foreign key %s is missing; on sqlite it must be declared on the model relation", c.GenerateConstraintName())
	}
	return nil
}

// InitData runs the seed files outside the migration bookkeeping.
func (mm *MigrationManager) InitData(ctx context.Context) error {
	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return mm.seedInitialData(ctx, mm.db)
}

func (mm *MigrationManager) seedInitialData(ctx context.Context, db bun.IDB) error {
	sqlManager := NewSQLInitManager(db, mm.environment())
	sqlManager.SetSQLRootPath(mm.config.DataInitConfig.Filepath)
	sqlManager.EnableTemplate(mm.config.DataInitConfig.EnableTemplate)

	if _, err := sqlManager.ExecuteInitialization(ctx); err != nil {
		return fmt.Errorf("SQL file initialization failed: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns migration records ordered by version.
func (mm *MigrationManager) GetAppliedMigrations(ctx context.Context) ([]Migration, error) {
	var migrations []Migration
	err := mm.db.NewSelect().
		Model(&migrations).
		Order("version ASC").
		Scan(ctx)
	return migrations, err
}
