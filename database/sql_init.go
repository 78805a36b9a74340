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
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/uptrace/bun"
)

const (
	defaultSQLRootPath = "configs/sql"
	commonSQLDir       = "common"
	unorderedSQLFile   = 999
)

var sqlFileOrderRe = regexp.MustCompile(`^(\d+)_`)

// SQLInitManager discovers and executes seed SQL files: first
// <root>/common, then <root>/environments/<environment>, each ordered by the
// numeric prefix of the file name.
type SQLInitManager struct {
	db             bun.IDB
	environment    string
	sqlRootPath    string
	enableTemplate bool
	logger         Logger
}

// SQLFileInfo describes a SQL file to be executed during initialization.
type SQLFileInfo struct {
	Path        string
	Name        string
	Order       int
	Environment string
	ModTime     time.Time
}

// ExecutionResult contains the outcome of executing a single SQL file.
type ExecutionResult struct {
	File         string
	Success      bool
	Error        error
	Duration     time.Duration
	RowsAffected int64
}

// NewSQLInitManager creates a SQL initializer for the given environment.
// db may be a transaction; each file then runs inside a savepoint.
func NewSQLInitManager(db bun.IDB, environment string) *SQLInitManager {
	return &SQLInitManager{
		db:          db,
		environment: environment,
		sqlRootPath: defaultSQLRootPath,
		logger:      GetLogger(),
	}
}

// SetSQLRootPath sets the root directory from which SQL files are loaded.
func (s *SQLInitManager) SetSQLRootPath(path string) {
	if path != "" {
		s.sqlRootPath = path
	}
}

// EnableTemplate renders each file as a text/template over the environment
// variables plus ENVIRONMENT and TIMESTAMP before executing it.
func (s *SQLInitManager) EnableTemplate(enabled bool) {
	s.enableTemplate = enabled
}

// ExecuteInitialization runs all discovered SQL files and stops at the first
// failing one.
func (s *SQLInitManager) ExecuteInitialization(ctx context.Context) ([]ExecutionResult, error) {
	s.logger.Info("Starting SQL initialization", "environment", s.environment, "sql_path", s.sqlRootPath)

	files, err := s.GetSQLFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL files: %w", err)
	}
	if len(files) == 0 {
		s.logger.Info("No SQL files found to execute")
		return nil, nil
	}

	results := make([]ExecutionResult, 0, len(files))
	for _, file := range files {
		result := s.executeFile(ctx, file)
		results = append(results, result)

		if !result.Success {
			s.logger.Error("SQL file execution failed", "file", result.File, "error", result.Error)
			return results, fmt.Errorf("SQL file execution failed %s: %w", result.File, result.Error)
		}
		s.logger.Info("SQL file executed successfully", "file", result.File, "duration", result.Duration, "rows_affected", result.RowsAffected)
	}

	s.logger.Info("SQL initialization completed", "total_files", len(results), "environment", s.environment)
	return results, nil
}

// GetSQLFiles returns the common files followed by the environment files.
// A missing directory contributes no files.
func (s *SQLInitManager) GetSQLFiles() ([]SQLFileInfo, error) {
	commonFiles, err := s.getFilesFromDir(filepath.Join(s.sqlRootPath, commonSQLDir), commonSQLDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get common SQL files: %w", err)
	}
	files := append([]SQLFileInfo{}, commonFiles...)

	if s.environment != "" {
		envFiles, err := s.getFilesFromDir(filepath.Join(s.sqlRootPath, "environments", s.environment), s.environment)
		if err != nil {
			return nil, fmt.Errorf("failed to get environment SQL files: %w", err)
		}
		files = append(files, envFiles...)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Environment != files[j].Environment {
			return files[i].Environment == commonSQLDir
		}
		if files[i].Order != files[j].Order {
			return files[i].Order < files[j].Order
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func (s *SQLInitManager) getFilesFromDir(dir, environment string) ([]SQLFileInfo, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []SQLFileInfo
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, SQLFileInfo{
			Path:        path,
			Name:        d.Name(),
			Order:       parseFileOrder(d.Name()),
			Environment: environment,
			ModTime:     info.ModTime(),
		})
		return nil
	})
	return files, err
}

func parseFileOrder(filename string) int {
	matches := sqlFileOrderRe.FindStringSubmatch(filename)
	if len(matches) < 2 {
		return unorderedSQLFile
	}
	order, err := strconv.Atoi(matches[1])
	if err != nil {
		return unorderedSQLFile
	}
	return order
}

func (s *SQLInitManager) executeFile(ctx context.Context, file SQLFileInfo) ExecutionResult {
	start := time.Now()
	result := ExecutionResult{File: file.Path}

	content, err := os.ReadFile(file.Path)
	if err != nil {
		result.Error = fmt.Errorf("failed to read file: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	text := string(content)
	if s.enableTemplate {
		if text, err = s.replaceEnvVariables(text); err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
	}

	statements := splitSQLStatements(text)
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range statements {
			res, execErr := tx.ExecContext(ctx, stmt)
			if execErr != nil {
				return fmt.Errorf("failed to execute SQL statement: %s, error: %w", stmt, execErr)
			}
			if n, err := res.RowsAffected(); err == nil {
				result.RowsAffected += n
			}
		}
		return nil
	})

	result.Error = err
	result.Success = err == nil
	result.Duration = time.Since(start)
	return result
}

func (s *SQLInitManager) replaceEnvVariables(content string) (string, error) {
	tmpl, err := template.New("sql").Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	vars := make(map[string]string)
	for _, env := range os.Environ() {
		if k, v, ok := strings.Cut(env, "="); ok {
			vars[k] = v
		}
	}
	vars["ENVIRONMENT"] = s.environment
	vars["TIMESTAMP"] = time.Now().Format("2006-01-02 15:04:05")

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// splitSQLStatements splits on lines ending with ';'. Blank lines and "--"
// comment lines are dropped; the trailing ';' is kept.
func splitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString(" ")
		if strings.HasSuffix(line, ";") {
			flush()
		}
	}
	flush()
	return statements
}
