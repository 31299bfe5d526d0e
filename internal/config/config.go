// Copyright 2026 The CodeGraph Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads and saves the per-project .graphdb.yml configuration
// file: store location, ingestion thread count, and exclude globs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	internalerrors "github.com/codegraph/ingest/internal/errors"
)

const (
	configFileName = ".graphdb.yml"
	configVersion  = 1
)

// ProjectConfig is the on-disk shape of .graphdb.yml.
type ProjectConfig struct {
	Version      int      `yaml:"version"`
	ProjectID    string   `yaml:"project_id"`
	DBPath       string   `yaml:"db_path"`
	ProjectPath  string   `yaml:"project_path"`
	ThreadCount  int      `yaml:"thread_count"`
	ExcludeGlobs []string `yaml:"exclude_globs"`
}

// ConfigPath returns the path to the project config file under dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, configFileName)
}

// LoadConfig reads and parses the config file at dir's ConfigPath. Returns
// a NotFound UserError if the file does not exist so callers can
// distinguish "not configured yet" from a malformed file.
func LoadConfig(dir string) (*ProjectConfig, error) {
	path := ConfigPath(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, internalerrors.NewNotFoundError(
				fmt.Sprintf("No project config found at %s", path),
				"This directory has not been initialized",
				"Run: graphdb init",
			)
		}
		return nil, internalerrors.NewPermissionError(
			fmt.Sprintf("Cannot read project config at %s", path),
			err.Error(),
			"Check file permissions on the config file",
			err,
		)
	}

	cfg := &ProjectConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, internalerrors.NewConfigError(
			fmt.Sprintf("Cannot parse project config at %s", path),
			err.Error(),
			"Fix the YAML syntax or delete the file and re-run: graphdb init",
			err,
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, internalerrors.NewConfigError(
			fmt.Sprintf("Invalid project config at %s", path),
			err.Error(),
			"Correct the offending field or re-run: graphdb init",
			err,
		)
	}

	return cfg, nil
}

// SaveConfig writes cfg to dir's ConfigPath as YAML, creating the directory
// if necessary.
func SaveConfig(dir string, cfg *ProjectConfig) error {
	if cfg.Version == 0 {
		cfg.Version = configVersion
	}

	if err := cfg.Validate(); err != nil {
		return internalerrors.NewConfigError(
			"Refusing to write an invalid project config",
			err.Error(),
			"Correct the offending field before saving",
			err,
		)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return internalerrors.NewPermissionError(
			fmt.Sprintf("Cannot create project directory %s", dir),
			err.Error(),
			"Check write permissions on the parent directory",
			err,
		)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return internalerrors.NewInternalError(
			"Cannot serialize project config",
			err.Error(),
			"",
			err,
		)
	}

	path := ConfigPath(dir)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return internalerrors.NewPermissionError(
			fmt.Sprintf("Cannot write project config at %s", path),
			err.Error(),
			"Check write permissions on the directory",
			err,
		)
	}

	return nil
}

// Validate checks that required fields are present and sane.
func (c *ProjectConfig) Validate() error {
	if c.Version != 0 && c.Version != configVersion {
		return fmt.Errorf("unsupported config version %d (expected %d)", c.Version, configVersion)
	}
	if c.ThreadCount < 0 {
		return fmt.Errorf("thread_count must be >= 0, got %d", c.ThreadCount)
	}
	return nil
}

// DefaultDBPath returns the conventional store location for a project
// rooted at dir.
func DefaultDBPath(dir string) string {
	return filepath.Join(dir, ".graphdb", "store")
}
