// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DotEnvPathEnvVar overrides the .env file location.
const DotEnvPathEnvVar = "RUNSTATS_ENV_FILE"

// LoadDotEnv loads the first existing .env file into the process
// environment. Variables already set in the environment win. A missing
// file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = dotEnvPaths()
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		return nil
	}
	return nil
}

func dotEnvPaths() []string {
	if p := os.Getenv(DotEnvPathEnvVar); p != "" {
		return []string{p}
	}
	return []string{".env"}
}
