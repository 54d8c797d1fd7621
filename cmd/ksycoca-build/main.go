// Copyright 2026 The Sycoca Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command ksycoca-build is the standalone equivalent of kbuildsycoca: it
// runs the scan/parse/resolve/layout pipeline once and writes the binary
// cache file.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/googlecloudplatform/sycoca/internal/builder"
	"github.com/googlecloudplatform/sycoca/internal/config"
	"github.com/googlecloudplatform/sycoca/internal/logger"
)

var (
	bindErr      error
	onlyIfNeeded bool
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "ksycoca-build",
	Short: "Build the sycoca binary cache from the configured data directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		cfg, err := config.Unmarshal(viper.GetViper())
		if err != nil {
			return fmt.Errorf("reading configuration: %w", err)
		}
		if lvl, ok := parseLevel(logLevel); ok {
			logger.SetLevel(lvl)
		}

		b := builder.New(cfg)
		if onlyIfNeeded && !b.NeedsRebuild() {
			logger.Infof("ksycoca-build: %s is already up to date, nothing to do", cfg.CachePath())
			return nil
		}

		result, err := b.Build(cmd.Context())
		if err != nil {
			return fmt.Errorf("building cache: %w", err)
		}
		logger.Infof("ksycoca-build: wrote %s (%d services, %d service types, %d groups, %d mime types)",
			result.Path, result.ServiceCount, result.ServiceTypeCount, result.ServiceGroupCount, result.MimeTypeCount)
		for _, s := range result.Skipped {
			logger.Warnf("ksycoca-build: skipped %s", s)
		}
		return nil
	},
}

func parseLevel(s string) (logger.Severity, bool) {
	switch s {
	case "trace":
		return logger.LevelTrace, true
	case "debug":
		return logger.LevelDebug, true
	case "info":
		return logger.LevelInfo, true
	case "warn":
		return logger.LevelWarn, true
	case "error":
		return logger.LevelError, true
	default:
		return 0, false
	}
}

func init() {
	bindErr = config.BindFlags(rootCmd.Flags(), viper.GetViper())
	rootCmd.Flags().BoolVar(&onlyIfNeeded, "only-if-needed", false, "Skip the build if no tracked directory is newer than the existing cache file.")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Minimum log severity: trace, debug, info, warn, error.")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
