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

// Command sycocatool is a read-only inspection tool over the sycoca binary
// cache: the standalone equivalent of kbuildsycoca's "--global" dump mode
// and kded's runtime service lookups, reachable from a shell instead of
// from inside a process holding a Reader.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/googlecloudplatform/sycoca/internal/config"
	"github.com/googlecloudplatform/sycoca/internal/reader"
)

var (
	bindErr error
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sycocatool",
	Short: "Inspect the sycoca binary cache",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		c, err := config.Unmarshal(viper.GetViper())
		if err != nil {
			return fmt.Errorf("reading configuration: %w", err)
		}
		cfg = c
		return nil
	},
}

// openReader opens a Reader against the configured cache, running a single
// EnsureValid pass up front so a stale-on-disk file doesn't silently answer
// queries with data older than what's on disk right now.
func openReader(ctx context.Context) (*reader.Reader, error) {
	r, err := reader.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := r.EnsureValid(ctx); err != nil {
		r.Close()
		return nil, fmt.Errorf("refreshing cache: %w", err)
	}
	return r, nil
}

func init() {
	bindErr = config.BindFlags(rootCmd.PersistentFlags(), viper.GetViper())
	rootCmd.AddCommand(findServiceCmd, queryCmd, dumpGroupCmd, mimeOffersCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
