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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queryConstraint string

var queryCmd = &cobra.Command{
	Use:   "query SERVICETYPE",
	Short: "List the Services offering SERVICETYPE, ordered by preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openReader(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		db := r.Database()
		results, err := db.Services.Query(db.ServiceTypes, args[0], queryConstraint)
		if err != nil {
			return fmt.Errorf("query %s: %w", args[0], err)
		}
		if len(results) == 0 {
			fmt.Printf("no offers for %s\n", args[0])
			return nil
		}
		for _, svc := range results {
			fmt.Printf("%s\t%s\tpref=%d\n", svc.Name, svc.Exec, svc.InitialPref)
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryConstraint, "constraint", "", "Optional trader-style constraint expression, e.g. \"Library == 'kimg'\".")
}
