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
	"strings"

	"github.com/spf13/cobra"

	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

var dumpGroupCmd = &cobra.Command{
	Use:   "dump-group PATH",
	Short: "Print the menu tree rooted at the ServiceGroup named PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openReader(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		db := r.Database()
		root, err := db.ServiceGroups.FindByName(args[0])
		if err != nil {
			return fmt.Errorf("dump-group %s: %w", args[0], err)
		}
		return dumpGroup(db.ServiceGroups, root, 0)
	},
}

// dumpGroup walks g's children depth-first, printing ServiceGroups before
// the Services they contain at each level, the same traversal order
// kbuildsycoca's own --menutest dump uses.
func dumpGroup(groups *sycoca.ServiceGroupFactory, g *sycoca.ServiceGroup, depth int) error {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s (%s)\n", indent, g.Name, g.Caption)

	children, err := groups.ChildGroups(g)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := dumpGroup(groups, child, depth+1); err != nil {
			return err
		}
	}

	services, err := groups.ChildServices(g)
	if err != nil {
		return err
	}
	for _, svc := range services {
		fmt.Printf("%s  %s\n", indent, svc.Name)
	}
	return nil
}
