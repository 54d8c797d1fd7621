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
	"sort"

	"github.com/spf13/cobra"
)

var findServiceCmd = &cobra.Command{
	Use:   "find-service NAME",
	Short: "Print the Service entry named NAME",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openReader(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		svc, err := r.Database().Services.FindByName(args[0])
		if err != nil {
			return fmt.Errorf("find-service %s: %w", args[0], err)
		}

		fmt.Printf("Name: %s\n", svc.Name)
		fmt.Printf("StorageID: %s\n", svc.StorageID)
		if svc.MenuID != "" {
			fmt.Printf("MenuID: %s\n", svc.MenuID)
		}
		fmt.Printf("DisplayName: %s\n", svc.DisplayName)
		fmt.Printf("Exec: %s\n", svc.Exec)
		fmt.Printf("InitialPreference: %d\n", svc.InitialPref)
		fmt.Printf("AllowAsDefault: %t\n", svc.AllowAsDefault)
		fmt.Printf("DBusActivation: %s\n", svc.DBusActivation)

		serviceTypes := append([]string(nil), svc.ServiceTypes...)
		sort.Strings(serviceTypes)
		fmt.Printf("ServiceTypes: %v\n", serviceTypes)

		mimeTypes := append([]string(nil), svc.MimeTypes...)
		sort.Strings(mimeTypes)
		fmt.Printf("MimeTypes: %v\n", mimeTypes)

		if len(svc.FormFactors) > 0 {
			fmt.Printf("FormFactors: %v\n", svc.FormFactors)
		}

		keys := make([]string, 0, len(svc.Properties))
		for k := range svc.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("Property[%s]: %v\n", k, svc.Properties[k])
		}
		return nil
	},
}
