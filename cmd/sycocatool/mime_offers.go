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

	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

var mimeOffersCmd = &cobra.Command{
	Use:   "mime-offers MIMETYPE",
	Short: "List the Services offering to handle MIMETYPE, ordered by preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openReader(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		db := r.Database()
		mt, err := db.MimeTypes.FindByName(args[0])
		if err != nil {
			return fmt.Errorf("mime-offers %s: %w", args[0], err)
		}
		if len(mt.Offers) == 0 {
			fmt.Printf("no offers for %s\n", args[0])
			return nil
		}
		for _, offer := range mt.Offers {
			h, err := db.Services.FindByOffset(offer.ServiceOffset)
			if err != nil {
				return fmt.Errorf("mime-offers %s: resolving offer: %w", args[0], err)
			}
			svc, ok := h.Entry().(*sycoca.Service)
			h.Release()
			if !ok {
				continue
			}
			fmt.Printf("%s\tpref=%d\tallowAsDefault=%t\n", svc.Name, offer.InitialPref, offer.AllowAsDefault)
		}
		return nil
	},
}
