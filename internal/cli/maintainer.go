// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newMaintainerCmd(opts *options) *cobra.Command {
	maintainer := &cobra.Command{
		Use:     "maintainer",
		Aliases: []string{"maintainers"},
		Short:   "Manage plugin maintainers",
	}

	list := &cobra.Command{
		Use:   "list <plugin>",
		Short: "List the maintainers of a plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			maintainers, err := c.ListMaintainers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), maintainers)
		},
	}

	var email string
	add := &cobra.Command{
		Use:   "add <plugin> <public-key-file>",
		Short: "Add a maintainer by ssh public key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			var emailPtr *string
			if cmd.Flags().Changed("email") {
				emailPtr = &email
			}
			created, err := c.AddMaintainer(cmd.Context(), args[0], strings.TrimSpace(string(key)), emailPtr)
			if err != nil {
				return err
			}
			status := "linked existing maintainer"
			if created {
				status = "added new maintainer"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s to %s\n", status, args[0])
			return err
		},
	}
	add.Flags().StringVar(&email, "email", "", "email of the new maintainer")

	maintainer.AddCommand(list, add)
	return maintainer
}
