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

	"github.com/spf13/cobra"
)

func newPluginCmd(opts *options) *cobra.Command {
	plugin := &cobra.Command{
		Use:     "plugin",
		Aliases: []string{"plugins"},
		Short:   "Manage plugins",
	}

	var page, pageSize int
	list := &cobra.Command{
		Use:   "list",
		Short: "List plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			plugins, err := c.ListPlugins(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), plugins)
		},
	}
	list.Flags().IntVar(&page, "page", 0, "page number, starting at 1")
	list.Flags().IntVar(&pageSize, "page-size", 0, "plugins per page")

	get := &cobra.Command{
		Use:   "get <name>",
		Short: "Show a plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			p, err := c.GetPlugin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}

	var email string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a plugin with your key as its first maintainer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.requireSigner(cmd); err != nil {
				return err
			}
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			if err := c.CreatePlugin(cmd.Context(), args[0], email); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created plugin %s\n", args[0])
			return err
		},
	}
	create.Flags().StringVar(&email, "email", "", "maintainer email for a new key")

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a plugin with all its versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			if err := c.DeletePlugin(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted plugin %s\n", args[0])
			return err
		},
	}

	plugin.AddCommand(list, get, create, del)
	return plugin
}
