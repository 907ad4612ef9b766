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

	"github.com/go-arcade/registry/internal/client"
	"github.com/go-arcade/registry/pkg/version"
	"github.com/spf13/cobra"
)

// newVersionCmd prints the build version when run bare and groups the
// plugin version commands.
func newVersionCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: version.VersionCmd.Short + " or manage plugin versions",
		Args:  cobra.NoArgs,
		Run:   version.VersionCmd.Run,
	}

	list := &cobra.Command{
		Use:   "list <plugin>",
		Short: "List the versions of a plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			versions, err := c.ListVersions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), versions)
		},
	}

	latest := &cobra.Command{
		Use:   "latest <plugin>",
		Short: "Show the most recently uploaded version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			v, err := c.LatestVersion(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}

	var output string
	get := &cobra.Command{
		Use:   "get <plugin> <version>",
		Short: "Download a version; metadata is printed unless -o is set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			v, err := c.GetVersion(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if output == "" {
				v.File = nil
				return printJSON(cmd.OutOrStdout(), v)
			}
			data, err := client.DecodeFile(v)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	get.Flags().StringVarP(&output, "output", "o", "", "write the tarball to this file, - for stdout")

	publish := &cobra.Command{
		Use:   "publish <plugin> <version> <tarball.tar.gz>",
		Short: "Upload a new version",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			if err := c.PublishVersion(cmd.Context(), args[0], args[1], data); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "published %s %s\n", args[0], args[1])
			return err
		},
	}

	del := &cobra.Command{
		Use:   "delete <plugin> <version>",
		Short: "Delete a version and its artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}
			if err := c.DeleteVersion(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", args[0], args[1])
			return err
		},
	}

	cmd.AddCommand(list, latest, get, publish, del)
	return cmd
}
