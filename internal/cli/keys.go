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
	"io"
	"os"
	"strings"

	"github.com/go-arcade/registry/pkg/base85"
	"github.com/spf13/cobra"
)

func newKeysCmd(opts *options) *cobra.Command {
	keys := &cobra.Command{
		Use:   "keys",
		Short: "Inspect signing keys",
	}
	keys.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the public key to register as a maintainer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.requireSigner(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.AuthorizedKey())
			return err
		},
	})
	return keys
}

func newSignCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sign <path>",
		Short: "Print the X-Signature value for a request path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.requireSigner(cmd)
			if err != nil {
				return err
			}
			sig, err := s.Sign(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sig)
			return err
		},
	}
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <file>",
		Short: "Print the base85 encoding of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), base85.Encode(data))
			return err
		},
	}
}

func newDecodeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode base85 text from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				text []byte
				err  error
			)
			if len(args) == 1 && args[0] != "-" {
				text, err = os.ReadFile(args[0])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			data, err := base85.Decode(strings.TrimSpace(string(text)))
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
