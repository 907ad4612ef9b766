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

// Package cli implements the registry-cli command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/registry/internal/client"
	"github.com/go-arcade/registry/pkg/signature"
	"github.com/spf13/cobra"
)

const defaultURL = "http://127.0.0.1:8000"

type options struct {
	url     string
	keyPath string
	timeout time.Duration
}

// NewRootCmd builds the registry-cli command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "registry-cli",
		Short:         "registry-cli talks to a plugin registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	url := os.Getenv("REGISTRY_URL")
	if url == "" {
		url = defaultURL
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.url, "url", url, "registry base url (env REGISTRY_URL)")
	flags.StringVarP(&opts.keyPath, "key", "k", defaultKeyPath(), "RSA private key used to sign requests")
	flags.DurationVar(&opts.timeout, "timeout", 60*time.Second, "request timeout")

	root.AddCommand(
		newVersionCmd(opts),
		newKeysCmd(opts),
		newSignCmd(opts),
		newEncodeCmd(),
		newDecodeCmd(),
		newPluginCmd(opts),
		newMaintainerCmd(opts),
	)
	return root
}

func defaultKeyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh", "id_rsa")
}

// signer loads the private key. A missing default key is not an error so
// read commands work without one.
func (o *options) signer(cmd *cobra.Command) (*signature.Signer, error) {
	s, err := signature.LoadSigner(o.keyPath)
	if err == nil {
		return s, nil
	}
	if !cmd.Flags().Changed("key") && errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return nil, err
}

func (o *options) requireSigner(cmd *cobra.Command) (*signature.Signer, error) {
	s, err := o.signer(cmd)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("no private key at %s, use --key", o.keyPath)
	}
	return s, nil
}

func (o *options) client(cmd *cobra.Command) (*client.Client, error) {
	s, err := o.signer(cmd)
	if err != nil {
		return nil, err
	}
	return client.New(o.url, s, client.WithTimeout(o.timeout)), nil
}

func printJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
